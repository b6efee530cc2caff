package domain

import "time"

// Core domain models used internally. The risk engine keeps its own pure
// input/output types in internal/risk; these are the persisted shapes.

type Contact struct {
    ID              string
    FullName        string
    Stage           string // catalog stage id, e.g. "negociacion"
    EngagementScore int    // 0-100
    LastContactAt   *time.Time
}

type Interaction struct {
    ID         string
    ContactRef string
    Kind       string // llamada|email|visita|whatsapp
    Notes      *string
    OccurredAt time.Time
}

type NonPurchaseReason struct {
    ID             string
    ContactRef     string
    ReasonCategory string
    ReasonDetails  *string
    RecordedAt     time.Time
}

type Evaluation struct {
    ID              string
    ContactRef      string
    Status          string // queued|running|completed|failed
    Score           *int
    RiskLevel       *string
    RiskFactors     []string
    Recommendations []string
    StartedAt       *time.Time
    FinishedAt      *time.Time
}

type Alert struct {
    ID         string
    ContactRef string
    AlertType  string // high_risk|stage_stagnation
    Message    string
    RiskScore  int
    IsRead     bool
    IsResolved bool
    CreatedAt  time.Time
}
