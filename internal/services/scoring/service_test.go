package scoring

import (
    "context"
    "errors"
    "fmt"
    "testing"
    "time"

    "inmopulse/internal/domain"
    "inmopulse/internal/ports"
    "inmopulse/internal/risk"
)

// fakeStore backs every repository port in memory.
type fakeStore struct {
    contacts map[string]domain.Contact
    signals  map[string]risk.ContactSignal
    reasons  map[string][]string
    evals    map[string]*domain.Evaluation
    alerts   []domain.Alert
    nextID   int
}

func newFakeStore() *fakeStore {
    return &fakeStore{
        contacts: map[string]domain.Contact{},
        signals:  map[string]risk.ContactSignal{},
        reasons:  map[string][]string{},
        evals:    map[string]*domain.Evaluation{},
    }
}

func (f *fakeStore) GetContact(_ context.Context, id string) (domain.Contact, error) {
    c, ok := f.contacts[id]
    if !ok {
        return c, ports.ErrNotFound
    }
    return c, nil
}

func (f *fakeStore) GetSignal(_ context.Context, id string) (risk.ContactSignal, bool, error) {
    sig, ok := f.signals[id]
    return sig, ok, nil
}

func (f *fakeStore) ListReasonTexts(_ context.Context, id string) ([]string, error) {
    return f.reasons[id], nil
}

func (f *fakeStore) Create(_ context.Context, contactID string) (string, error) {
    f.nextID++
    id := fmt.Sprintf("eval-%d", f.nextID)
    f.evals[id] = &domain.Evaluation{ID: id, ContactRef: contactID, Status: "queued"}
    return id, nil
}

func (f *fakeStore) GetEvaluation(_ context.Context, id string) (domain.Evaluation, bool, error) {
    ev, ok := f.evals[id]
    if !ok {
        return domain.Evaluation{}, false, nil
    }
    return *ev, true, nil
}

func (f *fakeStore) Status(_ context.Context, id string) (string, error) {
    ev, ok := f.evals[id]
    if !ok {
        return "", ports.ErrNotFound
    }
    return ev.Status, nil
}

func (f *fakeStore) StoreResult(_ context.Context, id string, res risk.Result) error {
    ev, ok := f.evals[id]
    if !ok {
        return ports.ErrNotFound
    }
    score, level := res.Score, res.RiskLevel
    ev.Score = &score
    ev.RiskLevel = &level
    ev.RiskFactors = res.RiskFactors
    ev.Recommendations = res.Recommendations
    ev.Status = "completed"
    now := time.Now()
    ev.FinishedAt = &now
    return nil
}

func (f *fakeStore) LatestByContact(_ context.Context, contactID string) (domain.Evaluation, bool, error) {
    var latest *domain.Evaluation
    for _, ev := range f.evals {
        if ev.ContactRef == contactID && ev.Status == "completed" {
            if latest == nil || ev.FinishedAt.After(*latest.FinishedAt) {
                latest = ev
            }
        }
    }
    if latest == nil {
        return domain.Evaluation{}, false, nil
    }
    return *latest, true, nil
}

func (f *fakeStore) CreateAlert(_ context.Context, contactID string, alert risk.Alert, score int) (string, error) {
    f.nextID++
    id := fmt.Sprintf("alert-%d", f.nextID)
    f.alerts = append(f.alerts, domain.Alert{
        ID: id, ContactRef: contactID, AlertType: alert.AlertType,
        Message: alert.Message, RiskScore: score,
    })
    return id, nil
}

func (f *fakeStore) List(_ context.Context, unreadOnly bool) ([]domain.Alert, error) {
    return f.alerts, nil
}

func (f *fakeStore) MarkRead(_ context.Context, id string) error     { return nil }
func (f *fakeStore) MarkResolved(_ context.Context, id string) error { return nil }

func (f *fakeStore) addContact(id, name, stage string, sig risk.ContactSignal, reasons []string) {
    f.contacts[id] = domain.Contact{ID: id, FullName: name, Stage: stage}
    sig.ContactID = id
    sig.CurrentStage = stage
    f.signals[id] = sig
    f.reasons[id] = reasons
}

func newService(store *fakeStore) *Service {
    return New(store, store, store, store)
}

func TestEnqueueUnknownContact(t *testing.T) {
    svc := newService(newFakeStore())
    if _, err := svc.Enqueue(context.Background(), "missing"); !errors.Is(err, ports.ErrNotFound) {
        t.Fatalf("err = %v, want ErrNotFound", err)
    }
}

func TestProcessStoresResultAndAlerts(t *testing.T) {
    store := newFakeStore()
    store.addContact("c1", "María García", "negociacion", risk.ContactSignal{
        DaysSinceLastContact:        75,
        InteractionFrequencyPerWeek: 0.1,
        EngagementScore:             10,
    }, []string{"precio: fuera de presupuesto"})
    svc := newService(store)
    ctx := context.Background()

    evalID, err := svc.Enqueue(ctx, "c1")
    if err != nil {
        t.Fatalf("enqueue: %v", err)
    }
    if err := svc.Process(ctx, evalID); err != nil {
        t.Fatalf("process: %v", err)
    }

    ev, err := svc.GetLatest(ctx, "c1")
    if err != nil {
        t.Fatalf("latest: %v", err)
    }
    if ev.Score == nil || *ev.Score != 100 {
        t.Fatalf("score = %v, want 100 (saturated)", ev.Score)
    }
    if *ev.RiskLevel != risk.LevelHigh {
        t.Fatalf("level = %q, want %q", *ev.RiskLevel, risk.LevelHigh)
    }
    if len(ev.RiskFactors) == 0 || len(ev.Recommendations) == 0 {
        t.Fatalf("factors/recommendations missing: %+v", ev)
    }

    if len(store.alerts) != 1 {
        t.Fatalf("alerts = %d, want 1", len(store.alerts))
    }
    if got := store.alerts[0].AlertType; got != risk.AlertHighRisk {
        t.Fatalf("alert type = %q, want %q", got, risk.AlertHighRisk)
    }
}

func TestProcessQuietContactNoAlert(t *testing.T) {
    store := newFakeStore()
    store.addContact("c2", "Juan Pérez", "cierre", risk.ContactSignal{
        DaysSinceLastContact:        2,
        InteractionFrequencyPerWeek: 3,
        EngagementScore:             90,
    }, nil)
    svc := newService(store)
    ctx := context.Background()

    evalID, _ := svc.Enqueue(ctx, "c2")
    if err := svc.Process(ctx, evalID); err != nil {
        t.Fatalf("process: %v", err)
    }
    ev, err := svc.GetLatest(ctx, "c2")
    if err != nil {
        t.Fatalf("latest: %v", err)
    }
    if *ev.RiskLevel != risk.LevelLow {
        t.Fatalf("level = %q, want %q", *ev.RiskLevel, risk.LevelLow)
    }
    if len(store.alerts) != 0 {
        t.Fatalf("no alert expected, got %+v", store.alerts)
    }
}

func TestProcessUnknownEvaluation(t *testing.T) {
    svc := newService(newFakeStore())
    if err := svc.Process(context.Background(), "missing"); !errors.Is(err, ports.ErrNotFound) {
        t.Fatalf("err = %v, want ErrNotFound", err)
    }
}

func TestGetLatestNone(t *testing.T) {
    store := newFakeStore()
    store.addContact("c3", "Ana", "visita", risk.ContactSignal{}, nil)
    svc := newService(store)
    if _, err := svc.GetLatest(context.Background(), "c3"); !errors.Is(err, ports.ErrNotFound) {
        t.Fatalf("err = %v, want ErrNotFound", err)
    }
}

func TestRecommendationsFreshSignal(t *testing.T) {
    store := newFakeStore()
    store.addContact("c4", "Ana", "visita", risk.ContactSignal{
        DaysSinceLastContact:        3,
        InteractionFrequencyPerWeek: 2,
        EngagementScore:             80,
    }, nil)
    svc := newService(store)
    recs, err := svc.Recommendations(context.Background(), "c4")
    if err != nil {
        t.Fatalf("recommendations: %v", err)
    }
    if len(recs) == 0 {
        t.Fatal("expected recommendations for a catalog stage")
    }
    if recs[0].Priority != risk.PriorityHigh {
        t.Fatalf("first priority = %q, want high", recs[0].Priority)
    }
}

func TestBreakdownIncludesStrategy(t *testing.T) {
    store := newFakeStore()
    store.addContact("c5", "Luis", "negociacion", risk.ContactSignal{
        DaysSinceLastContact:        40,
        InteractionFrequencyPerWeek: 0.3,
        EngagementScore:             40,
    }, []string{"precio: fuera de presupuesto"})
    svc := newService(store)
    bd, err := svc.Breakdown(context.Background(), "c5")
    if err != nil {
        t.Fatalf("breakdown: %v", err)
    }
    if bd.RiskMultiplier != 1.20 {
        t.Fatalf("multiplier = %v, want 1.20", bd.RiskMultiplier)
    }
    if bd.RecoveryStrategy == risk.DefaultRecoveryStrategy {
        t.Fatal("expected the price recovery strategy, got the default")
    }
    if bd.Score < 0 || bd.Score > 100 {
        t.Fatalf("score %d out of bounds", bd.Score)
    }
}

func TestRecommendationsUnknownContact(t *testing.T) {
    svc := newService(newFakeStore())
    if _, err := svc.Recommendations(context.Background(), "missing"); !errors.Is(err, ports.ErrNotFound) {
        t.Fatalf("err = %v, want ErrNotFound", err)
    }
}
