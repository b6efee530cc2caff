package ports

import (
    "context"

    "inmopulse/internal/domain"
    "inmopulse/internal/risk"
)

// ErrNotFound is returned by repositories and services when the requested
// record does not exist.
var ErrNotFound = errString("not found")

type errString string

func (e errString) Error() string { return string(e) }

// Scoring enqueues and tracks risk evaluations and serves their results.
type Scoring interface {
    Enqueue(ctx context.Context, contactID string) (evaluationID string, err error)
    Status(ctx context.Context, evaluationID string) (status string, err error)
    GetLatest(ctx context.Context, contactID string) (domain.Evaluation, error)
    Recommendations(ctx context.Context, contactID string) ([]risk.Recommendation, error)
    Breakdown(ctx context.Context, contactID string) (risk.Breakdown, error)
}
