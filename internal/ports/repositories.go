package ports

import (
    "context"

    "inmopulse/internal/domain"
    "inmopulse/internal/risk"
)

// ContactRepository fetches contacts and their aggregated scoring signals.
type ContactRepository interface {
    GetContact(ctx context.Context, contactID string) (domain.Contact, error)
    // GetSignal aggregates days-since-contact, interaction frequency and
    // engagement for one contact. found is false when the contact does not
    // exist; non-purchase reason texts are filled in by the caller.
    GetSignal(ctx context.Context, contactID string) (sig risk.ContactSignal, found bool, err error)
}

// ReasonRepository lists a contact's recorded non-purchase reasons as
// "category: details" texts, oldest first.
type ReasonRepository interface {
    ListReasonTexts(ctx context.Context, contactID string) ([]string, error)
}

// EvaluationRepository manages scoring runs and their stored results.
type EvaluationRepository interface {
    Create(ctx context.Context, contactID string) (evaluationID string, err error)
    GetEvaluation(ctx context.Context, evaluationID string) (domain.Evaluation, bool, error)
    Status(ctx context.Context, evaluationID string) (status string, err error)
    StoreResult(ctx context.Context, evaluationID string, res risk.Result) error
    LatestByContact(ctx context.Context, contactID string) (domain.Evaluation, bool, error)
}

// AlertRepository persists threshold alerts and their read/resolved state.
type AlertRepository interface {
    CreateAlert(ctx context.Context, contactID string, alert risk.Alert, score int) (alertID string, err error)
    List(ctx context.Context, unreadOnly bool) ([]domain.Alert, error)
    MarkRead(ctx context.Context, alertID string) error
    MarkResolved(ctx context.Context, alertID string) error
}
