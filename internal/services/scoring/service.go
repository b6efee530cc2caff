package scoring

import (
    "context"
    "fmt"

    "inmopulse/internal/domain"
    "inmopulse/internal/ports"
    "inmopulse/internal/risk"
)

// Service orchestrates risk evaluations: it assembles the per-contact signal
// from the repositories, runs the pure risk engine and persists the outcome.
type Service struct {
    contacts ports.ContactRepository
    reasons  ports.ReasonRepository
    evals    ports.EvaluationRepository
    alerts   ports.AlertRepository
}

func New(contacts ports.ContactRepository, reasons ports.ReasonRepository, evals ports.EvaluationRepository, alerts ports.AlertRepository) *Service {
    return &Service{contacts: contacts, reasons: reasons, evals: evals, alerts: alerts}
}

// Enqueue creates a queued evaluation for the contact.
func (s *Service) Enqueue(ctx context.Context, contactID string) (string, error) {
    if _, err := s.contacts.GetContact(ctx, contactID); err != nil {
        return "", err
    }
    return s.evals.Create(ctx, contactID)
}

func (s *Service) Status(ctx context.Context, evaluationID string) (string, error) {
    return s.evals.Status(ctx, evaluationID)
}

// GetLatest returns the most recent completed evaluation for the contact.
func (s *Service) GetLatest(ctx context.Context, contactID string) (domain.Evaluation, error) {
    ev, found, err := s.evals.LatestByContact(ctx, contactID)
    if err != nil {
        return ev, err
    }
    if !found {
        return ev, ports.ErrNotFound
    }
    return ev, nil
}

// Recommendations computes the current prioritized action list for a contact
// from fresh signals, with full priority/reason/timeframe detail.
func (s *Service) Recommendations(ctx context.Context, contactID string) ([]risk.Recommendation, error) {
    sig, found, err := s.contacts.GetSignal(ctx, contactID)
    if err != nil {
        return nil, err
    }
    if !found {
        return nil, ports.ErrNotFound
    }
    texts, err := s.reasons.ListReasonTexts(ctx, contactID)
    if err != nil {
        return nil, err
    }
    base, baseFactors := risk.BaseScore(sig)
    score, _ := risk.Score(base, baseFactors, risk.AssessNonPurchase(texts))
    return risk.Recommend(risk.RecommendInput{
        StageID:              sig.CurrentStage,
        RiskLevel:            risk.Level(score),
        DaysSinceLastContact: sig.DaysSinceLastContact,
        NonPurchaseReasons:   texts,
    }), nil
}

// Breakdown explains the current score component by component, for the
// contact detail view.
func (s *Service) Breakdown(ctx context.Context, contactID string) (risk.Breakdown, error) {
    sig, found, err := s.contacts.GetSignal(ctx, contactID)
    if err != nil {
        return risk.Breakdown{}, err
    }
    if !found {
        return risk.Breakdown{}, ports.ErrNotFound
    }
    texts, err := s.reasons.ListReasonTexts(ctx, contactID)
    if err != nil {
        return risk.Breakdown{}, err
    }
    sig.NonPurchaseReasonTexts = texts
    return risk.Explain(sig), nil
}

// Process runs one evaluation end to end: load signals and reasons, score,
// store the result and raise an alert when the policy fires. It satisfies the
// score runner's Processor interface.
func (s *Service) Process(ctx context.Context, evaluationID string) error {
    ev, found, err := s.evals.GetEvaluation(ctx, evaluationID)
    if err != nil {
        return err
    }
    if !found {
        return fmt.Errorf("evaluation %s: %w", evaluationID, ports.ErrNotFound)
    }

    contact, err := s.contacts.GetContact(ctx, ev.ContactRef)
    if err != nil {
        return err
    }
    sig, found, err := s.contacts.GetSignal(ctx, ev.ContactRef)
    if err != nil {
        return err
    }
    if !found {
        return fmt.Errorf("signal for contact %s: %w", ev.ContactRef, ports.ErrNotFound)
    }
    texts, err := s.reasons.ListReasonTexts(ctx, ev.ContactRef)
    if err != nil {
        return err
    }
    sig.NonPurchaseReasonTexts = texts

    res := risk.Evaluate(sig)
    if err := s.evals.StoreResult(ctx, evaluationID, res); err != nil {
        return err
    }

    np := risk.AssessNonPurchase(texts)
    if alert, ok := risk.EvaluateAlert(contact.FullName, res.Score, np.SpecificConcerns); ok {
        if _, err := s.alerts.CreateAlert(ctx, ev.ContactRef, alert, res.Score); err != nil {
            return err
        }
    }
    return nil
}
