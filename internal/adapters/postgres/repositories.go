package postgres

import (
    "context"
    "encoding/json"
    "errors"

    "github.com/jackc/pgx/v5"

    "inmopulse/internal/domain"
    "inmopulse/internal/ports"
    "inmopulse/internal/risk"
)

// ContactRepository

func (db *DB) GetContact(ctx context.Context, contactID string) (domain.Contact, error) {
    var c domain.Contact
    err := db.Pool.QueryRow(ctx, `
        SELECT id, full_name, stage, engagement_score, last_contact_at
        FROM contacts WHERE id = $1
    `, contactID).Scan(&c.ID, &c.FullName, &c.Stage, &c.EngagementScore, &c.LastContactAt)
    if errors.Is(err, pgx.ErrNoRows) {
        return c, ports.ErrNotFound
    }
    return c, err
}

// GetSignal aggregates the raw scoring signals for one contact. Interaction
// frequency is measured over the trailing 28 days; a contact that was never
// contacted reads as zero days (not yet calculated, per the scoring rules).
func (db *DB) GetSignal(ctx context.Context, contactID string) (risk.ContactSignal, bool, error) {
    var sig risk.ContactSignal
    err := db.Pool.QueryRow(ctx, `
        SELECT c.id,
               c.stage,
               c.engagement_score,
               COALESCE(EXTRACT(EPOCH FROM now() - c.last_contact_at) / 86400, 0)::int,
               COALESCE(i.cnt, 0)::float8 / 4.0
        FROM contacts c
        LEFT JOIN (
            SELECT contact_id, COUNT(*) AS cnt
            FROM interactions
            WHERE occurred_at > now() - interval '28 days'
            GROUP BY contact_id
        ) i ON i.contact_id = c.id
        WHERE c.id = $1
    `, contactID).Scan(&sig.ContactID, &sig.CurrentStage, &sig.EngagementScore,
        &sig.DaysSinceLastContact, &sig.InteractionFrequencyPerWeek)
    if errors.Is(err, pgx.ErrNoRows) {
        return sig, false, nil
    }
    if err != nil {
        return sig, false, err
    }
    return sig, true, nil
}

// ReasonRepository

func (db *DB) ListReasonTexts(ctx context.Context, contactID string) ([]string, error) {
    rows, err := db.Pool.Query(ctx, `
        SELECT reason_category || COALESCE(': ' || reason_details, '')
        FROM non_purchase_reasons
        WHERE contact_id = $1
        ORDER BY recorded_at
    `, contactID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var texts []string
    for rows.Next() {
        var t string
        if err := rows.Scan(&t); err != nil {
            return nil, err
        }
        texts = append(texts, t)
    }
    return texts, rows.Err()
}

// EvaluationRepository

func (db *DB) Create(ctx context.Context, contactID string) (string, error) {
    var evalID string
    err := db.Pool.QueryRow(ctx, `
        INSERT INTO evaluations (contact_id, status)
        VALUES ($1, 'queued')
        RETURNING id
    `, contactID).Scan(&evalID)
    if err != nil {
        return "", err
    }
    // create job row
    _, err = db.Pool.Exec(ctx, `INSERT INTO score_jobs (evaluation_id) VALUES ($1)`, evalID)
    return evalID, err
}

func (db *DB) Status(ctx context.Context, evaluationID string) (string, error) {
    var status string
    err := db.Pool.QueryRow(ctx, `SELECT status FROM evaluations WHERE id = $1`, evaluationID).Scan(&status)
    if errors.Is(err, pgx.ErrNoRows) {
        return "", ports.ErrNotFound
    }
    return status, err
}

func (db *DB) GetEvaluation(ctx context.Context, evaluationID string) (domain.Evaluation, bool, error) {
    ev, err := db.scanEvaluation(ctx, `
        SELECT id, contact_id, status, score, risk_level,
               COALESCE(risk_factors, '[]'::jsonb), COALESCE(recommendations, '[]'::jsonb),
               started_at, finished_at
        FROM evaluations WHERE id = $1
    `, evaluationID)
    if errors.Is(err, pgx.ErrNoRows) {
        return ev, false, nil
    }
    if err != nil {
        return ev, false, err
    }
    return ev, true, nil
}

func (db *DB) LatestByContact(ctx context.Context, contactID string) (domain.Evaluation, bool, error) {
    ev, err := db.scanEvaluation(ctx, `
        SELECT id, contact_id, status, score, risk_level,
               COALESCE(risk_factors, '[]'::jsonb), COALESCE(recommendations, '[]'::jsonb),
               started_at, finished_at
        FROM evaluations
        WHERE contact_id = $1 AND status = 'completed'
        ORDER BY finished_at DESC
        LIMIT 1
    `, contactID)
    if errors.Is(err, pgx.ErrNoRows) {
        return ev, false, nil
    }
    if err != nil {
        return ev, false, err
    }
    return ev, true, nil
}

func (db *DB) scanEvaluation(ctx context.Context, query string, arg string) (domain.Evaluation, error) {
    var ev domain.Evaluation
    err := db.Pool.QueryRow(ctx, query, arg).Scan(&ev.ID, &ev.ContactRef, &ev.Status,
        &ev.Score, &ev.RiskLevel, &ev.RiskFactors, &ev.Recommendations,
        &ev.StartedAt, &ev.FinishedAt)
    return ev, err
}

func (db *DB) StoreResult(ctx context.Context, evaluationID string, res risk.Result) error {
    factors, err := json.Marshal(res.RiskFactors)
    if err != nil {
        return err
    }
    recs, err := json.Marshal(res.Recommendations)
    if err != nil {
        return err
    }
    _, err = db.Pool.Exec(ctx, `
        UPDATE evaluations
        SET score = $2, risk_level = $3, risk_factors = $4, recommendations = $5
        WHERE id = $1
    `, evaluationID, res.Score, res.RiskLevel, factors, recs)
    return err
}

// AlertRepository

func (db *DB) CreateAlert(ctx context.Context, contactID string, alert risk.Alert, score int) (string, error) {
    var id string
    err := db.Pool.QueryRow(ctx, `
        INSERT INTO alerts (contact_id, alert_type, alert_message, risk_score)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, contactID, alert.AlertType, alert.Message, score).Scan(&id)
    return id, err
}

func (db *DB) List(ctx context.Context, unreadOnly bool) ([]domain.Alert, error) {
    query := `
        SELECT id, contact_id, alert_type, alert_message, risk_score, is_read, is_resolved, created_at
        FROM alerts
    `
    if unreadOnly {
        query += ` WHERE is_read = false`
    }
    query += ` ORDER BY created_at DESC`
    rows, err := db.Pool.Query(ctx, query)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var alerts []domain.Alert
    for rows.Next() {
        var a domain.Alert
        if err := rows.Scan(&a.ID, &a.ContactRef, &a.AlertType, &a.Message,
            &a.RiskScore, &a.IsRead, &a.IsResolved, &a.CreatedAt); err != nil {
            return nil, err
        }
        alerts = append(alerts, a)
    }
    return alerts, rows.Err()
}

func (db *DB) MarkRead(ctx context.Context, alertID string) error {
    tag, err := db.Pool.Exec(ctx, `UPDATE alerts SET is_read = true WHERE id = $1`, alertID)
    if err != nil {
        return err
    }
    if tag.RowsAffected() == 0 {
        return ports.ErrNotFound
    }
    return nil
}

func (db *DB) MarkResolved(ctx context.Context, alertID string) error {
    tag, err := db.Pool.Exec(ctx, `UPDATE alerts SET is_resolved = true, is_read = true WHERE id = $1`, alertID)
    if err != nil {
        return err
    }
    if tag.RowsAffected() == 0 {
        return ports.ErrNotFound
    }
    return nil
}
