package httpadapter

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/go-chi/chi/v5"

    "inmopulse/internal/ports"
    "inmopulse/internal/risk"
    scorerunner "inmopulse/internal/workers/scorerunner"
)

// Server exposes the scoring core and the alert inbox over JSON endpoints.
type Server struct {
    scoring   ports.Scoring
    alerts    ports.AlertRepository
    jobs      ports.JobRepository
    processor scorerunner.Processor
}

func New(scoring ports.Scoring, alerts ports.AlertRepository, jobs ports.JobRepository, processor scorerunner.Processor) *Server {
    return &Server{scoring: scoring, alerts: alerts, jobs: jobs, processor: processor}
}

func (s *Server) Routes() chi.Router {
    r := chi.NewRouter()
    r.Get("/healthz", s.handleHealth)
    r.Get("/stages", s.handleStages)
    r.Post("/contacts/{id}/score", s.handleScore)
    r.Get("/contacts/{id}/risk", s.handleRisk)
    r.Get("/contacts/{id}/risk/breakdown", s.handleBreakdown)
    r.Get("/contacts/{id}/recommendations", s.handleRecommendations)
    r.Get("/evaluations/{id}", s.handleEvaluation)
    r.Get("/alerts", s.handleAlerts)
    r.Post("/alerts/{id}/read", s.handleAlertRead)
    r.Post("/alerts/{id}/resolve", s.handleAlertResolve)
    return r
}

type evaluationResponse struct {
    ID     string `json:"id"`
    Status string `json:"status"`
}

type riskResponse struct {
    ContactID       string   `json:"contact_id"`
    Score           int      `json:"score"`
    RiskLevel       string   `json:"risk_level"`
    RiskFactors     []string `json:"risk_factors"`
    Recommendations []string `json:"recommendations"`
}

type breakdownResponse struct {
    BaseScore        float64  `json:"base_score"`
    BaseFactors      []string `json:"base_factors"`
    RiskMultiplier   float64  `json:"risk_multiplier"`
    SpecificConcerns []string `json:"specific_concerns"`
    RecoveryStrategy string   `json:"recovery_strategy"`
    Score            int      `json:"score"`
    RiskLevel        string   `json:"risk_level"`
}

type recommendationResponse struct {
    Priority  string `json:"priority"`
    Action    string `json:"action"`
    Reason    string `json:"reason"`
    Timeframe string `json:"timeframe"`
}

type stageResponse struct {
    ID          string `json:"id"`
    DisplayName string `json:"display_name"`
    Order       int    `json:"order"`
}

type alertResponse struct {
    ID         string `json:"id"`
    ContactID  string `json:"contact_id"`
    AlertType  string `json:"alert_type"`
    Message    string `json:"message"`
    RiskScore  int    `json:"risk_score"`
    IsRead     bool   `json:"is_read"`
    IsResolved bool   `json:"is_resolved"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStages(w http.ResponseWriter, r *http.Request) {
    stages := risk.Stages()
    out := make([]stageResponse, 0, len(stages))
    for _, st := range stages {
        out = append(out, stageResponse{ID: st.ID, DisplayName: st.DisplayName, Order: st.Order})
    }
    writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
    ctx := r.Context()
    contactID := chi.URLParam(r, "id")
    evalID, err := s.scoring.Enqueue(ctx, contactID)
    if err != nil {
        writeErr(w, err)
        return
    }

    // Blocking path: score inline with the same processor the workers use.
    if r.URL.Query().Get("wait") == "true" {
        timeout := 30
        if t, err := strconv.Atoi(r.URL.Query().Get("timeout")); err == nil && t > 0 {
            timeout = t
        }
        ctx2, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
        defer cancel()
        if err := scorerunner.ProcessInline(ctx2, s.jobs, s.processor, evalID); err != nil {
            writeErr(w, err)
            return
        }
        ev, err := s.scoring.GetLatest(ctx2, contactID)
        if err != nil {
            writeErr(w, err)
            return
        }
        resp := riskResponse{ContactID: contactID, RiskFactors: ev.RiskFactors, Recommendations: ev.Recommendations}
        if ev.Score != nil {
            resp.Score = *ev.Score
        }
        if ev.RiskLevel != nil {
            resp.RiskLevel = *ev.RiskLevel
        }
        writeJSON(w, http.StatusOK, resp)
        return
    }

    writeJSON(w, http.StatusAccepted, map[string]string{"evaluation_id": evalID})
}

func (s *Server) handleEvaluation(w http.ResponseWriter, r *http.Request) {
    status, err := s.scoring.Status(r.Context(), chi.URLParam(r, "id"))
    if err != nil {
        writeErr(w, err)
        return
    }
    writeJSON(w, http.StatusOK, evaluationResponse{ID: chi.URLParam(r, "id"), Status: status})
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
    contactID := chi.URLParam(r, "id")
    ev, err := s.scoring.GetLatest(r.Context(), contactID)
    if err != nil {
        writeErr(w, err)
        return
    }
    resp := riskResponse{ContactID: contactID, RiskFactors: ev.RiskFactors, Recommendations: ev.Recommendations}
    if ev.Score != nil {
        resp.Score = *ev.Score
    }
    if ev.RiskLevel != nil {
        resp.RiskLevel = *ev.RiskLevel
    }
    writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
    bd, err := s.scoring.Breakdown(r.Context(), chi.URLParam(r, "id"))
    if err != nil {
        writeErr(w, err)
        return
    }
    writeJSON(w, http.StatusOK, breakdownResponse{
        BaseScore:        bd.BaseScore,
        BaseFactors:      bd.BaseFactors,
        RiskMultiplier:   bd.RiskMultiplier,
        SpecificConcerns: bd.SpecificConcerns,
        RecoveryStrategy: bd.RecoveryStrategy,
        Score:            bd.Score,
        RiskLevel:        bd.RiskLevel,
    })
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
    recs, err := s.scoring.Recommendations(r.Context(), chi.URLParam(r, "id"))
    if err != nil {
        writeErr(w, err)
        return
    }
    out := make([]recommendationResponse, 0, len(recs))
    for _, rec := range recs {
        out = append(out, recommendationResponse{Priority: rec.Priority, Action: rec.Action, Reason: rec.Reason, Timeframe: rec.Timeframe})
    }
    writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
    unreadOnly := r.URL.Query().Get("unread") == "true"
    alerts, err := s.alerts.List(r.Context(), unreadOnly)
    if err != nil {
        writeErr(w, err)
        return
    }
    out := make([]alertResponse, 0, len(alerts))
    for _, a := range alerts {
        out = append(out, alertResponse{
            ID: a.ID, ContactID: a.ContactRef, AlertType: a.AlertType,
            Message: a.Message, RiskScore: a.RiskScore,
            IsRead: a.IsRead, IsResolved: a.IsResolved,
        })
    }
    writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAlertRead(w http.ResponseWriter, r *http.Request) {
    if err := s.alerts.MarkRead(r.Context(), chi.URLParam(r, "id")); err != nil {
        writeErr(w, err)
        return
    }
    w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAlertResolve(w http.ResponseWriter, r *http.Request) {
    if err := s.alerts.MarkResolved(r.Context(), chi.URLParam(r, "id")); err != nil {
        writeErr(w, err)
        return
    }
    w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(code)
    _ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
    code := http.StatusInternalServerError
    if errors.Is(err, ports.ErrNotFound) {
        code = http.StatusNotFound
    }
    writeJSON(w, code, map[string]string{"error": err.Error()})
}
