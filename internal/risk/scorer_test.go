package risk

import (
    "math"
    "reflect"
    "testing"
)

func TestLevelThresholds(t *testing.T) {
    cases := []struct {
        score int
        want  string
    }{
        {0, LevelLow},
        {39, LevelLow},
        {40, LevelMedium},
        {69, LevelMedium},
        {70, LevelHigh},
        {100, LevelHigh},
    }
    for _, c := range cases {
        if got := Level(c.score); got != c.want {
            t.Fatalf("Level(%d) = %q, want %q", c.score, got, c.want)
        }
    }
}

func TestScoreBounds(t *testing.T) {
    cases := []struct {
        base       float64
        multiplier float64
        want       int
    }{
        {0, 1.0, 0},
        {100, 1.0, 100},
        {90, 1.25, 100},  // saturates
        {100, 2.5, 100},  // unbounded multiplier still clamps
        {-5, 1.0, 0},     // negative base clamps up
        {60, 1.20, 72},   // spec scenario
    }
    for _, c := range cases {
        got, _ := Score(c.base, nil, Assessment{RiskMultiplier: c.multiplier})
        if got != c.want {
            t.Fatalf("Score(%v, x%v) = %d, want %d", c.base, c.multiplier, got, c.want)
        }
        if got < 0 || got > 100 {
            t.Fatalf("Score(%v, x%v) = %d out of bounds", c.base, c.multiplier, got)
        }
    }
}

func TestScoreMultiplierMonotonic(t *testing.T) {
    base := 55.0
    prev := -1
    for _, m := range []float64{1.0, 1.10, 1.20, 1.32, 1.52, 2.0, 5.0} {
        got, _ := Score(base, nil, Assessment{RiskMultiplier: m})
        if got < prev {
            t.Fatalf("score decreased from %d to %d at multiplier %v", prev, got, m)
        }
        prev = got
    }
}

func TestScoreFactorConcatenation(t *testing.T) {
    np := Assessment{
        RiskMultiplier:   1.20,
        SpecificConcerns: []string{"Sensibilidad al precio"},
    }
    baseFactors := []string{"Sin contacto desde hace 20 días", "Frecuencia de interacción baja"}
    _, factors := Score(50, baseFactors, np)
    want := []string{"Sin contacto desde hace 20 días", "Frecuencia de interacción baja", "Sensibilidad al precio"}
    if !reflect.DeepEqual(factors, want) {
        t.Fatalf("factors = %v, want %v", factors, want)
    }
}

func TestEvaluateIdempotent(t *testing.T) {
    sig := ContactSignal{
        ContactID:                   "c1",
        CurrentStage:                "negociacion",
        DaysSinceLastContact:        21,
        InteractionFrequencyPerWeek: 0.4,
        EngagementScore:             35,
        NonPurchaseReasonTexts:      []string{"precio: por encima del presupuesto"},
    }
    first := Evaluate(sig)
    second := Evaluate(sig)
    if !reflect.DeepEqual(first, second) {
        t.Fatalf("Evaluate not idempotent:\nfirst  %+v\nsecond %+v", first, second)
    }
    if first.Score < 0 || first.Score > 100 {
        t.Fatalf("score %d out of bounds", first.Score)
    }
}

func TestEvaluateUnknownStage(t *testing.T) {
    res := Evaluate(ContactSignal{
        ContactID:                   "c1",
        CurrentStage:                "nonexistent_stage_xyz",
        DaysSinceLastContact:        90,
        InteractionFrequencyPerWeek: 0,
        EngagementScore:             0,
    })
    if len(res.Recommendations) != 0 {
        t.Fatalf("unknown stage should yield no recommendations, got %v", res.Recommendations)
    }
    if res.Score < 0 || res.Score > 100 {
        t.Fatalf("score %d out of bounds", res.Score)
    }
}

func TestBaseScoreQuietSignal(t *testing.T) {
    // Recently contacted, frequent, engaged: nothing should fire except the
    // stage's intrinsic factors.
    base, factors := BaseScore(ContactSignal{
        CurrentStage:                "cierre",
        DaysSinceLastContact:        2,
        InteractionFrequencyPerWeek: 3,
        EngagementScore:             90,
    })
    if base != 3 { // cierre carries one 0.3-weight factor
        t.Fatalf("base = %v, want 3", base)
    }
    if len(factors) != 1 || factors[0] != "Pendiente de trámites finales" {
        t.Fatalf("factors = %v", factors)
    }
}

func TestBaseScoreStaleSignal(t *testing.T) {
    base, factors := BaseScore(ContactSignal{
        CurrentStage:                "nonexistent_stage_xyz",
        DaysSinceLastContact:        75,
        InteractionFrequencyPerWeek: 0.1,
        EngagementScore:             10,
    })
    if base != 100 { // 40+30+30, unknown stage adds nothing
        t.Fatalf("base = %v, want 100", base)
    }
    if len(factors) != 3 {
        t.Fatalf("factors = %v, want 3 entries", factors)
    }
}

func TestExplainComponents(t *testing.T) {
    sig := ContactSignal{
        CurrentStage:                "nonexistent_stage_xyz",
        DaysSinceLastContact:        20,
        InteractionFrequencyPerWeek: 0.8,
        EngagementScore:             45,
        NonPurchaseReasonTexts:      []string{"precio: muy caro"},
    }
    bd := Explain(sig)
    if bd.BaseScore != 60 { // 20+20+20
        t.Fatalf("base = %v, want 60", bd.BaseScore)
    }
    if math.Abs(bd.RiskMultiplier-1.20) > 1e-9 {
        t.Fatalf("multiplier = %v, want 1.20", bd.RiskMultiplier)
    }
    if bd.Score != 72 || bd.RiskLevel != LevelHigh {
        t.Fatalf("score/level = %d/%q, want 72/Alto", bd.Score, bd.RiskLevel)
    }
    if bd.RecoveryStrategy == DefaultRecoveryStrategy {
        t.Fatal("expected a category strategy")
    }
}

func TestSpecScenarioPriceReason(t *testing.T) {
    np := AssessNonPurchase([]string{"precio demasiado alto"})
    if math.Abs(np.RiskMultiplier-1.20) > 1e-9 {
        t.Fatalf("multiplier = %v, want 1.20", np.RiskMultiplier)
    }
    score, _ := Score(60, nil, np)
    if score != 72 {
        t.Fatalf("score = %d, want 72", score)
    }
    if lvl := Level(score); lvl != LevelHigh {
        t.Fatalf("level = %q, want %q", lvl, LevelHigh)
    }
    alert, ok := EvaluateAlert("María García", score, np.SpecificConcerns)
    if !ok {
        t.Fatal("expected an alert at score 72")
    }
    if alert.AlertType != AlertStagnation {
        t.Fatalf("alert type = %q, want %q", alert.AlertType, AlertStagnation)
    }
}
