package risk

import (
    "fmt"
    "math"
)

// ContactSignal is the per-contact input assembled by the caller from the
// persistence layer. Nothing in this package retains it between calls.
type ContactSignal struct {
    ContactID                   string
    CurrentStage                string
    DaysSinceLastContact        int
    InteractionFrequencyPerWeek float64
    EngagementScore             int // 0-100
    NonPurchaseReasonTexts      []string
}

// Result is the outcome of a full risk evaluation.
type Result struct {
    Score           int // 0-100
    RiskLevel       string
    RiskFactors     []string
    Recommendations []string
}

const (
    LevelHigh   = "Alto"
    LevelMedium = "Medio"
    LevelLow    = "Bajo"

    mediumThreshold = 40
    highThreshold   = 70
)

// Level derives the display level from a score. Thresholds are the same
// everywhere a level is shown.
func Level(score int) string {
    switch {
    case score >= highThreshold:
        return LevelHigh
    case score >= mediumThreshold:
        return LevelMedium
    default:
        return LevelLow
    }
}

// BaseScore blends the raw contact signals into a 0-100 base risk score and
// returns the factor strings explaining each contribution. The contact's
// stage adds its catalog risk factors; unknown stages add nothing.
func BaseScore(sig ContactSignal) (float64, []string) {
    var score float64
    var factors []string

    switch d := sig.DaysSinceLastContact; {
    case d > 60:
        score += 40
        factors = append(factors, fmt.Sprintf("Sin contacto desde hace %d días", d))
    case d > 30:
        score += 30
        factors = append(factors, fmt.Sprintf("Sin contacto desde hace %d días", d))
    case d > 14:
        score += 20
        factors = append(factors, fmt.Sprintf("Sin contacto desde hace %d días", d))
    case d > 7:
        score += 10
    }

    switch f := sig.InteractionFrequencyPerWeek; {
    case f < 0.5:
        score += 30
        factors = append(factors, "Frecuencia de interacción muy baja")
    case f < 1:
        score += 20
        factors = append(factors, "Frecuencia de interacción baja")
    case f < 2:
        score += 10
    }

    switch e := sig.EngagementScore; {
    case e < 30:
        score += 30
        factors = append(factors, fmt.Sprintf("Nivel de engagement bajo (%d/100)", e))
    case e < 50:
        score += 20
        factors = append(factors, fmt.Sprintf("Nivel de engagement medio-bajo (%d/100)", e))
    case e < 70:
        score += 10
    }

    if stage, ok := StageByID(sig.CurrentStage); ok {
        for _, rf := range stage.RiskFactors {
            score += rf.Weight * 10
            factors = append(factors, rf.Factor)
        }
    }

    if score > 100 {
        score = 100
    }
    return score, factors
}

// Score applies the non-purchase multiplier to a base score, clamps the
// result to 0-100 and merges the factor lists, base factors first. Pure and
// idempotent; monotonically non-decreasing in the multiplier.
func Score(base float64, baseFactors []string, np Assessment) (int, []string) {
    s := int(math.Round(base * np.RiskMultiplier))
    if s < 0 {
        s = 0
    }
    if s > 100 {
        s = 100
    }
    factors := make([]string, 0, len(baseFactors)+len(np.SpecificConcerns))
    factors = append(factors, baseFactors...)
    factors = append(factors, np.SpecificConcerns...)
    return s, factors
}

// Breakdown is the per-component explanation of a score, for detail views.
type Breakdown struct {
    BaseScore        float64
    BaseFactors      []string
    RiskMultiplier   float64
    SpecificConcerns []string
    RecoveryStrategy string
    Score            int
    RiskLevel        string
}

// Explain reports every intermediate component of the score for one signal.
func Explain(sig ContactSignal) Breakdown {
    base, baseFactors := BaseScore(sig)
    np := AssessNonPurchase(sig.NonPurchaseReasonTexts)
    score, _ := Score(base, baseFactors, np)
    return Breakdown{
        BaseScore:        base,
        BaseFactors:      baseFactors,
        RiskMultiplier:   np.RiskMultiplier,
        SpecificConcerns: np.SpecificConcerns,
        RecoveryStrategy: np.RecoveryStrategy,
        Score:            score,
        RiskLevel:        Level(score),
    }
}

// Evaluate runs the whole pipeline over one contact signal: base blend,
// non-purchase assessment, multiplier, level and recommendations.
func Evaluate(sig ContactSignal) Result {
    base, baseFactors := BaseScore(sig)
    np := AssessNonPurchase(sig.NonPurchaseReasonTexts)
    score, factors := Score(base, baseFactors, np)
    level := Level(score)

    recs := Recommend(RecommendInput{
        StageID:              sig.CurrentStage,
        RiskLevel:            level,
        DaysSinceLastContact: sig.DaysSinceLastContact,
        NonPurchaseReasons:   sig.NonPurchaseReasonTexts,
    })
    actions := make([]string, 0, len(recs))
    for _, r := range recs {
        actions = append(actions, r.Action)
    }

    return Result{Score: score, RiskLevel: level, RiskFactors: factors, Recommendations: actions}
}
