package risk

import "strings"

// RecommendInput carries everything the generator looks at.
type RecommendInput struct {
    StageID              string
    RiskLevel            string
    DaysSinceLastContact int
    NonPurchaseReasons   []string
}

var priceRecoveryRecommendations = []Recommendation{
    {PriorityHigh, "Preparar alternativas en un rango de precio inferior", "El precio fue el motivo principal de la no compra", "1 semana"},
    {PriorityMedium, "Informar sobre opciones de financiación y ayudas disponibles", "Reducir la barrera económica percibida", "2 semanas"},
}

var timingRecheckRecommendations = []Recommendation{
    {PriorityHigh, "Programar un seguimiento para dentro de 3 meses", "El cliente indicó que no era buen momento para comprar", "3 meses"},
    {PriorityLow, "Mantener al cliente en la lista de novedades del mercado", "Conservar la relación hasta que cambie su situación", "continuo"},
}

var nurtureRecommendations = []Recommendation{
    {PriorityMedium, "Incluir al cliente en campañas de nutrición a largo plazo", "No se identificó un motivo recuperable", "1 mes"},
    {PriorityLow, "Revisar el contacto trimestralmente por si cambia su situación", "Mantener la puerta abierta", "3 meses"},
}

var urgentReengagement = Recommendation{
    Priority:  PriorityHigh,
    Action:    "Retomar contacto inmediato con el cliente",
    Reason:    "Riesgo alto y más de dos semanas sin contacto",
    Timeframe: "24 horas",
}

// Recommend returns the prioritized action list for a contact. Normal stages
// use the catalog templates; the lost stage runs a closed decision table
// where the first matching reason category wins. Unknown stages yield an
// empty list.
func Recommend(in RecommendInput) []Recommendation {
    stage, ok := StageByID(in.StageID)
    if !ok {
        return nil
    }
    if stage.ID == StageNoPurchase {
        return recommendAfterNoPurchase(in.NonPurchaseReasons)
    }

    out := make([]Recommendation, 0, len(stage.Templates)+1)
    if in.RiskLevel == LevelHigh && in.DaysSinceLastContact > 14 {
        out = append(out, urgentReengagement)
    }
    out = append(out, stage.Templates...)
    return out
}

// recommendAfterNoPurchase: price beats timing, first match wins, no
// blending; anything else falls through to long-term nurture.
func recommendAfterNoPurchase(reasons []string) []Recommendation {
    if len(reasons) > 0 {
        joined := strings.ToLower(strings.Join(reasons, " "))
        if strings.Contains(joined, "precio") || strings.Contains(joined, "price") {
            return clone(priceRecoveryRecommendations)
        }
        if strings.Contains(joined, "timing") || strings.Contains(joined, "momento") {
            return clone(timingRecheckRecommendations)
        }
    }
    return clone(nurtureRecommendations)
}

func clone(recs []Recommendation) []Recommendation {
    out := make([]Recommendation, len(recs))
    copy(out, recs)
    return out
}
