package risk

import "strings"

// Assessment is the outcome of matching a contact's recorded non-purchase
// reasons against the fixed category table.
type Assessment struct {
    RiskMultiplier   float64
    SpecificConcerns []string
    RecoveryStrategy string
}

const DefaultRecoveryStrategy = "Sin estrategia de recuperación definida"

type reasonCategory struct {
    key      string
    keywords []string
    factor   float64
    concern  string
    strategy string
}

// Check order is fixed; the recovery strategy of the last matching category
// wins when several categories match.
var reasonCategories = []reasonCategory{
    {
        key:      "precio",
        keywords: []string{"precio", "price"},
        factor:   1.20,
        concern:  "Sensibilidad al precio",
        strategy: "Presentar opciones en un rango de precio inferior o negociar condiciones",
    },
    {
        key:      "ubicacion",
        keywords: []string{"ubicacion", "ubicación", "location"},
        factor:   1.10,
        concern:  "Ubicación no deseada",
        strategy: "Ampliar la búsqueda a zonas alternativas con servicios similares",
    },
    {
        key:      "tamano",
        keywords: []string{"tamaño", "tamano", "size"},
        factor:   1.15,
        concern:  "Tamaño inadecuado",
        strategy: "Proponer propiedades con otra distribución o superficie",
    },
    {
        key:      "financiacion",
        keywords: []string{"financiacion", "financiación", "financing"},
        factor:   1.25,
        concern:  "Dificultades de financiación",
        strategy: "Conectar al cliente con asesores hipotecarios y financiación flexible",
    },
}

// AssessNonPurchase matches the reason texts against the category table.
// Matching is case-insensitive substring; categories are independent and
// compound multiplicatively. Empty or unrecognized input yields the identity
// multiplier and the default strategy.
func AssessNonPurchase(reasons []string) Assessment {
    out := Assessment{RiskMultiplier: 1.0, RecoveryStrategy: DefaultRecoveryStrategy}
    if len(reasons) == 0 {
        return out
    }
    lowered := make([]string, len(reasons))
    for i, r := range reasons {
        lowered[i] = strings.ToLower(r)
    }
    for _, cat := range reasonCategories {
        if matchesAny(lowered, cat.keywords) {
            out.RiskMultiplier *= cat.factor
            out.SpecificConcerns = append(out.SpecificConcerns, cat.concern)
            out.RecoveryStrategy = cat.strategy
        }
    }
    return out
}

func matchesAny(lowered []string, keywords []string) bool {
    for _, text := range lowered {
        for _, kw := range keywords {
            if strings.Contains(text, kw) {
                return true
            }
        }
    }
    return false
}
