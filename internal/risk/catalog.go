package risk

// Stage is one step of the sales funnel. The catalog is closed and immutable;
// ids not present here contribute nothing to scoring or recommendations.
type Stage struct {
    ID          string
    DisplayName string
    Order       int
    RiskFactors []WeightedFactor
    Templates   []Recommendation
}

// WeightedFactor is a stage-intrinsic risk contributor.
type WeightedFactor struct {
    Factor string
    Weight float64 // 0-1
}

// Recommendation is one suggested follow-up action, highest priority first
// within a stage's template list.
type Recommendation struct {
    Priority  string
    Action    string
    Reason    string
    Timeframe string
}

const (
    PriorityHigh   = "high"
    PriorityMedium = "medium"
    PriorityLow    = "low"
)

const StageNoPurchase = "no_compra"

var catalog = []Stage{
    {
        ID: "contacto_inicial", DisplayName: "Contacto inicial", Order: 1,
        RiskFactors: []WeightedFactor{
            {Factor: "Aún sin calificar", Weight: 0.3},
            {Factor: "Poca información sobre sus necesidades", Weight: 0.4},
        },
        Templates: []Recommendation{
            {PriorityHigh, "Realizar llamada de calificación", "Conocer necesidades y presupuesto del cliente", "48 horas"},
            {PriorityMedium, "Enviar propiedades que encajen con su consulta inicial", "Mantener el interés tras el primer contacto", "1 semana"},
        },
    },
    {
        ID: "calificado", DisplayName: "Calificado", Order: 2,
        RiskFactors: []WeightedFactor{
            {Factor: "Sin propiedades visitadas todavía", Weight: 0.4},
            {Factor: "Riesgo de enfriamiento tras la calificación", Weight: 0.5},
        },
        Templates: []Recommendation{
            {PriorityHigh, "Agendar una visita a las propiedades seleccionadas", "Un cliente calificado sin visitas tiende a enfriarse", "1 semana"},
            {PriorityMedium, "Compartir comparativa de propiedades afines", "Facilitar la decisión con información concreta", "1 semana"},
        },
    },
    {
        ID: "visita", DisplayName: "Visita realizada", Order: 3,
        RiskFactors: []WeightedFactor{
            {Factor: "Visitas sin feedback registrado", Weight: 0.5},
            {Factor: "Comparando con otras opciones del mercado", Weight: 0.6},
        },
        Templates: []Recommendation{
            {PriorityHigh, "Solicitar feedback de la visita", "El feedback temprano detecta objeciones a tiempo", "24 horas"},
            {PriorityMedium, "Proponer segunda visita o propiedades alternativas", "Mantener el impulso después de la visita", "1 semana"},
            {PriorityLow, "Enviar información del barrio y servicios", "Reforzar el valor de la zona", "2 semanas"},
        },
    },
    {
        ID: "negociacion", DisplayName: "Negociación", Order: 4,
        RiskFactors: []WeightedFactor{
            {Factor: "Negociación prolongada", Weight: 0.7},
            {Factor: "Sensible a contraofertas de la competencia", Weight: 0.6},
        },
        Templates: []Recommendation{
            {PriorityHigh, "Presentar propuesta final con condiciones claras", "Las negociaciones largas aumentan el riesgo de abandono", "72 horas"},
            {PriorityMedium, "Involucrar al propietario para acercar posturas", "Desbloquear puntos de fricción en el precio", "1 semana"},
        },
    },
    {
        ID: "cierre", DisplayName: "Cierre", Order: 5,
        RiskFactors: []WeightedFactor{
            {Factor: "Pendiente de trámites finales", Weight: 0.3},
        },
        Templates: []Recommendation{
            {PriorityHigh, "Confirmar documentación y fecha de firma", "Evitar caídas de última hora", "48 horas"},
            {PriorityLow, "Preparar seguimiento post-venta", "Fidelizar y generar referidos", "1 mes"},
        },
    },
    {
        ID: StageNoPurchase, DisplayName: "No compra", Order: 6,
        RiskFactors: []WeightedFactor{
            {Factor: "Proceso de compra abandonado", Weight: 0.9},
        },
        // Fallback list; the decision table in recommend.go picks more
        // specific lists when a recoverable reason is on record.
        Templates: nurtureRecommendations,
    },
}

var stageIndex = func() map[string]Stage {
    idx := make(map[string]Stage, len(catalog))
    for _, s := range catalog {
        idx[s.ID] = s
    }
    return idx
}()

// Stages returns the funnel catalog in progression order.
func Stages() []Stage {
    out := make([]Stage, len(catalog))
    copy(out, catalog)
    return out
}

// StageByID looks a stage up by its catalog id.
func StageByID(id string) (Stage, bool) {
    s, ok := stageIndex[id]
    return s, ok
}
