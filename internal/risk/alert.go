package risk

import (
    "fmt"
    "strings"
)

// Alert is a threshold-crossing notification. Emission and read/resolved
// state belong to the persistence layer; this is only the decision.
type Alert struct {
    AlertType string
    Message   string
}

const (
    AlertHighRisk   = "high_risk"
    AlertStagnation = "stage_stagnation"

    alertThreshold    = 70
    criticalThreshold = 80
)

// EvaluateAlert maps a computed score to an alert, or reports that none is
// warranted. Scores below 70 never alert.
func EvaluateAlert(contactName string, score int, concerns []string) (Alert, bool) {
    if score < alertThreshold {
        return Alert{}, false
    }
    var a Alert
    if score >= criticalThreshold {
        a.AlertType = AlertHighRisk
        a.Message = fmt.Sprintf("%s tiene un riesgo crítico (%d%%) de abandonar el proceso de compra", contactName, score)
    } else {
        a.AlertType = AlertStagnation
        a.Message = fmt.Sprintf("%s muestra señales de desinterés (%d%%)", contactName, score)
    }
    if len(concerns) > 0 {
        a.Message += ". Preocupaciones: " + strings.Join(concerns, ", ")
    }
    return a, true
}
