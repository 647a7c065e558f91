package domain

// AnomalyType is the kind of flagged condition
type AnomalyType string

const (
	AnomalySpike        AnomalyType = "SPIKE"
	AnomalyDrop         AnomalyType = "DROP"
	AnomalySupplyDelay  AnomalyType = "SUPPLY_DELAY"
	AnomalyStatusChange AnomalyType = "STATUS_CHANGE"
)

// Severity orders how urgently an anomaly needs attention
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityWarning  Severity = "WARNING"
	SeverityInfo     Severity = "INFO"
)

// Anomaly is one entry of the alert feed. ID is derived from the subject and
// kind so repeated detections of the same condition collapse downstream.
type Anomaly struct {
	ID          string      `json:"id"`
	ProductID   string      `json:"product_id"`
	Type        AnomalyType `json:"type"`
	Severity    Severity    `json:"severity"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
}
