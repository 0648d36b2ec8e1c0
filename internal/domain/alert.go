package domain

import "time"

// Alert types produced by the intelligence scan.
const (
	AlertTypeAgenda  = "agenda"
	AlertTypeClient  = "cliente"
	AlertTypeFinance = "financeiro"
)

// Alert levels.
const (
	AlertLevelInfo     = "info"
	AlertLevelWarning  = "warning"
	AlertLevelCritical = "critical"
)

// SystemAlert is an advisory produced by the heuristic scan. Uniqueness of
// (Type, Message) among unresolved alerts is enforced logically before
// persisting, not by a database constraint.
type SystemAlert struct {
	ID              string    `json:"id"`
	TenantID        string    `json:"tenant_id"`
	Type            string    `json:"type"`
	Message         string    `json:"message"`
	Level           string    `json:"level"`
	EstimatedImpact float64   `json:"estimated_impact,omitempty"`
	Resolved        bool      `json:"resolved"`
	CreatedAt       time.Time `json:"created_at"`
}
