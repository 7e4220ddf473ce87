package models

import "time"

// AggregateStats is derived from the retained history and can always be
// recomputed from it.
type AggregateStats struct {
	Total      int              `json:"total"`
	BySeverity map[Severity]int `json:"by_severity"`
	ByName     map[string]int   `json:"by_name"`
	Recent     []AlertEvent     `json:"recent"`
}

// HealthStatus is the liveness answer.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
