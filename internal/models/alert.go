package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Severity is the coarse priority attached to an alert.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityUnknown  Severity = "unknown"
)

// UnknownAlertName is stored when the payload carries no alert name.
const UnknownAlertName = "unknown_alert"

// UnknownStatus is stored when the payload carries no status.
const UnknownStatus = "unknown"

// Severities returns the fixed enumeration in priority order.
func Severities() []Severity {
	return []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityUnknown}
}

// ParseSeverity maps free-form input onto the enumeration. Anything it does not
// recognize, including the empty string, becomes SeverityUnknown.
func ParseSeverity(s string) Severity {
	switch sev := Severity(strings.ToLower(strings.TrimSpace(s))); sev {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return sev
	default:
		return SeverityUnknown
	}
}

// IsKnown reports whether s is one of the enumerated values.
func (s Severity) IsKnown() bool {
	for _, known := range Severities() {
		if s == known {
			return true
		}
	}
	return false
}

func (s Severity) String() string {
	return string(s)
}

// AlertEvent is one accepted notification. It is never modified after creation.
type AlertEvent struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Severity    Severity        `json:"severity"`
	Status      string          `json:"status"`
	Description string          `json:"description"`
	ReceivedAt  time.Time       `json:"received_at"`
	Raw         json.RawMessage `json:"raw,omitempty"`
}

// IngestAck is returned to the alert source for every accepted payload.
type IngestAck struct {
	Status    string    `json:"status"`
	AlertName string    `json:"alert_name"`
	Severity  Severity  `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
}

// Ack builds the acknowledgment for an accepted event.
func (e AlertEvent) Ack() IngestAck {
	return IngestAck{
		Status:    "processed",
		AlertName: e.Name,
		Severity:  e.Severity,
		Timestamp: e.ReceivedAt,
	}
}
