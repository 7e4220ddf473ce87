package processor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/emirozbir/alert-receiver/internal/models"
)

// ParsePayload performs the partial parse of a webhook body. The body must be
// a JSON object; every field inside it is optional and a field of the wrong
// type is treated as absent.
func ParsePayload(body []byte) (*models.WebhookPayload, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedPayload)
	}

	var doc map[string]any
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: payload is null", ErrMalformedPayload)
	}

	var raw bytes.Buffer
	if err := json.Compact(&raw, trimmed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	payload := &models.WebhookPayload{
		Status:      stringAt(doc, "status"),
		AlertName:   stringAt(doc, "groupLabels", "alertname"),
		Severity:    stringAt(doc, "commonLabels", "severity"),
		Description: stringAt(doc, "commonAnnotations", "description"),
		Receiver:    stringAt(doc, "receiver"),
		GroupKey:    stringAt(doc, "groupKey"),
		ExternalURL: stringAt(doc, "externalURL"),
		Raw:         raw.Bytes(),
	}
	if alerts, ok := doc["alerts"].([]any); ok {
		payload.AlertCount = len(alerts)
	}

	return payload, nil
}

// stringAt walks nested objects along path and returns the string found at
// the end, or nil if any step is missing or has the wrong type.
func stringAt(doc map[string]any, path ...string) *string {
	var cur any = doc
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		if cur, ok = obj[key]; !ok {
			return nil
		}
	}
	s, ok := cur.(string)
	if !ok {
		return nil
	}
	return &s
}

// Normalize turns a parsed payload into an AlertEvent stamped with
// receivedAt. All defaulting rules live here:
//
//	name        groupLabels.alertname, else "unknown_alert"
//	severity    commonLabels.severity, case-folded, else "unknown"
//	status      status, else "unknown"
//	description commonAnnotations.description, else ""
//
// The returned event has no ID; the processor assigns one.
func Normalize(p *models.WebhookPayload, receivedAt time.Time) models.AlertEvent {
	ev := models.AlertEvent{
		Name:       models.UnknownAlertName,
		Severity:   models.SeverityUnknown,
		Status:     models.UnknownStatus,
		ReceivedAt: receivedAt,
	}
	if p == nil {
		return ev
	}

	if name := deref(p.AlertName); name != "" {
		ev.Name = name
	}
	ev.Severity = models.ParseSeverity(deref(p.Severity))
	if status := deref(p.Status); status != "" {
		ev.Status = status
	}
	if p.Description != nil {
		ev.Description = *p.Description
	}
	ev.Raw = p.Raw

	return ev
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
