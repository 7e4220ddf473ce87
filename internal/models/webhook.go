package models

import "encoding/json"

// AlertManagerWebhook is the payload shape Grafana and Alertmanager send to a
// webhook contact point. The receiver never binds into it directly because
// upstream payloads drift; it documents what WebhookPayload is extracted from.
type AlertManagerWebhook struct {
	Version           string            `json:"version"`
	GroupKey          string            `json:"groupKey"`
	TruncatedAlerts   int               `json:"truncatedAlerts"`
	Status            string            `json:"status"` // "firing" or "resolved"
	Receiver          string            `json:"receiver"`
	GroupLabels       map[string]string `json:"groupLabels"`
	CommonLabels      map[string]string `json:"commonLabels"`
	CommonAnnotations map[string]string `json:"commonAnnotations"`
	ExternalURL       string            `json:"externalURL"`
	Alerts            []json.RawMessage `json:"alerts"`
}

// WebhookPayload is the result of the partial parse. A nil field means the
// value was absent or was not a string.
type WebhookPayload struct {
	Status      *string
	AlertName   *string
	Severity    *string
	Description *string
	Receiver    *string
	GroupKey    *string
	ExternalURL *string
	AlertCount  int
	Raw         json.RawMessage
}
