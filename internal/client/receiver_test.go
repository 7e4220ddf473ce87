package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emirozbir/alert-receiver/internal/api"
	"github.com/emirozbir/alert-receiver/internal/models"
	"github.com/emirozbir/alert-receiver/internal/processor"
)

func newTestServer(t *testing.T) (*httptest.Server, *processor.Processor) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	p := processor.New(processor.Options{DefaultLimit: 50}, zap.NewNop())
	srv := httptest.NewServer(api.SetupRoutes(api.NewHandler(p, zap.NewNop()), zap.NewNop(), api.RouterOptions{}))
	t.Cleanup(srv.Close)
	return srv, p
}

func TestClientRoundTrip(t *testing.T) {
	srv, p := newTestServer(t)
	ctx := context.Background()

	for _, body := range []string{
		`{"groupLabels":{"alertname":"failed-logins-alert"},"commonLabels":{"severity":"high"}}`,
		`{"groupLabels":{"alertname":"ip-banned"},"commonLabels":{"severity":"critical"}}`,
		`{"groupLabels":{"alertname":"high-cpu"},"commonLabels":{"severity":"high"}}`,
	} {
		if _, err := p.Ingest(ctx, []byte(body)); err != nil {
			t.Fatalf("Ingest() error = %v", err)
		}
	}

	c := New(srv.URL+"/", 5*time.Second)

	health, err := c.Health(ctx)
	if err != nil || health.Status != "healthy" {
		t.Fatalf("Health() = %+v, %v", health, err)
	}

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Total != 3 || stats.BySeverity["high"] != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	events, err := c.History(ctx, 2)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(events) != 2 || events[0].Name != "high-cpu" {
		t.Fatalf("unexpected history %+v", events)
	}

	all, err := c.History(ctx, 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("History(0) = %d events, %v", len(all), err)
	}

	critical, err := c.BySeverity(ctx, "critical")
	if err != nil || len(critical) != 1 || critical[0].Name != "ip-banned" {
		t.Fatalf("BySeverity() = %+v, %v", critical, err)
	}
}

func TestClientSend(t *testing.T) {
	srv, p := newTestServer(t)
	c := New(srv.URL, 5*time.Second)

	ack, err := c.Send(context.Background(), models.AlertManagerWebhook{
		Status:       "firing",
		GroupLabels:  map[string]string{"alertname": "ip-banned"},
		CommonLabels: map[string]string{"severity": "critical"},
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if ack.Status != "processed" || ack.AlertName != "ip-banned" || ack.Severity != models.SeverityCritical {
		t.Fatalf("unexpected ack %+v", ack)
	}
	if got := p.Stats().Total; got != 1 {
		t.Fatalf("Stats().Total = %d, want 1", got)
	}

	_, err = c.Send(context.Background(), []string{"not", "an", "object"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "MALFORMED_PAYLOAD" {
		t.Fatalf("expected MALFORMED_PAYLOAD, got %v", err)
	}
}

func TestClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"INVALID_ARGUMENT","message":"invalid argument: limit must be positive, got -1"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).History(context.Background(), 5)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Code != "INVALID_ARGUMENT" {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := New(url, time.Second).Stats(context.Background()); err == nil {
		t.Fatal("expected error for closed server")
	}
}
