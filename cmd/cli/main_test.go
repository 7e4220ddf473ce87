package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emirozbir/alert-receiver/internal/api"
	"github.com/emirozbir/alert-receiver/internal/models"
	"github.com/emirozbir/alert-receiver/internal/processor"
)

func newReceiver(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	p := processor.New(processor.Options{}, zap.NewNop())
	srv := httptest.NewServer(api.SetupRoutes(api.NewHandler(p, zap.NewNop()), zap.NewNop(), api.RouterOptions{}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestSendThenStats(t *testing.T) {
	srv := newReceiver(t)

	out, err := run(t, "--server", srv.URL, "send", "--name", "ip-banned", "--severity", "critical", "--description", "203.0.113.7 banned")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(out, "processed ip-banned (critical)") {
		t.Fatalf("unexpected send output %q", out)
	}

	out, err = run(t, "--server", srv.URL, "--format", "json", "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	var stats models.AggregateStats
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("stats output is not JSON: %v\n%s", err, out)
	}
	if stats.Total != 1 || stats.BySeverity[models.SeverityCritical] != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	out, err = run(t, "--server", srv.URL, "--no-color", "severity", "critical")
	if err != nil {
		t.Fatalf("severity: %v", err)
	}
	if !strings.Contains(out, "CRITICAL ALERTS") || !strings.Contains(out, "203.0.113.7 banned") {
		t.Fatalf("unexpected severity output %q", out)
	}
}

func TestHistoryRejectsBadLimit(t *testing.T) {
	srv := newReceiver(t)
	if _, err := run(t, "--server", srv.URL, "history", "--limit", "0"); err == nil {
		t.Fatal("expected error for --limit 0")
	}
}

func TestInvalidFormat(t *testing.T) {
	if _, err := run(t, "--format", "yaml", "health"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestHealth(t *testing.T) {
	srv := newReceiver(t)
	out, err := run(t, "--server", srv.URL, "--no-color", "health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if !strings.Contains(out, "Receiver: healthy") {
		t.Fatalf("unexpected health output %q", out)
	}
}
