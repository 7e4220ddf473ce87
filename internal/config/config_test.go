package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("expected default port 5000, got %d", cfg.Server.Port)
	}
	if cfg.History.Capacity != 10000 {
		t.Errorf("expected default capacity 10000, got %d", cfg.History.Capacity)
	}
	if cfg.History.RecentCount != 10 {
		t.Errorf("expected default recent_count 10, got %d", cfg.History.RecentCount)
	}
	if cfg.History.DefaultLimit != 100 {
		t.Errorf("expected default limit 100, got %d", cfg.History.DefaultLimit)
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("expected shutdown timeout 5s, got %v", cfg.Server.ShutdownTimeout)
	}
	if len(cfg.Log.OutputPaths) != 1 || cfg.Log.OutputPaths[0] != "stdout" {
		t.Errorf("unexpected output paths %v", cfg.Log.OutputPaths)
	}
	if cfg.Addr() != "0.0.0.0:5000" {
		t.Errorf("unexpected addr %q", cfg.Addr())
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9095
  host: 127.0.0.1
history:
  capacity: 50
  recent_count: 5
  default_limit: 20
database:
  path: ""
log:
  level: debug
  format: console
  output_paths: [stdout, alerts.log]
playbooks:
  path: /etc/alert-receiver/playbooks.yaml
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Addr() != "127.0.0.1:9095" {
		t.Errorf("unexpected addr %q", cfg.Addr())
	}
	if cfg.History.Capacity != 50 || cfg.History.RecentCount != 5 || cfg.History.DefaultLimit != 20 {
		t.Errorf("unexpected history config %+v", cfg.History)
	}
	if cfg.Database.Path != "" {
		t.Errorf("expected empty database path, got %q", cfg.Database.Path)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "console" {
		t.Errorf("unexpected log config %+v", cfg.Log)
	}
	if len(cfg.Log.OutputPaths) != 2 {
		t.Errorf("expected two output paths, got %v", cfg.Log.OutputPaths)
	}
	if cfg.Playbooks.Path != "/etc/alert-receiver/playbooks.yaml" {
		t.Errorf("unexpected playbooks path %q", cfg.Playbooks.Path)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ALERT_RECEIVER_SERVER_PORT", "7001")
	t.Setenv("ALERT_RECEIVER_HISTORY_CAPACITY", "0")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7001 {
		t.Errorf("expected port 7001 from env, got %d", cfg.Server.Port)
	}
	if cfg.History.Capacity != 0 {
		t.Errorf("expected unbounded capacity from env, got %d", cfg.History.Capacity)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:  ServerConfig{Port: 5000},
			History: HistoryConfig{Capacity: 10, RecentCount: 10, DefaultLimit: 100},
			Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"negative capacity", func(c *Config) { c.History.Capacity = -1 }, "capacity"},
		{"zero recent count", func(c *Config) { c.History.RecentCount = 0 }, "recent_count"},
		{"zero default limit", func(c *Config) { c.History.DefaultLimit = 0 }, "default_limit"},
		{"relative metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "metrics path"},
		{"metrics disabled ignores path", func(c *Config) {
			c.Metrics.Enabled = false
			c.Metrics.Path = ""
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
