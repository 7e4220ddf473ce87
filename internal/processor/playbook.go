package processor

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/emirozbir/alert-receiver/internal/models"
)

// Playbook is a set of response actions logged when an alert whose name
// contains one of Keywords is received.
type Playbook struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Level    string   `yaml:"level"` // "error" or "warn"
	Headline string   `yaml:"headline"`
	Actions  []string `yaml:"actions"`
}

// Playbooks are matched in order; the first match wins.
type Playbooks []Playbook

type playbookFile struct {
	Playbooks Playbooks `yaml:"playbooks"`
}

// DefaultPlaybooks covers the alert families the monitoring stack ships
// rules for.
func DefaultPlaybooks() Playbooks {
	return Playbooks{
		{
			Name:     "failed_logins",
			Keywords: []string{"failed_logins"},
			Level:    "error",
			Headline: "FAILED LOGIN ALERT DETECTED",
			Actions: []string{
				"Review /var/log/auth.log on target system",
				"Check source IPs of failed attempts",
				"Consider blocking IPs via fail2ban",
				"Review user account access controls",
				"Consider enabling MFA",
			},
		},
		{
			Name:     "intrusion",
			Keywords: []string{"intrusion", "banned"},
			Level:    "error",
			Headline: "INTRUSION DETECTED - IP BANNED",
			Actions: []string{
				"IMMEDIATE: Verify the banned IP is malicious",
				"Check detailed fail2ban logs: /var/log/fail2ban.log",
				"Investigate attack patterns",
				"Review affected services (SSH, HTTP, etc.)",
				"Consider notification to upstream providers",
				"Add IP to permanent blocklist if pattern confirmed",
			},
		},
		{
			Name:     "http_errors",
			Keywords: []string{"http", "error"},
			Level:    "warn",
			Headline: "HIGH HTTP ERROR RATE DETECTED",
			Actions: []string{
				"Check web server error logs (nginx/apache)",
				"Verify backend application status",
				"Check database connectivity",
				"Review resource utilization (disk, memory)",
				"Consider DDoS mitigation if sudden spike",
			},
		},
		{
			Name:     "system_resources",
			Keywords: []string{"cpu", "load"},
			Level:    "warn",
			Headline: "SYSTEM RESOURCE ALERT",
			Actions: []string{
				"Identify top processes using resources: ps aux | sort -k3,3 -nr",
				"Check for memory leaks or zombie processes",
				"Review running services for unnecessary load",
				"Consider auto-scaling if in cloud environment",
				"Plan capacity upgrade if baseline trending high",
			},
		},
	}
}

// LoadPlaybooks reads playbooks from a YAML file of the form
//
//	playbooks:
//	  - name: failed_logins
//	    keywords: [failed_logins]
//	    level: error
//	    headline: FAILED LOGIN ALERT DETECTED
//	    actions: [...]
//
// An empty path returns DefaultPlaybooks.
func LoadPlaybooks(path string) (Playbooks, error) {
	if path == "" {
		return DefaultPlaybooks(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read playbooks: %w", err)
	}

	var file playbookFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse playbooks: %w", err)
	}

	for i, pb := range file.Playbooks {
		if pb.Name == "" {
			return nil, fmt.Errorf("playbook %d has no name", i)
		}
		if len(pb.Keywords) == 0 {
			return nil, fmt.Errorf("playbook %q has no keywords", pb.Name)
		}
	}

	return file.Playbooks, nil
}

// Match returns the first playbook with a keyword contained in alertName.
func (ps Playbooks) Match(alertName string) *Playbook {
	name := foldName(alertName)
	for i := range ps {
		for _, kw := range ps[i].Keywords {
			if kw = foldName(kw); kw != "" && strings.Contains(name, kw) {
				return &ps[i]
			}
		}
	}
	return nil
}

// foldName lower-cases s and folds '-' and ' ' to '_' so "Failed-Logins" and
// "failed_logins" compare equal.
func foldName(s string) string {
	return strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(strings.TrimSpace(s)))
}

// Run logs the playbook for ev at the playbook's level.
func (pb *Playbook) Run(logger *zap.Logger, ev models.AlertEvent) {
	log := logger.Warn
	if strings.EqualFold(pb.Level, "error") {
		log = logger.Error
	}

	description := ev.Description
	if description == "" {
		description = "Unknown"
	}

	log(pb.Headline,
		zap.String("playbook", pb.Name),
		zap.String("alert_name", ev.Name),
		zap.String("severity", ev.Severity.String()),
		zap.String("description", description),
	)
	for i, action := range pb.Actions {
		log("recommended action",
			zap.String("playbook", pb.Name),
			zap.Int("step", i+1),
			zap.String("action", action),
		)
	}
}
