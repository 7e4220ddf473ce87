package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/emirozbir/alert-receiver/internal/models"
)

const (
	divider      = "═══════════════════════════════════════════════════════════════════════════════"
	sectionBreak = "───────────────────────────────────────────────────────────────────────────────"
	barWidth     = 40
)

type Formatter struct {
	p palette
}

func NewFormatter(useColors bool) *Formatter {
	return &Formatter{
		p: palette{enabled: useColors},
	}
}

func (f *Formatter) FormatStats(stats *models.AggregateStats) string {
	var sb strings.Builder

	// Header
	sb.WriteString("\n")
	sb.WriteString(f.p.colorize(Cyan, divider))
	sb.WriteString("\n")
	sb.WriteString(f.p.title("  SECURITY ALERT STATISTICS"))
	sb.WriteString("\n")
	sb.WriteString(f.p.colorize(Cyan, divider))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Total alerts:  %s\n\n", f.p.bold(White, fmt.Sprintf("%d", stats.Total))))

	f.writeSeverities(&sb, stats)
	f.writeNames(&sb, stats.ByName)

	if len(stats.Recent) > 0 {
		f.writeSection(&sb, "RECENT ALERTS")
		f.writeEventLines(&sb, stats.Recent)
		sb.WriteString("\n")
	}

	sb.WriteString(f.p.colorize(Cyan, divider))
	sb.WriteString("\n")

	return sb.String()
}

// FormatEvents renders an event list in the order given.
func (f *Formatter) FormatEvents(title string, events []models.AlertEvent) string {
	var sb strings.Builder

	sb.WriteString("\n")
	f.writeSection(&sb, title)

	if len(events) == 0 {
		sb.WriteString(f.p.muted("  No alerts."))
		sb.WriteString("\n\n")
		return sb.String()
	}

	for i, ev := range events {
		sb.WriteString(fmt.Sprintf("  %s %s %s %s\n",
			f.p.colorize(Yellow, fmt.Sprintf("%3d.", i+1)),
			f.p.colorize(Magenta, ev.ReceivedAt.Local().Format(time.DateTime)),
			f.p.severityBadge(ev.Severity),
			f.p.bold(White, ev.Name),
		))
		sb.WriteString(fmt.Sprintf("       %s %s\n", f.p.muted("status:"), ev.Status))
		if ev.Description != "" {
			sb.WriteString(fmt.Sprintf("       %s\n", f.p.muted(ev.Description)))
		}
	}
	sb.WriteString("\n")

	return sb.String()
}

func (f *Formatter) FormatHealth(health *models.HealthStatus) string {
	status := f.p.colorize(Green, health.Status)
	if health.Status != "healthy" {
		status = f.p.colorize(Red, health.Status)
	}
	return fmt.Sprintf("  Receiver: %s %s\n", status, f.p.muted("("+health.Timestamp.Format(time.RFC3339)+")"))
}

func (f *Formatter) writeSection(sb *strings.Builder, title string) {
	sb.WriteString(f.p.section(title))
	sb.WriteString("\n")
	sb.WriteString(f.p.colorize(Gray, sectionBreak))
	sb.WriteString("\n")
}

func (f *Formatter) writeSeverities(sb *strings.Builder, stats *models.AggregateStats) {
	f.writeSection(sb, "BY SEVERITY")

	for _, sev := range models.Severities() {
		count := stats.BySeverity[sev]
		sb.WriteString(fmt.Sprintf("  %-9s %s %s\n",
			sev,
			f.p.colorize(severityColor(sev), bar(count, stats.Total)),
			f.p.info(fmt.Sprintf("%d", count)),
		))
	}
	sb.WriteString("\n")
}

func (f *Formatter) writeNames(sb *strings.Builder, byName map[string]int) {
	if len(byName) == 0 {
		return
	}
	f.writeSection(sb, "BY ALERT")

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	// highest count first, then by name
	sort.Slice(names, func(i, j int) bool {
		if byName[names[i]] != byName[names[j]] {
			return byName[names[i]] > byName[names[j]]
		}
		return names[i] < names[j]
	})

	for _, name := range names {
		sb.WriteString(fmt.Sprintf("  %s %s\n",
			f.p.info(fmt.Sprintf("%6d", byName[name])),
			name,
		))
	}
	sb.WriteString("\n")
}

func (f *Formatter) writeEventLines(sb *strings.Builder, events []models.AlertEvent) {
	for _, ev := range events {
		sb.WriteString(fmt.Sprintf("  %s %s %s\n",
			f.p.colorize(Magenta, ev.ReceivedAt.Local().Format("15:04:05")),
			f.p.severityBadge(ev.Severity),
			ev.Name,
		))
	}
}

// bar draws count as a share of total, barWidth cells wide.
func bar(count, total int) string {
	if total <= 0 || count <= 0 {
		return strings.Repeat("·", barWidth)
	}
	filled := count * barWidth / total
	if filled == 0 {
		filled = 1
	}
	return strings.Repeat("█", filled) + strings.Repeat("·", barWidth-filled)
}
