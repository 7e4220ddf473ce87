package formatter

import (
	"fmt"

	"github.com/emirozbir/alert-receiver/internal/models"
)

// ANSI color codes for terminal output
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"

	// Foreground colors
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
	Gray    = "\033[90m"

	// Background colors
	BgRed     = "\033[41m"
	BgYellow  = "\033[43m"
	BgBlue    = "\033[44m"
	BgMagenta = "\033[45m"
)

// palette applies colors only when enabled, so piped output stays clean.
type palette struct {
	enabled bool
}

func (p palette) colorize(color, text string) string {
	if !p.enabled {
		return text
	}
	return fmt.Sprintf("%s%s%s", color, text, Reset)
}

func (p palette) bold(color, text string) string {
	if !p.enabled {
		return text
	}
	return fmt.Sprintf("%s%s%s%s", Bold, color, text, Reset)
}

func (p palette) title(text string) string   { return p.bold(Cyan, text) }
func (p palette) section(text string) string { return p.bold(Blue, text) }
func (p palette) info(text string) string    { return p.colorize(Cyan, text) }
func (p palette) muted(text string) string   { return p.colorize(Gray, text) }

// severityColor is the foreground used for bars and counts of sev.
func severityColor(sev models.Severity) string {
	switch sev {
	case models.SeverityCritical:
		return Magenta
	case models.SeverityHigh:
		return Red
	case models.SeverityMedium:
		return Yellow
	case models.SeverityLow:
		return Green
	default:
		return Gray
	}
}

func (p palette) severityBadge(sev models.Severity) string {
	label := fmt.Sprintf(" %-8s ", sev)
	if !p.enabled {
		return "[" + string(sev) + "]"
	}
	switch sev {
	case models.SeverityCritical:
		return fmt.Sprintf("%s%s%s%s", Bold, BgMagenta, label, Reset)
	case models.SeverityHigh:
		return fmt.Sprintf("%s%s%s%s", Bold, BgRed, label, Reset)
	case models.SeverityMedium:
		return fmt.Sprintf("%s%s%s%s", Bold, BgYellow, label, Reset)
	case models.SeverityLow:
		return fmt.Sprintf("%s%s%s%s", Bold, BgBlue, label, Reset)
	default:
		return p.muted(label)
	}
}
