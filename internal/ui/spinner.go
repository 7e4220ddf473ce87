package ui

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// ProgressReporter reports progress while the CLI waits on the receiver.
type ProgressReporter interface {
	Start(message string)
	Update(message string)
	Stop()
}

// SpinnerProgress implements ProgressReporter using briandowns/spinner
type SpinnerProgress struct {
	spinner *spinner.Spinner
}

// NewSpinnerProgress creates a spinner that draws on w, normally stderr so
// stdout stays clean for the report.
func NewSpinnerProgress(w io.Writer) *SpinnerProgress {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Prefix = "  "
	_ = s.Color("cyan", "bold")

	return &SpinnerProgress{
		spinner: s,
	}
}

func (sp *SpinnerProgress) Start(message string) {
	sp.spinner.Suffix = "  " + message
	sp.spinner.Start()
}

func (sp *SpinnerProgress) Update(message string) {
	sp.spinner.Suffix = "  " + message
}

func (sp *SpinnerProgress) Stop() {
	if sp.spinner.Active() {
		sp.spinner.Stop()
	}
}

// NoopProgress is used for json output and non-interactive runs.
type NoopProgress struct{}

func (NoopProgress) Start(string)  {}
func (NoopProgress) Update(string) {}
func (NoopProgress) Stop()         {}

// Track runs fn while p shows message.
func Track(p ProgressReporter, message string, fn func() error) error {
	p.Start(message)
	defer p.Stop()
	return fn()
}
