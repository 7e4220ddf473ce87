package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/emirozbir/alert-receiver/internal/client"
	"github.com/emirozbir/alert-receiver/internal/formatter"
	"github.com/emirozbir/alert-receiver/internal/ui"
)

const defaultServer = "http://localhost:5000"

type globalOptions struct {
	server  string
	format  string
	noColor bool
	timeout time.Duration
}

// cli carries what every subcommand needs once flags are parsed.
type cli struct {
	opts   *globalOptions
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{}
	app := &cli{opts: opts, stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "alertctl",
		Short: "Inspect a running alert receiver",
		Long: `alertctl reads aggregates and history from an alert receiver.

Examples:
  # Show totals per severity and alert name
  alertctl stats

  # Last 20 alerts, newest first
  alertctl history --limit 20

  # Every critical alert still in the window
  alertctl severity critical

  # Fire a test alert at the receiver
  alertctl send --name failed-logins-alert --severity high`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != "pretty" && opts.format != "json" {
				return fmt.Errorf("invalid --format %q: want pretty or json", opts.format)
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	server := defaultServer
	if env := os.Getenv("ALERT_RECEIVER_URL"); env != "" {
		server = env
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.server, "server", "s", server, "receiver base URL (env ALERT_RECEIVER_URL)")
	flags.StringVarP(&opts.format, "format", "o", "pretty", "output format: pretty or json")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "HTTP timeout")

	rootCmd.AddCommand(
		newHealthCmd(app),
		newStatsCmd(app),
		newHistoryCmd(app),
		newSeverityCmd(app),
		newSendCmd(app),
	)
	return rootCmd
}

func (a *cli) client() *client.Client {
	return client.New(a.opts.server, a.opts.timeout)
}

func (a *cli) formatter() *formatter.Formatter {
	return formatter.NewFormatter(!a.opts.noColor)
}

func (a *cli) jsonOutput() bool {
	return a.opts.format == "json"
}

// progress only spins for pretty output on a terminal.
func (a *cli) progress() ui.ProgressReporter {
	if a.jsonOutput() {
		return ui.NoopProgress{}
	}
	if f, ok := a.stderr.(*os.File); ok {
		if fi, err := f.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
			return ui.NewSpinnerProgress(f)
		}
	}
	return ui.NoopProgress{}
}

func (a *cli) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(a.stdout, string(data))
	return err
}
