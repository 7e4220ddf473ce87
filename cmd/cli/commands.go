package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emirozbir/alert-receiver/internal/models"
	"github.com/emirozbir/alert-receiver/internal/ui"
)

func newHealthCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the receiver is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var health *models.HealthStatus
			err := ui.Track(app.progress(), "Contacting receiver...", func() (err error) {
				health, err = app.client().Health(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}

			if app.jsonOutput() {
				return app.printJSON(health)
			}
			_, err = fmt.Fprint(app.stdout, app.formatter().FormatHealth(health))
			return err
		},
	}
}

func newStatsCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show alert totals by severity and name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var stats *models.AggregateStats
			err := ui.Track(app.progress(), "Fetching statistics...", func() (err error) {
				stats, err = app.client().Stats(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}

			if app.jsonOutput() {
				return app.printJSON(stats)
			}
			_, err = fmt.Fprint(app.stdout, app.formatter().FormatStats(stats))
			return err
		},
	}
}

func newHistoryCmd(app *cli) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the most recent alerts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("limit") && limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}

			var events []models.AlertEvent
			err := ui.Track(app.progress(), "Fetching history...", func() (err error) {
				events, err = app.client().History(cmd.Context(), limit)
				return err
			})
			if err != nil {
				return err
			}

			if app.jsonOutput() {
				return app.printJSON(events)
			}
			_, err = fmt.Fprint(app.stdout, app.formatter().FormatEvents("ALERT HISTORY", events))
			return err
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of alerts to return (server default when unset)")
	return cmd
}

func newSeverityCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "severity <critical|high|medium|low|unknown>",
		Short:     "List retained alerts of one severity, newest first",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"critical", "high", "medium", "low", "unknown"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var events []models.AlertEvent
			err := ui.Track(app.progress(), "Fetching alerts...", func() (err error) {
				events, err = app.client().BySeverity(cmd.Context(), args[0])
				return err
			})
			if err != nil {
				return err
			}

			if app.jsonOutput() {
				return app.printJSON(events)
			}
			title := strings.ToUpper(args[0]) + " ALERTS"
			_, err = fmt.Fprint(app.stdout, app.formatter().FormatEvents(title, events))
			return err
		},
	}
}

func newSendCmd(app *cli) *cobra.Command {
	var (
		name        string
		severity    string
		status      string
		description string
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a test alert in Alertmanager webhook format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := models.AlertManagerWebhook{
				Version:     "4",
				Status:      status,
				Receiver:    "alertctl",
				GroupLabels: map[string]string{"alertname": name},
				CommonLabels: map[string]string{
					"alertname": name,
					"severity":  severity,
				},
				CommonAnnotations: map[string]string{},
			}
			if description != "" {
				payload.CommonAnnotations["description"] = description
			}

			var ack *models.IngestAck
			err := ui.Track(app.progress(), "Sending alert...", func() (err error) {
				ack, err = app.client().Send(cmd.Context(), payload)
				return err
			})
			if err != nil {
				return err
			}

			if app.jsonOutput() {
				return app.printJSON(ack)
			}
			_, err = fmt.Fprintf(app.stdout, "  %s %s (%s)\n", ack.Status, ack.AlertName, ack.Severity)
			return err
		},
	}
	cmd.Flags().StringVar(&name, "name", "test-alert", "alert name")
	cmd.Flags().StringVar(&severity, "severity", "low", "alert severity")
	cmd.Flags().StringVar(&status, "status", "firing", "alert status")
	cmd.Flags().StringVar(&description, "description", "", "alert description")
	return cmd
}
