// Package processor implements alert ingestion and the read operations over
// the alert history.
package processor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emirozbir/alert-receiver/internal/history"
	"github.com/emirozbir/alert-receiver/internal/metrics"
	"github.com/emirozbir/alert-receiver/internal/models"
)

// Store is the durable append-only alert log.
type Store interface {
	AppendEvent(ctx context.Context, ev models.AlertEvent) error
}

// Replayer loads previously logged events, oldest first.
type Replayer interface {
	RecentEvents(ctx context.Context, limit int) ([]models.AlertEvent, error)
}

// Options configure a Processor. Zero values fall back to defaults.
type Options struct {
	Capacity     int // 0 keeps every event
	RecentCount  int
	DefaultLimit int
	Store        Store // nil keeps the history in memory only
	Playbooks    Playbooks
	Now          func() time.Time
	NewID        func() string
}

const (
	defaultRecentCount  = 10
	defaultHistoryLimit = 100
)

// Processor owns the alert history. It is created once at startup and shared
// by all request handlers.
type Processor struct {
	history      *history.History
	store        Store
	playbooks    Playbooks
	recentCount  int
	defaultLimit int
	now          func() time.Time
	newID        func() string
	logger       *zap.Logger
}

func New(opts Options, logger *zap.Logger) *Processor {
	p := &Processor{
		history:      history.New(opts.Capacity),
		store:        opts.Store,
		playbooks:    opts.Playbooks,
		recentCount:  opts.RecentCount,
		defaultLimit: opts.DefaultLimit,
		now:          opts.Now,
		newID:        opts.NewID,
		logger:       logger,
	}
	if p.recentCount <= 0 {
		p.recentCount = defaultRecentCount
	}
	if p.defaultLimit <= 0 {
		p.defaultLimit = defaultHistoryLimit
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.newID == nil {
		p.newID = func() string { return uuid.New().String() }
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	return p
}

// DefaultLimit is the history size returned when the caller gives no limit.
func (p *Processor) DefaultLimit() int {
	return p.defaultLimit
}

// Restore replays the newest logged events into memory so a restart keeps
// the history and its aggregates.
func (p *Processor) Restore(ctx context.Context, r Replayer) (int, error) {
	events, err := r.RecentEvents(ctx, p.history.Capacity())
	if err != nil {
		return 0, fmt.Errorf("failed to load alert history: %w", err)
	}

	for _, ev := range events {
		p.history.Append(ev)
	}
	metrics.HistorySize.Set(float64(p.history.Len()))

	p.logger.Info("alert history restored", zap.Int("events", len(events)))
	return len(events), nil
}

// Ingest parses body, records the normalized event and returns it. A
// malformed body yields ErrMalformedPayload and records nothing. If the
// durable append fails the event is still kept in memory and returned along
// with an error wrapping ErrPersistenceFailure.
func (p *Processor) Ingest(ctx context.Context, body []byte) (models.AlertEvent, error) {
	payload, err := ParsePayload(body)
	if err != nil {
		metrics.PayloadsRejectedTotal.Inc()
		p.logger.Warn("rejected alert payload", zap.Error(err))
		return models.AlertEvent{}, err
	}

	p.logger.Debug("received alert payload",
		zap.ByteString("payload", payload.Raw),
		zap.Int("alert_count", payload.AlertCount))

	ev, evicted, storeErr := p.record(ctx, payload)

	metrics.AlertsReceivedTotal.WithLabelValues(ev.Severity.String()).Inc()
	metrics.HistorySize.Set(float64(p.history.Len()))
	if evicted != nil {
		metrics.HistoryEvictionsTotal.Inc()
	}

	p.logger.Info("processing alert",
		zap.String("id", ev.ID),
		zap.String("alert_name", ev.Name),
		zap.String("status", ev.Status),
		zap.String("severity", ev.Severity.String()),
		zap.String("receiver", deref(payload.Receiver)))

	if pb := p.playbooks.Match(ev.Name); pb != nil {
		metrics.PlaybookMatchesTotal.WithLabelValues(pb.Name).Inc()
		pb.Run(p.logger, ev)
	}

	if storeErr != nil {
		metrics.PersistenceFailuresTotal.Inc()
		p.logger.Error("failed to persist alert",
			zap.String("id", ev.ID),
			zap.String("alert_name", ev.Name),
			zap.Error(storeErr))
		return ev, fmt.Errorf("%w: %w", ErrPersistenceFailure, storeErr)
	}

	return ev, nil
}

// record stamps, appends and persists one event as a single critical section
// so the durable log has the same order as the in-memory history.
func (p *Processor) record(ctx context.Context, payload *models.WebhookPayload) (models.AlertEvent, *models.AlertEvent, error) {
	p.history.Lock()
	defer p.history.Unlock()

	receivedAt := p.now()
	if last, ok := p.history.LastLocked(); ok && receivedAt.Before(last.ReceivedAt) {
		receivedAt = last.ReceivedAt
	}

	ev := Normalize(payload, receivedAt)
	ev.ID = p.newID()

	evicted := p.history.AppendLocked(ev)

	var storeErr error
	if p.store != nil {
		// A client hanging up must not abort the audit write.
		storeErr = p.store.AppendEvent(context.WithoutCancel(ctx), ev)
	}
	return ev, evicted, storeErr
}

// Health reports liveness.
func (p *Processor) Health() models.HealthStatus {
	return models.HealthStatus{Status: "healthy", Timestamp: p.now()}
}

// Stats returns the aggregate view over the retained history.
func (p *Processor) Stats() models.AggregateStats {
	return p.history.Stats(p.recentCount)
}

// ParseLimit validates a limit query value. It must be a positive integer.
func ParseLimit(raw string) (int, error) {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: limit must be an integer, got %q", ErrInvalidArgument, raw)
	}
	if limit <= 0 {
		return 0, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidArgument, limit)
	}
	return limit, nil
}

// History returns the newest limit events, newest first. limit larger than
// the history is clamped.
func (p *Processor) History(limit int) ([]models.AlertEvent, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidArgument, limit)
	}
	return p.history.Newest(limit), nil
}

// BySeverity returns every retained event with the given severity, newest
// first. A label outside the enumeration matches nothing.
func (p *Processor) BySeverity(label string) []models.AlertEvent {
	sev := models.Severity(strings.ToLower(strings.TrimSpace(label)))
	if !sev.IsKnown() {
		return []models.AlertEvent{}
	}
	return p.history.Filter(func(ev models.AlertEvent) bool {
		return ev.Severity == sev
	})
}
