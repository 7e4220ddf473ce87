package history

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/emirozbir/alert-receiver/internal/models"
)

var base = time.Date(2025, time.January, 2, 15, 4, 5, 0, time.UTC)

func event(i int, name string, sev models.Severity) models.AlertEvent {
	return models.AlertEvent{
		ID:         fmt.Sprintf("ev-%d", i),
		Name:       name,
		Severity:   sev,
		Status:     "firing",
		ReceivedAt: base.Add(time.Duration(i) * time.Second),
	}
}

func ids(events []models.AlertEvent) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.ID)
	}
	return out
}

func TestNewestOrdering(t *testing.T) {
	h := New(0)
	h.Append(event(1, "a", models.SeverityHigh))
	h.Append(event(2, "b", models.SeverityLow))
	h.Append(event(3, "c", models.SeverityCritical))

	if got := ids(h.Newest(2)); !reflect.DeepEqual(got, []string{"ev-3", "ev-2"}) {
		t.Fatalf("Newest(2) = %v", got)
	}
	if got := ids(h.Newest(10)); !reflect.DeepEqual(got, []string{"ev-3", "ev-2", "ev-1"}) {
		t.Fatalf("Newest(10) = %v", got)
	}
	if got := ids(h.Newest(0)); len(got) != 3 {
		t.Fatalf("Newest(0) should return everything, got %v", got)
	}
}

func TestEmptyHistory(t *testing.T) {
	h := New(5)

	if got := h.Newest(3); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
	stats := h.Stats(10)
	if stats.Total != 0 || len(stats.BySeverity) != 0 || len(stats.ByName) != 0 {
		t.Fatalf("unexpected stats on empty history: %+v", stats)
	}
	if stats.Recent == nil {
		t.Fatal("recent must be an empty slice, not nil")
	}
	if _, ok := h.LastLocked(); ok {
		t.Fatal("expected no last event")
	}
}

func TestEvictionKeepsCountersConsistent(t *testing.T) {
	h := New(3)
	severities := []models.Severity{
		models.SeverityHigh, models.SeverityHigh, models.SeverityLow,
		models.SeverityCritical, models.SeverityUnknown, models.SeverityHigh,
		models.SeverityMedium,
	}

	var evictedIDs []string
	for i, sev := range severities {
		if ev := h.Append(event(i, fmt.Sprintf("rule-%d", i%2), sev)); ev != nil {
			evictedIDs = append(evictedIDs, ev.ID)
		}

		got := h.Stats(0)
		want := h.Recompute()
		if got.Total != want.Total ||
			!reflect.DeepEqual(got.BySeverity, want.BySeverity) ||
			!reflect.DeepEqual(got.ByName, want.ByName) {
			t.Fatalf("after append %d: incremental %+v != scan %+v", i, got, want)
		}
	}

	if h.Len() != 3 {
		t.Fatalf("expected 3 retained events, got %d", h.Len())
	}
	if !reflect.DeepEqual(evictedIDs, []string{"ev-0", "ev-1", "ev-2", "ev-3"}) {
		t.Fatalf("unexpected eviction order %v", evictedIDs)
	}
	if got := ids(h.Newest(0)); !reflect.DeepEqual(got, []string{"ev-6", "ev-5", "ev-4"}) {
		t.Fatalf("unexpected retained events %v", got)
	}

	stats := h.Stats(10)
	if _, ok := stats.BySeverity[models.SeverityLow]; ok {
		t.Error("fully evicted severity should be removed from the counters")
	}
	want := map[models.Severity]int{
		models.SeverityUnknown: 1,
		models.SeverityHigh:    1,
		models.SeverityMedium:  1,
	}
	if !reflect.DeepEqual(stats.BySeverity, want) {
		t.Errorf("by severity = %v, want %v", stats.BySeverity, want)
	}
}

func TestStatsRecentAndCopies(t *testing.T) {
	h := New(0)
	for i := 0; i < 15; i++ {
		h.Append(event(i, "failed-logins-alert", models.SeverityHigh))
	}

	stats := h.Stats(10)
	if stats.Total != 15 {
		t.Fatalf("expected total 15, got %d", stats.Total)
	}
	if len(stats.Recent) != 10 || stats.Recent[0].ID != "ev-14" || stats.Recent[9].ID != "ev-5" {
		t.Fatalf("unexpected recent window %v", ids(stats.Recent))
	}

	stats.BySeverity[models.SeverityHigh] = 99
	if again := h.Stats(10); again.BySeverity[models.SeverityHigh] != 15 {
		t.Fatal("stats maps must be copies")
	}
}

func TestFilter(t *testing.T) {
	h := New(0)
	h.Append(event(1, "a", models.SeverityCritical))
	h.Append(event(2, "b", models.SeverityLow))
	h.Append(event(3, "c", models.SeverityCritical))

	got := h.Filter(func(ev models.AlertEvent) bool { return ev.Severity == models.SeverityCritical })
	if !reflect.DeepEqual(ids(got), []string{"ev-3", "ev-1"}) {
		t.Fatalf("unexpected filter result %v", ids(got))
	}

	none := h.Filter(func(models.AlertEvent) bool { return false })
	if none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", none)
	}
}

func TestConcurrentAppendAndRead(t *testing.T) {
	h := New(100)
	var wg sync.WaitGroup

	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				h.Append(event(w*1000+i, fmt.Sprintf("rule-%d", w), models.SeverityMedium))
				_ = h.Stats(10)
				_ = h.Newest(5)
			}
		}(w)
	}
	wg.Wait()

	got := h.Stats(0)
	want := h.Recompute()
	if got.Total != 100 || !reflect.DeepEqual(got.ByName, want.ByName) {
		t.Fatalf("inconsistent counters after concurrent appends: %+v vs %+v", got, want)
	}
}
