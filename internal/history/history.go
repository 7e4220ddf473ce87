// Package history keeps the append-ordered alert history together with the
// counters derived from it.
//
// The counters are maintained incrementally: append increments them and
// eviction of the oldest event decrements them, so at any time they equal a
// scan of the retained events.
package history

import (
	"sync"

	"github.com/emirozbir/alert-receiver/internal/models"
)

// History is a fixed-capacity ring buffer of alert events. A capacity of 0
// means the buffer grows without bound.
type History struct {
	mu       sync.RWMutex
	capacity int
	events   []models.AlertEvent
	head     int // index of the oldest event when the buffer is full
	size     int

	bySeverity map[models.Severity]int
	byName     map[string]int
}

// New creates an empty history. capacity <= 0 keeps every event.
func New(capacity int) *History {
	if capacity < 0 {
		capacity = 0
	}
	h := &History{
		capacity:   capacity,
		bySeverity: make(map[models.Severity]int),
		byName:     make(map[string]int),
	}
	if capacity > 0 {
		h.events = make([]models.AlertEvent, 0, capacity)
	}
	return h
}

// Capacity returns the configured capacity, 0 for unbounded.
func (h *History) Capacity() int {
	return h.capacity
}

// Lock and Unlock expose the write lock so callers can make an append and a
// related side effect one critical section. Use AppendLocked while holding it.
func (h *History) Lock()   { h.mu.Lock() }
func (h *History) Unlock() { h.mu.Unlock() }

// Append adds ev as the newest event and returns the evicted event, if any.
func (h *History) Append(ev models.AlertEvent) (evicted *models.AlertEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.AppendLocked(ev)
}

// AppendLocked is Append for callers already holding the write lock.
func (h *History) AppendLocked(ev models.AlertEvent) (evicted *models.AlertEvent) {
	if h.capacity > 0 && h.size == h.capacity {
		old := h.events[h.head]
		h.events[h.head] = ev
		h.head = (h.head + 1) % h.capacity
		h.decrement(old)
		evicted = &old
	} else {
		h.events = append(h.events, ev)
		h.size++
	}
	h.bySeverity[ev.Severity]++
	h.byName[ev.Name]++
	return evicted
}

// LastLocked returns the newest event. The caller must hold the lock.
func (h *History) LastLocked() (models.AlertEvent, bool) {
	if h.size == 0 {
		return models.AlertEvent{}, false
	}
	return h.at(h.size - 1), true
}

func (h *History) decrement(ev models.AlertEvent) {
	if h.bySeverity[ev.Severity]--; h.bySeverity[ev.Severity] <= 0 {
		delete(h.bySeverity, ev.Severity)
	}
	if h.byName[ev.Name]--; h.byName[ev.Name] <= 0 {
		delete(h.byName, ev.Name)
	}
}

// at returns the i-th retained event in insertion order, 0 being the oldest.
func (h *History) at(i int) models.AlertEvent {
	if h.capacity > 0 && h.size == h.capacity {
		return h.events[(h.head+i)%h.capacity]
	}
	return h.events[i]
}

// Len returns the number of retained events.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.size
}

// Newest returns up to limit events, newest first. limit <= 0 returns all.
func (h *History) Newest(limit int) []models.AlertEvent {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.newestLocked(limit)
}

func (h *History) newestLocked(limit int) []models.AlertEvent {
	n := h.size
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.AlertEvent, 0, n)
	for i := h.size - 1; i >= h.size-n; i-- {
		out = append(out, h.at(i))
	}
	return out
}

// Filter returns every retained event for which keep returns true, newest
// first.
func (h *History) Filter(keep func(models.AlertEvent) bool) []models.AlertEvent {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]models.AlertEvent, 0)
	for i := h.size - 1; i >= 0; i-- {
		if ev := h.at(i); keep(ev) {
			out = append(out, ev)
		}
	}
	return out
}

// Stats returns the aggregate view with the recent most recent events.
func (h *History) Stats(recent int) models.AggregateStats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := models.AggregateStats{
		Total:      h.size,
		BySeverity: make(map[models.Severity]int, len(h.bySeverity)),
		ByName:     make(map[string]int, len(h.byName)),
		Recent:     make([]models.AlertEvent, 0),
	}
	for k, v := range h.bySeverity {
		stats.BySeverity[k] = v
	}
	for k, v := range h.byName {
		stats.ByName[k] = v
	}
	if recent > 0 {
		stats.Recent = h.newestLocked(recent)
	}
	return stats
}

// Recompute rebuilds the aggregates by scanning the retained events. It is
// the reference the incremental counters must always agree with.
func (h *History) Recompute() models.AggregateStats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := models.AggregateStats{
		Total:      h.size,
		BySeverity: make(map[models.Severity]int),
		ByName:     make(map[string]int),
		Recent:     make([]models.AlertEvent, 0),
	}
	for i := 0; i < h.size; i++ {
		ev := h.at(i)
		stats.BySeverity[ev.Severity]++
		stats.ByName[ev.Name]++
	}
	return stats
}
