package dedup

import (
	"sync"

	"github.com/rickgao/ouc-dashboard/internal/model"
)

// Tracker remembers the identities of the most recent batch of events.
type Tracker struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[string]struct{})}
}

// DetectNew returns, in input order, the events whose identity was not in the
// previous call's batch, and makes this batch the new baseline. Every call
// consumes the baseline, including calls with an empty batch, which clear it.
//
// Each occurrence is checked against the previous baseline only, so a new
// identity repeated within one batch is reported once per occurrence.
func (t *Tracker) DetectNew(events []model.Event) []model.Event {
	current := make(map[string]struct{}, len(events))
	fresh := make([]model.Event, 0)

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, e := range events {
		id := e.Identity()
		current[id] = struct{}{}
		if _, ok := t.seen[id]; !ok {
			fresh = append(fresh, e)
		}
	}

	t.seen = current
	return fresh
}

// Len returns the size of the current baseline.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seen)
}

// Seen reports whether an identity is in the current baseline.
func (t *Tracker) Seen(identity string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.seen[identity]
	return ok
}

// Reset clears the baseline.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.seen = make(map[string]struct{})
	t.mu.Unlock()
}
