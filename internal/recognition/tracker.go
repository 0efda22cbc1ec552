package recognition

import (
	"sort"

	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/gesture"
)

// tracker converts the current frame's detection set into lifecycle deltas
// relative to the previous frame. It is owned by the dispatch loop and never
// touched from another goroutine.
type tracker struct {
	active map[string]gesture.Detection
}

func newTracker() *tracker {
	return &tracker{
		active: make(map[string]gesture.Detection),
	}
}

// advance replaces the active set with current and returns exactly one event
// per affected gesture id: ended for ids that dropped out, detected for new
// ids, updated for ids that stayed. Ids are processed in sorted order so the
// cross-gesture event order is deterministic.
func (t *tracker) advance(current map[string]gesture.Detection) []Event {
	var events []Event

	for _, id := range sortedIDs(t.active) {
		if _, still := current[id]; !still {
			events = append(events, Event{Kind: KindEnded, GestureID: id})
		}
	}

	for _, id := range sortedIDs(current) {
		d := current[id]
		kind := KindUpdated
		if _, was := t.active[id]; !was {
			kind = KindDetected
		}
		events = append(events, Event{Kind: kind, GestureID: id, Detection: &d})
	}

	t.active = current
	if t.active == nil {
		t.active = make(map[string]gesture.Detection)
	}

	return events
}

// snapshot returns a copy of the active set for the manager's query methods.
func (t *tracker) snapshot() map[string]gesture.Detection {
	out := make(map[string]gesture.Detection, len(t.active))
	for id, d := range t.active {
		out[id] = d
	}
	return out
}

func sortedIDs(m map[string]gesture.Detection) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
