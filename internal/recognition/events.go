// Package recognition turns per-frame gesture detections into a stable,
// de-duplicated lifecycle event stream and fans it out to subscribers.
package recognition

import "github.com/JohnMarulanda/GestureAI-Core-sub000/internal/gesture"

// Kind identifies a lifecycle transition for a gesture id.
type Kind string

const (
	// KindDetected fires on the first frame a gesture enters the active set.
	KindDetected Kind = "detected"
	// KindUpdated fires on every subsequent frame the gesture stays active.
	KindUpdated Kind = "updated"
	// KindEnded fires on the first frame the gesture leaves the active set.
	KindEnded Kind = "ended"
)

// Event is one lifecycle notification delivered to subscribers.
// Detection is nil for KindEnded: an ended gesture has no current payload.
type Event struct {
	Kind      Kind               `json:"kind"`
	GestureID string             `json:"gesture_id"`
	Detection *gesture.Detection `json:"detection,omitempty"`
}
