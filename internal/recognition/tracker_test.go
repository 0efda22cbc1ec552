package recognition

import (
	"testing"
	"time"

	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/gesture"
)

func det(id string, conf float64) gesture.Detection {
	return gesture.Detection{
		GestureID:  id,
		Confidence: conf,
		Timestamp:  time.Now(),
	}
}

func kinds(events []Event, id string) []Kind {
	var out []Kind
	for _, ev := range events {
		if ev.GestureID == id {
			out = append(out, ev.Kind)
		}
	}
	return out
}

func TestTracker_Lifecycle(t *testing.T) {
	tr := newTracker()

	// Frame 1: victory appears
	events := tr.advance(map[string]gesture.Detection{"victory": det("victory", 0.9)})
	if len(events) != 1 || events[0].Kind != KindDetected {
		t.Fatalf("frame 1 events = %v, want single detected", events)
	}
	if events[0].Detection == nil || events[0].Detection.Confidence != 0.9 {
		t.Fatal("detected event must carry the detection payload")
	}

	// Frame 2: victory continues with a fresh payload
	events = tr.advance(map[string]gesture.Detection{"victory": det("victory", 0.95)})
	if len(events) != 1 || events[0].Kind != KindUpdated {
		t.Fatalf("frame 2 events = %v, want single updated", events)
	}
	if events[0].Detection.Confidence != 0.95 {
		t.Errorf("updated payload confidence = %f, want refreshed 0.95", events[0].Detection.Confidence)
	}

	// Frame 3: victory gone
	events = tr.advance(nil)
	if len(events) != 1 || events[0].Kind != KindEnded {
		t.Fatalf("frame 3 events = %v, want single ended", events)
	}
	// Ended carries the id only
	if events[0].Detection != nil {
		t.Error("ended event must not carry a detection payload")
	}
	if events[0].GestureID != "victory" {
		t.Errorf("ended gesture id = %s, want victory", events[0].GestureID)
	}
}

func TestTracker_OneEventPerIDPerFrame(t *testing.T) {
	tr := newTracker()

	tr.advance(map[string]gesture.Detection{
		"fist": det("fist", 0.9),
		"palm": det("palm", 0.85),
	})

	// fist stays, palm drops, point appears: one event each
	events := tr.advance(map[string]gesture.Detection{
		"fist":  det("fist", 0.92),
		"point": det("point", 0.88),
	})

	if len(events) != 3 {
		t.Fatalf("len(events) = %d, want 3", len(events))
	}

	seen := map[string]Kind{}
	for _, ev := range events {
		if _, dup := seen[ev.GestureID]; dup {
			t.Fatalf("gesture %s got more than one event in a frame", ev.GestureID)
		}
		seen[ev.GestureID] = ev.Kind
	}

	if seen["fist"] != KindUpdated {
		t.Errorf("fist = %s, want updated", seen["fist"])
	}
	if seen["palm"] != KindEnded {
		t.Errorf("palm = %s, want ended", seen["palm"])
	}
	if seen["point"] != KindDetected {
		t.Errorf("point = %s, want detected", seen["point"])
	}
}

func TestTracker_Scenario(t *testing.T) {
	// Detected for 3 consecutive frames, then absent for 1: the subscriber
	// sequence is detected, updated, updated, ended.
	tr := newTracker()

	var all []Event
	for i := 0; i < 3; i++ {
		all = append(all, tr.advance(map[string]gesture.Detection{"victory": det("victory", 0.9)})...)
	}
	all = append(all, tr.advance(nil)...)

	got := kinds(all, "victory")
	want := []Kind{KindDetected, KindUpdated, KindUpdated, KindEnded}
	if len(got) != len(want) {
		t.Fatalf("event count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestTracker_EmptyFrames(t *testing.T) {
	tr := newTracker()

	if events := tr.advance(nil); len(events) != 0 {
		t.Errorf("empty frame on empty state produced events: %v", events)
	}
	if events := tr.advance(map[string]gesture.Detection{}); len(events) != 0 {
		t.Errorf("empty detection set produced events: %v", events)
	}
}
