package gesture

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/detector"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	return LoadCatalog(filepath.Join(t.TempDir(), "gestures.json"))
}

func TestConfidence(t *testing.T) {
	fistDef, _ := testCatalog(t).Get("fist")

	fist := detector.FistLandmarks()
	if conf := Confidence(&fist, fistDef); conf < 0.90 {
		t.Errorf("fist confidence = %f, want >= 0.90", conf)
	}

	neutral := detector.NeutralLandmarks()
	if conf := Confidence(&neutral, fistDef); conf >= 0.90 {
		t.Errorf("neutral confidence = %f, want < 0.90", conf)
	}
}

func TestMatcher_Evaluate(t *testing.T) {
	m := NewMatcher(testCatalog(t))
	now := time.Now()

	hands := []detector.HandLandmarks{detector.VictoryLandmarks()}
	detections := m.Evaluate(hands, now)

	d, ok := detections["victory"]
	if !ok {
		t.Fatalf("expected victory detection, got %v", detections)
	}
	if d.Confidence < 0.85 {
		t.Errorf("confidence = %f, want >= 0.85", d.Confidence)
	}
	if d.HandIndex != 0 {
		t.Errorf("hand index = %d, want 0", d.HandIndex)
	}
	if !d.Timestamp.Equal(now) {
		t.Errorf("timestamp = %v, want %v", d.Timestamp, now)
	}

	// A pose below every threshold produces no detections
	if got := m.Evaluate([]detector.HandLandmarks{detector.NeutralLandmarks()}, now); got != nil {
		t.Errorf("neutral pose produced detections: %v", got)
	}

	if got := m.Evaluate(nil, now); got != nil {
		t.Errorf("no hands produced detections: %v", got)
	}
}

func TestMatcher_BestOfTwoHands(t *testing.T) {
	m := NewMatcher(testCatalog(t))

	strong := detector.PinchLandmarks()
	weak := detector.PinchLandmarks()
	// Nudge the second hand's pinch apart so it scores lower but still passes
	weak.Points[detector.IndexTip].X = weak.Points[detector.ThumbTip].X + 0.012

	detections := m.Evaluate([]detector.HandLandmarks{weak, strong}, time.Now())

	d, ok := detections["pinch"]
	if !ok {
		t.Fatal("expected pinch detection")
	}
	// Only the higher-confidence hand is retained for the id
	if d.HandIndex != 1 {
		t.Errorf("hand index = %d, want 1 (stronger hand)", d.HandIndex)
	}
}

func TestMatcher_TwoGesturesOneFrame(t *testing.T) {
	// Two different ids over threshold in the same frame are both emitted.
	m := NewMatcher(testCatalog(t))

	hands := []detector.HandLandmarks{
		detector.FistLandmarks(),
		detector.OpenPalmLandmarks(),
	}
	detections := m.Evaluate(hands, time.Now())

	if _, ok := detections["fist"]; !ok {
		t.Error("expected fist detection")
	}
	if _, ok := detections["palm"]; !ok {
		t.Error("expected palm detection")
	}
}
