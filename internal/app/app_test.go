package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/capture"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/config"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/detector"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/gesture"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/recognition"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/store"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	t.Cleanup(func() { recognition.ReleaseShared() })

	dir := t.TempDir()
	catalog := gesture.LoadCatalog(filepath.Join(dir, "gestures.json"))
	st, err := store.New(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return New(Config{
		Settings: config.Config{TargetFPS: 30, ActionTimeout: time.Second},
		Catalog:  catalog,
		Store:    st,
		Camera:   capture.NewMockCamera(nil, false),
		Detector: detector.NewMockDetector(),
	})
}

func TestApp_RecordEventPersistsHistory(t *testing.T) {
	a := newTestApp(t)

	det := &gesture.Detection{GestureID: "victory", Confidence: 0.88, Timestamp: time.Now()}
	a.recordEvent(recognition.Event{Kind: recognition.KindDetected, GestureID: "victory", Detection: det})
	a.recordEvent(recognition.Event{Kind: recognition.KindEnded, GestureID: "victory"})

	events, err := a.store.Events().ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("recorded %d events, want 2", len(events))
	}
	if events[1].Kind != "detected" || events[1].Confidence != 0.88 {
		t.Errorf("first event = %s conf %f, want detected 0.88", events[1].Kind, events[1].Confidence)
	}
	if events[0].Kind != "ended" || events[0].Confidence != 0 {
		t.Errorf("second event = %s conf %f, want ended 0", events[0].Kind, events[0].Confidence)
	}
}

func TestApp_FireRecordsAction(t *testing.T) {
	a := newTestApp(t)

	// "unbound" is not a registered command, so nothing launches, but the
	// firing is still persisted.
	a.fire("session-1", "fist", "unbound")

	actions, err := a.store.FiredActions().ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent error = %v", err)
	}
	if len(actions) != 1 {
		t.Fatalf("recorded %d fired actions, want 1", len(actions))
	}
	if actions[0].SessionID != "session-1" || actions[0].GestureID != "fist" {
		t.Errorf("recorded %+v, want session-1/fist", actions[0])
	}
}

func TestApp_SubscribeAllCoversCatalog(t *testing.T) {
	a := newTestApp(t)

	subs := a.SubscribeAll(func(recognition.Event) {})
	if len(subs) != len(a.catalog.Definitions()) {
		t.Errorf("SubscribeAll registered %d subscriptions, want %d", len(subs), len(a.catalog.Definitions()))
	}
}

func TestApp_StartStop(t *testing.T) {
	a := newTestApp(t)

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := a.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	// Toggle path never panics on repeat
	a.SetEnabled(true)
	a.SetEnabled(false)

	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}
