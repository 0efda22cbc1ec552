// Package app wires the recognition pipeline together: camera, detector,
// catalog, event history, and the hold-and-confirm action gate.
package app

import (
	"log"
	"runtime"

	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/action"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/capture"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/config"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/confirm"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/detector"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/gesture"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/recognition"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/store"
)

// CriticalMinConfidence is the entry threshold for hold-and-confirm
// sessions. It is stricter than the generic detection thresholds.
const CriticalMinConfidence = 0.95

// Config holds the application's collaborators. Camera and Detector may be
// left nil to use the real camera and the best available detector.
type Config struct {
	Settings config.Config
	Catalog  *gesture.Catalog
	Store    *store.Store
	Camera   capture.Camera
	Detector detector.Detector
}

// App owns the process-wide recognition manager and the pieces around it.
type App struct {
	settings config.Config
	catalog  *gesture.Catalog
	store    *store.Store
	manager  *recognition.Manager
	machine  *confirm.Machine
	runner   *action.Runner
}

// New assembles an App. It does not open the camera; Start does.
func New(cfg Config) *App {
	camera := cfg.Camera
	if camera == nil {
		camera = capture.NewCamera(cfg.Settings.CameraID, cfg.Settings.CameraWidth, cfg.Settings.CameraHeight, cfg.Settings.TargetFPS)
	}

	det := cfg.Detector
	if det == nil {
		// Try MediaPipe first, fall back to the mock detector
		if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
			det = mp
			log.Println("Using MediaPipe hand detection")
		} else {
			log.Printf("MediaPipe not available (%v), using mock detector", err)
			det = detector.NewMockDetector()
		}
	}

	a := &App{
		settings: cfg.Settings,
		catalog:  cfg.Catalog,
		store:    cfg.Store,
		runner:   action.NewRunner(cfg.Settings.ActionTimeout),
	}

	a.manager = recognition.Shared(recognition.Config{
		Camera:   camera,
		Detector: det,
		Catalog:  cfg.Catalog,
		Interval: cfg.Settings.FrameInterval(),
	})

	a.registerActionCommands()

	a.machine = confirm.New(confirm.Config{
		Critical:    a.criticalGestures(),
		ArmHold:     cfg.Settings.HoldArm,
		ConfirmHold: cfg.Settings.HoldConfirm,
		Window:      cfg.Settings.HoldWindow,
		Fire:        a.fire,
	})
	a.machine.Attach(a.manager.Registry())

	if a.store != nil {
		a.SubscribeAll(a.recordEvent)
	}

	return a
}

// criticalGestures maps the irreversible actions to the gestures gating
// them. Only the closed fist is critical out of the box.
func (a *App) criticalGestures() []confirm.CriticalGesture {
	return []confirm.CriticalGesture{
		{GestureID: "fist", Action: "system-shutdown", MinConfidence: CriticalMinConfidence},
	}
}

// registerActionCommands binds action tags to the platform's commands.
func (a *App) registerActionCommands() {
	var shutdown, lock []string
	switch runtime.GOOS {
	case "darwin":
		shutdown = []string{"osascript", "-e", `tell app "System Events" to shut down`}
		lock = []string{"pmset", "displaysleepnow"}
	case "windows":
		shutdown = []string{"shutdown", "/s", "/t", "0"}
		lock = []string{"rundll32.exe", "user32.dll,LockWorkStation"}
	default:
		shutdown = []string{"systemctl", "poweroff"}
		lock = []string{"loginctl", "lock-session"}
	}

	if err := a.runner.Register("system-shutdown", shutdown...); err != nil {
		log.Printf("Failed to register shutdown action: %v", err)
	}
	if err := a.runner.Register("lock-screen", lock...); err != nil {
		log.Printf("Failed to register lock action: %v", err)
	}
}

// fire is the action port handed to the confirm machine. It records the
// firing and launches the bound command.
func (a *App) fire(sessionID, gestureID, actionTag string) {
	if a.store != nil {
		rec := &store.FiredAction{SessionID: sessionID, GestureID: gestureID, Action: actionTag}
		if err := a.store.FiredActions().Record(rec); err != nil {
			log.Printf("Failed to record fired action: %v", err)
		}
	}
	a.runner.Fire(sessionID, gestureID, actionTag)
}

// recordEvent appends one lifecycle event to the history. It runs on the
// dispatch worker, so failures are logged, never propagated.
func (a *App) recordEvent(ev recognition.Event) {
	rec := &store.EventRecord{
		GestureID: ev.GestureID,
		Kind:      string(ev.Kind),
	}
	if ev.Detection != nil {
		rec.Confidence = ev.Detection.Confidence
		rec.HandIndex = ev.Detection.HandIndex
		rec.OccurredAt = ev.Detection.Timestamp
	}
	if err := a.store.Events().Record(rec); err != nil {
		log.Printf("Failed to record %s event for %s: %v", ev.Kind, ev.GestureID, err)
	}
}

// SubscribeAll registers the handler for every gesture currently in the
// catalog and returns the subscriptions.
func (a *App) SubscribeAll(h recognition.Handler) []*recognition.Subscription {
	defs := a.catalog.Definitions()
	subs := make([]*recognition.Subscription, 0, len(defs))
	for _, def := range defs {
		if sub := a.manager.Registry().Subscribe(def.ID, h); sub != nil {
			subs = append(subs, sub)
		}
	}
	return subs
}

// Start opens the camera and begins processing frames.
func (a *App) Start() error {
	return a.manager.Start()
}

// Stop halts the recognition loop and releases the camera.
func (a *App) Stop() error {
	a.machine.Reset()
	return a.manager.Stop()
}

// SetEnabled starts or stops the pipeline; used by the tray toggle.
func (a *App) SetEnabled(enabled bool) {
	if enabled {
		if err := a.Start(); err != nil {
			log.Printf("Failed to start recognition: %v", err)
		}
		return
	}
	if err := a.Stop(); err != nil {
		log.Printf("Failed to stop recognition: %v", err)
	}
}

// Close stops the pipeline and releases the process-wide manager handle.
func (a *App) Close() error {
	a.machine.Reset()
	return recognition.ReleaseShared()
}

// Manager returns the recognition manager.
func (a *App) Manager() *recognition.Manager {
	return a.manager
}

// Machine returns the hold-and-confirm machine.
func (a *App) Machine() *confirm.Machine {
	return a.machine
}

// Catalog returns the gesture catalog.
func (a *App) Catalog() *gesture.Catalog {
	return a.catalog
}
