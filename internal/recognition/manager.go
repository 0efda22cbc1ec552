package recognition

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/capture"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/detector"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/gesture"
)

// ErrAlreadyRunning is returned by Start when a capture loop already owns the
// camera. The running loop is unaffected.
var ErrAlreadyRunning = errors.New("recognition loop already running")

// ErrCameraUnavailable is returned by Start when the camera cannot be opened.
var ErrCameraUnavailable = errors.New("camera unavailable")

// DefaultStopTimeout bounds how long Stop waits for the worker to finish the
// current frame's fan-out before giving up.
const DefaultStopTimeout = 2 * time.Second

// Config holds the collaborators and tuning for a Manager.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector
	Catalog  *gesture.Catalog

	// Interval is the minimum time between processed frames, decoupling the
	// processing rate from the camera's native rate. Zero means 30 Hz.
	Interval time.Duration

	// StopTimeout bounds Stop's wait for the worker. Zero means
	// DefaultStopTimeout.
	StopTimeout time.Duration
}

// Manager owns the camera exclusively and runs the single background worker
// that paces capture, scores gestures, tracks lifecycle transitions, and fans
// events out through its Registry.
type Manager struct {
	camera      capture.Camera
	detector    detector.Detector
	matcher     *gesture.Matcher
	registry    *Registry
	interval    time.Duration
	stopTimeout time.Duration

	// runMu guards loop ownership: stopCh is non-nil exactly while a worker
	// is running.
	runMu  sync.Mutex
	stopCh chan struct{}
	doneCh chan struct{}

	// activeMu guards the active-gesture view published to query methods.
	activeMu   sync.RWMutex
	active     map[string]gesture.Detection
	confidence map[string]float64

	// frameMu guards the most recently captured frame kept for rendering.
	frameMu sync.Mutex
	latest  *gocv.Mat
}

// New creates a Manager. It does not touch the camera; Start does.
func New(cfg Config) *Manager {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Second / 30
	}
	stopTimeout := cfg.StopTimeout
	if stopTimeout <= 0 {
		stopTimeout = DefaultStopTimeout
	}

	return &Manager{
		camera:      cfg.Camera,
		detector:    cfg.Detector,
		matcher:     gesture.NewMatcher(cfg.Catalog),
		registry:    NewRegistry(),
		interval:    interval,
		stopTimeout: stopTimeout,
		active:      make(map[string]gesture.Detection),
		confidence:  make(map[string]float64),
	}
}

// Registry returns the subscription registry for this manager.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Start opens the camera and spawns the background worker. It fails with
// ErrAlreadyRunning if a loop is active and with a wrapped
// ErrCameraUnavailable if the camera cannot be opened.
func (m *Manager) Start() error {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	if m.stopCh != nil {
		return ErrAlreadyRunning
	}

	if err := m.camera.Open(); err != nil {
		return fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
	}

	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})
	go m.run(m.stopCh, m.doneCh)

	log.Println("recognition: capture loop started")
	return nil
}

// Stop signals the worker to exit and waits, up to the configured timeout,
// for the current frame's fan-out to finish. Safe to call repeatedly; a Stop
// with no loop running is a no-op.
func (m *Manager) Stop() error {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	if m.stopCh == nil {
		return nil
	}

	close(m.stopCh)

	var err error
	select {
	case <-m.doneCh:
	case <-time.After(m.stopTimeout):
		err = errors.New("timed out waiting for capture loop to exit")
	}

	m.stopCh = nil
	m.doneCh = nil

	if cerr := m.camera.Close(); cerr != nil {
		log.Printf("recognition: error closing camera: %v", cerr)
	}
	if m.detector != nil {
		if derr := m.detector.Close(); derr != nil {
			log.Printf("recognition: error closing detector: %v", derr)
		}
	}

	log.Println("recognition: capture loop stopped")
	return err
}

// run is the capture and dispatch loop. Exactly one worker exists at a time
// and iterations never overlap.
func (m *Manager) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	tr := newTracker()
	var last time.Time

	for {
		select {
		case <-stop:
			return
		default:
		}

		// Pace: sleep out the remainder of the frame interval.
		if !last.IsZero() {
			if wait := m.interval - time.Since(last); wait > 0 {
				select {
				case <-stop:
					return
				case <-time.After(wait):
				}
			}
		}
		last = time.Now()

		// A failed read is a transient condition: skip the iteration, emit
		// nothing, keep running. Only Stop ends processing.
		frame, err := m.camera.ReadFrame()
		if err != nil {
			continue
		}

		hands, err := m.detector.Detect(frame)
		m.storeLatest(frame)
		if err != nil {
			// An unreadable detection is "no detection", never a default
			// gesture; the tracker will end anything previously active.
			hands = nil
		}

		detections := m.matcher.Evaluate(hands, time.Now())
		events := tr.advance(detections)
		m.publishActive(tr.snapshot())

		for _, ev := range events {
			m.registry.Dispatch(ev)
		}
	}
}

// storeLatest takes ownership of frame, replacing the previous latest frame.
func (m *Manager) storeLatest(frame *gocv.Mat) {
	m.frameMu.Lock()
	defer m.frameMu.Unlock()

	if m.latest != nil {
		m.latest.Close()
	}
	m.latest = frame
}

// LatestFrame returns a clone of the most recently captured frame without
// blocking the loop. The second return is false before the first capture.
// The caller owns the returned Mat and must close it.
func (m *Manager) LatestFrame() (gocv.Mat, bool) {
	m.frameMu.Lock()
	defer m.frameMu.Unlock()

	if m.latest == nil {
		return gocv.Mat{}, false
	}
	return m.latest.Clone(), true
}

func (m *Manager) publishActive(active map[string]gesture.Detection) {
	m.activeMu.Lock()
	defer m.activeMu.Unlock()

	m.active = active
	for id, d := range active {
		m.confidence[id] = d.Confidence
	}
}

// ActiveGesture returns the current detection for a gesture id. The id is
// present iff it was detected at or above threshold in the most recently
// processed frame.
func (m *Manager) ActiveGesture(id string) (gesture.Detection, bool) {
	m.activeMu.RLock()
	defer m.activeMu.RUnlock()

	d, ok := m.active[id]
	return d, ok
}

// ActiveGestures returns a snapshot of all currently active gestures.
func (m *Manager) ActiveGestures() map[string]gesture.Detection {
	m.activeMu.RLock()
	defer m.activeMu.RUnlock()

	out := make(map[string]gesture.Detection, len(m.active))
	for id, d := range m.active {
		out[id] = d
	}
	return out
}

// Confidence returns the most recent confidence observed for a gesture id,
// zero if it has never been detected.
func (m *Manager) Confidence(id string) float64 {
	m.activeMu.RLock()
	defer m.activeMu.RUnlock()

	return m.confidence[id]
}

// CameraStatus reports the camera's connection state and geometry.
func (m *Manager) CameraStatus() capture.Status {
	return m.camera.Status()
}
