// Package confirm gates irreversible actions behind two deliberate,
// sustained holds of the same gesture, rejecting transient
// misclassifications.
package confirm

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/recognition"
)

// Phase is the state of the in-progress hold session.
type Phase int

const (
	// PhaseIdle means no session exists.
	PhaseIdle Phase = iota
	// PhaseArming means the gesture is being held toward the arm threshold.
	PhaseArming
	// PhaseConfirming means the arm hold completed and the machine is
	// waiting for the confirming hold inside the window.
	PhaseConfirming
)

func (p Phase) String() string {
	switch p {
	case PhaseArming:
		return "arming"
	case PhaseConfirming:
		return "confirming"
	default:
		return "idle"
	}
}

// Default hold durations. All three are configuration values.
const (
	DefaultArmHold     = 3 * time.Second
	DefaultConfirmHold = 1 * time.Second
	DefaultWindow      = 5 * time.Second
)

// CriticalGesture binds a gesture id to the action it may fire. MinConfidence
// is intentionally stricter than the gesture's generic detection threshold.
type CriticalGesture struct {
	GestureID     string
	Action        string
	MinConfidence float64
}

// ActionFunc is the single side-effecting call a confirmed session triggers.
// It is invoked at most once per session, outside the machine's lock, and is
// never retried.
type ActionFunc func(sessionID, gestureID, action string)

// Config tunes a Machine.
type Config struct {
	Critical []CriticalGesture

	// ArmHold is how long the gesture must be held continuously before the
	// session arms. Zero means DefaultArmHold.
	ArmHold time.Duration

	// ConfirmHold is how long the gesture must be held continuously, after
	// arming, for the action to fire. Zero means DefaultConfirmHold.
	ConfirmHold time.Duration

	// Window bounds the confirming phase, measured from the moment the
	// session arms. Zero means DefaultWindow.
	Window time.Duration

	Fire ActionFunc
}

// session is the single in-flight hold. One exists process-wide per Machine.
type session struct {
	id        string
	gestureID string
	phase     Phase

	holdStart    time.Time
	confirmStart time.Time // zero while the gesture is released
	deadline     time.Time
	timer        *time.Timer
}

// Machine consumes lifecycle events for the configured critical gestures and
// fires each gesture's action at most once per confirmed session. Events
// arrive on the dispatch worker; the window deadline fires on a timer
// goroutine, so the session is guarded by the machine's own mutex.
type Machine struct {
	critical    map[string]CriticalGesture
	armHold     time.Duration
	confirmHold time.Duration
	window      time.Duration
	fire        ActionFunc

	mu  sync.Mutex
	cur *session
}

func New(cfg Config) *Machine {
	m := &Machine{
		critical:    make(map[string]CriticalGesture, len(cfg.Critical)),
		armHold:     cfg.ArmHold,
		confirmHold: cfg.ConfirmHold,
		window:      cfg.Window,
		fire:        cfg.Fire,
	}
	for _, cg := range cfg.Critical {
		m.critical[cg.GestureID] = cg
	}
	if m.armHold <= 0 {
		m.armHold = DefaultArmHold
	}
	if m.confirmHold <= 0 {
		m.confirmHold = DefaultConfirmHold
	}
	if m.window <= 0 {
		m.window = DefaultWindow
	}
	return m
}

// Attach subscribes the machine to every configured critical gesture on reg
// and returns the subscriptions so the caller can detach it later.
func (m *Machine) Attach(reg *recognition.Registry) []*recognition.Subscription {
	subs := make([]*recognition.Subscription, 0, len(m.critical))
	for id := range m.critical {
		if sub := reg.Subscribe(id, m.HandleEvent); sub != nil {
			subs = append(subs, sub)
		}
	}
	return subs
}

// State reports the current phase and, when a session exists, its gesture id.
func (m *Machine) State() (Phase, string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cur == nil {
		return PhaseIdle, ""
	}
	return m.cur.phase, m.cur.gestureID
}

// Reset cancels any in-flight session.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
}

// HandleEvent advances the machine on one lifecycle event. Non-critical
// gesture ids are ignored. When a transition fires the action, the action
// port is invoked after the lock is released.
func (m *Machine) HandleEvent(ev recognition.Event) {
	cg, ok := m.critical[ev.GestureID]
	if !ok {
		return
	}

	m.mu.Lock()
	fired := m.advanceLocked(ev, cg)
	m.mu.Unlock()

	if fired != nil && m.fire != nil {
		m.fire(fired.id, fired.gestureID, cg.Action)
	}
}

// advanceLocked applies one event and returns the session to fire for, if
// the event completed a confirmation.
func (m *Machine) advanceLocked(ev recognition.Event, cg CriticalGesture) *session {
	// No session: only a confident detected starts one.
	if m.cur == nil {
		if ev.Kind == recognition.KindDetected && ev.Detection != nil && ev.Detection.Confidence >= cg.MinConfidence {
			m.cur = &session{
				id:        uuid.NewString(),
				gestureID: ev.GestureID,
				phase:     PhaseArming,
				holdStart: ev.Detection.Timestamp,
			}
			log.Printf("confirm: arming %q (session %s)", ev.GestureID, m.cur.id)
		}
		return nil
	}

	// A different critical gesture: ignored while arming, cancels a
	// confirming session.
	if ev.GestureID != m.cur.gestureID {
		if m.cur.phase == PhaseConfirming && ev.Kind != recognition.KindEnded {
			log.Printf("confirm: %q cancelled by %q", m.cur.gestureID, ev.GestureID)
			m.clearLocked()
		}
		return nil
	}

	switch m.cur.phase {
	case PhaseArming:
		switch ev.Kind {
		case recognition.KindEnded:
			// Hold broken before arming.
			m.clearLocked()
		case recognition.KindUpdated:
			if ev.Detection != nil && ev.Detection.Timestamp.Sub(m.cur.holdStart) >= m.armHold {
				m.armLocked(ev.Detection.Timestamp)
			}
		}

	case PhaseConfirming:
		switch ev.Kind {
		case recognition.KindEnded:
			// Releasing resets confirm progress but keeps the window open.
			m.cur.confirmStart = time.Time{}
		case recognition.KindDetected, recognition.KindUpdated:
			if ev.Detection == nil {
				return nil
			}
			ts := ev.Detection.Timestamp
			if ts.After(m.cur.deadline) {
				// The timer will clear the session; don't count late holds.
				return nil
			}
			if m.cur.confirmStart.IsZero() {
				m.cur.confirmStart = ts
			}
			if ts.Sub(m.cur.confirmStart) >= m.confirmHold {
				fired := m.cur
				log.Printf("confirm: %q confirmed (session %s)", fired.gestureID, fired.id)
				m.clearLocked()
				return fired
			}
		}
	}
	return nil
}

// armLocked moves the session into the confirming phase and starts the
// window deadline timer.
func (m *Machine) armLocked(ts time.Time) {
	s := m.cur
	s.phase = PhaseConfirming
	s.confirmStart = ts
	s.deadline = ts.Add(m.window)

	id := s.id
	s.timer = time.AfterFunc(m.window, func() { m.expire(id) })
	log.Printf("confirm: %q armed, confirm within %s (session %s)", s.gestureID, m.window, id)
}

// expire cancels the session the timer was started for, unless it already
// resolved and a newer session took its place.
func (m *Machine) expire(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cur == nil || m.cur.id != sessionID {
		return
	}
	log.Printf("confirm: %q window elapsed, cancelled (session %s)", m.cur.gestureID, sessionID)
	m.clearLocked()
}

func (m *Machine) clearLocked() {
	if m.cur == nil {
		return
	}
	if m.cur.timer != nil {
		m.cur.timer.Stop()
	}
	m.cur = nil
}
