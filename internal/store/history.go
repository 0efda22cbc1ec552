package store

import (
	"database/sql"
	"time"
)

// EventRecord is one persisted gesture lifecycle event.
type EventRecord struct {
	ID         int64
	GestureID  string
	Kind       string
	Confidence float64
	HandIndex  int
	OccurredAt time.Time
}

// EventRepository provides access to the event history.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Record inserts an event into the history.
func (r *EventRepository) Record(e *EventRecord) error {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	res, err := r.db.Exec(
		`INSERT INTO events (gesture_id, kind, confidence, hand_index, occurred_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.GestureID, e.Kind, e.Confidence, e.HandIndex, e.OccurredAt,
	)
	if err != nil {
		return err
	}

	e.ID, err = res.LastInsertId()
	return err
}

// ListRecent returns up to limit events, newest first.
func (r *EventRepository) ListRecent(limit int) ([]*EventRecord, error) {
	rows, err := r.db.Query(
		`SELECT id, gesture_id, kind, confidence, hand_index, occurred_at
		 FROM events ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListByGesture returns up to limit events for one gesture id, newest first.
func (r *EventRepository) ListByGesture(gestureID string, limit int) ([]*EventRecord, error) {
	rows, err := r.db.Query(
		`SELECT id, gesture_id, kind, confidence, hand_index, occurred_at
		 FROM events WHERE gesture_id = ? ORDER BY id DESC LIMIT ?`,
		gestureID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// Prune deletes events older than the cutoff and returns how many were removed.
func (r *EventRepository) Prune(olderThan time.Time) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM events WHERE occurred_at < ?`, olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanEvents(rows *sql.Rows) ([]*EventRecord, error) {
	var events []*EventRecord
	for rows.Next() {
		e := &EventRecord{}
		if err := rows.Scan(&e.ID, &e.GestureID, &e.Kind, &e.Confidence, &e.HandIndex, &e.OccurredAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// FiredAction is one persisted confirmed-session firing.
type FiredAction struct {
	ID        int64
	SessionID string
	GestureID string
	Action    string
	FiredAt   time.Time
}

// FiredActionRepository provides access to the fired-action history.
type FiredActionRepository struct {
	db *sql.DB
}

// FiredActions returns the fired-action repository for this store.
func (s *Store) FiredActions() *FiredActionRepository {
	return &FiredActionRepository{db: s.db}
}

// Record inserts a fired action. The session id is unique, so recording the
// same session twice is an error.
func (r *FiredActionRepository) Record(a *FiredAction) error {
	if a.FiredAt.IsZero() {
		a.FiredAt = time.Now()
	}

	res, err := r.db.Exec(
		`INSERT INTO fired_actions (session_id, gesture_id, action, fired_at)
		 VALUES (?, ?, ?, ?)`,
		a.SessionID, a.GestureID, a.Action, a.FiredAt,
	)
	if err != nil {
		return err
	}

	a.ID, err = res.LastInsertId()
	return err
}

// ListRecent returns up to limit fired actions, newest first.
func (r *FiredActionRepository) ListRecent(limit int) ([]*FiredAction, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, gesture_id, action, fired_at
		 FROM fired_actions ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []*FiredAction
	for rows.Next() {
		a := &FiredAction{}
		if err := rows.Scan(&a.ID, &a.SessionID, &a.GestureID, &a.Action, &a.FiredAt); err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}
