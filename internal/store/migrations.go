package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Events table - one row per gesture lifecycle event
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			gesture_id TEXT NOT NULL,
			kind TEXT NOT NULL CHECK(kind IN ('detected', 'updated', 'ended')),
			confidence REAL NOT NULL DEFAULT 0,
			hand_index INTEGER NOT NULL DEFAULT 0,
			occurred_at DATETIME NOT NULL
		)`,

		// Fired actions table - one row per confirmed hold session
		`CREATE TABLE IF NOT EXISTS fired_actions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			gesture_id TEXT NOT NULL,
			action TEXT NOT NULL,
			fired_at DATETIME NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_events_gesture_id ON events(gesture_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_occurred_at ON events(occurred_at)`,
		`CREATE INDEX IF NOT EXISTS idx_fired_actions_gesture_id ON fired_actions(gesture_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
