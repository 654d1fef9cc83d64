package database

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type migration struct {
	version int
	up      string
}

var migrations = []migration{
	{version: 1, up: migration001Up},
}

const migration001Up = `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL DEFAULT '',
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    password_hash BYTEA NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    last_login TIMESTAMP WITH TIME ZONE
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email) WHERE email <> '';

CREATE TABLE IF NOT EXISTS subjects (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    total_classes INTEGER NOT NULL DEFAULT 0,
    attended_classes INTEGER NOT NULL DEFAULT 0,
    min_attendance INTEGER NOT NULL DEFAULT 75,
    strictness TEXT NOT NULL DEFAULT 'moderate',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    -- counters are a materialized aggregate of the ledger; keep them sane
    CONSTRAINT valid_total CHECK (total_classes >= 0),
    CONSTRAINT valid_attended CHECK (attended_classes >= 0 AND attended_classes <= total_classes),
    CONSTRAINT valid_min_attendance CHECK (min_attendance >= 0 AND min_attendance <= 100)
);

CREATE INDEX IF NOT EXISTS idx_subjects_user_created ON subjects(user_id, created_at);

CREATE TABLE IF NOT EXISTS attendance_events (
    id UUID PRIMARY KEY,
    subject_id UUID NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
    status TEXT NOT NULL,
    ts TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_status CHECK (status IN ('attended', 'bunked'))
);

CREATE INDEX IF NOT EXISTS idx_attendance_events_subject_ts ON attendance_events(subject_id, ts DESC);
`

// Migrate applies the pending embedded migrations, each in its own transaction.
func Migrate(db *sqlx.DB) error {
	if _, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`,
	); err != nil {
		return errors.Wrap(err, "creating schema_migrations")
	}

	var current int
	if err := db.Get(&current, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations"); err != nil {
		return errors.Wrap(err, "reading schema version")
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Beginx()
		if err != nil {
			return errors.Wrapf(err, "beginning migration %03d", m.version)
		}
		if _, err = tx.Exec(m.up); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "applying migration %03d", m.version)
		}
		if _, err = tx.Exec("INSERT INTO schema_migrations (version) VALUES ($1)", m.version); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "recording migration %03d", m.version)
		}
		if err = tx.Commit(); err != nil {
			return errors.Wrapf(err, "committing migration %03d", m.version)
		}
	}
	return nil
}
