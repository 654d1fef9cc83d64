package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/academiplan/backend/core"
	"github.com/academiplan/backend/core/attendance"
	"github.com/academiplan/backend/core/subject"
)

type dbHistoryEntry struct {
	ID          string    `db:"id"`
	SubjectID   string    `db:"subject_id"`
	Status      string    `db:"status"`
	Timestamp   time.Time `db:"ts"`
	SubjectName string    `db:"subject_name"`
}

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

// AppendEvent moves the subject's counters with in-place deltas and inserts
// the ledger entry in the same transaction. The ownership filter doubles as
// the existence check: a foreign subject updates 0 rows, same as an absent one.
func (repo attendanceRepository) AppendEvent(ctx context.Context, userID string, ev attendance.Event) (attendance.Event, error) {
	if _, err := uuid.Parse(ev.SubjectID); err != nil {
		return attendance.Event{}, subject.ErrNotFound
	}

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return attendance.Event{}, errors.Wrap(err, "beginning append transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var attendedDelta int
	if ev.Status == attendance.StatusAttended {
		attendedDelta = 1
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE subjects
		 SET total_classes = total_classes + 1, attended_classes = attended_classes + $1
		 WHERE id = $2 AND user_id = $3`,
		attendedDelta, ev.SubjectID, userID,
	)
	if err != nil {
		return attendance.Event{}, errors.Wrap(err, "updating subject counters")
	}
	if n, err := res.RowsAffected(); err != nil {
		return attendance.Event{}, errors.Wrap(err, "updating subject counters")
	} else if n == 0 {
		return attendance.Event{}, subject.ErrNotFound
	}

	ev.ID = uuid.New().String()
	_, err = tx.ExecContext(ctx,
		"INSERT INTO attendance_events (id, subject_id, status, ts) VALUES ($1, $2, $3, $4)",
		ev.ID, ev.SubjectID, ev.Status, ev.Timestamp,
	)
	if err != nil {
		return attendance.Event{}, errors.Wrap(err, "inserting attendance event")
	}

	if err = tx.Commit(); err != nil {
		return attendance.Event{}, errors.Wrap(err, "committing append transaction")
	}
	return ev, nil
}

// UndoEvent deletes the ledger entry and applies the exact inverse delta in
// the same transaction. A second undo of the same ID deletes 0 rows and is
// rejected, as is an event reachable only through another user's subject.
func (repo attendanceRepository) UndoEvent(ctx context.Context, userID, eventID string) error {
	if _, err := uuid.Parse(eventID); err != nil {
		return attendance.ErrEventNotFound
	}

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning undo transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var deleted struct {
		SubjectID string `db:"subject_id"`
		Status    string `db:"status"`
	}
	err = tx.QueryRowxContext(ctx,
		`DELETE FROM attendance_events e
		 USING subjects s
		 WHERE e.id = $1 AND e.subject_id = s.id AND s.user_id = $2
		 RETURNING e.subject_id, e.status`,
		eventID, userID,
	).StructScan(&deleted)
	if err != nil {
		return trapNoRowsErr(err, attendance.ErrEventNotFound, "deleting attendance event")
	}

	var attendedDelta int
	if deleted.Status == attendance.StatusAttended {
		attendedDelta = 1
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE subjects
		 SET total_classes = total_classes - 1, attended_classes = attended_classes - $1
		 WHERE id = $2`,
		attendedDelta, deleted.SubjectID,
	)
	if err != nil {
		return errors.Wrap(err, "reversing subject counters")
	}

	return errors.Wrap(tx.Commit(), "committing undo transaction")
}

// history lists newest first; id breaks same-timestamp ties
var historyOrdering = core.DBOrdering{Field: "e.ts"}

func (repo attendanceRepository) QueryHistory(ctx context.Context, userID string, limit int) ([]attendance.HistoryEntry, error) {
	var rows []dbHistoryEntry
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT e.id, e.subject_id, e.status, e.ts, s.name AS subject_name
		 FROM attendance_events e
		 JOIN subjects s ON s.id = e.subject_id
		 WHERE s.user_id = $1
		 ORDER BY `+historyOrdering.String()+`, e.id
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance history")
	}

	entries := make([]attendance.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, attendance.HistoryEntry{
			Event: attendance.Event{
				ID:        row.ID,
				SubjectID: row.SubjectID,
				Status:    row.Status,
				Timestamp: row.Timestamp,
			},
			SubjectName: row.SubjectName,
		})
	}
	return entries, nil
}
