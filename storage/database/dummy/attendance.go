package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/academiplan/backend/core/attendance"
	"github.com/academiplan/backend/core/subject"
)

type attendanceRepository struct {
	db *DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) AppendEvent(ctx context.Context, userID string, ev attendance.Event) (attendance.Event, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	sub, ok := repo.db.subjects[ev.SubjectID]
	if !ok || sub.UserID != userID {
		return attendance.Event{}, subject.ErrNotFound
	}

	sub.TotalClasses++
	if ev.Status == attendance.StatusAttended {
		sub.AttendedClasses++
	}

	ev.ID = uuid.New().String()
	repo.db.events[ev.ID] = &ev
	return ev, nil
}

func (repo *attendanceRepository) UndoEvent(ctx context.Context, userID, eventID string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	ev, ok := repo.db.events[eventID]
	if !ok {
		return attendance.ErrEventNotFound
	}
	sub, ok := repo.db.subjects[ev.SubjectID]
	if !ok || sub.UserID != userID {
		return attendance.ErrEventNotFound
	}

	sub.TotalClasses--
	if ev.Status == attendance.StatusAttended {
		sub.AttendedClasses--
	}
	delete(repo.db.events, eventID)
	return nil
}

func (repo *attendanceRepository) QueryHistory(ctx context.Context, userID string, limit int) ([]attendance.HistoryEntry, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	entries := make([]attendance.HistoryEntry, 0)
	for _, ev := range repo.db.events {
		sub, ok := repo.db.subjects[ev.SubjectID]
		if !ok || sub.UserID != userID {
			continue
		}
		entries = append(entries, attendance.HistoryEntry{Event: *ev, SubjectName: sub.Name})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
