package attendance

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrEventNotFound covers a nonexistent event, one owned by another user,
// and one that has already been undone; the three are indistinguishable.
var ErrEventNotFound = errors.New("attendance event not found")

// DefaultHistoryLimit caps how many ledger entries a history read returns.
const DefaultHistoryLimit = 50

type (
	// Repository owns the ledger and the counter projection. The counter
	// delta and the ledger insert/delete of each call form one atomic unit:
	// a partial outcome must never be observable by any reader. Deltas are
	// applied in place against the stored counters, never computed from a
	// separately fetched value.
	Repository interface {
		// AppendEvent increments the owning subject's counters
		// (totalClasses +1; attendedClasses +1 iff status is attended)
		// and inserts the ledger entry. Returns subject.ErrNotFound when
		// the subject does not exist or belongs to another user.
		AppendEvent(ctx context.Context, userID string, ev Event) (Event, error)
		// UndoEvent deletes the ledger entry and applies the exact inverse
		// delta to the owning subject. Returns ErrEventNotFound when the
		// event does not exist, was already undone, or belongs to another
		// user.
		UndoEvent(ctx context.Context, userID, eventID string) error
		// QueryHistory returns up to limit entries, most recent first,
		// each annotated with the owning subject's current name.
		QueryHistory(ctx context.Context, userID string, limit int) ([]HistoryEntry, error)
	}

	ServiceInterface interface {
		Mark(ctx context.Context, userID string, ma MarkAttendance) (Event, error)
		Undo(ctx context.Context, userID, eventID string) error
		History(ctx context.Context, userID string) ([]HistoryEntry, error)
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Mark appends an attendance decision to the ledger and moves the subject's
// counters in the same transaction.
func (svc *Service) Mark(ctx context.Context, userID string, ma MarkAttendance) (Event, error) {
	ev := Event{
		SubjectID: ma.SubjectID,
		Status:    ma.Status,
		Timestamp: time.Now().UTC(),
	}
	return svc.repo.AppendEvent(ctx, userID, ev)
}

// Undo reverses one ledger entry's effect on its subject's counters and
// removes the entry. Undoing the same event twice fails with ErrEventNotFound.
func (svc *Service) Undo(ctx context.Context, userID, eventID string) error {
	return svc.repo.UndoEvent(ctx, userID, eventID)
}

func (svc *Service) History(ctx context.Context, userID string) ([]HistoryEntry, error) {
	return svc.repo.QueryHistory(ctx, userID, DefaultHistoryLimit)
}
