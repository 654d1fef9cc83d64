package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/academiplan/backend/core"
)

// Attendance statuses. The ledger records exactly one of these per event.
const (
	StatusAttended = "attended"
	StatusBunked   = "bunked"
)

// Event is one append-only ledger entry recording a single attendance
// decision. The ledger is the sole authoritative record of history; Subject
// counters are a materialized aggregate of it.
type Event struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subjectId"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"` // UTC
}

// HistoryEntry is an Event annotated with its Subject's current name.
// The name is joined at read time, not denormalized into storage.
type HistoryEntry struct {
	Event
	SubjectName string `json:"subjectName"`
}

// MarkAttendance contains information needed to record an attendance decision.
type MarkAttendance struct {
	SubjectID string `json:"subjectId" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=attended bunked"`
}

func (ma *MarkAttendance) Validate(validate *validator.Validate) error {
	ma.SubjectID = core.CleanString(ma.SubjectID)
	ma.Status = core.CleanString(ma.Status, true /* lower */)
	return validate.Struct(ma)
}
