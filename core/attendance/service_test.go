package attendance_test

import (
	"context"
	"testing"

	"github.com/academiplan/backend/core/attendance"
	"github.com/academiplan/backend/core/subject"
	dummydb "github.com/academiplan/backend/storage/database/dummy"
)

func setup(t *testing.T) (*attendance.Service, *subject.Service) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup(): %v", err)
	}
	attSvc := attendance.NewService(dummydb.NewAttendanceRepository(db))
	subSvc := subject.NewService(dummydb.NewSubjectRepository(db))
	return attSvc, subSvc
}

func createSubject(t *testing.T, svc *subject.Service, userID, name string, total, attended int) subject.ProjectedSubject {
	sub, err := svc.Create(context.Background(), userID, subject.NewSubject{
		Name:            name,
		TotalClasses:    &total,
		AttendedClasses: &attended,
	})
	if err != nil {
		t.Fatalf("createSubject(): %v", err)
	}
	return sub
}

func getCounters(t *testing.T, svc *subject.Service, userID, id string) (total, attended int) {
	sub, err := svc.GetByID(context.Background(), userID, id)
	if err != nil {
		t.Fatalf("getCounters(): %v", err)
	}
	return sub.TotalClasses, sub.AttendedClasses
}

func TestService_Mark(t *testing.T) {
	attSvc, subSvc := setup(t)
	ctx := context.Background()

	sub := createSubject(t, subSvc, "usr1", "Math", 10, 8)
	foreign := createSubject(t, subSvc, "usr2", "Biology", 4, 4)

	ev, err := attSvc.Mark(ctx, "usr1", attendance.MarkAttendance{SubjectID: sub.ID, Status: attendance.StatusAttended})
	if err != nil {
		t.Fatalf("Mark(attended): %v", err)
	}
	if ev.ID == "" {
		t.Error("Mark() returned empty event ID")
	}
	if ev.Timestamp.IsZero() {
		t.Error("Mark() returned zero timestamp")
	}
	if total, attended := getCounters(t, subSvc, "usr1", sub.ID); total != 11 || attended != 9 {
		t.Errorf("counters after attended = (%d, %d), want (11, 9)", total, attended)
	}

	if _, err = attSvc.Mark(ctx, "usr1", attendance.MarkAttendance{SubjectID: sub.ID, Status: attendance.StatusBunked}); err != nil {
		t.Fatalf("Mark(bunked): %v", err)
	}
	if total, attended := getCounters(t, subSvc, "usr1", sub.ID); total != 12 || attended != 9 {
		t.Errorf("counters after bunked = (%d, %d), want (12, 9)", total, attended)
	}

	// unknown and foreign subjects are indistinguishable
	if _, err = attSvc.Mark(ctx, "usr1", attendance.MarkAttendance{SubjectID: foreign.ID, Status: attendance.StatusAttended}); err != subject.ErrNotFound {
		t.Errorf("Mark(foreign) error = %v, want %v", err, subject.ErrNotFound)
	}
	if _, err = attSvc.Mark(ctx, "usr1", attendance.MarkAttendance{SubjectID: "8ddee55a-b859-4971-8814-7414fe7a7ba4", Status: attendance.StatusAttended}); err != subject.ErrNotFound {
		t.Errorf("Mark(unknown) error = %v, want %v", err, subject.ErrNotFound)
	}
	if total, attended := getCounters(t, subSvc, "usr2", foreign.ID); total != 4 || attended != 4 {
		t.Errorf("foreign counters moved = (%d, %d), want (4, 4)", total, attended)
	}
}

func TestService_Undo(t *testing.T) {
	attSvc, subSvc := setup(t)
	ctx := context.Background()

	sub := createSubject(t, subSvc, "usr1", "Math", 10, 8)

	attended, err := attSvc.Mark(ctx, "usr1", attendance.MarkAttendance{SubjectID: sub.ID, Status: attendance.StatusAttended})
	if err != nil {
		t.Fatalf("Mark(): %v", err)
	}
	bunked, err := attSvc.Mark(ctx, "usr1", attendance.MarkAttendance{SubjectID: sub.ID, Status: attendance.StatusBunked})
	if err != nil {
		t.Fatalf("Mark(): %v", err)
	}

	// undo the bunk: total goes back down, attended untouched
	if err = attSvc.Undo(ctx, "usr1", bunked.ID); err != nil {
		t.Fatalf("Undo(bunked): %v", err)
	}
	if total, att := getCounters(t, subSvc, "usr1", sub.ID); total != 11 || att != 9 {
		t.Errorf("counters after undo bunked = (%d, %d), want (11, 9)", total, att)
	}

	// undo the attendance: both counters restored
	if err = attSvc.Undo(ctx, "usr1", attended.ID); err != nil {
		t.Fatalf("Undo(attended): %v", err)
	}
	if total, att := getCounters(t, subSvc, "usr1", sub.ID); total != 10 || att != 8 {
		t.Errorf("counters after undo attended = (%d, %d), want (10, 8)", total, att)
	}

	// an undone event is gone for good
	if err = attSvc.Undo(ctx, "usr1", attended.ID); err != attendance.ErrEventNotFound {
		t.Errorf("Undo(twice) error = %v, want %v", err, attendance.ErrEventNotFound)
	}
}

func TestService_Undo_tenantIsolation(t *testing.T) {
	attSvc, subSvc := setup(t)
	ctx := context.Background()

	sub := createSubject(t, subSvc, "usr1", "Math", 10, 8)
	ev, err := attSvc.Mark(ctx, "usr1", attendance.MarkAttendance{SubjectID: sub.ID, Status: attendance.StatusAttended})
	if err != nil {
		t.Fatalf("Mark(): %v", err)
	}

	if err = attSvc.Undo(ctx, "usr2", ev.ID); err != attendance.ErrEventNotFound {
		t.Errorf("Undo(foreign) error = %v, want %v", err, attendance.ErrEventNotFound)
	}
	if total, att := getCounters(t, subSvc, "usr1", sub.ID); total != 11 || att != 9 {
		t.Errorf("foreign undo moved counters = (%d, %d), want (11, 9)", total, att)
	}

	// the owner can still undo it
	if err = attSvc.Undo(ctx, "usr1", ev.ID); err != nil {
		t.Errorf("Undo(owner) error = %v", err)
	}
}

func TestService_History(t *testing.T) {
	attSvc, subSvc := setup(t)
	ctx := context.Background()

	math := createSubject(t, subSvc, "usr1", "Math", 0, 0)
	physics := createSubject(t, subSvc, "usr1", "Physics", 0, 0)
	foreign := createSubject(t, subSvc, "usr2", "Biology", 0, 0)

	first, err := attSvc.Mark(ctx, "usr1", attendance.MarkAttendance{SubjectID: math.ID, Status: attendance.StatusAttended})
	if err != nil {
		t.Fatalf("Mark(): %v", err)
	}
	second, err := attSvc.Mark(ctx, "usr1", attendance.MarkAttendance{SubjectID: physics.ID, Status: attendance.StatusBunked})
	if err != nil {
		t.Fatalf("Mark(): %v", err)
	}
	if _, err = attSvc.Mark(ctx, "usr2", attendance.MarkAttendance{SubjectID: foreign.ID, Status: attendance.StatusAttended}); err != nil {
		t.Fatalf("Mark(): %v", err)
	}

	entries, err := attSvc.History(ctx, "usr1")
	if err != nil {
		t.Fatalf("History(): %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("History() returned %d entries, want 2", len(entries))
	}
	// newest first, annotated with the subject's name
	if entries[0].ID != second.ID || entries[0].SubjectName != "Physics" {
		t.Errorf("entries[0] = (%s, %s), want (%s, Physics)", entries[0].ID, entries[0].SubjectName, second.ID)
	}
	if entries[1].ID != first.ID || entries[1].SubjectName != "Math" {
		t.Errorf("entries[1] = (%s, %s), want (%s, Math)", entries[1].ID, entries[1].SubjectName, first.ID)
	}
}

func TestService_History_capped(t *testing.T) {
	attSvc, subSvc := setup(t)
	ctx := context.Background()

	sub := createSubject(t, subSvc, "usr1", "Math", 0, 0)
	for i := 0; i < attendance.DefaultHistoryLimit+10; i++ {
		if _, err := attSvc.Mark(ctx, "usr1", attendance.MarkAttendance{SubjectID: sub.ID, Status: attendance.StatusAttended}); err != nil {
			t.Fatalf("Mark(): %v", err)
		}
	}

	entries, err := attSvc.History(ctx, "usr1")
	if err != nil {
		t.Fatalf("History(): %v", err)
	}
	if len(entries) != attendance.DefaultHistoryLimit {
		t.Errorf("History() returned %d entries, want %d", len(entries), attendance.DefaultHistoryLimit)
	}

	total, att := getCounters(t, subSvc, "usr1", sub.ID)
	if want := attendance.DefaultHistoryLimit + 10; total != want || att != want {
		t.Errorf("counters = (%d, %d), want (%d, %d)", total, att, want, want)
	}
}
