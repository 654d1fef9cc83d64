package subject_test

import (
	"context"
	"testing"

	"github.com/academiplan/backend/core"
	"github.com/academiplan/backend/core/subject"
	dummydb "github.com/academiplan/backend/storage/database/dummy"
)

func setup(t *testing.T) *subject.Service {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup(): %v", err)
	}
	return subject.NewService(dummydb.NewSubjectRepository(db))
}

func intPtr(i int) *int { return &i }

func TestService_Create_defaults(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	tests := []struct {
		name           string
		new            subject.NewSubject
		wantTotal      int
		wantAttended   int
		wantMin        int
		wantStrictness string
	}{
		{
			name:           "minimal input gets defaults",
			new:            subject.NewSubject{Name: "Math", TotalClasses: intPtr(0)},
			wantMin:        subject.DefaultMinAttendance,
			wantStrictness: subject.StrictnessModerate,
		},
		{
			name:           "explicit counters kept",
			new:            subject.NewSubject{Name: "Physics", TotalClasses: intPtr(20), AttendedClasses: intPtr(18), MinAttendance: intPtr(80)},
			wantTotal:      20,
			wantAttended:   18,
			wantMin:        80,
			wantStrictness: subject.StrictnessModerate,
		},
		{
			name:           "strict kept",
			new:            subject.NewSubject{Name: "Chemistry", TotalClasses: intPtr(10), Strictness: "strict"},
			wantTotal:      10,
			wantMin:        subject.DefaultMinAttendance,
			wantStrictness: subject.StrictnessStrict,
		},
		{
			name:           "unknown strictness becomes lenient",
			new:            subject.NewSubject{Name: "History", TotalClasses: intPtr(10), Strictness: "chill"},
			wantTotal:      10,
			wantMin:        subject.DefaultMinAttendance,
			wantStrictness: subject.StrictnessLenient,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := svc.Create(ctx, "usr1", tt.new)
			if err != nil {
				t.Fatalf("Create(): %v", err)
			}
			if sub.ID == "" {
				t.Error("Create() returned empty ID")
			}
			if sub.TotalClasses != tt.wantTotal {
				t.Errorf("TotalClasses = %d, want %d", sub.TotalClasses, tt.wantTotal)
			}
			if sub.AttendedClasses != tt.wantAttended {
				t.Errorf("AttendedClasses = %d, want %d", sub.AttendedClasses, tt.wantAttended)
			}
			if sub.MinAttendance != tt.wantMin {
				t.Errorf("MinAttendance = %d, want %d", sub.MinAttendance, tt.wantMin)
			}
			if sub.Strictness != tt.wantStrictness {
				t.Errorf("Strictness = %q, want %q", sub.Strictness, tt.wantStrictness)
			}
		})
	}
}

func TestService_Query_orderAndIsolation(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, "usr1", subject.NewSubject{Name: "Math", TotalClasses: intPtr(10), AttendedClasses: intPtr(9)})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	second, err := svc.Create(ctx, "usr1", subject.NewSubject{Name: "Physics", TotalClasses: intPtr(10), AttendedClasses: intPtr(5)})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	foreign, err := svc.Create(ctx, "usr2", subject.NewSubject{Name: "Biology", TotalClasses: intPtr(4)})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}

	subs, err := svc.Query(ctx, "usr1")
	if err != nil {
		t.Fatalf("Query(): %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("Query() returned %d subjects, want 2", len(subs))
	}
	if subs[0].ID != first.ID || subs[1].ID != second.ID {
		t.Errorf("Query() order = [%s %s], want [%s %s]", subs[0].Name, subs[1].Name, first.Name, second.Name)
	}
	// reads recompute but never mutate
	again, err := svc.Query(ctx, "usr1")
	if err != nil {
		t.Fatalf("Query(): %v", err)
	}
	for i := range subs {
		if subs[i] != again[i] {
			t.Errorf("Query() not idempotent: %+v != %+v", subs[i], again[i])
		}
	}

	// foreign subject reads as absent
	if _, err = svc.GetByID(ctx, "usr1", foreign.ID); err != subject.ErrNotFound {
		t.Errorf("GetByID(foreign) error = %v, want %v", err, subject.ErrNotFound)
	}
	if _, err = svc.GetByID(ctx, "usr1", "4614c6ab-0d0e-49e4-a445-f5ab4c2b4b05"); err != subject.ErrNotFound {
		t.Errorf("GetByID(unknown) error = %v, want %v", err, subject.ErrNotFound)
	}
}

func TestService_GetByID_projectionAttached(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "usr1", subject.NewSubject{Name: "Math", TotalClasses: intPtr(20), AttendedClasses: intPtr(18)})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}

	sub, err := svc.GetByID(ctx, "usr1", created.ID)
	if err != nil {
		t.Fatalf("GetByID(): %v", err)
	}
	want := subject.Project(20, 18, subject.DefaultMinAttendance, subject.StrictnessModerate)
	if sub.Projection != want {
		t.Errorf("Projection = %+v, want %+v", sub.Projection, want)
	}
}

func TestNewSubject_Validate(t *testing.T) {
	validate, _ := core.NewValidator()

	tests := []struct {
		name    string
		new     subject.NewSubject
		wantErr bool
	}{
		{name: "valid", new: subject.NewSubject{Name: "Math", TotalClasses: intPtr(10), AttendedClasses: intPtr(5)}},
		{name: "name required", new: subject.NewSubject{TotalClasses: intPtr(10)}, wantErr: true},
		{name: "totalClasses required", new: subject.NewSubject{Name: "Math"}, wantErr: true},
		{name: "negative total", new: subject.NewSubject{Name: "Math", TotalClasses: intPtr(-1)}, wantErr: true},
		{name: "negative attended", new: subject.NewSubject{Name: "Math", TotalClasses: intPtr(10), AttendedClasses: intPtr(-1)}, wantErr: true},
		{name: "attended exceeds total", new: subject.NewSubject{Name: "Math", TotalClasses: intPtr(5), AttendedClasses: intPtr(6)}, wantErr: true},
		{name: "threshold above 100", new: subject.NewSubject{Name: "Math", TotalClasses: intPtr(10), MinAttendance: intPtr(101)}, wantErr: true},
		{name: "explicit zero total ok", new: subject.NewSubject{Name: "Math", TotalClasses: intPtr(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.new.Validate(validate); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
