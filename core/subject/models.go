package subject

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/academiplan/backend/core"
)

// Strictness policies. Anything else is treated as lenient by the
// recommendation engine; the policy only changes wording, never arithmetic.
const (
	StrictnessStrict   = "strict"
	StrictnessModerate = "moderate"
	StrictnessLenient  = "lenient"
)

const DefaultMinAttendance = 75

type Subject struct {
	ID              string    `json:"id"`
	UserID          string    `json:"-"`
	Name            string    `json:"subjectName"`
	TotalClasses    int       `json:"totalClasses"`
	AttendedClasses int       `json:"attendedClasses"`
	MinAttendance   int       `json:"minAttendance"`
	Strictness      string    `json:"strictness"`
	CreatedAt       time.Time `json:"createdAt"` // UTC
}

// ProjectedSubject is a Subject annotated with its computed attendance view.
type ProjectedSubject struct {
	Subject
	Projection
}

// NewSubject contains information needed to create a new Subject.
// TotalClasses is required so that an explicit 0 can be told apart from
// an absent field; AttendedClasses and MinAttendance default to 0 and 75.
type NewSubject struct {
	Name            string `json:"subjectName" validate:"required"`
	TotalClasses    *int   `json:"totalClasses" validate:"required,gte=0"`
	AttendedClasses *int   `json:"attendedClasses" validate:"omitempty,gte=0"`
	MinAttendance   *int   `json:"minAttendance" validate:"omitempty,gte=0,lte=100"`
	Strictness      string `json:"strictness"`
}

var errAttendedGTTotal = errors.New("attendedClasses cannot exceed totalClasses")

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Strictness = core.CleanString(ns.Strictness, true /* lower */)

	if err := validate.Struct(ns); err != nil {
		return err
	}

	// counters must start consistent; the ledger keeps them so afterwards
	if ns.TotalClasses != nil && ns.AttendedClasses != nil && *ns.AttendedClasses > *ns.TotalClasses {
		return core.NewValidationError(errAttendedGTTotal, core.FieldError{
			Field: "attendedClasses",
			Error: errAttendedGTTotal.Error(),
		})
	}
	return nil
}

// normalizedStrictness maps free-form input onto the known policies.
func (ns NewSubject) normalizedStrictness() string {
	switch ns.Strictness {
	case "":
		return StrictnessModerate
	case StrictnessStrict, StrictnessModerate:
		return ns.Strictness
	default:
		return StrictnessLenient
	}
}
