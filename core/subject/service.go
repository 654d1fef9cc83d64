package subject

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrNotFound covers both a nonexistent subject and one owned by another
// user; callers must not be able to tell the two apart.
var ErrNotFound = errors.New("subject not found")

type (
	Repository interface {
		CreateSubject(ctx context.Context, sub Subject) (Subject, error)
		// QuerySubjects returns the owner's subjects ordered by creation time ascending.
		QuerySubjects(ctx context.Context, userID string) ([]Subject, error)
		GetSubjectByID(ctx context.Context, userID, id string) (Subject, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, userID string, ns NewSubject) (ProjectedSubject, error)
		Query(ctx context.Context, userID string) ([]ProjectedSubject, error)
		GetByID(ctx context.Context, userID, id string) (ProjectedSubject, error)
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, userID string, ns NewSubject) (ProjectedSubject, error) {
	sub := Subject{
		UserID:        userID,
		Name:          ns.Name,
		MinAttendance: DefaultMinAttendance,
		Strictness:    ns.normalizedStrictness(),
		CreatedAt:     time.Now().UTC(),
	}
	if ns.TotalClasses != nil {
		sub.TotalClasses = *ns.TotalClasses
	}
	if ns.AttendedClasses != nil {
		sub.AttendedClasses = *ns.AttendedClasses
	}
	if ns.MinAttendance != nil {
		sub.MinAttendance = *ns.MinAttendance
	}

	sub, err := svc.repo.CreateSubject(ctx, sub)
	if err != nil {
		return ProjectedSubject{}, err
	}
	return svc.project(sub), nil
}

func (svc *Service) Query(ctx context.Context, userID string) ([]ProjectedSubject, error) {
	subs, err := svc.repo.QuerySubjects(ctx, userID)
	if err != nil {
		return nil, err
	}
	projected := make([]ProjectedSubject, 0, len(subs))
	for _, sub := range subs {
		projected = append(projected, svc.project(sub))
	}
	return projected, nil
}

func (svc *Service) GetByID(ctx context.Context, userID, id string) (ProjectedSubject, error) {
	sub, err := svc.repo.GetSubjectByID(ctx, userID, id)
	if err != nil {
		return ProjectedSubject{}, err
	}
	return svc.project(sub), nil
}

func (svc *Service) project(sub Subject) ProjectedSubject {
	return ProjectedSubject{
		Subject:    sub,
		Projection: Project(sub.TotalClasses, sub.AttendedClasses, sub.MinAttendance, sub.Strictness),
	}
}
