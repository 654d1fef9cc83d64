package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/academiplan/backend/core"
	"github.com/academiplan/backend/core/subject"
)

type dbSubject struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	Name            string    `db:"name"`
	TotalClasses    int       `db:"total_classes"`
	AttendedClasses int       `db:"attended_classes"`
	MinAttendance   int       `db:"min_attendance"`
	Strictness      string    `db:"strictness"`
	CreatedAt       time.Time `db:"created_at"`
}

func (s dbSubject) toDomain() subject.Subject {
	return subject.Subject{
		ID:              s.ID,
		UserID:          s.UserID,
		Name:            s.Name,
		TotalClasses:    s.TotalClasses,
		AttendedClasses: s.AttendedClasses,
		MinAttendance:   s.MinAttendance,
		Strictness:      s.Strictness,
		CreatedAt:       s.CreatedAt,
	}
}

type subjectRepository struct {
	db *sqlx.DB
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *sqlx.DB) *subjectRepository {
	return &subjectRepository{db: db}
}

func (repo subjectRepository) CreateSubject(ctx context.Context, sub subject.Subject) (subject.Subject, error) {
	sub.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO subjects (id, user_id, name, total_classes, attended_classes, min_attendance, strictness, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sub.ID, sub.UserID, sub.Name, sub.TotalClasses, sub.AttendedClasses, sub.MinAttendance, sub.Strictness, sub.CreatedAt,
	)
	if err != nil {
		return subject.Subject{}, errors.Wrap(err, "inserting subject")
	}
	return sub, nil
}

// subjects list in creation order; id breaks same-timestamp ties
var subjectOrdering = core.DBOrdering{Field: "created_at", Ascending: true}

func (repo subjectRepository) QuerySubjects(ctx context.Context, userID string) ([]subject.Subject, error) {
	var rows []dbSubject
	err := repo.db.SelectContext(ctx, &rows,
		"SELECT * FROM subjects WHERE user_id = $1 ORDER BY "+subjectOrdering.String()+", id", userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}

	subs := make([]subject.Subject, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, row.toDomain())
	}
	return subs, nil
}

func (repo subjectRepository) GetSubjectByID(ctx context.Context, userID, id string) (subject.Subject, error) {
	if _, err := uuid.Parse(id); err != nil {
		return subject.Subject{}, subject.ErrNotFound
	}
	var row dbSubject
	err := repo.db.GetContext(ctx, &row,
		"SELECT * FROM subjects WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return subject.Subject{}, trapNoRowsErr(err, subject.ErrNotFound, "finding subject by ID")
	}
	return row.toDomain(), nil
}
