package grade

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/shule/core/student"
)

var (
	// errors
	ErrNotFound = errors.New("grade not found")
)

type (
	Repository interface {
		CreateGrades(ctx context.Context, grades ...Grade) ([]Grade, error)
		GetGradeByID(ctx context.Context, id string) (Grade, error)
		// FilterGrades applies AND operation on available QueryFilter fields,
		// sorted by subject then session.
		FilterGrades(ctx context.Context, filter QueryFilter) ([]Grade, error)
		UpdateGrade(ctx context.Context, grd Grade) (Grade, error)
		DeleteGrade(ctx context.Context, id string) error
	}

	Service struct {
		repo     Repository
		students student.Repository
	}
)

func NewService(repo Repository, students student.Repository) *Service {
	return &Service{repo: repo, students: students}
}

// Create records a batch of grades, each scoped to the student's current
// school year.
func (svc *Service) Create(ctx context.Context, entries ...NewGrade) ([]Grade, error) {
	now := time.Now().UTC()
	grades := make([]Grade, 0, len(entries))
	for _, ng := range entries {
		std, err := svc.students.GetStudentByEnrollmentNumber(ctx, ng.EnrollmentNumber)
		if err != nil {
			return nil, err
		}
		evaluatedAt := ng.EvaluatedAt
		if evaluatedAt.IsZero() {
			evaluatedAt = now
		}
		grades = append(grades, Grade{
			EnrollmentNumber: std.EnrollmentNumber,
			Subject:          ng.Subject,
			Value:            ng.Value,
			Session:          ng.Session,
			EvaluationType:   ng.EvaluationType,
			YearLabel:        std.YearLabel,
			Comment:          ng.Comment,
			EvaluatedAt:      evaluatedAt,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}
	return svc.repo.CreateGrades(ctx, grades...)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Grade, error) {
	return svc.repo.GetGradeByID(ctx, id)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Grade, error) {
	return svc.repo.FilterGrades(ctx, filter)
}

func (svc *Service) Update(ctx context.Context, id string, ng NewGrade) (Grade, error) {
	grd, err := svc.repo.GetGradeByID(ctx, id)
	if err != nil {
		return Grade{}, err
	}
	grd.Subject = ng.Subject
	grd.Value = ng.Value
	grd.Session = ng.Session
	grd.EvaluationType = ng.EvaluationType
	grd.Comment = ng.Comment
	if !ng.EvaluatedAt.IsZero() {
		grd.EvaluatedAt = ng.EvaluatedAt
	}
	grd.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateGrade(ctx, grd)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteGrade(ctx, id)
}

// StudentAverage computes the mean grade of a student over a school year.
// A student with no grades has an average of 0.
func (svc *Service) StudentAverage(ctx context.Context, enrollmentNumber, yearLabel string) (float64, error) {
	grades, err := svc.repo.FilterGrades(ctx, QueryFilter{
		EnrollmentNumber: enrollmentNumber,
		YearLabel:        yearLabel,
	})
	if err != nil {
		return 0, err
	}
	if len(grades) == 0 {
		return 0, nil
	}
	var total float64
	for _, grd := range grades {
		total += grd.Value
	}
	return total / float64(len(grades)), nil
}
