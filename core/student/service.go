package student

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/shule/core/schoolyear"
)

var (
	// errors
	ErrNotFound         = errors.New("student not found")
	ErrEnrollmentExists = errors.New("a student with this enrollment number already exists")

	errUnknownClass = "unknown class"
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, std Student) (Student, error)
		GetStudentByEnrollmentNumber(ctx context.Context, enrollmentNumber string) (Student, error)
		// FilterStudents applies AND operation on available QueryFilter fields.
		FilterStudents(ctx context.Context, filter QueryFilter) ([]Student, error)
		// QueryClasses returns the distinct class labels in use, sorted.
		QueryClasses(ctx context.Context) ([]string, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		DeleteStudent(ctx context.Context, enrollmentNumber string) error
	}

	Service struct {
		repo  Repository
		years schoolyear.Repository
	}
)

func NewService(repo Repository, years schoolyear.Repository) *Service {
	return &Service{repo: repo, years: years}
}

// Create enrolls a new student; the record is attached to the active school
// year when one exists.
func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	std := Student{
		EnrollmentNumber: ns.EnrollmentNumber,
		LastName:         ns.LastName,
		FirstName:        ns.FirstName,
		Level:            ns.Level,
		Class:            ns.Class,
		ParentPhone:      ns.ParentPhone,
		Vaccinated:       ns.Vaccinated,
		BirthDate:        ns.BirthDate,
		BirthPlace:       ns.BirthPlace,
		FatherName:       ns.FatherName,
		MotherName:       ns.MotherName,
		CivilActNumber:   ns.CivilActNumber,
		CivilActDate:     ns.CivilActDate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	std.Normalize()

	if active, err := svc.years.GetActiveYear(ctx); err == nil {
		std.YearLabel = active.Label
	} else if err != schoolyear.ErrNoActiveYear {
		return Student{}, err
	}
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *Service) GetByEnrollmentNumber(ctx context.Context, enrollmentNumber string) (Student, error) {
	return svc.repo.GetStudentByEnrollmentNumber(ctx, enrollmentNumber)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Student, error) {
	return svc.repo.FilterStudents(ctx, filter)
}

func (svc *Service) QueryClasses(ctx context.Context) ([]string, error) {
	return svc.repo.QueryClasses(ctx)
}

func (svc *Service) Update(ctx context.Context, enrollmentNumber string, us UpdateStudent) (Student, error) {
	std, err := svc.repo.GetStudentByEnrollmentNumber(ctx, enrollmentNumber)
	if err != nil {
		return Student{}, err
	}
	if us.LastName != "" {
		std.LastName = us.LastName
	}
	if us.FirstName != "" {
		std.FirstName = us.FirstName
	}
	if us.Level != "" {
		std.Level = us.Level
	}
	if us.Class != "" {
		std.Class = us.Class
		// re-derive the level when the class moved to another one
		if us.Level == "" {
			if lvl, ok := LevelForClass(us.Class); ok {
				std.Level = lvl
			}
		}
	}
	if us.ParentPhone != "" {
		std.ParentPhone = us.ParentPhone
	}
	if us.Vaccinated != nil {
		std.Vaccinated = *us.Vaccinated
	}
	if !us.BirthDate.IsZero() {
		std.BirthDate = us.BirthDate
	}
	if us.BirthPlace != "" {
		std.BirthPlace = us.BirthPlace
	}
	if us.FatherName != "" {
		std.FatherName = us.FatherName
	}
	if us.MotherName != "" {
		std.MotherName = us.MotherName
	}
	if us.CivilActNumber != "" {
		std.CivilActNumber = us.CivilActNumber
	}
	if !us.CivilActDate.IsZero() {
		std.CivilActDate = us.CivilActDate
	}
	std.UpdatedAt = time.Now().UTC()
	std.Normalize()
	return svc.repo.UpdateStudent(ctx, std)
}

func (svc *Service) Delete(ctx context.Context, enrollmentNumber string) error {
	return svc.repo.DeleteStudent(ctx, enrollmentNumber)
}
