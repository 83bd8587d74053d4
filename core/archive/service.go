package archive

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/payment"
	"github.com/trezcool/shule/core/student"
)

var (
	// errors
	ErrNotFound = errors.New("archive not found")
)

type (
	Repository interface {
		// CreateStudentArchive is append-only; snapshots are never mutated.
		CreateStudentArchive(ctx context.Context, arch StudentArchive) (StudentArchive, error)
		// CreatePaymentArchive is append-only.
		CreatePaymentArchive(ctx context.Context, arch PaymentArchive) (PaymentArchive, error)
		GetStudentArchive(ctx context.Context, yearLabel, enrollmentNumber string) (StudentArchive, error)
		// QueryStudentArchivesByYear returns snapshots sorted by last then
		// first name.
		QueryStudentArchivesByYear(ctx context.Context, yearLabel string) ([]StudentArchive, error)
		QueryPaymentArchivesByYear(ctx context.Context, yearLabel string) ([]PaymentArchive, error)
		// ArchiveStatsByYear counts snapshots per decision by scanning the
		// year's records.
		ArchiveStatsByYear(ctx context.Context, yearLabel string) (Stats, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SnapshotStudent writes the year-end snapshot of one student, carrying the
// pre-transition class and level, the computed average, the decision and a
// denormalized copy of the year's grades.
func (svc *Service) SnapshotStudent(
	ctx context.Context,
	std student.Student,
	yearLabel string,
	average float64,
	decision Decision,
	nextClass string,
	grades []grade.Grade,
) (StudentArchive, error) {
	archGrades := make([]ArchivedGrade, 0, len(grades))
	for _, grd := range grades {
		archGrades = append(archGrades, ArchivedGrade{
			Subject:        grd.Subject,
			Value:          grd.Value,
			Session:        grd.Session,
			EvaluationType: grd.EvaluationType,
			Comment:        grd.Comment,
			EvaluatedAt:    grd.EvaluatedAt,
		})
	}
	arch := StudentArchive{
		YearLabel:        yearLabel,
		EnrollmentNumber: std.EnrollmentNumber,
		LastName:         std.LastName,
		FirstName:        std.FirstName,
		Level:            std.Level,
		Class:            std.Class,
		Average:          average,
		Decision:         decision,
		NextClass:        nextClass,
		Grades:           archGrades,
		ParentPhone:      std.ParentPhone,
		BirthDate:        std.BirthDate,
		BirthPlace:       std.BirthPlace,
		FatherName:       std.FatherName,
		MotherName:       std.MotherName,
		CivilActNumber:   std.CivilActNumber,
		CivilActDate:     std.CivilActDate,
		Vaccinated:       std.Vaccinated,
		ArchivedAt:       time.Now().UTC(),
	}
	return svc.repo.CreateStudentArchive(ctx, arch)
}

// SnapshotPaymentBatch writes the payment batch snapshot of an outgoing
// year, with yearNum <= 0 meaning the label had no numeric prefix.
func (svc *Service) SnapshotPaymentBatch(ctx context.Context, yearLabel string, yearNum int, payments []payment.Payment) (PaymentArchive, error) {
	var total float64
	for _, pmt := range payments {
		total += pmt.Amount
	}
	arch := PaymentArchive{
		YearLabel:     yearLabel,
		YearNum:       yearNum,
		ArchivedAt:    time.Now().UTC(),
		TotalAmount:   total,
		DocumentCount: len(payments),
		Payments:      payments,
	}
	return svc.repo.CreatePaymentArchive(ctx, arch)
}

func (svc *Service) GetStudent(ctx context.Context, yearLabel, enrollmentNumber string) (StudentArchive, error) {
	return svc.repo.GetStudentArchive(ctx, yearLabel, enrollmentNumber)
}

func (svc *Service) QueryByYear(ctx context.Context, yearLabel string) ([]StudentArchive, error) {
	return svc.repo.QueryStudentArchivesByYear(ctx, yearLabel)
}

func (svc *Service) QueryPaymentsByYear(ctx context.Context, yearLabel string) ([]PaymentArchive, error) {
	return svc.repo.QueryPaymentArchivesByYear(ctx, yearLabel)
}

func (svc *Service) StatsByYear(ctx context.Context, yearLabel string) (Stats, error) {
	return svc.repo.ArchiveStatsByYear(ctx, yearLabel)
}
