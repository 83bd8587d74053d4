package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/student"
)

var (
	// errors
	ErrNotFound      = errors.New("payment not found")
	ErrPaymentExists = errors.New("a payment for this student, month, year and type already exists")
)

type (
	Repository interface {
		// CreatePayment fails with ErrPaymentExists when a record with the
		// same (enrollment number, month, year, type) key exists.
		CreatePayment(ctx context.Context, pmt Payment) (Payment, error)
		GetPaymentByID(ctx context.Context, id string) (Payment, error)
		// FilterPayments applies AND operation on available QueryFilter fields.
		FilterPayments(ctx context.Context, filter QueryFilter) ([]Payment, error)
		// QueryPaymentsForYear matches on the year label OR, when yearNum > 0,
		// on the numeric year.
		QueryPaymentsForYear(ctx context.Context, yearLabel string, yearNum int) ([]Payment, error)
		UpdatePayment(ctx context.Context, pmt Payment) (Payment, error)
		DeletePayment(ctx context.Context, id string) error
		// DeleteStudentPaymentsForYear removes every payment of one student
		// matching the year label OR, when yearNum > 0, the numeric year.
		DeleteStudentPaymentsForYear(ctx context.Context, enrollmentNumber, yearLabel string, yearNum int) error
		// DeletePaymentsForYear removes every payment matching the year label
		// OR, when yearNum > 0, the numeric year.
		DeletePaymentsForYear(ctx context.Context, yearLabel string, yearNum int) error
	}

	Service struct {
		repo     Repository
		students student.Repository
	}
)

func NewService(repo Repository, students student.Repository) *Service {
	return &Service{repo: repo, students: students}
}

// Create records a payment for an existing student. The receipt reference
// is generated server-side; PaidAt defaults to now.
func (svc *Service) Create(ctx context.Context, np NewPayment) (Payment, error) {
	std, err := svc.students.GetStudentByEnrollmentNumber(ctx, np.EnrollmentNumber)
	if err != nil {
		if err == student.ErrNotFound {
			return Payment{}, core.NewValidationError(err, core.FieldError{Field: "numero_matricule", Error: err.Error()})
		}
		return Payment{}, err
	}

	now := time.Now().UTC()
	paidAt := np.PaidAt
	if paidAt.IsZero() {
		paidAt = now
	}
	method := np.Method
	if method == "" {
		method = MethodCash
	}
	status := np.Status
	if status == "" {
		status = StatusPaid
	}
	pmt := Payment{
		EnrollmentNumber: std.EnrollmentNumber,
		Type:             np.Type,
		Month:            np.Month,
		Year:             np.Year,
		Amount:           np.Amount,
		PaidAt:           paidAt,
		Method:           method,
		Status:           status,
		Reference:        "REC-" + uuid.New().String(),
		YearLabel:        std.YearLabel,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return svc.repo.CreatePayment(ctx, pmt)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Payment, error) {
	return svc.repo.GetPaymentByID(ctx, id)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Payment, error) {
	return svc.repo.FilterPayments(ctx, filter)
}

func (svc *Service) Update(ctx context.Context, id string, np NewPayment) (Payment, error) {
	pmt, err := svc.repo.GetPaymentByID(ctx, id)
	if err != nil {
		return Payment{}, err
	}
	pmt.Type = np.Type
	pmt.Month = np.Month
	pmt.Year = np.Year
	pmt.Amount = np.Amount
	if !np.PaidAt.IsZero() {
		pmt.PaidAt = np.PaidAt
	}
	if np.Method != "" {
		pmt.Method = np.Method
	}
	if np.Status != "" {
		pmt.Status = np.Status
	}
	pmt.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdatePayment(ctx, pmt)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeletePayment(ctx, id)
}

// StatsForYear aggregates payments recorded under a year label.
func (svc *Service) StatsForYear(ctx context.Context, yearLabel string) (Stats, error) {
	payments, err := svc.repo.FilterPayments(ctx, QueryFilter{YearLabel: yearLabel})
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{AmountByType: make(map[Type]float64)}
	for _, pmt := range payments {
		stats.TotalAmount += pmt.Amount
		stats.DocumentCount++
		stats.AmountByType[pmt.Type] += pmt.Amount
	}
	return stats, nil
}
