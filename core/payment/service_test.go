package payment_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/payment"
	"github.com/trezcool/shule/core/schoolyear"
	"github.com/trezcool/shule/core/student"
	dummydb "github.com/trezcool/shule/storage/database/dummy"
)

func setup(t *testing.T) (*payment.Service, payment.Repository) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	yearRepo := dummydb.NewSchoolYearRepository(db)
	studentRepo := dummydb.NewStudentRepository(db)

	ctx := context.Background()
	years := schoolyear.NewService(yearRepo)
	start := time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC)
	if _, err := years.CreateActive(ctx, "2024-2025", start, start.AddDate(0, 10, 0)); err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	students := student.NewService(studentRepo, yearRepo)
	_, err = students.Create(ctx, student.NewStudent{
		EnrollmentNumber: "2024001",
		LastName:         "Rakoto",
		FirstName:        "Niry",
		Class:            "CM2",
		ParentPhone:      "0341234567",
	})
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}

	repo := dummydb.NewPaymentRepository(db)
	return payment.NewService(repo, studentRepo), repo
}

func newPayment(month payment.Month) payment.NewPayment {
	return payment.NewPayment{
		EnrollmentNumber: "2024001",
		Type:             payment.TypeTuition,
		Month:            month,
		Year:             2024,
		Amount:           50000,
	}
}

func TestService_Create(t *testing.T) {
	svc, _ := setup(t)

	pmt, err := svc.Create(context.Background(), newPayment(payment.MonthSeptember))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(pmt.Reference, "REC-"))
	assert.Equal(t, payment.MethodCash, pmt.Method)
	assert.Equal(t, payment.StatusPaid, pmt.Status)
	assert.Equal(t, "2024-2025", pmt.YearLabel) // attached to the student's year
	assert.False(t, pmt.PaidAt.IsZero())
}

func TestService_Create_duplicateKey(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, newPayment(payment.MonthSeptember))
	require.NoError(t, err)

	// same (student, month, year, type) key
	_, err = svc.Create(ctx, newPayment(payment.MonthSeptember))
	assert.Equal(t, payment.ErrPaymentExists, err)

	// another month is fine
	_, err = svc.Create(ctx, newPayment(payment.MonthOctober))
	assert.NoError(t, err)
}

func TestService_Create_unknownStudent(t *testing.T) {
	svc, _ := setup(t)

	np := newPayment(payment.MonthSeptember)
	np.EnrollmentNumber = "9999999"
	_, err := svc.Create(context.Background(), np)

	vErr, ok := err.(*core.ValidationError)
	require.True(t, ok)
	require.Len(t, vErr.Fields, 1)
	assert.Equal(t, "numero_matricule", vErr.Fields[0].Field)
}

func TestService_StatsForYear(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, newPayment(payment.MonthSeptember))
	require.NoError(t, err)
	_, err = svc.Create(ctx, newPayment(payment.MonthOctober))
	require.NoError(t, err)
	np := newPayment(payment.MonthRegistration)
	np.Type = payment.TypeRegistration
	np.Amount = 25000
	_, err = svc.Create(ctx, np)
	require.NoError(t, err)

	stats, err := svc.StatsForYear(ctx, "2024-2025")
	require.NoError(t, err)
	assert.Equal(t, 125000.0, stats.TotalAmount)
	assert.Equal(t, 3, stats.DocumentCount)
	assert.Equal(t, 100000.0, stats.AmountByType[payment.TypeTuition])
	assert.Equal(t, 25000.0, stats.AmountByType[payment.TypeRegistration])
}

func TestRepository_QueryPaymentsForYear_matchesLabelOrNumericYear(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, newPayment(payment.MonthSeptember))
	require.NoError(t, err)

	// legacy record without a year label
	_, err = repo.CreatePayment(ctx, payment.Payment{
		EnrollmentNumber: "2024001",
		Type:             payment.TypeCanteen,
		Month:            payment.MonthOctober,
		Year:             2024,
		Amount:           10000,
	})
	require.NoError(t, err)

	matched, err := repo.QueryPaymentsForYear(ctx, "2024-2025", 2024)
	require.NoError(t, err)
	assert.Len(t, matched, 2)

	// non-numeric label disables the numeric fallback
	matched, err = repo.QueryPaymentsForYear(ctx, "2024-2025", 0)
	require.NoError(t, err)
	assert.Len(t, matched, 1)
}
