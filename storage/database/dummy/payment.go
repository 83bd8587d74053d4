package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/shule/core/payment"
)

type paymentRepository struct {
	db *paymentTable
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(db *DB) payment.Repository {
	return &paymentRepository{db: db.payments}
}

// matchesYear reports whether a payment belongs to a year identified by its
// label or, when yearNum > 0, by its numeric starting year.
func matchesYear(pmt payment.Payment, yearLabel string, yearNum int) bool {
	if pmt.YearLabel == yearLabel {
		return true
	}
	return yearNum > 0 && pmt.Year == yearNum
}

func (repo *paymentRepository) CreatePayment(ctx context.Context, pmt payment.Payment) (payment.Payment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, p := range repo.db.table {
		if p.EnrollmentNumber == pmt.EnrollmentNumber &&
			p.Month == pmt.Month && p.Year == pmt.Year && p.Type == pmt.Type {
			return payment.Payment{}, payment.ErrPaymentExists
		}
	}
	pmt.ID = nextPK()
	repo.db.table[pmt.ID] = &pmt
	return pmt, nil
}

func (repo *paymentRepository) GetPaymentByID(ctx context.Context, id string) (payment.Payment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if pmt, ok := repo.db.table[id]; ok {
		return *pmt, nil
	}
	return payment.Payment{}, payment.ErrNotFound
}

func (repo *paymentRepository) FilterPayments(ctx context.Context, filter payment.QueryFilter) ([]payment.Payment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	payments := make([]payment.Payment, 0)
	for _, pmt := range repo.db.table {
		if filter.EnrollmentNumber != "" && pmt.EnrollmentNumber != filter.EnrollmentNumber {
			continue
		}
		if filter.YearLabel != "" && pmt.YearLabel != filter.YearLabel {
			continue
		}
		if filter.Month != "" && pmt.Month != filter.Month {
			continue
		}
		if filter.Year != 0 && pmt.Year != filter.Year {
			continue
		}
		if filter.Type != "" && pmt.Type != filter.Type {
			continue
		}
		payments = append(payments, *pmt)
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].PaidAt.Before(payments[j].PaidAt) })
	return payments, nil
}

func (repo *paymentRepository) QueryPaymentsForYear(ctx context.Context, yearLabel string, yearNum int) ([]payment.Payment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	payments := make([]payment.Payment, 0)
	for _, pmt := range repo.db.table {
		if matchesYear(*pmt, yearLabel, yearNum) {
			payments = append(payments, *pmt)
		}
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].PaidAt.Before(payments[j].PaidAt) })
	return payments, nil
}

func (repo *paymentRepository) UpdatePayment(ctx context.Context, pmt payment.Payment) (payment.Payment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[pmt.ID]; !ok {
		return payment.Payment{}, payment.ErrNotFound
	}
	repo.db.table[pmt.ID] = &pmt
	return pmt, nil
}

func (repo *paymentRepository) DeletePayment(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.table, id)
	return nil
}

func (repo *paymentRepository) DeleteStudentPaymentsForYear(ctx context.Context, enrollmentNumber, yearLabel string, yearNum int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for id, pmt := range repo.db.table {
		if pmt.EnrollmentNumber == enrollmentNumber && matchesYear(*pmt, yearLabel, yearNum) {
			delete(repo.db.table, id)
		}
	}
	return nil
}

func (repo *paymentRepository) DeletePaymentsForYear(ctx context.Context, yearLabel string, yearNum int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for id, pmt := range repo.db.table {
		if matchesYear(*pmt, yearLabel, yearNum) {
			delete(repo.db.table, id)
		}
	}
	return nil
}
