package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/shule/core/archive"
)

type archiveRepository struct {
	students *studentArchiveTable
	payments *paymentArchiveTable
}

var _ archive.Repository = (*archiveRepository)(nil) // interface compliance check

func NewArchiveRepository(db *DB) archive.Repository {
	return &archiveRepository{students: db.studentArchives, payments: db.paymentArchives}
}

func (repo *archiveRepository) CreateStudentArchive(ctx context.Context, arch archive.StudentArchive) (archive.StudentArchive, error) {
	repo.students.Lock()
	defer repo.students.Unlock()

	arch.ID = nextPK()
	repo.students.table[arch.ID] = &arch
	return arch, nil
}

func (repo *archiveRepository) CreatePaymentArchive(ctx context.Context, arch archive.PaymentArchive) (archive.PaymentArchive, error) {
	repo.payments.Lock()
	defer repo.payments.Unlock()

	arch.ID = nextPK()
	repo.payments.table[arch.ID] = &arch
	return arch, nil
}

func (repo *archiveRepository) GetStudentArchive(ctx context.Context, yearLabel, enrollmentNumber string) (archive.StudentArchive, error) {
	repo.students.RLock()
	defer repo.students.RUnlock()

	for _, arch := range repo.students.table {
		if arch.YearLabel == yearLabel && arch.EnrollmentNumber == enrollmentNumber {
			return *arch, nil
		}
	}
	return archive.StudentArchive{}, archive.ErrNotFound
}

func (repo *archiveRepository) QueryStudentArchivesByYear(ctx context.Context, yearLabel string) ([]archive.StudentArchive, error) {
	repo.students.RLock()
	defer repo.students.RUnlock()

	archives := make([]archive.StudentArchive, 0)
	for _, arch := range repo.students.table {
		if arch.YearLabel == yearLabel {
			archives = append(archives, *arch)
		}
	}
	sort.Slice(archives, func(i, j int) bool {
		if archives[i].LastName != archives[j].LastName {
			return archives[i].LastName < archives[j].LastName
		}
		return archives[i].FirstName < archives[j].FirstName
	})
	return archives, nil
}

func (repo *archiveRepository) QueryPaymentArchivesByYear(ctx context.Context, yearLabel string) ([]archive.PaymentArchive, error) {
	repo.payments.RLock()
	defer repo.payments.RUnlock()

	archives := make([]archive.PaymentArchive, 0)
	for _, arch := range repo.payments.table {
		if arch.YearLabel == yearLabel {
			archives = append(archives, *arch)
		}
	}
	sort.Slice(archives, func(i, j int) bool { return archives[i].ArchivedAt.Before(archives[j].ArchivedAt) })
	return archives, nil
}

func (repo *archiveRepository) ArchiveStatsByYear(ctx context.Context, yearLabel string) (archive.Stats, error) {
	repo.students.RLock()
	defer repo.students.RUnlock()

	var stats archive.Stats
	for _, arch := range repo.students.table {
		if arch.YearLabel != yearLabel {
			continue
		}
		stats.TotalStudents++
		switch arch.Decision {
		case archive.DecisionAdmitted:
			stats.Admitted++
		case archive.DecisionRepeat:
			stats.Repeating++
		case archive.DecisionExiting:
			stats.Exiting++
		}
	}
	return stats, nil
}
