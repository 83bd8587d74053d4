package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/shule/core/schoolyear"
)

type yearRepository struct {
	db *yearTable
}

var _ schoolyear.Repository = (*yearRepository)(nil) // interface compliance check

func NewSchoolYearRepository(db *DB) schoolyear.Repository {
	return &yearRepository{db: db.years}
}

func (repo *yearRepository) query() []schoolyear.SchoolYear {
	years := make([]schoolyear.SchoolYear, 0, len(repo.db.table))
	for _, y := range repo.db.table {
		years = append(years, *y)
	}
	return years
}

func (repo *yearRepository) CreateYear(ctx context.Context, year schoolyear.SchoolYear) (schoolyear.SchoolYear, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, y := range repo.db.table {
		if y.Label == year.Label {
			return schoolyear.SchoolYear{}, schoolyear.ErrYearExists
		}
	}
	year.ID = nextPK()
	repo.db.table[year.ID] = &year
	return year, nil
}

func (repo *yearRepository) GetYearByID(ctx context.Context, id string) (schoolyear.SchoolYear, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if y, ok := repo.db.table[id]; ok {
		return *y, nil
	}
	return schoolyear.SchoolYear{}, schoolyear.ErrNotFound
}

func (repo *yearRepository) GetYearByLabel(ctx context.Context, label string) (schoolyear.SchoolYear, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, y := range repo.query() {
		if y.Label == label {
			return y, nil
		}
	}
	return schoolyear.SchoolYear{}, schoolyear.ErrNotFound
}

func (repo *yearRepository) GetActiveYear(ctx context.Context) (schoolyear.SchoolYear, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, y := range repo.query() {
		if y.IsActive {
			return y, nil
		}
	}
	return schoolyear.SchoolYear{}, schoolyear.ErrNoActiveYear
}

func (repo *yearRepository) QueryAllYears(ctx context.Context) ([]schoolyear.SchoolYear, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	years := repo.query()
	sort.Slice(years, func(i, j int) bool { return years[i].StartDate.After(years[j].StartDate) })
	return years, nil
}

func (repo *yearRepository) QueryArchivedYears(ctx context.Context) ([]schoolyear.SchoolYear, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	years := make([]schoolyear.SchoolYear, 0)
	for _, y := range repo.query() {
		if !y.IsActive {
			years = append(years, y)
		}
	}
	sort.Slice(years, func(i, j int) bool { return years[i].StartDate.After(years[j].StartDate) })
	return years, nil
}

func (repo *yearRepository) DeactivateAllYears(ctx context.Context) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, y := range repo.db.table {
		y.IsActive = false
	}
	return nil
}

func (repo *yearRepository) SetYearActive(ctx context.Context, id string, active bool) (schoolyear.SchoolYear, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	y, ok := repo.db.table[id]
	if !ok {
		return schoolyear.SchoolYear{}, schoolyear.ErrNotFound
	}
	y.IsActive = active
	return *y, nil
}

func (repo *yearRepository) SaveTransitionStats(ctx context.Context, id string, stats schoolyear.TransitionStats) (schoolyear.SchoolYear, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	y, ok := repo.db.table[id]
	if !ok {
		return schoolyear.SchoolYear{}, schoolyear.ErrNotFound
	}
	y.TransitionStats = &stats
	return *y, nil
}
