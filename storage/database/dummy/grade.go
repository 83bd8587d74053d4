package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/shule/core/grade"
)

type gradeRepository struct {
	db *gradeTable
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(db *DB) grade.Repository {
	return &gradeRepository{db: db.grades}
}

func (repo *gradeRepository) CreateGrades(ctx context.Context, grades ...grade.Grade) ([]grade.Grade, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	out := make([]grade.Grade, 0, len(grades))
	for _, grd := range grades {
		grd := grd
		grd.ID = nextPK()
		repo.db.table[grd.ID] = &grd
		out = append(out, grd)
	}
	return out, nil
}

func (repo *gradeRepository) GetGradeByID(ctx context.Context, id string) (grade.Grade, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if grd, ok := repo.db.table[id]; ok {
		return *grd, nil
	}
	return grade.Grade{}, grade.ErrNotFound
}

func (repo *gradeRepository) FilterGrades(ctx context.Context, filter grade.QueryFilter) ([]grade.Grade, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	grades := make([]grade.Grade, 0)
	for _, grd := range repo.db.table {
		if filter.EnrollmentNumber != "" && grd.EnrollmentNumber != filter.EnrollmentNumber {
			continue
		}
		if filter.YearLabel != "" && grd.YearLabel != filter.YearLabel {
			continue
		}
		if filter.Subject != "" && grd.Subject != filter.Subject {
			continue
		}
		if filter.Session != "" && grd.Session != filter.Session {
			continue
		}
		grades = append(grades, *grd)
	}
	sort.Slice(grades, func(i, j int) bool {
		if grades[i].Subject != grades[j].Subject {
			return grades[i].Subject < grades[j].Subject
		}
		return grades[i].Session < grades[j].Session
	})
	return grades, nil
}

func (repo *gradeRepository) UpdateGrade(ctx context.Context, grd grade.Grade) (grade.Grade, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[grd.ID]; !ok {
		return grade.Grade{}, grade.ErrNotFound
	}
	repo.db.table[grd.ID] = &grd
	return grd, nil
}

func (repo *gradeRepository) DeleteGrade(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.table, id)
	return nil
}
