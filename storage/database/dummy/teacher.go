package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/shule/core/teacher"
)

type teacherRepository struct {
	db *teacherTable
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *DB) teacher.Repository {
	return &teacherRepository{db: db.teachers}
}

func (repo *teacherRepository) query() []teacher.Teacher {
	teachers := make([]teacher.Teacher, 0, len(repo.db.table))
	for _, t := range repo.db.table {
		teachers = append(teachers, *t)
	}
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].ID < teachers[j].ID })
	return teachers
}

func (repo *teacherRepository) CreateTeacher(ctx context.Context, tch teacher.Teacher) (teacher.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	tch.ID = nextPK()
	repo.db.table[tch.ID] = &tch
	return tch, nil
}

func (repo *teacherRepository) GetTeacherByID(ctx context.Context, id string) (teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if tch, ok := repo.db.table[id]; ok {
		return *tch, nil
	}
	return teacher.Teacher{}, teacher.ErrNotFound
}

func (repo *teacherRepository) FilterTeachers(ctx context.Context, filter teacher.QueryFilter) ([]teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	teachers := make([]teacher.Teacher, 0)
	for _, tch := range repo.query() {
		if filter.Subject != "" && tch.Subject != filter.Subject {
			continue
		}
		if filter.Class != "" && !hasClass(tch, filter.Class) {
			continue
		}
		teachers = append(teachers, tch)
	}
	return teachers, nil
}

func hasClass(tch teacher.Teacher, class string) bool {
	for _, c := range tch.Classes {
		if c == class {
			return true
		}
	}
	return false
}

func (repo *teacherRepository) UpdateTeacher(ctx context.Context, tch teacher.Teacher) (teacher.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[tch.ID]; !ok {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	repo.db.table[tch.ID] = &tch
	return tch, nil
}

func (repo *teacherRepository) DeleteTeacher(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.table, id)
	return nil
}
