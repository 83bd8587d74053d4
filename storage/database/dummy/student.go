package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/shule/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.students}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		students = append(students, *s)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[std.EnrollmentNumber]; ok {
		return student.Student{}, student.ErrEnrollmentExists
	}
	std.ID = nextPK()
	repo.db.table[std.EnrollmentNumber] = &std
	return std, nil
}

func (repo *studentRepository) GetStudentByEnrollmentNumber(ctx context.Context, enrollmentNumber string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if std, ok := repo.db.table[enrollmentNumber]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) FilterStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]student.Student, 0)
	for _, std := range repo.query() {
		if filter.YearLabel != "" && std.YearLabel != filter.YearLabel {
			continue
		}
		if filter.Class != "" && std.Class != filter.Class {
			continue
		}
		if filter.ParentPhone != "" &&
			!strings.Contains(strings.ToLower(std.ParentPhone), strings.ToLower(filter.ParentPhone)) {
			continue
		}
		students = append(students, std)
	}
	return students, nil
}

func (repo *studentRepository) QueryClasses(ctx context.Context) ([]string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	seen := make(map[string]bool)
	classes := make([]string, 0)
	for _, std := range repo.db.table {
		if !seen[std.Class] {
			seen[std.Class] = true
			classes = append(classes, std.Class)
		}
	}
	sort.Strings(classes)
	return classes, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[std.EnrollmentNumber]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	repo.db.table[std.EnrollmentNumber] = &std
	return std, nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, enrollmentNumber string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.table, enrollmentNumber)
	return nil
}
