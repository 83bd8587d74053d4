package grade_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/schoolyear"
	"github.com/trezcool/shule/core/student"
	dummydb "github.com/trezcool/shule/storage/database/dummy"
)

func setup(t *testing.T) (*grade.Service, *student.Service, *schoolyear.Service) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	yearRepo := dummydb.NewSchoolYearRepository(db)
	studentRepo := dummydb.NewStudentRepository(db)
	return grade.NewService(dummydb.NewGradeRepository(db), studentRepo),
		student.NewService(studentRepo, yearRepo),
		schoolyear.NewService(yearRepo)
}

func enroll(t *testing.T, students *student.Service, years *schoolyear.Service) {
	ctx := context.Background()
	start := time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC)
	if _, err := years.CreateActive(ctx, "2024-2025", start, start.AddDate(0, 10, 0)); err != nil {
		t.Fatalf("enroll() failed: %v", err)
	}
	_, err := students.Create(ctx, student.NewStudent{
		EnrollmentNumber: "2024001",
		LastName:         "Rakoto",
		FirstName:        "Niry",
		Class:            "CM2",
		ParentPhone:      "0341234567",
	})
	if err != nil {
		t.Fatalf("enroll() failed: %v", err)
	}
}

func TestService_Create_scopesToStudentYear(t *testing.T) {
	svc, students, years := setup(t)
	enroll(t, students, years)
	ctx := context.Background()

	grades, err := svc.Create(ctx, grade.NewGrade{
		EnrollmentNumber: "2024001",
		Subject:          "Mathématiques",
		Value:            15,
		Session:          grade.SessionFirst,
		EvaluationType:   grade.EvalContinuous,
	})
	require.NoError(t, err)
	require.Len(t, grades, 1)
	assert.Equal(t, "2024-2025", grades[0].YearLabel)
	assert.False(t, grades[0].EvaluatedAt.IsZero())
}

func TestService_Create_unknownStudent(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.Create(context.Background(), grade.NewGrade{
		EnrollmentNumber: "9999999",
		Subject:          "Mathématiques",
		Value:            15,
		Session:          grade.SessionFirst,
		EvaluationType:   grade.EvalContinuous,
	})
	assert.Equal(t, student.ErrNotFound, err)
}

func TestService_StudentAverage(t *testing.T) {
	svc, students, years := setup(t)
	enroll(t, students, years)
	ctx := context.Background()

	_, err := svc.Create(ctx,
		grade.NewGrade{EnrollmentNumber: "2024001", Subject: "Mathématiques", Value: 15, Session: grade.SessionFirst, EvaluationType: grade.EvalContinuous},
		grade.NewGrade{EnrollmentNumber: "2024001", Subject: "Français", Value: 10, Session: grade.SessionFirst, EvaluationType: grade.EvalExam},
		grade.NewGrade{EnrollmentNumber: "2024001", Subject: "Histoire", Value: 8, Session: grade.SessionSecond, EvaluationType: grade.EvalContinuous},
	)
	require.NoError(t, err)

	avg, err := svc.StudentAverage(ctx, "2024001", "2024-2025")
	require.NoError(t, err)
	assert.Equal(t, 11.0, avg)
}

func TestService_StudentAverage_noGrades(t *testing.T) {
	svc, students, years := setup(t)
	enroll(t, students, years)

	avg, err := svc.StudentAverage(context.Background(), "2024001", "2024-2025")
	require.NoError(t, err)
	assert.Equal(t, 0.0, avg)
}

func TestService_Filter_sortedBySubjectThenSession(t *testing.T) {
	svc, students, years := setup(t)
	enroll(t, students, years)
	ctx := context.Background()

	_, err := svc.Create(ctx,
		grade.NewGrade{EnrollmentNumber: "2024001", Subject: "Histoire", Value: 12, Session: grade.SessionSecond, EvaluationType: grade.EvalExam},
		grade.NewGrade{EnrollmentNumber: "2024001", Subject: "Français", Value: 14, Session: grade.SessionFirst, EvaluationType: grade.EvalExam},
		grade.NewGrade{EnrollmentNumber: "2024001", Subject: "Histoire", Value: 13, Session: grade.SessionFirst, EvaluationType: grade.EvalExam},
	)
	require.NoError(t, err)

	grades, err := svc.Filter(ctx, grade.QueryFilter{EnrollmentNumber: "2024001"})
	require.NoError(t, err)
	require.Len(t, grades, 3)
	assert.Equal(t, "Français", grades[0].Subject)
	assert.Equal(t, "Histoire", grades[1].Subject)
	assert.Equal(t, grade.SessionFirst, grades[1].Session)
	assert.Equal(t, grade.SessionSecond, grades[2].Session)
}
