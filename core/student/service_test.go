package student_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core/schoolyear"
	"github.com/trezcool/shule/core/student"
	dummydb "github.com/trezcool/shule/storage/database/dummy"
)

func setup(t *testing.T) (*student.Service, *schoolyear.Service) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	yearRepo := dummydb.NewSchoolYearRepository(db)
	return student.NewService(dummydb.NewStudentRepository(db), yearRepo), schoolyear.NewService(yearRepo)
}

func newStudent(enrollment, class string) student.NewStudent {
	return student.NewStudent{
		EnrollmentNumber: enrollment,
		LastName:         "rakoto",
		FirstName:        "niry",
		Class:            class,
		ParentPhone:      "0341234567",
	}
}

func TestService_Create_attachesActiveYear(t *testing.T) {
	svc, years := setup(t)
	ctx := context.Background()

	start := time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC)
	_, err := years.CreateActive(ctx, "2024-2025", start, start.AddDate(0, 10, 0))
	require.NoError(t, err)

	std, err := svc.Create(ctx, newStudent("2024001", "CM2"))
	require.NoError(t, err)

	assert.Equal(t, "2024-2025", std.YearLabel)
	assert.Equal(t, "RAKOTO", std.LastName)
	assert.Equal(t, "Niry", std.FirstName)
	assert.Equal(t, student.LevelPrimary, std.Level)
}

func TestService_Create_noActiveYear(t *testing.T) {
	svc, _ := setup(t)

	std, err := svc.Create(context.Background(), newStudent("2024001", "6ème"))
	require.NoError(t, err)
	assert.Empty(t, std.YearLabel)
}

func TestService_Create_duplicateEnrollmentNumber(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, newStudent("2024001", "CM2"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, newStudent("2024001", "6ème"))
	assert.Equal(t, student.ErrEnrollmentExists, err)
}

func TestService_Update_rederivesLevelFromClass(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, newStudent("2024001", "CM2"))
	require.NoError(t, err)

	std, err := svc.Update(ctx, "2024001", student.UpdateStudent{Class: "6ème"})
	require.NoError(t, err)
	assert.Equal(t, "6ème", std.Class)
	assert.Equal(t, student.LevelLowerSecondary, std.Level)

	// untouched fields survive a partial update
	assert.Equal(t, "RAKOTO", std.LastName)
	assert.Equal(t, "0341234567", std.ParentPhone)
}

func TestService_Filter(t *testing.T) {
	svc, years := setup(t)
	ctx := context.Background()

	start := time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC)
	_, err := years.CreateActive(ctx, "2024-2025", start, start.AddDate(0, 10, 0))
	require.NoError(t, err)

	_, err = svc.Create(ctx, newStudent("2024001", "CM2"))
	require.NoError(t, err)
	other := newStudent("2024002", "6ème")
	other.ParentPhone = "0329876543"
	_, err = svc.Create(ctx, other)
	require.NoError(t, err)

	byClass, err := svc.Filter(ctx, student.QueryFilter{Class: "CM2"})
	require.NoError(t, err)
	require.Len(t, byClass, 1)
	assert.Equal(t, "2024001", byClass[0].EnrollmentNumber)

	byPhone, err := svc.Filter(ctx, student.QueryFilter{ParentPhone: "987"})
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, "2024002", byPhone[0].EnrollmentNumber)

	byYear, err := svc.Filter(ctx, student.QueryFilter{YearLabel: "2024-2025"})
	require.NoError(t, err)
	assert.Len(t, byYear, 2)
}
