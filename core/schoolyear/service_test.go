package schoolyear

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dummyYearRepository is an in-memory Repository for tests.
type dummyYearRepository struct {
	seq   int
	years map[string]*SchoolYear
}

var _ Repository = (*dummyYearRepository)(nil)

func newDummyYearRepository() *dummyYearRepository {
	return &dummyYearRepository{years: make(map[string]*SchoolYear)}
}

func (repo *dummyYearRepository) CreateYear(ctx context.Context, year SchoolYear) (SchoolYear, error) {
	for _, y := range repo.years {
		if y.Label == year.Label {
			return SchoolYear{}, ErrYearExists
		}
	}
	repo.seq++
	year.ID = string(rune('0' + repo.seq))
	repo.years[year.ID] = &year
	return year, nil
}

func (repo *dummyYearRepository) GetYearByID(ctx context.Context, id string) (SchoolYear, error) {
	if y, ok := repo.years[id]; ok {
		return *y, nil
	}
	return SchoolYear{}, ErrNotFound
}

func (repo *dummyYearRepository) GetYearByLabel(ctx context.Context, label string) (SchoolYear, error) {
	for _, y := range repo.years {
		if y.Label == label {
			return *y, nil
		}
	}
	return SchoolYear{}, ErrNotFound
}

func (repo *dummyYearRepository) GetActiveYear(ctx context.Context) (SchoolYear, error) {
	for _, y := range repo.years {
		if y.IsActive {
			return *y, nil
		}
	}
	return SchoolYear{}, ErrNoActiveYear
}

func (repo *dummyYearRepository) QueryAllYears(ctx context.Context) ([]SchoolYear, error) {
	out := make([]SchoolYear, 0, len(repo.years))
	for _, y := range repo.years {
		out = append(out, *y)
	}
	return out, nil
}

func (repo *dummyYearRepository) QueryArchivedYears(ctx context.Context) ([]SchoolYear, error) {
	out := make([]SchoolYear, 0)
	for _, y := range repo.years {
		if !y.IsActive {
			out = append(out, *y)
		}
	}
	return out, nil
}

func (repo *dummyYearRepository) DeactivateAllYears(ctx context.Context) error {
	for _, y := range repo.years {
		y.IsActive = false
	}
	return nil
}

func (repo *dummyYearRepository) SetYearActive(ctx context.Context, id string, active bool) (SchoolYear, error) {
	y, ok := repo.years[id]
	if !ok {
		return SchoolYear{}, ErrNotFound
	}
	y.IsActive = active
	return *y, nil
}

func (repo *dummyYearRepository) SaveTransitionStats(ctx context.Context, id string, stats TransitionStats) (SchoolYear, error) {
	y, ok := repo.years[id]
	if !ok {
		return SchoolYear{}, ErrNotFound
	}
	y.TransitionStats = &stats
	return *y, nil
}

func (repo *dummyYearRepository) activeCount() int {
	var n int
	for _, y := range repo.years {
		if y.IsActive {
			n++
		}
	}
	return n
}

func newYear(label string, active bool) NewSchoolYear {
	start := time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC)
	return NewSchoolYear{
		Label:     label,
		StartDate: start,
		EndDate:   start.AddDate(0, 10, 0),
		IsActive:  active,
	}
}

func TestService_Create_duplicateLabel(t *testing.T) {
	repo := newDummyYearRepository()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, newYear("2024-2025", false))
	require.NoError(t, err)

	_, err = svc.Create(ctx, newYear("2024-2025", true))
	assert.Equal(t, ErrYearExists, err)
}

func TestService_SetActive_atMostOneActive(t *testing.T) {
	repo := newDummyYearRepository()
	svc := NewService(repo)
	ctx := context.Background()

	y1, err := svc.Create(ctx, newYear("2023-2024", true))
	require.NoError(t, err)
	assert.True(t, y1.IsActive)
	assert.Equal(t, 1, repo.activeCount())

	y2, err := svc.Create(ctx, newYear("2024-2025", true))
	require.NoError(t, err)
	assert.True(t, y2.IsActive)
	assert.Equal(t, 1, repo.activeCount())

	// flipping back
	y1, err = svc.SetActive(ctx, y1.ID)
	require.NoError(t, err)
	assert.True(t, y1.IsActive)
	assert.Equal(t, 1, repo.activeCount())

	active, err := svc.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2023-2024", active.Label)
}

func TestService_GetActive_noneActive(t *testing.T) {
	repo := newDummyYearRepository()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.GetActive(ctx)
	assert.Equal(t, ErrNoActiveYear, err)

	_, err = svc.Create(ctx, newYear("2024-2025", false))
	require.NoError(t, err)
	_, err = svc.GetActive(ctx)
	assert.Equal(t, ErrNoActiveYear, err)
}

func TestStartYearNum(t *testing.T) {
	tests := []struct {
		label   string
		want    int
		wantOK  bool
	}{
		{"2024-2025", 2024, true},
		{"2025-2026", 2025, true},
		{"Année Spéciale", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := StartYearNum(tt.label)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
