package schoolyear

import (
	"context"
	"errors"
	"time"
)

var (
	// errors
	ErrNotFound     = errors.New("school year not found")
	ErrYearExists   = errors.New("a school year with this label already exists")
	ErrNoActiveYear = errors.New("no active school year found")
)

type (
	Repository interface {
		CreateYear(ctx context.Context, year SchoolYear) (SchoolYear, error)
		GetYearByID(ctx context.Context, id string) (SchoolYear, error)
		GetYearByLabel(ctx context.Context, label string) (SchoolYear, error)
		// GetActiveYear returns ErrNoActiveYear when no record is active.
		GetActiveYear(ctx context.Context) (SchoolYear, error)
		QueryAllYears(ctx context.Context) ([]SchoolYear, error)
		// QueryArchivedYears returns inactive years, newest first.
		QueryArchivedYears(ctx context.Context) ([]SchoolYear, error)
		// DeactivateAllYears clears IsActive on every record.
		DeactivateAllYears(ctx context.Context) error
		// SetYearActive sets IsActive on a single record.
		SetYearActive(ctx context.Context, id string, active bool) (SchoolYear, error)
		SaveTransitionStats(ctx context.Context, id string, stats TransitionStats) (SchoolYear, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create inserts a new SchoolYear and activates it when requested.
// It fails with ErrYearExists when the label is already taken; the caller
// decides whether to activate the existing record instead.
func (svc *Service) Create(ctx context.Context, ny NewSchoolYear) (SchoolYear, error) {
	now := time.Now().UTC()
	year := SchoolYear{
		Label:     ny.Label,
		StartDate: ny.StartDate,
		EndDate:   ny.EndDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	year, err := svc.repo.CreateYear(ctx, year)
	if err != nil {
		return SchoolYear{}, err
	}
	if ny.IsActive {
		return svc.SetActive(ctx, year.ID)
	}
	return year, nil
}

// CreateActive inserts a new active SchoolYear, deactivating all others first.
func (svc *Service) CreateActive(ctx context.Context, label string, start, end time.Time) (SchoolYear, error) {
	if err := svc.repo.DeactivateAllYears(ctx); err != nil {
		return SchoolYear{}, err
	}
	now := time.Now().UTC()
	year, err := svc.repo.CreateYear(ctx, SchoolYear{
		Label:     label,
		IsActive:  true,
		StartDate: start,
		EndDate:   end,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return SchoolYear{}, err
	}
	return year, nil
}

func (svc *Service) GetActive(ctx context.Context) (SchoolYear, error) {
	return svc.repo.GetActiveYear(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (SchoolYear, error) {
	return svc.repo.GetYearByID(ctx, id)
}

func (svc *Service) GetByLabel(ctx context.Context, label string) (SchoolYear, error) {
	return svc.repo.GetYearByLabel(ctx, label)
}

func (svc *Service) QueryAll(ctx context.Context) ([]SchoolYear, error) {
	return svc.repo.QueryAllYears(ctx)
}

func (svc *Service) QueryArchived(ctx context.Context) ([]SchoolYear, error) {
	return svc.repo.QueryArchivedYears(ctx)
}

// SetActive makes the year with the given id the single active year.
// The invariant is preserved with two sequential writes: clear the flag on
// all records, then set it on the target.
func (svc *Service) SetActive(ctx context.Context, id string) (SchoolYear, error) {
	if err := svc.repo.DeactivateAllYears(ctx); err != nil {
		return SchoolYear{}, err
	}
	return svc.repo.SetYearActive(ctx, id, true)
}

// Archive retires a specific year by clearing its active flag.
func (svc *Service) Archive(ctx context.Context, id string) (SchoolYear, error) {
	return svc.repo.SetYearActive(ctx, id, false)
}

func (svc *Service) SaveTransitionStats(ctx context.Context, id string, stats TransitionStats) (SchoolYear, error) {
	return svc.repo.SaveTransitionStats(ctx, id, stats)
}
