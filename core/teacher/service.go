package teacher

import (
	"context"
	"errors"
	"time"
)

var (
	// errors
	ErrNotFound = errors.New("teacher not found")

	errUnknownClass = "unknown class"
)

type (
	Repository interface {
		CreateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
		GetTeacherByID(ctx context.Context, id string) (Teacher, error)
		// FilterTeachers applies AND operation on available QueryFilter fields.
		FilterTeachers(ctx context.Context, filter QueryFilter) ([]Teacher, error)
		UpdateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
		DeleteTeacher(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nt NewTeacher) (Teacher, error) {
	now := time.Now().UTC()
	tch := Teacher{
		LastName:  nt.LastName,
		FirstName: nt.FirstName,
		Subject:   nt.Subject,
		Phone:     nt.Phone,
		Email:     nt.Email,
		HiredAt:   nt.HiredAt,
		Classes:   nt.Classes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if tch.Classes == nil {
		tch.Classes = []string{}
	}
	tch.Normalize()
	return svc.repo.CreateTeacher(ctx, tch)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Teacher, error) {
	return svc.repo.GetTeacherByID(ctx, id)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Teacher, error) {
	return svc.repo.FilterTeachers(ctx, filter)
}

func (svc *Service) Update(ctx context.Context, id string, up UpdateTeacher) (Teacher, error) {
	tch, err := svc.repo.GetTeacherByID(ctx, id)
	if err != nil {
		return Teacher{}, err
	}
	if up.LastName != "" {
		tch.LastName = up.LastName
	}
	if up.FirstName != "" {
		tch.FirstName = up.FirstName
	}
	if up.Subject != "" {
		tch.Subject = up.Subject
	}
	if up.Phone != "" {
		tch.Phone = up.Phone
	}
	if up.Email != "" {
		tch.Email = up.Email
	}
	if !up.HiredAt.IsZero() {
		tch.HiredAt = up.HiredAt
	}
	if up.Classes != nil {
		tch.Classes = up.Classes
	}
	tch.UpdatedAt = time.Now().UTC()
	tch.Normalize()
	return svc.repo.UpdateTeacher(ctx, tch)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteTeacher(ctx, id)
}
