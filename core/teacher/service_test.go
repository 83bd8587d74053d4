package teacher_test

import (
	"context"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/teacher"
	dummydb "github.com/trezcool/shule/storage/database/dummy"
)

func newValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	return validate, translator
}

func setup(t *testing.T) *teacher.Service {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	return teacher.NewService(dummydb.NewTeacherRepository(db))
}

func newTeacher(lname, subject string, classes ...string) teacher.NewTeacher {
	return teacher.NewTeacher{
		LastName:  lname,
		FirstName: "hery",
		Subject:   subject,
		Phone:     "0331112233",
		Classes:   classes,
	}
}

func TestService_Create(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	tch, err := svc.Create(ctx, newTeacher("rasolofoson", "Mathématiques", "6ème", "5ème"))
	require.NoError(t, err)

	assert.Equal(t, "RASOLOFOSON", tch.LastName)
	assert.Equal(t, "Hery", tch.FirstName)
	assert.Equal(t, "Hery RASOLOFOSON", tch.FullName())
	assert.Equal(t, []string{"6ème", "5ème"}, tch.Classes)
	assert.NotEmpty(t, tch.ID)
}

func TestService_Create_noClasses(t *testing.T) {
	svc := setup(t)

	tch, err := svc.Create(context.Background(), newTeacher("rasolofoson", "EPS"))
	require.NoError(t, err)
	assert.Equal(t, []string{}, tch.Classes)
}

func TestNewTeacher_Validate_unknownClass(t *testing.T) {
	validate, translator := newValidator()
	nt := newTeacher("rasolofoson", "Mathématiques", "6ème Z")

	err := nt.Validate(validate, translator)
	vErr, ok := err.(*core.ValidationError)
	require.True(t, ok)
	require.Len(t, vErr.Fields, 1)
	assert.Equal(t, "classes", vErr.Fields[0].Field)
}

func TestService_Update(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	tch, err := svc.Create(ctx, newTeacher("rasolofoson", "Mathématiques", "6ème"))
	require.NoError(t, err)

	tch, err = svc.Update(ctx, tch.ID, teacher.UpdateTeacher{
		Subject: "Physique - Chimie",
		Classes: []string{"3ème"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Physique - Chimie", tch.Subject)
	assert.Equal(t, []string{"3ème"}, tch.Classes)
	// untouched fields survive the partial update
	assert.Equal(t, "RASOLOFOSON", tch.LastName)
	assert.Equal(t, "0331112233", tch.Phone)

	_, err = svc.Update(ctx, "nope", teacher.UpdateTeacher{Subject: "SVT"})
	assert.Equal(t, teacher.ErrNotFound, err)
}

func TestService_Filter(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, newTeacher("rasolofoson", "Mathématiques", "6ème", "5ème"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, newTeacher("andrianina", "Français", "CM2"))
	require.NoError(t, err)

	all, err := svc.Filter(ctx, teacher.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bySubject, err := svc.Filter(ctx, teacher.QueryFilter{Subject: "Français"})
	require.NoError(t, err)
	require.Len(t, bySubject, 1)
	assert.Equal(t, "ANDRIANINA", bySubject[0].LastName)

	byClass, err := svc.Filter(ctx, teacher.QueryFilter{Class: "5ème"})
	require.NoError(t, err)
	require.Len(t, byClass, 1)
	assert.Equal(t, "RASOLOFOSON", byClass[0].LastName)
}

func TestService_Delete(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	tch, err := svc.Create(ctx, newTeacher("rasolofoson", "Mathématiques"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, tch.ID))
	_, err = svc.GetByID(ctx, tch.ID)
	assert.Equal(t, teacher.ErrNotFound, err)
}
