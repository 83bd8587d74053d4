package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
	dummydb "github.com/trezcool/shule/storage/database/dummy"
)

func setup(t *testing.T) *user.Service {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	return user.NewService(dummydb.NewUserRepository(db))
}

func newUser(uname, email string) user.NewUser {
	return user.NewUser{
		Username: uname,
		Email:    email,
		Password: "Sup3rS3cret!",
		Role:     user.RoleStaff,
	}
}

func TestService_Create(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	usr, err := svc.Create(ctx, newUser("awa", "awa@school.test"))
	require.NoError(t, err)

	assert.True(t, usr.IsActive)
	assert.NoError(t, usr.CheckPassword("Sup3rS3cret!"))
	assert.Error(t, usr.CheckPassword("wrong"))
	assert.False(t, usr.IsAdmin())
}

func TestService_Create_duplicateUsername(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, newUser("awa", "awa@school.test"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, newUser("awa", "other@school.test"))
	vErr, ok := err.(*core.ValidationError)
	require.True(t, ok)
	require.Len(t, vErr.Fields, 1)
	assert.Equal(t, "username", vErr.Fields[0].Field)
}

func TestService_Update_deactivate(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	usr, err := svc.Create(ctx, newUser("awa", "awa@school.test"))
	require.NoError(t, err)

	inactive := false
	usr, err = svc.Update(ctx, usr.ID, user.UpdateUser{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, usr.IsActive)
}

func TestService_GetByUsernameOrEmail(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, newUser("awa", "awa@school.test"))
	require.NoError(t, err)

	byUname, err := svc.GetByUsernameOrEmail(ctx, " AWA ")
	require.NoError(t, err)
	assert.Equal(t, "awa", byUname.Username)

	byEmail, err := svc.GetByUsernameOrEmail(ctx, "awa@school.test")
	require.NoError(t, err)
	assert.Equal(t, "awa", byEmail.Username)

	_, err = svc.GetByUsernameOrEmail(ctx, "nope")
	assert.Equal(t, user.ErrNotFound, err)
}
