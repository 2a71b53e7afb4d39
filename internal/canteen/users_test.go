package canteen

import (
	"canteen-service/internal/models"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.svc.Register(ctx, Registration{Username: "smirnova", Password: "secret", Role: models.RoleStudent, Class: "9Б"})
	require.NoError(t, err)
	assert.Equal(t, int64(StartingBalance), user.Balance)
	assert.NotEqual(t, "secret", user.PasswordHash)

	cook, err := f.svc.Register(ctx, Registration{Username: "kuznetsov", Password: "secret", Role: models.RoleCook})
	require.NoError(t, err)
	assert.Equal(t, int64(0), cook.Balance)

	got, err := f.svc.Login(ctx, "smirnova", "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = f.svc.Login(ctx, "smirnova", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, "nobody", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, Registration{Username: "ivanov", Password: "x", Role: models.RoleStudent})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = f.svc.Register(ctx, Registration{Username: "root", Password: "x", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Register(ctx, Registration{Username: "", Password: "x", Role: models.RoleStudent})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.svc.UpdateProfile(ctx, f.student, []string{" орехи", "молоко", "орехи", ""}, []string{"вегетарианское"})
	require.NoError(t, err)
	assert.Equal(t, []string{"орехи", "молоко"}, user.Allergies)
	assert.Equal(t, []string{"вегетарианское"}, user.Preferences)

	_, err = f.svc.UpdateProfile(ctx, f.cook, nil, nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUserByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.svc.UserByID(ctx, f.cook.ID)
	require.NoError(t, err)
	assert.Equal(t, "petrov", user.Username)

	_, err = f.svc.UserByID(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
