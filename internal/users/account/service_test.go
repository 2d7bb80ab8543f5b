// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package account

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyakovda/yamdb/internal/platform/apperr"
	"github.com/polyakovda/yamdb/internal/platform/sec"
	"github.com/polyakovda/yamdb/internal/users/auth"
	"github.com/polyakovda/yamdb/pkg/pagination"
)

// # Test Doubles

type fakeAccountRepository struct {
	nextID int64
	users  map[string]*auth.User
}

func newFakeAccountRepository() *fakeAccountRepository {
	return &fakeAccountRepository{nextID: 1, users: make(map[string]*auth.User)}
}

func (f *fakeAccountRepository) List(_ context.Context, search string, params pagination.Params) ([]*auth.User, int, error) {
	var all []*auth.User
	for _, u := range f.users {
		all = append(all, u)
	}
	return all, len(all), nil
}

func (f *fakeAccountRepository) FindByID(_ context.Context, id int64) (*auth.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeAccountRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeAccountRepository) Create(_ context.Context, user *auth.User) error {
	if _, exists := f.users[user.Username]; exists {
		return apperr.Conflict("duplicate")
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.Username] = user
	return nil
}

func (f *fakeAccountRepository) Update(_ context.Context, user *auth.User) error {
	f.users[user.Username] = user
	return nil
}

func (f *fakeAccountRepository) Delete(_ context.Context, username string) error {
	if _, ok := f.users[username]; !ok {
		return apperr.NotFound("User")
	}
	delete(f.users, username)
	return nil
}

func newTestService() (*Service, *fakeAccountRepository) {
	repo := newFakeAccountRepository()
	return NewService(repo, slog.Default()), repo
}

// # Administration

func TestCreateUser_DefaultsToUserRole(t *testing.T) {
	service, _ := newTestService()

	user, err := service.CreateUser(context.Background(), CreateUserInput{
		Username: "reader",
		Email:    "reader@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, user.Role)
}

func TestCreateUser_AdminAssignsRole(t *testing.T) {
	service, _ := newTestService()

	user, err := service.CreateUser(context.Background(), CreateUserInput{
		Username: "mod",
		Email:    "mod@example.com",
		Role:     "moderator",
	})

	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, user.Role)
}

func TestCreateUser_RejectsUnknownRole(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateUser(context.Background(), CreateUserInput{
		Username: "reader",
		Email:    "reader@example.com",
		Role:     "owner",
	})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestUpdateUser_ChangesRole(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateUser(context.Background(), CreateUserInput{
		Username: "reader",
		Email:    "reader@example.com",
	})
	require.NoError(t, err)

	role := "moderator"
	updated, err := service.UpdateUser(context.Background(), "reader", UpdateUserInput{Role: &role})

	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, updated.Role)
}

func TestUpdateUser_RejectsInvalidRole(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateUser(context.Background(), CreateUserInput{
		Username: "reader",
		Email:    "reader@example.com",
	})
	require.NoError(t, err)

	role := "root"
	_, err = service.UpdateUser(context.Background(), "reader", UpdateUserInput{Role: &role})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestDeleteUser_UnknownUsername(t *testing.T) {
	service, _ := newTestService()

	err := service.DeleteUser(context.Background(), "ghost")

	assert.True(t, apperr.IsNotFound(err))
}

// # Self Profile

func TestUpdateProfile_CannotTouchRole(t *testing.T) {
	service, repo := newTestService()

	user, err := service.CreateUser(context.Background(), CreateUserInput{
		Username: "reader",
		Email:    "reader@example.com",
	})
	require.NoError(t, err)

	bio := "I review things."
	updated, err := service.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{Bio: &bio})

	require.NoError(t, err)
	assert.Equal(t, "I review things.", updated.Bio)

	// The role must survive any self-service update untouched.
	assert.Equal(t, sec.RoleUser, repo.users["reader"].Role)
}

func TestGetProfile_UnknownID(t *testing.T) {
	service, _ := newTestService()

	_, err := service.GetProfile(context.Background(), 404)

	assert.True(t, apperr.IsNotFound(err))
}
