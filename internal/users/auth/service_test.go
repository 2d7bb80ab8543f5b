// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyakovda/yamdb/internal/platform/apperr"
	"github.com/polyakovda/yamdb/internal/platform/sec"
)

// # Test Doubles

type fakeUserRepository struct {
	nextID int64
	users  map[string]*User // keyed by username
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{nextID: 1, users: make(map[string]*User)}
}

func (f *fakeUserRepository) Create(_ context.Context, user *User) error {
	if _, exists := f.users[user.Username]; exists {
		return apperr.Conflict("duplicate")
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	if user, ok := f.users[username]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

type fakeCodeRepository struct {
	hashes map[string]string
}

func newFakeCodeRepository() *fakeCodeRepository {
	return &fakeCodeRepository{hashes: make(map[string]string)}
}

func (f *fakeCodeRepository) Set(_ context.Context, username, codeHash string) error {
	f.hashes[username] = codeHash
	return nil
}

func (f *fakeCodeRepository) Get(_ context.Context, username string) (string, error) {
	if hash, ok := f.hashes[username]; ok {
		return hash, nil
	}
	return "", apperr.NotFound("Confirmation code")
}

func (f *fakeCodeRepository) Delete(_ context.Context, username string) error {
	delete(f.hashes, username)
	return nil
}

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(int64, string, string, bool, time.Duration) (string, error) {
	return "signed.jwt.token", nil
}

// captureSender records the last code handed to the delivery channel.
type captureSender struct {
	lastCode  string
	lastEmail string
}

func (s *captureSender) Send(_ context.Context, email, _, code string) error {
	s.lastEmail = email
	s.lastCode = code
	return nil
}

func newTestService() (*Service, *fakeUserRepository, *fakeCodeRepository, *captureSender) {
	users := newFakeUserRepository()
	codes := newFakeCodeRepository()
	sender := &captureSender{}
	service := NewService(users, codes, fakeTokenProvider{}, sender, slog.Default())
	return service, users, codes, sender
}

// # Signup

func TestSignup_CreatesNewUser(t *testing.T) {
	service, users, codes, sender := newTestService()

	user, err := service.Signup(context.Background(), SignupInput{
		Username: "reader",
		Email:    "reader@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.Contains(t, users.users, "reader")

	// A code must have been stored (hashed) and delivered (plaintext).
	assert.Contains(t, codes.hashes, "reader")
	assert.NotEmpty(t, sender.lastCode)
	assert.NotEqual(t, sender.lastCode, codes.hashes["reader"])
	assert.Equal(t, "reader@example.com", sender.lastEmail)
}

func TestSignup_RepeatIsIdempotent(t *testing.T) {
	service, users, _, sender := newTestService()

	first, err := service.Signup(context.Background(), SignupInput{Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)
	firstCode := sender.lastCode

	second, err := service.Signup(context.Background(), SignupInput{Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)

	// Same account, no duplicate record, fresh code.
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, users.users, 1)
	assert.NotEqual(t, firstCode, sender.lastCode)
}

func TestSignup_UsernameTakenByDifferentEmail(t *testing.T) {
	service, _, _, _ := newTestService()

	_, err := service.Signup(context.Background(), SignupInput{Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)

	_, err = service.Signup(context.Background(), SignupInput{Username: "reader", Email: "other@example.com"})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, FieldUsername, ae.Details[0].Field)
}

func TestSignup_EmailTakenByDifferentUsername(t *testing.T) {
	service, _, _, _ := newTestService()

	_, err := service.Signup(context.Background(), SignupInput{Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)

	_, err = service.Signup(context.Background(), SignupInput{Username: "other", Email: "reader@example.com"})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, FieldEmail, ae.Details[0].Field)
}

func TestSignup_RejectsReservedUsername(t *testing.T) {
	service, _, _, _ := newTestService()

	_, err := service.Signup(context.Background(), SignupInput{Username: "me", Email: "me@example.com"})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
}

func TestSignup_RejectsInvalidEmail(t *testing.T) {
	service, _, _, _ := newTestService()

	_, err := service.Signup(context.Background(), SignupInput{Username: "reader", Email: "not-an-email"})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

// # Token Exchange

func TestObtainToken_Success(t *testing.T) {
	service, _, codes, sender := newTestService()

	_, err := service.Signup(context.Background(), SignupInput{Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)

	output, err := service.ObtainToken(context.Background(), "reader", sender.lastCode)

	require.NoError(t, err)
	assert.Equal(t, "signed.jwt.token", output.Token)

	// The code is single-use and must be consumed.
	assert.NotContains(t, codes.hashes, "reader")
}

func TestObtainToken_CodeIsSingleUse(t *testing.T) {
	service, _, _, sender := newTestService()

	_, err := service.Signup(context.Background(), SignupInput{Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)

	_, err = service.ObtainToken(context.Background(), "reader", sender.lastCode)
	require.NoError(t, err)

	_, err = service.ObtainToken(context.Background(), "reader", sender.lastCode)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

func TestObtainToken_WrongCode(t *testing.T) {
	service, _, codes, _ := newTestService()

	_, err := service.Signup(context.Background(), SignupInput{Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)

	_, err = service.ObtainToken(context.Background(), "reader", "definitely-wrong")

	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	// A failed attempt must not consume the stored code.
	assert.Contains(t, codes.hashes, "reader")
}

func TestObtainToken_UnknownUsernameIsIndistinguishable(t *testing.T) {
	service, _, _, _ := newTestService()

	_, err := service.Signup(context.Background(), SignupInput{Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)

	_, wrongCodeErr := service.ObtainToken(context.Background(), "reader", "definitely-wrong")
	_, unknownUserErr := service.ObtainToken(context.Background(), "ghost", "definitely-wrong")

	require.Error(t, wrongCodeErr)
	require.Error(t, unknownUserErr)

	// The response must not reveal whether the username or the code was bad.
	assert.Equal(t, apperr.As(wrongCodeErr).Code, apperr.As(unknownUserErr).Code)
	assert.Equal(t, apperr.As(wrongCodeErr).Message, apperr.As(unknownUserErr).Message)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(unknownUserErr).Code)
}
