// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package sec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserRoleIsValid(t *testing.T) {
	assert.True(t, RoleUser.IsValid())
	assert.True(t, RoleModerator.IsValid())
	assert.True(t, RoleAdmin.IsValid())

	assert.False(t, UserRole("").IsValid())
	assert.False(t, UserRole("superuser").IsValid())
	assert.False(t, UserRole("Admin").IsValid())
}

func TestUserRoleCanModerate(t *testing.T) {
	assert.False(t, RoleUser.CanModerate())
	assert.True(t, RoleModerator.CanModerate())
	assert.True(t, RoleAdmin.CanModerate())

	// Unknown roles must never gain moderation rights.
	assert.False(t, UserRole("owner").CanModerate())
	assert.False(t, UserRole("").CanModerate())
}

func TestAuthClaimsIsAdmin(t *testing.T) {
	regular := &AuthClaims{Role: string(RoleUser)}
	assert.False(t, regular.IsAdmin())

	moderator := &AuthClaims{Role: string(RoleModerator)}
	assert.False(t, moderator.IsAdmin())

	admin := &AuthClaims{Role: string(RoleAdmin)}
	assert.True(t, admin.IsAdmin())

	// A superuser is an administrator regardless of the role string.
	superuser := &AuthClaims{Role: string(RoleUser), IsSuperuser: true}
	assert.True(t, superuser.IsAdmin())
}

func TestConfirmationCodeRoundTrip(t *testing.T) {
	code, err := GenerateConfirmationCode(20)
	assert.NoError(t, err)
	assert.Len(t, code, 40) // hex doubles the byte length

	hash, err := HashCode(code)
	assert.NoError(t, err)
	assert.NotEqual(t, code, hash)

	assert.True(t, CheckCode(code, hash))
	assert.False(t, CheckCode("wrong-code", hash))
}

func TestGenerateConfirmationCodeUniqueness(t *testing.T) {
	first, err := GenerateConfirmationCode(20)
	assert.NoError(t, err)

	second, err := GenerateConfirmationCode(20)
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
}
