// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

/*
Package auth implements the passwordless identity layer.

It defines the core User entity and the signup/token-exchange flow: a client
registers with a username and email, receives a confirmation code out-of-band,
and trades that code for a signed JWT access token.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"

	"github.com/polyakovda/yamdb/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the YamDB platform.
type User struct {
	ID          int64        `json:"id"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	FirstName   string       `json:"first_name,omitempty"`
	LastName    string       `json:"last_name,omitempty"`
	Bio         string       `json:"bio,omitempty"`
	Role        sec.UserRole `json:"role"`
	IsSuperuser bool         `json:"-"` // Derived privilege flag. Omitted from API payloads.
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// IsAdmin reports whether the user holds administrator privileges.
// A superuser is always an administrator regardless of the role column.
func (u *User) IsAdmin() bool {
	return u.Role == sec.RoleAdmin || u.IsSuperuser
}

// CanModerate reports whether the user may manage content authored by others.
func (u *User) CanModerate() bool {
	return u.Role.CanModerate() || u.IsSuperuser
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldConfirmationCode = "confirmation_code"
	FieldToken            = "token"
)
