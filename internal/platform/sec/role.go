// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
//
// The wire values are exactly the strings "user", "moderator", "admin";
// they are stored verbatim in the role column and in JWT claims.
type UserRole string

const (
	// Unrestricted system access
	RoleAdmin UserRole = "admin"

	// Can edit or delete any review and comment
	RoleModerator UserRole = "moderator"

	// Default role for standard registered users
	RoleUser UserRole = "user"
)

// IsValid reports whether the string is one of the three known roles.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	}
	return false
}

// CanModerate reports whether the role may edit or delete content authored
// by somebody else (reviews and comments).
//
// Deliberately an explicit role-set check rather than `role != "user"`:
// an unknown or empty role must never grant moderation rights.
func (r UserRole) CanModerate() bool {
	return r == RoleModerator || r == RoleAdmin
}
