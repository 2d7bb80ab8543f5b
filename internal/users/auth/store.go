// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package auth

import "context"

// # Storage Contracts

// UserRepository defines persistence operations for user accounts needed by
// the signup and token-exchange flows.
//
// # Error Semantics
//
// Find methods return apperr.NotFound when no matching record exists; any
// other error indicates a storage failure.
type UserRepository interface {
	// Create persists a new user account.
	Create(ctx context.Context, user *User) error

	// FindByUsername retrieves a user by their unique username.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByEmail retrieves a user by their unique email address.
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// ConfirmationCodeRepository stores the bcrypt hash of the signup confirmation
// code, keyed by username.
//
// # Lifecycle
//
// Codes have no TTL: a code stays valid until the user exchanges it for a
// token (single use) or requests a new one, which overwrites the old hash.
type ConfirmationCodeRepository interface {
	// Set stores (or replaces) the code hash for a username.
	Set(ctx context.Context, username, codeHash string) error

	// Get retrieves the stored code hash. Returns apperr.NotFound if absent.
	Get(ctx context.Context, username string) (string, error)

	// Delete removes the code hash after a successful exchange.
	Delete(ctx context.Context, username string) error
}
