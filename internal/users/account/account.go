// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

/*
Package account implements user administration and self-profile management.

It covers two audiences with the same underlying data:

  - Administrators: full CRUD over every account, addressed by username,
    including role assignment.
  - Account owners: read and partial update of their own profile via the
    "me" alias, with the role field locked.

# Architecture

The package builds on the [auth.User] entity — identity creation stays in the
auth package, while this one manages the account's lifetime afterwards.
*/
package account

import (
	"context"

	"github.com/polyakovda/yamdb/internal/users/auth"
	"github.com/polyakovda/yamdb/pkg/pagination"
)

// # Storage Contracts

// AccountRepository defines persistence operations for account administration.
type AccountRepository interface {
	// List returns a page of users plus the total count. An empty search
	// string matches everything; otherwise it filters by username substring.
	List(ctx context.Context, search string, params pagination.Params) ([]*auth.User, int, error)

	// FindByID retrieves a user by primary key.
	FindByID(ctx context.Context, id int64) (*auth.User, error)

	// FindByUsername retrieves a user by their unique username.
	FindByUsername(ctx context.Context, username string) (*auth.User, error)

	// Create persists a new user account with an explicit role.
	Create(ctx context.Context, user *auth.User) error

	// Update persists changes to an existing account.
	Update(ctx context.Context, user *auth.User) error

	// Delete removes an account by username. Returns apperr.NotFound if absent.
	Delete(ctx context.Context, username string) error
}

// # Field Identifiers

const (
	FieldUsername  = "username"
	FieldEmail     = "email"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldBio       = "bio"
	FieldRole      = "role"
)
