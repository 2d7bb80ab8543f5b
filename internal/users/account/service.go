// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/polyakovda/yamdb/internal/platform/constants"
	"github.com/polyakovda/yamdb/internal/platform/sec"
	"github.com/polyakovda/yamdb/internal/platform/validate"
	"github.com/polyakovda/yamdb/internal/users/auth"
	"github.com/polyakovda/yamdb/pkg/pagination"
)

// # Service Layer

// Service orchestrates business logic for account administration and profiles.
type Service struct {
	accountRepository AccountRepository
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(accountRepo AccountRepository, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		logger:            logger,
	}
}

// # Administration

/*
ListUsers returns a page of accounts, optionally filtered by username substring.

Parameters:
  - context: context.Context
  - search: string (empty matches everything)
  - params: pagination.Params

Returns:
  - []*auth.User: The page of accounts
  - int: Total matching count
  - error: Execution failures
*/
func (service *Service) ListUsers(context context.Context, search string, params pagination.Params) ([]*auth.User, int, error) {
	users, total, err := service.accountRepository.List(context, search, params)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, total, nil
}

// CreateUserInput holds the fields an administrator may set on a new account.
type CreateUserInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      string
}

/*
CreateUser provisions a new account with an explicit role.

Description: Administrative counterpart of the public signup. No confirmation
code is issued here; the user obtains one through the regular signup endpoint,
which is idempotent for an existing (username, email) pair.

Parameters:
  - context: context.Context
  - input: CreateUserInput

Returns:
  - *auth.User: Created entity
  - error: Validation failures, Conflict, or storage errors
*/
func (service *Service) CreateUser(context context.Context, input CreateUserInput) (*auth.User, error) {
	if input.Role == "" {
		input.Role = string(sec.RoleUser)
	}

	if err := validateUserFields(input.Username, input.Email, input.FirstName, input.LastName, input.Role); err != nil {
		return nil, err
	}

	user := &auth.User{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      sec.UserRole(input.Role),
	}

	if err := service.accountRepository.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "user_created_by_admin",
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

/*
GetUser retrieves an account by username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *auth.User: The hydrated account
  - error: apperr.NotFound or execution failures
*/
func (service *Service) GetUser(context context.Context, username string) (*auth.User, error) {
	return service.accountRepository.FindByUsername(context, username)
}

// UpdateUserInput defines the mutable account fields for administrators.
// Nil pointers leave the corresponding field unchanged.
type UpdateUserInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

/*
UpdateUser applies a partial set of changes to an account, role included.

Parameters:
  - context: context.Context
  - username: string
  - input: UpdateUserInput

Returns:
  - *auth.User: The updated account
  - error: NotFound, validation failures, or storage errors
*/
func (service *Service) UpdateUser(context context.Context, username string, input UpdateUserInput) (*auth.User, error) {
	user, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}

	if input.Role != nil && !sec.UserRole(*input.Role).IsValid() {
		return nil, validate.RequiredError(FieldRole, "Must be one of: user, moderator, admin")
	}

	applyProfileChanges(user, input.Email, input.FirstName, input.LastName, input.Bio)
	if input.Role != nil {
		user.Role = sec.UserRole(*input.Role)
	}

	if err := validateUserFields(user.Username, user.Email, user.FirstName, user.LastName, string(user.Role)); err != nil {
		return nil, err
	}

	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

/*
DeleteUser removes an account by username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - error: apperr.NotFound or storage errors
*/
func (service *Service) DeleteUser(context context.Context, username string) error {
	if err := service.accountRepository.Delete(context, username); err != nil {
		return err
	}

	service.logger.InfoContext(context, "user_deleted_by_admin",
		slog.String("username", username),
	)

	return nil
}

// # Self Profile

/*
GetProfile retrieves the caller's own account.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - *auth.User: The hydrated profile
  - error: NotFound or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID int64) (*auth.User, error) {
	return service.accountRepository.FindByID(context, userID)
}

// UpdateProfileInput defines the fields an account owner may change.
// The role is deliberately absent — users cannot promote themselves.
type UpdateProfileInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
}

/*
UpdateProfile applies a partial set of changes to the caller's own account.

Parameters:
  - context: context.Context
  - userID: int64
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated profile
  - error: NotFound, validation failures, or storage errors
*/
func (service *Service) UpdateProfile(context context.Context, userID int64, input UpdateProfileInput) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	applyProfileChanges(user, input.Email, input.FirstName, input.LastName, input.Bio)

	if err := validateUserFields(user.Username, user.Email, user.FirstName, user.LastName, string(user.Role)); err != nil {
		return nil, err
	}

	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

// # Helpers

// applyProfileChanges overrides the provided profile fields in place.
func applyProfileChanges(user *auth.User, email, firstName, lastName, bio *string) {
	if email != nil {
		user.Email = *email
	}
	if firstName != nil {
		user.FirstName = *firstName
	}
	if lastName != nil {
		user.LastName = *lastName
	}
	if bio != nil {
		user.Bio = *bio
	}
}

// validateUserFields applies the shared account field rules.
func validateUserFields(username, email, firstName, lastName, role string) error {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		Username(FieldUsername, username).
		MaxLen(FieldUsername, username, constants.UsernameMaxLength).
		Required(FieldEmail, email).
		Email(FieldEmail, email).
		MaxLen(FieldEmail, email, constants.EmailMaxLength).
		MaxLen(FieldFirstName, firstName, constants.UsernameMaxLength).
		MaxLen(FieldLastName, lastName, constants.UsernameMaxLength).
		OneOf(FieldRole, role, string(sec.RoleUser), string(sec.RoleModerator), string(sec.RoleAdmin))
	return validator.Err()
}
