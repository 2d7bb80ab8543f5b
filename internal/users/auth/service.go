// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

/*
Package auth implements the core identity and access management (IAM) system.

It handles the passwordless signup flow: registration issues a confirmation
code delivered out-of-band, and the token endpoint exchanges that code for an
RSA-signed JWT access token.

Architecture:

  - Service: Orchestrates business logic (Signup, ObtainToken).
  - Repository: Abstracted interfaces for Postgres (Users) and Redis (Codes).
  - Security: Leverages bcrypt-hashed codes and RSA-signed JWTs.

The package ensures that identity data remains consistent and secure throughout
the platform's lifecycle.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/polyakovda/yamdb/internal/platform/apperr"
	"github.com/polyakovda/yamdb/internal/platform/constants"
	"github.com/polyakovda/yamdb/internal/platform/sec"
	"github.com/polyakovda/yamdb/internal/platform/validate"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - role: The role of the account.
	//   - isSuperuser: Whether the account carries the superuser flag.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID int64, username, role string, isSuperuser bool, timeToLive time.Duration) (string, error)
}

// Service implements the signup and token-exchange use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to code issuance or
// token-exchange logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	codeRepository ConfirmationCodeRepository
	tokenProvider  TokenProvider
	codeSender     CodeSender
	logger         *slog.Logger
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	codeRepo ConfirmationCodeRepository,
	tokenProv TokenProvider,
	sender CodeSender,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository: userRepo,
		codeRepository: codeRepo,
		tokenProvider:  tokenProv,
		codeSender:     sender,
		logger:         logger,
	}
}

// # Signup Flow

// SignupInput holds the data required to register or re-confirm a member.
type SignupInput struct {
	Username string
	Email    string
}

/*
Signup registers a new account or re-issues a confirmation code for an
existing one.

Description: The operation is idempotent for a matching (username, email)
pair — repeating it simply generates a fresh confirmation code. A username
and email that resolve to two different records (or one record with the other
field mismatched) is a validation failure, reported per field.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *User: The created or existing entity
  - err: Validation failures or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*User, error) {
	if err := validateSignupInput(input); err != nil {
		return nil, err
	}

	user, err := service.resolveAccount(context, input)
	if err != nil {
		return nil, err
	}

	// Issue a fresh confirmation code. Any previously stored code is
	// overwritten, so only the latest one can be exchanged.
	code, err := sec.GenerateConfirmationCode(constants.ConfirmationCodeLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_code_generation_failed: %w", err)
	}

	codeHash, err := sec.HashCode(code)
	if err != nil {
		return nil, fmt.Errorf("auth_service_code_hash_failed: %w", err)
	}

	if err := service.codeRepository.Set(context, user.Username, codeHash); err != nil {
		return nil, fmt.Errorf("auth_service_code_store_failed: %w", err)
	}

	// Delivery failures are logged but do not fail the signup: the client
	// can always repeat the request to get a new code.
	if err := service.codeSender.Send(context, user.Email, user.Username, code); err != nil {
		service.logger.ErrorContext(context, "confirmation_code_delivery_failed",
			slog.String("username", user.Username),
			slog.Any("error", err),
		)
	}

	return user, nil
}

// resolveAccount finds the account matching the signup pair or creates a new one.
//
// # Conflict Matrix
//
//   - username and email both belong to the same record: reuse it.
//   - username taken with a different email: field error on "username".
//   - email registered under a different username: field error on "email".
//   - neither taken: create a fresh account with the default role.
func (service *Service) resolveAccount(context context.Context, input SignupInput) (*User, error) {
	byUsername, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}

	byEmail, err := service.userRepository.FindByEmail(context, input.Email)
	if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}

	// Exact match: this is a repeat signup for an existing account.
	if byUsername != nil && byEmail != nil && byUsername.ID == byEmail.ID {
		return byUsername, nil
	}

	var fieldErrors []apperr.FieldError
	if byUsername != nil {
		fieldErrors = append(fieldErrors, apperr.FieldError{
			Field:   FieldUsername,
			Message: "This username is already taken",
		})
	}
	if byEmail != nil {
		fieldErrors = append(fieldErrors, apperr.FieldError{
			Field:   FieldEmail,
			Message: "This email is already registered",
		})
	}
	if len(fieldErrors) > 0 {
		return nil, apperr.ValidationError("Validation failed", fieldErrors...)
	}

	user := &User{
		Username: input.Username,
		Email:    input.Email,
		Role:     sec.RoleUser,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		// A unique violation here means a concurrent signup won the race.
		if apperr.IsConflict(err) {
			return nil, apperr.Conflict("An account with this username or email already exists")
		}
		return nil, fmt.Errorf("auth_service_signup_create_failed: %w", err)
	}

	return user, nil
}

// # Token Exchange Flow

// TokenOutput is the result of a successful confirmation-code exchange.
type TokenOutput struct {
	Token string `json:"token"`
}

/*
ObtainToken exchanges a username and confirmation code for a JWT access token.

Description: Codes are single-use — the stored hash is deleted the moment a
valid exchange completes. Every mismatch — unknown username, absent code,
wrong code — fails with the same generic unauthorized error, so the endpoint
never reveals which part of the pair was bad or whether the account exists.

Parameters:
  - context: context.Context
  - username: string
  - confirmationCode: string

Returns:
  - *TokenOutput: Signed access token
  - err: Unauthorized (any username/code mismatch) or storage errors
*/
func (service *Service) ObtainToken(context context.Context, username, confirmationCode string) (*TokenOutput, error) {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		Required(FieldConfirmationCode, confirmationCode)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByUsername(context, username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, invalidExchangeError()
		}
		return nil, err
	}

	codeHash, err := service.codeRepository.Get(context, username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, invalidExchangeError()
		}
		return nil, err
	}

	if !sec.CheckCode(confirmationCode, codeHash) {
		return nil, invalidExchangeError()
	}

	// Single use: consume the code before handing out the token.
	if err := service.codeRepository.Delete(context, username); err != nil {
		return nil, fmt.Errorf("auth_service_code_consume_failed: %w", err)
	}

	token, err := service.tokenProvider.GenerateAccessToken(
		user.ID,
		user.Username,
		string(user.Role),
		user.IsSuperuser,
		constants.AccessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_sign_failed: %w", err)
	}

	service.logger.InfoContext(context, "access_token_issued",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return &TokenOutput{Token: token}, nil
}

// invalidExchangeError is the uniform failure for every token-exchange
// mismatch: unknown username, missing code, wrong code, consumed code.
func invalidExchangeError() error {
	return apperr.Unauthorized("Invalid username or confirmation code")
}

// validateSignupInput applies the registration field rules.
func validateSignupInput(input SignupInput) error {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Username(FieldUsername, input.Username).
		MaxLen(FieldUsername, input.Username, constants.UsernameMaxLength).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, constants.EmailMaxLength)
	return validator.Err()
}
