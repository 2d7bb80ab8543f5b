// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

/*
Package auth provides the HTTP delivery layer for the passwordless identity flow.

It implements the gateway for the authentication lifecycle — from signup
(confirmation code issuance) to JWT retrieval.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Never exposes confirmation codes in responses.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/polyakovda/yamdb/internal/platform/request"
	"github.com/polyakovda/yamdb/internal/platform/respond"
	"github.com/polyakovda/yamdb/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the user lifecycle entry points (Signup, Token exchange).
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /signup : Registers an account and issues a confirmation code.
//   - POST /token  : Exchanges a confirmation code for a JWT.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints — the whole point of this flow is bootstrapping identity.
	router.Post("/signup", handler.signup)
	router.Post("/token", handler.obtainToken)

	return router
}

// # Request Payloads

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type signupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type obtainTokenRequest struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

/*
signup registers a new account or re-issues a confirmation code.

POST /api/v1/auth/signup

Description: Idempotent for a matching (username, email) pair; repeating the
request generates a fresh confirmation code. Responds 200 in both cases so
the endpoint does not reveal whether an account already existed.

Request:
  - Body: signupRequest (Username, Email)

Response:
  - 200: signupResponse: Echo of the registered identity pair
  - 400: ErrInvalidJSON: Bad input or field conflicts
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.authService.Signup(request.Context(), SignupInput{
		Username: input.Username,
		Email:    input.Email,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, signupResponse{
		Username: user.Username,
		Email:    user.Email,
	})
}

/*
obtainToken exchanges a confirmation code for a JWT access token.

POST /api/v1/auth/token

Request:
  - Body: obtainTokenRequest (Username, ConfirmationCode)

Description: Any mismatch — unknown username, absent or wrong code — yields
the same generic 401, so the endpoint never confirms whether a username is
registered.

Response:
  - 200: TokenOutput: Signed JWT access token
  - 400: ErrInvalidJSON: Missing fields
  - 401: ErrUnauthorized: Username/code pair does not match
*/
func (handler *Handler) obtainToken(writer http.ResponseWriter, request *http.Request) {
	var input obtainTokenRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	token, err := handler.authService.ObtainToken(request.Context(), input.Username, input.ConfirmationCode)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, token)
}
