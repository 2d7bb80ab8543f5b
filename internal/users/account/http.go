// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/polyakovda/yamdb/internal/platform/middleware"
	requestutil "github.com/polyakovda/yamdb/internal/platform/request"
	"github.com/polyakovda/yamdb/internal/platform/respond"
	"github.com/polyakovda/yamdb/internal/platform/validate"
	"github.com/polyakovda/yamdb/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements account administration and self-profile HTTP endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with user management routes.
//
// # Endpoints
//   - GET    /me         : Own profile (any authenticated user).
//   - PATCH  /me         : Partial self-update, role locked.
//   - GET    /           : List accounts (admin).
//   - POST   /           : Provision an account (admin).
//   - GET    /{username} : Fetch an account (admin).
//   - PATCH  /{username} : Update an account, role included (admin).
//   - DELETE /{username} : Remove an account (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Self-service profile. Registered first so "me" never falls through
	// to the {username} parameter.
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.getProfile)
		r.Patch("/me", handler.updateProfile)
	})

	// Administrative account management.
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/", handler.listUsers)
		r.Post("/", handler.createUser)
		r.Get("/{username}", handler.getUser)
		r.Patch("/{username}", handler.updateUser)
		r.Delete("/{username}", handler.deleteUser)
	})

	return router
}

// # Request Payloads

type createUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

type updateUserRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

type updateProfileRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
}

// # Administration Endpoints

/*
listUsers returns a page of accounts.

GET /api/v1/users/?search=&limit=&offset=

Response:
  - 200: Paginated list of users
  - 403: ErrForbidden: Caller is not an administrator
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	users, total, err := handler.accountService.ListUsers(request.Context(), search, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params, total))
}

/*
createUser provisions a new account with an explicit role.

POST /api/v1/users/

Response:
  - 201: auth.User: Created account
  - 400: ErrInvalidJSON: Bad input
  - 409: ErrConflict: Username or email already exists
*/
func (handler *Handler) createUser(writer http.ResponseWriter, request *http.Request) {
	var input createUserRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.accountService.CreateUser(request.Context(), CreateUserInput{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      input.Role,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
getUser fetches a single account by username.

GET /api/v1/users/{username}

Response:
  - 200: auth.User
  - 404: ErrNotFound
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	user, err := handler.accountService.GetUser(request.Context(), username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
updateUser applies a partial update to an account, role included.

PATCH /api/v1/users/{username}

Response:
  - 200: auth.User: Updated account
  - 400: ErrInvalidJSON: Bad input
  - 404: ErrNotFound
*/
func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	var input updateUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.accountService.UpdateUser(request.Context(), username, UpdateUserInput{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      input.Role,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
deleteUser removes an account by username.

DELETE /api/v1/users/{username}

Response:
  - 204: No content
  - 404: ErrNotFound
*/
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	if err := handler.accountService.DeleteUser(request.Context(), username); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Self-Profile Endpoints

/*
getProfile returns the caller's own account.

GET /api/v1/users/me

Response:
  - 200: auth.User
  - 401: ErrUnauthorized
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
updateProfile applies a partial update to the caller's own account.

PATCH /api/v1/users/me

Description: The role field is not part of the payload — self-service
requests can never change privileges.

Response:
  - 200: auth.User: Updated profile
  - 400: ErrInvalidJSON: Bad input
  - 401: ErrUnauthorized
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
