// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package taxonomy

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

// Handler implements the HTTP endpoints for one classification vocabulary.
//
// The same handler type serves both /categories and /genres; the mounted
// kind decides which vocabulary it manages.
type Handler struct {
	taxonomyService *Service
	kind            Kind
}

// NewHandler constructs a new [Handler] bound to a vocabulary.
func NewHandler(service *Service, kind Kind) *Handler {
	return &Handler{taxonomyService: service, kind: kind}
}

// Routes returns a [chi.Router] configured for the vocabulary.
//
// # Endpoints
//   - GET    /       : List terms (public).
//   - POST   /       : Create a term (admin).
//   - DELETE /{slug} : Remove a term (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listTerms)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Post("/", handler.createTerm)
		r.Delete("/{slug}", handler.deleteTerm)
	})

	return router
}

// # Request Payloads

type createTermRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

/*
listTerms returns a page of classification terms.

GET /api/v1/categories/?search=&limit=&offset=
GET /api/v1/genres/?search=&limit=&offset=

Response:
  - 200: Paginated list of terms
*/
func (handler *Handler) listTerms(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	terms, total, err := handler.taxonomyService.ListTerms(request.Context(), handler.kind, search, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, terms, pagination.NewMeta(params, total))
}

/*
createTerm creates a new classification term.

POST /api/v1/categories/
POST /api/v1/genres/

Description: The slug may be omitted; it is then derived from the name.

Response:
  - 201: Term: Created entity
  - 400: ErrInvalidJSON: Bad input
  - 409: ErrConflict: Slug already exists
*/
func (handler *Handler) createTerm(writer http.ResponseWriter, request *http.Request) {
	var input createTermRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	term, err := handler.taxonomyService.CreateTerm(request.Context(), handler.kind, CreateTermInput{
		Name: input.Name,
		Slug: input.Slug,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, term)
}

/*
deleteTerm removes a classification term by slug.

DELETE /api/v1/categories/{slug}
DELETE /api/v1/genres/{slug}

Response:
  - 204: No content
  - 404: ErrNotFound
*/
func (handler *Handler) deleteTerm(writer http.ResponseWriter, request *http.Request) {
	termSlug := requestutil.Param(request, "slug")

	if err := handler.taxonomyService.DeleteTerm(request.Context(), handler.kind, termSlug); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
