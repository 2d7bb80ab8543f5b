// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package title

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/polyakovda/yamdb/internal/platform/middleware"
	requestutil "github.com/polyakovda/yamdb/internal/platform/request"
	"github.com/polyakovda/yamdb/internal/platform/respond"
	"github.com/polyakovda/yamdb/internal/platform/validate"
	"github.com/polyakovda/yamdb/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the HTTP endpoints for catalog titles.
type Handler struct {
	titleService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{titleService: service}
}

// Routes returns a [chi.Router] configured with title routes.
//
// # Endpoints
//   - GET    /          : List titles with filters (public).
//   - POST   /          : Create a title (admin).
//   - GET    /{titleID} : Fetch a title (public).
//   - PATCH  /{titleID} : Update a title (admin).
//   - DELETE /{titleID} : Remove a title (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listTitles)
	router.Get("/{titleID}", handler.getTitle)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Post("/", handler.createTitle)
		r.Patch("/{titleID}", handler.updateTitle)
		r.Delete("/{titleID}", handler.deleteTitle)
	})

	return router
}

// # Request Payloads

type createTitleRequest struct {
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Genre       []string `json:"genre"`
}

type updateTitleRequest struct {
	Name        *string  `json:"name"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Genre       []string `json:"genre"`
}

/*
listTitles returns a page of titles, optionally filtered.

GET /api/v1/titles/?category=&genre=&name=&year=&limit=&offset=

Response:
  - 200: Paginated list of titles with computed ratings
*/
func (handler *Handler) listTitles(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	query := request.URL.Query()

	year, _ := strconv.Atoi(query.Get("year"))

	filter := Filter{
		CategorySlug: query.Get("category"),
		GenreSlug:    query.Get("genre"),
		Name:         query.Get("name"),
		Year:         year,
	}

	titles, total, err := handler.titleService.ListTitles(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, titles, pagination.NewMeta(params, total))
}

/*
getTitle fetches a single title by ID.

GET /api/v1/titles/{titleID}

Response:
  - 200: Title
  - 404: ErrNotFound
*/
func (handler *Handler) getTitle(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.titleService.GetTitle(request.Context(), titleID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
createTitle creates a new catalog title.

POST /api/v1/titles/

Response:
  - 201: Title: Created entity
  - 400: ErrInvalidJSON: Bad input or unknown category/genre slug
*/
func (handler *Handler) createTitle(writer http.ResponseWriter, request *http.Request) {
	var input createTitleRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	entity, err := handler.titleService.CreateTitle(request.Context(), CreateTitleInput{
		Name:         input.Name,
		Year:         input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genre,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

/*
updateTitle applies a partial update to a title.

PATCH /api/v1/titles/{titleID}

Description: Sending a genre array replaces the full genre set; omitting it
leaves the associations untouched.

Response:
  - 200: Title: Updated entity
  - 400: ErrInvalidJSON: Bad input
  - 404: ErrNotFound
*/
func (handler *Handler) updateTitle(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateTitleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	entity, err := handler.titleService.UpdateTitle(request.Context(), titleID, UpdateTitleInput{
		Name:         input.Name,
		Year:         input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genre,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
deleteTitle removes a title and all of its reviews.

DELETE /api/v1/titles/{titleID}

Response:
  - 204: No content
  - 404: ErrNotFound
*/
func (handler *Handler) deleteTitle(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.titleService.DeleteTitle(request.Context(), titleID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
