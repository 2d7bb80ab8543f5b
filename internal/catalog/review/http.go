// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/polyakovda/yamdb/internal/platform/middleware"
	requestutil "github.com/polyakovda/yamdb/internal/platform/request"
	"github.com/polyakovda/yamdb/internal/platform/respond"
	"github.com/polyakovda/yamdb/internal/platform/sec"
	"github.com/polyakovda/yamdb/internal/platform/validate"
	"github.com/polyakovda/yamdb/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the HTTP endpoints for reviews and their comments.
type Handler struct {
	reviewService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{reviewService: service}
}

// Routes returns a [chi.Router] meant to be mounted under
// /titles/{titleID}/reviews.
//
// # Endpoints
//   - GET    /                                  : List reviews (public).
//   - POST   /                                  : Create a review (authenticated).
//   - GET    /{reviewID}                        : Fetch a review (public).
//   - PATCH  /{reviewID}                        : Update a review (author or moderation).
//   - DELETE /{reviewID}                        : Remove a review (author or moderation).
//   - GET    /{reviewID}/comments               : List comments (public).
//   - POST   /{reviewID}/comments               : Create a comment (authenticated).
//   - GET    /{reviewID}/comments/{commentID}   : Fetch a comment (public).
//   - PATCH  /{reviewID}/comments/{commentID}   : Update a comment (author or moderation).
//   - DELETE /{reviewID}/comments/{commentID}   : Remove a comment (author or moderation).
//
// Ownership is checked in the service layer, so mutation routes only require
// authentication here.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listReviews)
	router.Get("/{reviewID}", handler.getReview)
	router.Get("/{reviewID}/comments", handler.listComments)
	router.Get("/{reviewID}/comments/{commentID}", handler.getComment)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.createReview)
		r.Patch("/{reviewID}", handler.updateReview)
		r.Delete("/{reviewID}", handler.deleteReview)
		r.Post("/{reviewID}/comments", handler.createComment)
		r.Patch("/{reviewID}/comments/{commentID}", handler.updateComment)
		r.Delete("/{reviewID}/comments/{commentID}", handler.deleteComment)
	})

	return router
}

// # Request Payloads

type createReviewRequest struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

type updateReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

type commentRequest struct {
	Text string `json:"text"`
}

// actorFrom converts authenticated claims into a moderation actor.
func actorFrom(claims *sec.AuthClaims) Actor {
	return Actor{
		UserID:      claims.UserID,
		Role:        claims.Role,
		IsSuperuser: claims.IsSuperuser,
	}
}

// # Review Endpoints

/*
listReviews returns a page of reviews for a title, newest first.

GET /api/v1/titles/{titleID}/reviews/?limit=&offset=

Response:
  - 200: Paginated list of reviews
  - 404: ErrNotFound: Unknown title
*/
func (handler *Handler) listReviews(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	reviews, total, err := handler.reviewService.ListReviews(request.Context(), titleID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reviews, pagination.NewMeta(params, total))
}

/*
getReview fetches a single review.

GET /api/v1/titles/{titleID}/reviews/{reviewID}

Response:
  - 200: Review
  - 404: ErrNotFound: Unknown title or review, or a mismatched pair
*/
func (handler *Handler) getReview(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewChain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.reviewService.GetReview(request.Context(), titleID, reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
createReview creates a review for the authenticated user.

POST /api/v1/titles/{titleID}/reviews/

Response:
  - 201: Review: Created entity
  - 400: ErrInvalidJSON: Bad input
  - 404: ErrNotFound: Unknown title
  - 409: ErrConflict: The user has already reviewed this title
*/
func (handler *Handler) createReview(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createReviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	entity, err := handler.reviewService.CreateReview(request.Context(), actorFrom(claims), titleID, CreateReviewInput{
		Text:  input.Text,
		Score: input.Score,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

/*
updateReview applies a partial update to a review.

PATCH /api/v1/titles/{titleID}/reviews/{reviewID}

Response:
  - 200: Review: Updated entity
  - 403: ErrForbidden: Caller is neither the author nor a moderator
  - 404: ErrNotFound
*/
func (handler *Handler) updateReview(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewChain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateReviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	entity, err := handler.reviewService.UpdateReview(request.Context(), actorFrom(claims), titleID, reviewID, UpdateReviewInput{
		Text:  input.Text,
		Score: input.Score,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
deleteReview removes a review and its comment thread.

DELETE /api/v1/titles/{titleID}/reviews/{reviewID}

Response:
  - 204: No content
  - 403: ErrForbidden
  - 404: ErrNotFound
*/
func (handler *Handler) deleteReview(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewChain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.reviewService.DeleteReview(request.Context(), actorFrom(claims), titleID, reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Comment Endpoints

/*
listComments returns a page of comments under a review, oldest first.

GET /api/v1/titles/{titleID}/reviews/{reviewID}/comments/?limit=&offset=

Response:
  - 200: Paginated list of comments
  - 404: ErrNotFound: Unknown title or review
*/
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewChain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	comments, total, err := handler.reviewService.ListComments(request.Context(), titleID, reviewID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(params, total))
}

/*
getComment fetches a single comment.

GET /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}

Response:
  - 200: Comment
  - 404: ErrNotFound
*/
func (handler *Handler) getComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, commentID, err := commentChain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.reviewService.GetComment(request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
createComment adds a comment under a review.

POST /api/v1/titles/{titleID}/reviews/{reviewID}/comments/

Response:
  - 201: Comment: Created entity
  - 400: ErrInvalidJSON: Bad input
  - 404: ErrNotFound: Unknown title or review
*/
func (handler *Handler) createComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewChain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	entity, err := handler.reviewService.CreateComment(request.Context(), actorFrom(claims), titleID, reviewID, input.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

/*
updateComment changes a comment's text.

PATCH /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}

Response:
  - 200: Comment: Updated entity
  - 403: ErrForbidden
  - 404: ErrNotFound
*/
func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, commentID, err := commentChain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	entity, err := handler.reviewService.UpdateComment(request.Context(), actorFrom(claims), titleID, reviewID, commentID, input.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
deleteComment removes a comment.

DELETE /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}

Response:
  - 204: No content
  - 403: ErrForbidden
  - 404: ErrNotFound
*/
func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, commentID, err := commentChain(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.reviewService.DeleteComment(request.Context(), actorFrom(claims), titleID, reviewID, commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # URL Helpers

// reviewChain parses the titleID/reviewID pair from the URL.
func reviewChain(request *http.Request) (int64, int64, error) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		return 0, 0, err
	}
	reviewID, err := requestutil.IntParam(request, "reviewID")
	if err != nil {
		return 0, 0, err
	}
	return titleID, reviewID, nil
}

// commentChain parses the full titleID/reviewID/commentID triple.
func commentChain(request *http.Request) (int64, int64, int64, error) {
	titleID, reviewID, err := reviewChain(request)
	if err != nil {
		return 0, 0, 0, err
	}
	commentID, err := requestutil.IntParam(request, "commentID")
	if err != nil {
		return 0, 0, 0, err
	}
	return titleID, reviewID, commentID, nil
}
