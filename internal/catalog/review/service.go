// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/polyakovda/yamdb/internal/platform/apperr"
	"github.com/polyakovda/yamdb/internal/platform/constants"
	"github.com/polyakovda/yamdb/internal/platform/sec"
	"github.com/polyakovda/yamdb/internal/platform/validate"
	"github.com/polyakovda/yamdb/pkg/pagination"
)

// # Service Layer

// Service orchestrates business logic for reviews and their comment threads.
type Service struct {
	reviewRepository  ReviewRepository
	commentRepository CommentRepository
	titleChecker      TitleChecker
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	reviewRepo ReviewRepository,
	commentRepo CommentRepository,
	titles TitleChecker,
	logger *slog.Logger,
) *Service {
	return &Service{
		reviewRepository:  reviewRepo,
		commentRepository: commentRepo,
		titleChecker:      titles,
		logger:            logger,
	}
}

// # Reviews

/*
ListReviews returns a page of reviews for a title.

Parameters:
  - context: context.Context
  - titleID: int64
  - params: pagination.Params

Returns:
  - []*Review: The page, newest first
  - int: Total count
  - error: NotFound (unknown title) or execution failures
*/
func (service *Service) ListReviews(context context.Context, titleID int64, params pagination.Params) ([]*Review, int, error) {
	if err := service.titleChecker.Exists(context, titleID); err != nil {
		return nil, 0, err
	}

	reviews, total, err := service.reviewRepository.ListByTitle(context, titleID, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("review_service_list_failed: %w", err)
	}
	return reviews, total, nil
}

/*
GetReview retrieves one review scoped to its title.

Parameters:
  - context: context.Context
  - titleID, reviewID: int64

Returns:
  - *Review: The hydrated entity
  - error: apperr.NotFound or execution failures
*/
func (service *Service) GetReview(context context.Context, titleID, reviewID int64) (*Review, error) {
	return service.reviewRepository.GetByID(context, titleID, reviewID)
}

// CreateReviewInput holds the fields for a new review.
type CreateReviewInput struct {
	Text  string
	Score int
}

/*
CreateReview validates and persists a review.

Description: One review per (author, title) — a second attempt surfaces as
Conflict via the unique constraint, which also closes the race between two
concurrent submissions.

Parameters:
  - context: context.Context
  - actor: Actor (the authenticated author)
  - titleID: int64
  - input: CreateReviewInput

Returns:
  - *Review: Created entity
  - error: NotFound, validation failures, Conflict, or storage errors
*/
func (service *Service) CreateReview(context context.Context, actor Actor, titleID int64, input CreateReviewInput) (*Review, error) {
	if err := service.titleChecker.Exists(context, titleID); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, input.Text).
		Range(FieldScore, input.Score, constants.ScoreMin, constants.ScoreMax)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	entity := &Review{
		TitleID:  titleID,
		AuthorID: actor.UserID,
		Text:     input.Text,
		Score:    input.Score,
	}

	if err := service.reviewRepository.Create(context, entity); err != nil {
		if apperr.IsConflict(err) {
			return nil, apperr.Conflict("You have already reviewed this title")
		}
		return nil, err
	}

	service.logger.InfoContext(context, "review_created",
		slog.Int64("title_id", titleID),
		slog.Int64("review_id", entity.ID),
		slog.Int64("author_id", actor.UserID),
	)

	return entity, nil
}

// UpdateReviewInput defines the mutable review fields.
type UpdateReviewInput struct {
	Text  *string
	Score *int
}

/*
UpdateReview applies a partial update to a review.

Description: Permitted for the author, moderators, administrators, and
superusers. Everyone else gets Forbidden.

Parameters:
  - context: context.Context
  - actor: Actor
  - titleID, reviewID: int64
  - input: UpdateReviewInput

Returns:
  - *Review: The updated entity
  - error: NotFound, Forbidden, validation failures, or storage errors
*/
func (service *Service) UpdateReview(context context.Context, actor Actor, titleID, reviewID int64, input UpdateReviewInput) (*Review, error) {
	entity, err := service.reviewRepository.GetByID(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if !canModify(actor, entity.AuthorID) {
		return nil, apperr.Forbidden("You cannot modify someone else's review")
	}

	if input.Text != nil {
		entity.Text = *input.Text
	}
	if input.Score != nil {
		entity.Score = *input.Score
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, entity.Text).
		Range(FieldScore, entity.Score, constants.ScoreMin, constants.ScoreMax)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.reviewRepository.Update(context, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

/*
DeleteReview removes a review and its comment thread.

Parameters:
  - context: context.Context
  - actor: Actor
  - titleID, reviewID: int64

Returns:
  - error: NotFound, Forbidden, or storage errors
*/
func (service *Service) DeleteReview(context context.Context, actor Actor, titleID, reviewID int64) error {
	entity, err := service.reviewRepository.GetByID(context, titleID, reviewID)
	if err != nil {
		return err
	}

	if !canModify(actor, entity.AuthorID) {
		return apperr.Forbidden("You cannot delete someone else's review")
	}

	if err := service.reviewRepository.Delete(context, titleID, reviewID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "review_deleted",
		slog.Int64("review_id", reviewID),
		slog.Int64("actor_id", actor.UserID),
	)

	return nil
}

// # Comments

/*
ListComments returns a page of comments under a review.

Parameters:
  - context: context.Context
  - titleID, reviewID: int64
  - params: pagination.Params

Returns:
  - []*Comment: The page, oldest first
  - int: Total count
  - error: NotFound or execution failures
*/
func (service *Service) ListComments(context context.Context, titleID, reviewID int64, params pagination.Params) ([]*Comment, int, error) {
	// Resolving the review through its title also validates the URL chain.
	if _, err := service.reviewRepository.GetByID(context, titleID, reviewID); err != nil {
		return nil, 0, err
	}

	comments, total, err := service.commentRepository.ListByReview(context, reviewID, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("review_service_list_comments_failed: %w", err)
	}
	return comments, total, nil
}

/*
GetComment retrieves one comment scoped to its review and title.

Parameters:
  - context: context.Context
  - titleID, reviewID, commentID: int64

Returns:
  - *Comment: The hydrated entity
  - error: apperr.NotFound or execution failures
*/
func (service *Service) GetComment(context context.Context, titleID, reviewID, commentID int64) (*Comment, error) {
	if _, err := service.reviewRepository.GetByID(context, titleID, reviewID); err != nil {
		return nil, err
	}
	return service.commentRepository.GetByID(context, reviewID, commentID)
}

/*
CreateComment validates and persists a comment under a review.

Parameters:
  - context: context.Context
  - actor: Actor
  - titleID, reviewID: int64
  - text: string

Returns:
  - *Comment: Created entity
  - error: NotFound, validation failures, or storage errors
*/
func (service *Service) CreateComment(context context.Context, actor Actor, titleID, reviewID int64, text string) (*Comment, error) {
	if _, err := service.reviewRepository.GetByID(context, titleID, reviewID); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, text)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	entity := &Comment{
		ReviewID: reviewID,
		AuthorID: actor.UserID,
		Text:     text,
	}

	if err := service.commentRepository.Create(context, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

/*
UpdateComment applies a text change to a comment.

Parameters:
  - context: context.Context
  - actor: Actor
  - titleID, reviewID, commentID: int64
  - text: string

Returns:
  - *Comment: The updated entity
  - error: NotFound, Forbidden, validation failures, or storage errors
*/
func (service *Service) UpdateComment(context context.Context, actor Actor, titleID, reviewID, commentID int64, text string) (*Comment, error) {
	entity, err := service.GetComment(context, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if !canModify(actor, entity.AuthorID) {
		return nil, apperr.Forbidden("You cannot modify someone else's comment")
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, text)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	entity.Text = text
	if err := service.commentRepository.Update(context, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

/*
DeleteComment removes a comment.

Parameters:
  - context: context.Context
  - actor: Actor
  - titleID, reviewID, commentID: int64

Returns:
  - error: NotFound, Forbidden, or storage errors
*/
func (service *Service) DeleteComment(context context.Context, actor Actor, titleID, reviewID, commentID int64) error {
	entity, err := service.GetComment(context, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if !canModify(actor, entity.AuthorID) {
		return apperr.Forbidden("You cannot delete someone else's comment")
	}

	return service.commentRepository.Delete(context, reviewID, commentID)
}

// # Moderation

// canModify reports whether the actor may edit or delete content owned by
// authorID.
//
// Explicit role-set check: authorship, the moderator/admin roles, or the
// superuser flag. An unknown role never qualifies.
func canModify(actor Actor, authorID int64) bool {
	if actor.UserID == authorID {
		return true
	}
	if sec.UserRole(actor.Role).CanModerate() {
		return true
	}
	return actor.IsSuperuser
}
