// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

/*
Package review implements user feedback on catalog titles: scored reviews and
the comment threads underneath them.

Every review carries a 1–10 score that feeds the title's computed rating, and
each user may review a given title exactly once. Comments are free-form
replies attached to a review.

# Moderation

Authors manage their own content; moderators and administrators (or the
superuser flag) may edit or delete anything.
*/
package review

import (
	"context"
	"time"
)

// # Domain Entities

// Review is a scored text review of a title by one user.
type Review struct {
	ID       int64     `json:"id"`
	TitleID  int64     `json:"-"`
	AuthorID int64     `json:"-"`
	Author   string    `json:"author"` // Username, resolved on read.
	Text     string    `json:"text"`
	Score    int       `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

// Comment is a reply in the thread under a review.
type Comment struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"-"`
	AuthorID int64     `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}

// Actor identifies the caller for moderation decisions.
type Actor struct {
	UserID      int64
	Role        string
	IsSuperuser bool
}

// # Storage Contracts

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	// ListByTitle returns a page of reviews for a title plus the total count.
	ListByTitle(ctx context.Context, titleID int64, limit, offset int) ([]*Review, int, error)

	// GetByID retrieves a review scoped to its title.
	// Returns apperr.NotFound if the pair does not match.
	GetByID(ctx context.Context, titleID, reviewID int64) (*Review, error)

	// Create persists a new review. Returns apperr.Conflict when the author
	// has already reviewed the title.
	Create(ctx context.Context, r *Review) error

	// Update persists text and score changes.
	Update(ctx context.Context, r *Review) error

	// Delete removes a review and, by cascade, its comments.
	Delete(ctx context.Context, titleID, reviewID int64) error
}

// CommentRepository defines persistence operations for review comments.
type CommentRepository interface {
	// ListByReview returns a page of comments for a review plus the total count.
	ListByReview(ctx context.Context, reviewID int64, limit, offset int) ([]*Comment, int, error)

	// GetByID retrieves a comment scoped to its review.
	GetByID(ctx context.Context, reviewID, commentID int64) (*Comment, error)

	// Create persists a new comment.
	Create(ctx context.Context, c *Comment) error

	// Update persists text changes.
	Update(ctx context.Context, c *Comment) error

	// Delete removes a comment.
	Delete(ctx context.Context, reviewID, commentID int64) error
}

// TitleChecker verifies that a title exists before feedback is attached to it.
//
// Declared here so the review package depends on behavior, not on the title
// package's full repository surface.
type TitleChecker interface {
	Exists(ctx context.Context, titleID int64) error
}

// # Field Identifiers

const (
	FieldText  = "text"
	FieldScore = "score"
)
