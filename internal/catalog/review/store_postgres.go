// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/polyakovda/yamdb/internal/platform/apperr"
	"github.com/polyakovda/yamdb/internal/platform/dberr"
)

// # Review Repository

// PostgresReviewRepository implements the ReviewRepository interface using pgx.
type PostgresReviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository creates a new PostgreSQL implementation of the ReviewRepository.
func NewReviewRepository(pool *pgxpool.Pool) *PostgresReviewRepository {
	return &PostgresReviewRepository{pool: pool}
}

/*
ListByTitle returns a page of reviews for a title, newest first.

Parameters:
  - context: context.Context
  - titleID: int64
  - limit, offset: int

Returns:
  - []*Review: Hydrated page with author usernames
  - int: Total count for the title
  - error: Execution failures
*/
func (repository *PostgresReviewRepository) ListByTitle(context context.Context, titleID int64, limit, offset int) ([]*Review, int, error) {
	const countQuery = `SELECT COUNT(*) FROM content.review WHERE titleid = $1`

	const listQuery = `
		SELECT r.id, r.titleid, r.authorid, a.username, r.text, r.score, r.pubdate
		FROM content.review r
		JOIN users.account a ON a.id = r.authorid
		WHERE r.titleid = $1
		ORDER BY r.pubdate DESC, r.id DESC
		LIMIT $2 OFFSET $3`

	var total int
	if err := repository.pool.QueryRow(context, countQuery, titleID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_review_repo_count_failed: %w", err)
	}

	rows, err := repository.pool.Query(context, listQuery, titleID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_review_repo_list_failed: %w", err)
	}
	defer rows.Close()

	reviews := make([]*Review, 0, limit)
	for rows.Next() {
		entity := &Review{}
		if err := scanReview(rows, entity); err != nil {
			return nil, 0, fmt.Errorf("postgres_review_repo_scan_failed: %w", err)
		}
		reviews = append(reviews, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_review_repo_rows_failed: %w", err)
	}

	return reviews, total, nil
}

/*
GetByID retrieves a review scoped to its title.

Parameters:
  - context: context.Context
  - titleID, reviewID: int64

Returns:
  - *Review: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresReviewRepository) GetByID(context context.Context, titleID, reviewID int64) (*Review, error) {
	const query = `
		SELECT r.id, r.titleid, r.authorid, a.username, r.text, r.score, r.pubdate
		FROM content.review r
		JOIN users.account a ON a.id = r.authorid
		WHERE r.titleid = $1 AND r.id = $2`

	entity := &Review{}
	err := scanReview(repository.pool.QueryRow(context, query, titleID, reviewID), entity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Review")
		}
		return nil, fmt.Errorf("postgres_review_repo_get_failed: %w", err)
	}

	return entity, nil
}

/*
Create persists a new review.

Description: The UNIQUE (titleid, authorid) constraint enforces the
one-review-per-title rule at the storage level; violations surface as
Conflict.

Parameters:
  - context: context.Context
  - r: *Review (ID, PubDate, and Author are populated on success)

Returns:
  - error: apperr.Conflict or connectivity errors
*/
func (repository *PostgresReviewRepository) Create(context context.Context, r *Review) error {
	const insertQuery = `
		INSERT INTO content.review (titleid, authorid, text, score, pubdate)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	r.PubDate = time.Now()

	err := repository.pool.QueryRow(context, insertQuery,
		r.TitleID, r.AuthorID, r.Text, r.Score, r.PubDate,
	).Scan(&r.ID)
	if err != nil {
		return dberr.Wrap(err, "postgres_review_repo_create")
	}

	return repository.fillAuthor(context, r)
}

/*
Update persists text and score changes.

Parameters:
  - context: context.Context
  - r: *Review

Returns:
  - error: apperr.NotFound or connectivity errors
*/
func (repository *PostgresReviewRepository) Update(context context.Context, r *Review) error {
	const query = `
		UPDATE content.review
		SET text = $2, score = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, r.ID, r.Text, r.Score)
	if err != nil {
		return fmt.Errorf("postgres_review_repo_update_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}

	return nil
}

/*
Delete removes a review. Comments follow via ON DELETE CASCADE.

Parameters:
  - context: context.Context
  - titleID, reviewID: int64

Returns:
  - error: apperr.NotFound or connectivity errors
*/
func (repository *PostgresReviewRepository) Delete(context context.Context, titleID, reviewID int64) error {
	const query = `DELETE FROM content.review WHERE titleid = $1 AND id = $2`

	tag, err := repository.pool.Exec(context, query, titleID, reviewID)
	if err != nil {
		return fmt.Errorf("postgres_review_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}

	return nil
}

// fillAuthor resolves the author's username after an insert.
func (repository *PostgresReviewRepository) fillAuthor(context context.Context, r *Review) error {
	const query = `SELECT username FROM users.account WHERE id = $1`

	if err := repository.pool.QueryRow(context, query, r.AuthorID).Scan(&r.Author); err != nil {
		return fmt.Errorf("postgres_review_repo_author_failed: %w", err)
	}
	return nil
}

// scanReview hydrates one review row.
func scanReview(row pgx.Row, entity *Review) error {
	return row.Scan(
		&entity.ID,
		&entity.TitleID,
		&entity.AuthorID,
		&entity.Author,
		&entity.Text,
		&entity.Score,
		&entity.PubDate,
	)
}

// # Comment Repository

// PostgresCommentRepository implements the CommentRepository interface using pgx.
type PostgresCommentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new PostgreSQL implementation of the CommentRepository.
func NewCommentRepository(pool *pgxpool.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{pool: pool}
}

/*
ListByReview returns a page of comments for a review, oldest first.

Parameters:
  - context: context.Context
  - reviewID: int64
  - limit, offset: int

Returns:
  - []*Comment: Hydrated page with author usernames
  - int: Total count for the review
  - error: Execution failures
*/
func (repository *PostgresCommentRepository) ListByReview(context context.Context, reviewID int64, limit, offset int) ([]*Comment, int, error) {
	const countQuery = `SELECT COUNT(*) FROM content.comment WHERE reviewid = $1`

	const listQuery = `
		SELECT c.id, c.reviewid, c.authorid, a.username, c.text, c.pubdate
		FROM content.comment c
		JOIN users.account a ON a.id = c.authorid
		WHERE c.reviewid = $1
		ORDER BY c.pubdate, c.id
		LIMIT $2 OFFSET $3`

	var total int
	if err := repository.pool.QueryRow(context, countQuery, reviewID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_repo_count_failed: %w", err)
	}

	rows, err := repository.pool.Query(context, listQuery, reviewID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_repo_list_failed: %w", err)
	}
	defer rows.Close()

	comments := make([]*Comment, 0, limit)
	for rows.Next() {
		entity := &Comment{}
		if err := scanComment(rows, entity); err != nil {
			return nil, 0, fmt.Errorf("postgres_comment_repo_scan_failed: %w", err)
		}
		comments = append(comments, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_repo_rows_failed: %w", err)
	}

	return comments, total, nil
}

/*
GetByID retrieves a comment scoped to its review.

Parameters:
  - context: context.Context
  - reviewID, commentID: int64

Returns:
  - *Comment: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresCommentRepository) GetByID(context context.Context, reviewID, commentID int64) (*Comment, error) {
	const query = `
		SELECT c.id, c.reviewid, c.authorid, a.username, c.text, c.pubdate
		FROM content.comment c
		JOIN users.account a ON a.id = c.authorid
		WHERE c.reviewid = $1 AND c.id = $2`

	entity := &Comment{}
	err := scanComment(repository.pool.QueryRow(context, query, reviewID, commentID), entity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, fmt.Errorf("postgres_comment_repo_get_failed: %w", err)
	}

	return entity, nil
}

/*
Create persists a new comment.

Parameters:
  - context: context.Context
  - c: *Comment (ID, PubDate, and Author are populated on success)

Returns:
  - error: Constraint violations or connectivity errors
*/
func (repository *PostgresCommentRepository) Create(context context.Context, c *Comment) error {
	const insertQuery = `
		INSERT INTO content.comment (reviewid, authorid, text, pubdate)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	c.PubDate = time.Now()

	err := repository.pool.QueryRow(context, insertQuery,
		c.ReviewID, c.AuthorID, c.Text, c.PubDate,
	).Scan(&c.ID)
	if err != nil {
		return dberr.Wrap(err, "postgres_comment_repo_create")
	}

	const authorQuery = `SELECT username FROM users.account WHERE id = $1`
	if err := repository.pool.QueryRow(context, authorQuery, c.AuthorID).Scan(&c.Author); err != nil {
		return fmt.Errorf("postgres_comment_repo_author_failed: %w", err)
	}

	return nil
}

/*
Update persists text changes.

Parameters:
  - context: context.Context
  - c: *Comment

Returns:
  - error: apperr.NotFound or connectivity errors
*/
func (repository *PostgresCommentRepository) Update(context context.Context, c *Comment) error {
	const query = `
		UPDATE content.comment
		SET text = $2
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, c.ID, c.Text)
	if err != nil {
		return fmt.Errorf("postgres_comment_repo_update_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}

/*
Delete removes a comment.

Parameters:
  - context: context.Context
  - reviewID, commentID: int64

Returns:
  - error: apperr.NotFound or connectivity errors
*/
func (repository *PostgresCommentRepository) Delete(context context.Context, reviewID, commentID int64) error {
	const query = `DELETE FROM content.comment WHERE reviewid = $1 AND id = $2`

	tag, err := repository.pool.Exec(context, query, reviewID, commentID)
	if err != nil {
		return fmt.Errorf("postgres_comment_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}

// scanComment hydrates one comment row.
func scanComment(row pgx.Row, entity *Comment) error {
	return row.Scan(
		&entity.ID,
		&entity.ReviewID,
		&entity.AuthorID,
		&entity.Author,
		&entity.Text,
		&entity.PubDate,
	)
}
