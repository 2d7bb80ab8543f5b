// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package title

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/polyakovda/yamdb/internal/catalog/taxonomy"
	"github.com/polyakovda/yamdb/internal/platform/apperr"
	"github.com/polyakovda/yamdb/internal/platform/dberr"
)

// # Title Repository

// PostgresRepository implements the title Repository interface using pgx.
//
// Reads aggregate the computed rating (AVG over review scores) and hydrate
// the category in one query; genres are attached with a second query over
// the page's IDs to avoid row multiplication.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the title Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// filterClause is shared by the list and count queries. Zero values
// ($1='' etc.) disable the corresponding predicate.
const filterClause = `
	($1 = '' OR c.slug = $1)
	AND ($2 = '' OR EXISTS (
		SELECT 1
		FROM content.title_genre tg
		JOIN content.genre g ON g.id = tg.genreid
		WHERE tg.titleid = t.id AND g.slug = $2))
	AND ($3 = '' OR t.name ILIKE '%' || $3 || '%')
	AND ($4 = 0 OR t.year = $4)`

/*
List returns a page of titles matching the filter, plus the total count.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit, offset: int

Returns:
  - []*Title: Hydrated page ordered by id
  - int: Total matching count
  - error: Execution failures
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Title, int, error) {
	const countQuery = `
		SELECT COUNT(*)
		FROM content.title t
		LEFT JOIN content.category c ON c.id = t.categoryid
		WHERE ` + filterClause

	const listQuery = `
		SELECT
			t.id, t.name, t.year, t.description,
			AVG(r.score)::float8 AS rating,
			c.id, c.name, c.slug
		FROM content.title t
		LEFT JOIN content.review r ON r.titleid = t.id
		LEFT JOIN content.category c ON c.id = t.categoryid
		WHERE ` + filterClause + `
		GROUP BY t.id, c.id
		ORDER BY t.id
		LIMIT $5 OFFSET $6`

	var total int
	err := repository.pool.QueryRow(context, countQuery,
		filter.CategorySlug, filter.GenreSlug, filter.Name, filter.Year,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_title_repo_count_failed: %w", err)
	}

	rows, err := repository.pool.Query(context, listQuery,
		filter.CategorySlug, filter.GenreSlug, filter.Name, filter.Year, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_title_repo_list_failed: %w", err)
	}
	defer rows.Close()

	titles := make([]*Title, 0, limit)
	for rows.Next() {
		entity, err := scanTitle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_title_repo_scan_failed: %w", err)
		}
		titles = append(titles, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_title_repo_rows_failed: %w", err)
	}

	if err := repository.attachGenres(context, titles); err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}

/*
GetByID retrieves a fully hydrated title.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Title: The hydrated entity (rating, category, genres)
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) GetByID(context context.Context, id int64) (*Title, error) {
	const query = `
		SELECT
			t.id, t.name, t.year, t.description,
			AVG(r.score)::float8 AS rating,
			c.id, c.name, c.slug
		FROM content.title t
		LEFT JOIN content.review r ON r.titleid = t.id
		LEFT JOIN content.category c ON c.id = t.categoryid
		WHERE t.id = $1
		GROUP BY t.id, c.id`

	rows, err := repository.pool.Query(context, query, id)
	if err != nil {
		return nil, fmt.Errorf("postgres_title_repo_get_failed: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("postgres_title_repo_get_failed: %w", err)
		}
		return nil, apperr.NotFound("Title")
	}

	entity, err := scanTitle(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres_title_repo_scan_failed: %w", err)
	}
	rows.Close()

	if err := repository.attachGenres(context, []*Title{entity}); err != nil {
		return nil, err
	}

	return entity, nil
}

/*
Create persists a new title and its genre associations in one transaction.

Parameters:
  - context: context.Context
  - t: *Title (ID is populated on success)
  - categoryID: int64
  - genreIDs: []int64

Returns:
  - error: Constraint violations or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, t *Title, categoryID int64, genreIDs []int64) error {
	tx, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_title_repo_begin_failed: %w", err)
	}
	defer func() { _ = tx.Rollback(context) }()

	const insertQuery = `
		INSERT INTO content.title (name, year, description, categoryid)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err = tx.QueryRow(context, insertQuery, t.Name, t.Year, t.Description, categoryID).Scan(&t.ID)
	if err != nil {
		return dberr.Wrap(err, "postgres_title_repo_create")
	}

	if err := replaceGenres(context, tx, t.ID, genreIDs); err != nil {
		return err
	}

	if err := tx.Commit(context); err != nil {
		return fmt.Errorf("postgres_title_repo_commit_failed: %w", err)
	}

	return nil
}

/*
Update persists title fields and optionally replaces category and genre set.

Description: A nil categoryID keeps the current category (COALESCE in SQL);
a nil genreIDs slice keeps the current associations, while a non-nil slice
replaces them wholesale (clear then fill).

Parameters:
  - context: context.Context
  - t: *Title
  - categoryID: *int64
  - genreIDs: []int64

Returns:
  - error: apperr.NotFound, constraint violations, or connectivity errors
*/
func (repository *PostgresRepository) Update(context context.Context, t *Title, categoryID *int64, genreIDs []int64) error {
	tx, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_title_repo_begin_failed: %w", err)
	}
	defer func() { _ = tx.Rollback(context) }()

	const updateQuery = `
		UPDATE content.title
		SET name = $2, year = $3, description = $4,
			categoryid = COALESCE($5, categoryid)
		WHERE id = $1`

	tag, err := tx.Exec(context, updateQuery, t.ID, t.Name, t.Year, t.Description, categoryID)
	if err != nil {
		return dberr.Wrap(err, "postgres_title_repo_update")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Title")
	}

	if genreIDs != nil {
		if err := replaceGenres(context, tx, t.ID, genreIDs); err != nil {
			return err
		}
	}

	if err := tx.Commit(context); err != nil {
		return fmt.Errorf("postgres_title_repo_commit_failed: %w", err)
	}

	return nil
}

/*
Exists reports whether a title is present.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - error: nil when the title exists, apperr.NotFound otherwise
*/
func (repository *PostgresRepository) Exists(context context.Context, id int64) error {
	const query = `SELECT 1 FROM content.title WHERE id = $1`

	var one int
	err := repository.pool.QueryRow(context, query, id).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("Title")
		}
		return fmt.Errorf("postgres_title_repo_exists_failed: %w", err)
	}

	return nil
}

/*
Delete removes a title. Reviews and comments follow via ON DELETE CASCADE.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - error: apperr.NotFound or connectivity errors
*/
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	const query = `DELETE FROM content.title WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_title_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Title")
	}

	return nil
}

// # Helpers

// scanTitle hydrates one aggregated row, tolerating a missing category.
func scanTitle(row pgx.Row) (*Title, error) {
	entity := &Title{}

	var categoryID *int64
	var categoryName, categorySlug *string

	err := row.Scan(
		&entity.ID,
		&entity.Name,
		&entity.Year,
		&entity.Description,
		&entity.Rating,
		&categoryID,
		&categoryName,
		&categorySlug,
	)
	if err != nil {
		return nil, err
	}

	if categoryID != nil {
		entity.Category = &taxonomy.Term{
			ID:   *categoryID,
			Name: *categoryName,
			Slug: *categorySlug,
		}
	}

	return entity, nil
}

// attachGenres loads genre terms for the page of titles in a single query.
func (repository *PostgresRepository) attachGenres(context context.Context, titles []*Title) error {
	if len(titles) == 0 {
		return nil
	}

	ids := make([]int64, len(titles))
	byID := make(map[int64]*Title, len(titles))
	for i, entity := range titles {
		ids[i] = entity.ID
		byID[entity.ID] = entity
		entity.Genres = []taxonomy.Term{}
	}

	const query = `
		SELECT tg.titleid, g.id, g.name, g.slug
		FROM content.title_genre tg
		JOIN content.genre g ON g.id = tg.genreid
		WHERE tg.titleid = ANY($1)
		ORDER BY g.name`

	rows, err := repository.pool.Query(context, query, ids)
	if err != nil {
		return fmt.Errorf("postgres_title_repo_genres_failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var titleID int64
		var genre taxonomy.Term
		if err := rows.Scan(&titleID, &genre.ID, &genre.Name, &genre.Slug); err != nil {
			return fmt.Errorf("postgres_title_repo_genres_scan_failed: %w", err)
		}
		if entity, ok := byID[titleID]; ok {
			entity.Genres = append(entity.Genres, genre)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("postgres_title_repo_genres_rows_failed: %w", err)
	}

	return nil
}

// replaceGenres clears and refills the title's genre associations.
func replaceGenres(context context.Context, tx pgx.Tx, titleID int64, genreIDs []int64) error {
	if _, err := tx.Exec(context, `DELETE FROM content.title_genre WHERE titleid = $1`, titleID); err != nil {
		return fmt.Errorf("postgres_title_repo_genres_clear_failed: %w", err)
	}

	for _, genreID := range genreIDs {
		_, err := tx.Exec(context,
			`INSERT INTO content.title_genre (titleid, genreid) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			titleID, genreID,
		)
		if err != nil {
			return dberr.Wrap(err, "postgres_title_repo_genres_fill")
		}
	}

	return nil
}
