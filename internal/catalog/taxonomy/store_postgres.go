// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package taxonomy

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/polyakovda/yamdb/internal/platform/apperr"
	"github.com/polyakovda/yamdb/internal/platform/dberr"
)

// # Taxonomy Repository

// PostgresRepository implements the Repository interface using pgx.
//
// The category and genre relations are structurally identical, so every
// query is built from the kind's table name. Kind is a closed enum — the
// interpolation can never carry user input.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the taxonomy Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
List returns a page of terms plus the total matching count.

Parameters:
  - context: context.Context
  - kind: Kind
  - search: string
  - limit, offset: int

Returns:
  - []*Term: The hydrated page, ordered by name
  - int: Total matching count
  - error: Execution failures
*/
func (repository *PostgresRepository) List(context context.Context, kind Kind, search string, limit, offset int) ([]*Term, int, error) {
	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s
		WHERE ($1 = '' OR name ILIKE '%%' || $1 || '%%')`, kind.table())

	listQuery := fmt.Sprintf(`
		SELECT id, name, slug
		FROM %s
		WHERE ($1 = '' OR name ILIKE '%%' || $1 || '%%')
		ORDER BY name
		LIMIT $2 OFFSET $3`, kind.table())

	var total int
	if err := repository.pool.QueryRow(context, countQuery, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_taxonomy_repo_count_failed: %w", err)
	}

	rows, err := repository.pool.Query(context, listQuery, search, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_taxonomy_repo_list_failed: %w", err)
	}
	defer rows.Close()

	terms := make([]*Term, 0, limit)
	for rows.Next() {
		term := &Term{}
		if err := rows.Scan(&term.ID, &term.Name, &term.Slug); err != nil {
			return nil, 0, fmt.Errorf("postgres_taxonomy_repo_scan_failed: %w", err)
		}
		terms = append(terms, term)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_taxonomy_repo_rows_failed: %w", err)
	}

	return terms, total, nil
}

/*
Create persists a new term.

Parameters:
  - context: context.Context
  - kind: Kind
  - term: *Term

Returns:
  - error: apperr.Conflict on slug collisions or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, kind Kind, term *Term) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, slug)
		VALUES ($1, $2)
		RETURNING id`, kind.table())

	err := repository.pool.QueryRow(context, query, term.Name, term.Slug).Scan(&term.ID)
	if err != nil {
		return dberr.Wrap(err, "postgres_taxonomy_repo_create")
	}

	return nil
}

/*
GetBySlug retrieves a term by its slug.

Parameters:
  - context: context.Context
  - kind: Kind
  - slug: string

Returns:
  - *Term: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) GetBySlug(context context.Context, kind Kind, slug string) (*Term, error) {
	query := fmt.Sprintf(`
		SELECT id, name, slug
		FROM %s
		WHERE slug = $1`, kind.table())

	term := &Term{}
	err := repository.pool.QueryRow(context, query, slug).Scan(&term.ID, &term.Name, &term.Slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(titleCase(kind))
		}
		return nil, fmt.Errorf("postgres_taxonomy_repo_get_failed: %w", err)
	}

	return term, nil
}

/*
DeleteBySlug removes a term by its slug.

Parameters:
  - context: context.Context
  - kind: Kind
  - slug: string

Returns:
  - error: apperr.NotFound or connectivity errors
*/
func (repository *PostgresRepository) DeleteBySlug(context context.Context, kind Kind, slug string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE slug = $1`, kind.table())

	tag, err := repository.pool.Exec(context, query, slug)
	if err != nil {
		return fmt.Errorf("postgres_taxonomy_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound(titleCase(kind))
	}

	return nil
}

// titleCase renders the kind for client-facing error messages.
func titleCase(kind Kind) string {
	if kind == KindGenre {
		return "Genre"
	}
	return "Category"
}
