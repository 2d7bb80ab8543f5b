// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/polyakovda/yamdb/internal/platform/apperr"
	"github.com/polyakovda/yamdb/internal/platform/dberr"
	"github.com/polyakovda/yamdb/internal/users/auth"
	"github.com/polyakovda/yamdb/pkg/pagination"
)

// # Account Repository

// PostgresAccountRepository implements the AccountRepository interface using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of the AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

const accountColumns = `id, username, email, firstname, lastname, bio, role, issuperuser, createdat, updatedat`

/*
List returns a page of accounts plus the total matching count.

Description: Accounts are ordered by username for stable pagination. The
search term performs a case-insensitive substring match on the username.

Parameters:
  - context: context.Context
  - search: string
  - params: pagination.Params

Returns:
  - []*auth.User: The hydrated page
  - int: Total matching count
  - error: Execution failures
*/
func (repository *PostgresAccountRepository) List(context context.Context, search string, params pagination.Params) ([]*auth.User, int, error) {
	const countQuery = `
		SELECT COUNT(*)
		FROM users.account
		WHERE ($1 = '' OR username ILIKE '%' || $1 || '%')`

	const listQuery = `
		SELECT ` + accountColumns + `
		FROM users.account
		WHERE ($1 = '' OR username ILIKE '%' || $1 || '%')
		ORDER BY username
		LIMIT $2 OFFSET $3`

	var total int
	if err := repository.pool.QueryRow(context, countQuery, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_count_failed: %w", err)
	}

	rows, err := repository.pool.Query(context, listQuery, search, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_list_failed: %w", err)
	}
	defer rows.Close()

	users := make([]*auth.User, 0, params.Limit)
	for rows.Next() {
		user := &auth.User{}
		if err := scanAccount(rows, user); err != nil {
			return nil, 0, fmt.Errorf("postgres_account_repo_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_rows_failed: %w", err)
	}

	return users, total, nil
}

/*
FindByID retrieves an account by primary key.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *auth.User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id int64) (*auth.User, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM users.account
		WHERE id = $1`

	user := &auth.User{}
	err := scanAccount(repository.pool.QueryRow(context, query, id), user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
FindByUsername retrieves an account by username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *auth.User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByUsername(context context.Context, username string) (*auth.User, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM users.account
		WHERE username = $1`

	user := &auth.User{}
	err := scanAccount(repository.pool.QueryRow(context, query, username), user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_username_failed: %w", err)
	}

	return user, nil
}

/*
Create persists an administrator-provisioned account.

Parameters:
  - context: context.Context
  - user: *auth.User

Returns:
  - error: apperr.Conflict on unique violations or connectivity errors
*/
func (repository *PostgresAccountRepository) Create(context context.Context, user *auth.User) error {
	const query = `
		INSERT INTO users.account (
			username, email, firstname, lastname, bio, role, issuperuser, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	err := repository.pool.QueryRow(context, query,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
		user.IsSuperuser,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)

	if err != nil {
		return dberr.Wrap(err, "postgres_account_repo_create")
	}

	return nil
}

/*
Update persists changes to an existing account.

Parameters:
  - context: context.Context
  - user: *auth.User

Returns:
  - error: apperr.NotFound, apperr.Conflict, or connectivity errors
*/
func (repository *PostgresAccountRepository) Update(context context.Context, user *auth.User) error {
	const query = `
		UPDATE users.account
		SET email = $2, firstname = $3, lastname = $4, bio = $5, role = $6, updatedat = $7
		WHERE id = $1`

	user.UpdatedAt = time.Now()

	tag, err := repository.pool.Exec(context, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "postgres_account_repo_update")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
Delete removes an account by username.

Description: Review and comment rows authored by the account are removed by
the ON DELETE CASCADE rules in the schema.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - error: apperr.NotFound or connectivity errors
*/
func (repository *PostgresAccountRepository) Delete(context context.Context, username string) error {
	const query = `DELETE FROM users.account WHERE username = $1`

	tag, err := repository.pool.Exec(context, query, username)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// scanAccount hydrates a user entity from a row.
func scanAccount(row pgx.Row, user *auth.User) error {
	return row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.Role,
		&user.IsSuperuser,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}
