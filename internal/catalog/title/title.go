// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

/*
Package title implements the catalog's central entity: the works that users
review (books, films, albums).

A title belongs to at most one category, carries any number of genres, and
exposes a computed rating — the average of all review scores, or null when
nothing has been reviewed yet.

# Architecture

  - Service: Validation plus slug-to-term resolution against the taxonomy.
  - Repository: Aggregating reads (rating, category, genres) and
    transactional writes (title row + genre associations).
*/
package title

import (
	"context"

	"github.com/polyakovda/yamdb/internal/catalog/taxonomy"
)

// # Domain Entities

// Title represents a reviewable work in the catalog.
type Title struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Year        int             `json:"year"`
	Description string          `json:"description,omitempty"`
	Rating      *float64        `json:"rating"` // Average review score; null until the first review.
	Category    *taxonomy.Term  `json:"category"`
	Genres      []taxonomy.Term `json:"genre"`
}

// Filter narrows a title listing. Zero values disable the corresponding clause.
type Filter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         int
}

// # Storage Contracts

// Repository defines persistence operations for titles.
type Repository interface {
	// List returns a page of titles plus the total count, with rating,
	// category, and genres hydrated.
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Title, int, error)

	// GetByID retrieves a fully hydrated title. Returns apperr.NotFound if absent.
	GetByID(ctx context.Context, id int64) (*Title, error)

	// Create persists a new title and its genre associations in one transaction.
	Create(ctx context.Context, t *Title, categoryID int64, genreIDs []int64) error

	// Update persists title fields; non-nil genreIDs replaces the genre set,
	// non-nil categoryID replaces the category.
	Update(ctx context.Context, t *Title, categoryID *int64, genreIDs []int64) error

	// Delete removes a title. Reviews cascade. Returns apperr.NotFound if absent.
	Delete(ctx context.Context, id int64) error
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldYear        = "year"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldGenre       = "genre"
)
