// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

/*
Package taxonomy implements the classification vocabularies of the catalog:
categories (one per title) and genres (many per title).

Both vocabularies share the same shape — a name plus a unique URL slug — so
the package implements them once and parameterizes the storage by [Kind].

# Architecture

  - Service: Validation, slug derivation, and orchestration.
  - Repository: Kind-aware persistence over the content schema.
  - Handler: One instance mounted per vocabulary (/categories, /genres).
*/
package taxonomy

import "context"

// # Domain Entities

// Term is a single classification entry: a category or a genre.
type Term struct {
	ID   int64  `json:"-"` // Internal key. The slug is the public identifier.
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Kind selects which vocabulary a repository call operates on.
type Kind string

const (
	KindCategory Kind = "category"
	KindGenre    Kind = "genre"
)

// table returns the fully qualified relation backing the vocabulary.
// Kind is a closed enum, so interpolating this into SQL is safe.
func (k Kind) table() string {
	switch k {
	case KindGenre:
		return "content.genre"
	default:
		return "content.category"
	}
}

// # Storage Contracts

// Repository defines persistence operations shared by both vocabularies.
type Repository interface {
	// List returns a page of terms plus the total count. An empty search
	// matches everything; otherwise it filters by name substring.
	List(ctx context.Context, kind Kind, search string, limit, offset int) ([]*Term, int, error)

	// Create persists a new term. Returns apperr.Conflict on a slug collision.
	Create(ctx context.Context, kind Kind, term *Term) error

	// GetBySlug retrieves a term by its slug. Returns apperr.NotFound if absent.
	GetBySlug(ctx context.Context, kind Kind, slug string) (*Term, error)

	// DeleteBySlug removes a term. Returns apperr.NotFound if absent.
	DeleteBySlug(ctx context.Context, kind Kind, slug string) error
}

// # Field Identifiers

const (
	FieldName = "name"
	FieldSlug = "slug"
)
