// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package taxonomy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/polyakovda/yamdb/internal/platform/constants"
	"github.com/polyakovda/yamdb/internal/platform/validate"
	"github.com/polyakovda/yamdb/pkg/pagination"
	"github.com/polyakovda/yamdb/pkg/slug"
)

// # Service Layer

// Service orchestrates business logic for classification terms.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		logger:     logger,
	}
}

/*
ListTerms returns a page of terms for a vocabulary.

Parameters:
  - context: context.Context
  - kind: Kind (category or genre)
  - search: string (name substring filter, empty matches everything)
  - params: pagination.Params

Returns:
  - []*Term: The page of terms
  - int: Total matching count
  - error: Execution failures
*/
func (service *Service) ListTerms(context context.Context, kind Kind, search string, params pagination.Params) ([]*Term, int, error) {
	terms, total, err := service.repository.List(context, kind, search, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("taxonomy_service_list_failed: %w", err)
	}
	return terms, total, nil
}

// CreateTermInput holds the fields for a new classification term.
type CreateTermInput struct {
	Name string
	Slug string
}

/*
CreateTerm validates and persists a new classification term.

Description: When the slug is omitted it is derived from the name. Slug
collisions surface as Conflict via the unique constraint.

Parameters:
  - context: context.Context
  - kind: Kind
  - input: CreateTermInput

Returns:
  - *Term: Created entity
  - error: Validation failures, Conflict, or storage errors
*/
func (service *Service) CreateTerm(context context.Context, kind Kind, input CreateTermInput) (*Term, error) {
	if input.Slug == "" {
		input.Slug = slug.From(input.Name)
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, constants.NameMaxLength).
		Required(FieldSlug, input.Slug).
		Slug(FieldSlug, input.Slug).
		MaxLen(FieldSlug, input.Slug, constants.SlugMaxLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	term := &Term{Name: input.Name, Slug: input.Slug}
	if err := service.repository.Create(context, kind, term); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "taxonomy_term_created",
		slog.String("kind", string(kind)),
		slog.String("slug", term.Slug),
	)

	return term, nil
}

/*
DeleteTerm removes a classification term by slug.

Description: Deleting a category detaches it from titles (SET NULL); deleting
a genre removes its title associations via the join table cascade.

Parameters:
  - context: context.Context
  - kind: Kind
  - termSlug: string

Returns:
  - error: apperr.NotFound or storage errors
*/
func (service *Service) DeleteTerm(context context.Context, kind Kind, termSlug string) error {
	if err := service.repository.DeleteBySlug(context, kind, termSlug); err != nil {
		return err
	}

	service.logger.InfoContext(context, "taxonomy_term_deleted",
		slog.String("kind", string(kind)),
		slog.String("slug", termSlug),
	)

	return nil
}
