// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package title

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/polyakovda/yamdb/internal/catalog/taxonomy"
	"github.com/polyakovda/yamdb/internal/platform/apperr"
	"github.com/polyakovda/yamdb/internal/platform/constants"
	"github.com/polyakovda/yamdb/internal/platform/validate"
	"github.com/polyakovda/yamdb/pkg/pagination"
)

// # Service Layer

// Service orchestrates business logic for catalog titles.
type Service struct {
	titleRepository    Repository
	taxonomyRepository taxonomy.Repository
	logger             *slog.Logger
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(titleRepo Repository, taxonomyRepo taxonomy.Repository, logger *slog.Logger) *Service {
	return &Service{
		titleRepository:    titleRepo,
		taxonomyRepository: taxonomyRepo,
		logger:             logger,
	}
}

/*
ListTitles returns a page of titles matching the filter.

Parameters:
  - context: context.Context
  - filter: Filter (category/genre slug, name substring, year)
  - params: pagination.Params

Returns:
  - []*Title: The hydrated page
  - int: Total matching count
  - error: Execution failures
*/
func (service *Service) ListTitles(context context.Context, filter Filter, params pagination.Params) ([]*Title, int, error) {
	titles, total, err := service.titleRepository.List(context, filter, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("title_service_list_failed: %w", err)
	}
	return titles, total, nil
}

/*
GetTitle retrieves a single title with rating, category, and genres.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Title: The hydrated entity
  - error: apperr.NotFound or execution failures
*/
func (service *Service) GetTitle(context context.Context, id int64) (*Title, error) {
	return service.titleRepository.GetByID(context, id)
}

// CreateTitleInput holds the fields for a new title.
type CreateTitleInput struct {
	Name         string
	Year         int
	Description  string
	CategorySlug string
	GenreSlugs   []string
}

/*
CreateTitle validates input, resolves taxonomy slugs, and persists the title.

Description: Unknown category or genre slugs are a validation failure, not a
404 — the title endpoint treats them as bad input.

Parameters:
  - context: context.Context
  - input: CreateTitleInput

Returns:
  - *Title: Created entity, fully hydrated
  - error: Validation failures or storage errors
*/
func (service *Service) CreateTitle(context context.Context, input CreateTitleInput) (*Title, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, constants.NameMaxLength).
		Custom(FieldYear, input.Year == 0, "This field is required").
		Year(FieldYear, input.Year).
		Custom(FieldCategory, input.CategorySlug == "", "This field is required").
		Custom(FieldGenre, len(input.GenreSlugs) == 0, "This field is required")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	category, err := service.resolveCategory(context, input.CategorySlug)
	if err != nil {
		return nil, err
	}

	genres, err := service.resolveGenres(context, input.GenreSlugs)
	if err != nil {
		return nil, err
	}

	entity := &Title{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
	}

	if err := service.titleRepository.Create(context, entity, category.ID, termIDs(genres)); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "title_created",
		slog.Int64("title_id", entity.ID),
		slog.String("name", entity.Name),
	)

	return service.titleRepository.GetByID(context, entity.ID)
}

// UpdateTitleInput defines the mutable title fields.
// Nil pointers leave the corresponding field unchanged; a non-nil GenreSlugs
// replaces the whole genre set.
type UpdateTitleInput struct {
	Name         *string
	Year         *int
	Description  *string
	CategorySlug *string
	GenreSlugs   []string
}

/*
UpdateTitle applies a partial update to a title.

Parameters:
  - context: context.Context
  - id: int64
  - input: UpdateTitleInput

Returns:
  - *Title: The updated entity, fully hydrated
  - error: NotFound, validation failures, or storage errors
*/
func (service *Service) UpdateTitle(context context.Context, id int64, input UpdateTitleInput) (*Title, error) {
	entity, err := service.titleRepository.GetByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		entity.Name = *input.Name
	}
	if input.Year != nil {
		entity.Year = *input.Year
	}
	if input.Description != nil {
		entity.Description = *input.Description
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, entity.Name).
		MaxLen(FieldName, entity.Name, constants.NameMaxLength).
		Year(FieldYear, entity.Year)

	// An explicit genre array replaces the whole set, and the set must never
	// end up empty. Omitting the field keeps the current associations.
	if input.GenreSlugs != nil {
		validator.Custom(FieldGenre, len(input.GenreSlugs) == 0, "This field may not be empty")
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	var categoryID *int64
	if input.CategorySlug != nil {
		category, err := service.resolveCategory(context, *input.CategorySlug)
		if err != nil {
			return nil, err
		}
		categoryID = &category.ID
	}

	var genreIDs []int64
	if input.GenreSlugs != nil {
		genres, err := service.resolveGenres(context, input.GenreSlugs)
		if err != nil {
			return nil, err
		}
		genreIDs = termIDs(genres)
	}

	if err := service.titleRepository.Update(context, entity, categoryID, genreIDs); err != nil {
		return nil, err
	}

	return service.titleRepository.GetByID(context, id)
}

/*
DeleteTitle removes a title and, by cascade, its reviews and comments.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - error: apperr.NotFound or storage errors
*/
func (service *Service) DeleteTitle(context context.Context, id int64) error {
	if err := service.titleRepository.Delete(context, id); err != nil {
		return err
	}

	service.logger.InfoContext(context, "title_deleted", slog.Int64("title_id", id))
	return nil
}

// # Helpers

// resolveCategory maps a category slug to its term, as a validation failure
// when unknown.
func (service *Service) resolveCategory(context context.Context, slug string) (*taxonomy.Term, error) {
	category, err := service.taxonomyRepository.GetBySlug(context, taxonomy.KindCategory, slug)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, validate.RequiredError(FieldCategory, fmt.Sprintf("Unknown category %q", slug))
		}
		return nil, err
	}
	return category, nil
}

// resolveGenres maps genre slugs to terms, rejecting unknowns and duplicates.
func (service *Service) resolveGenres(context context.Context, slugs []string) ([]*taxonomy.Term, error) {
	seen := make(map[string]bool, len(slugs))
	genres := make([]*taxonomy.Term, 0, len(slugs))

	for _, genreSlug := range slugs {
		if seen[genreSlug] {
			continue
		}
		seen[genreSlug] = true

		genre, err := service.taxonomyRepository.GetBySlug(context, taxonomy.KindGenre, genreSlug)
		if err != nil {
			if apperr.IsNotFound(err) {
				return nil, validate.RequiredError(FieldGenre, fmt.Sprintf("Unknown genre %q", genreSlug))
			}
			return nil, err
		}
		genres = append(genres, genre)
	}

	return genres, nil
}

// termIDs extracts primary keys from resolved terms.
func termIDs(terms []*taxonomy.Term) []int64 {
	ids := make([]int64, len(terms))
	for i, term := range terms {
		ids[i] = term.ID
	}
	return ids
}
