// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package title

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyakovda/yamdb/internal/catalog/taxonomy"
	"github.com/polyakovda/yamdb/internal/platform/apperr"
)

// # Test Doubles

type fakeTitleRepository struct {
	nextID  int64
	titles  map[int64]*Title
	genres  map[int64][]int64 // titleID → genreIDs
	byTitle map[int64]int64   // titleID → categoryID
}

func newFakeTitleRepository() *fakeTitleRepository {
	return &fakeTitleRepository{
		nextID:  1,
		titles:  make(map[int64]*Title),
		genres:  make(map[int64][]int64),
		byTitle: make(map[int64]int64),
	}
}

func (f *fakeTitleRepository) List(_ context.Context, filter Filter, limit, offset int) ([]*Title, int, error) {
	var all []*Title
	for _, t := range f.titles {
		all = append(all, t)
	}
	return all, len(all), nil
}

func (f *fakeTitleRepository) GetByID(_ context.Context, id int64) (*Title, error) {
	if t, ok := f.titles[id]; ok {
		return t, nil
	}
	return nil, apperr.NotFound("Title")
}

func (f *fakeTitleRepository) Create(_ context.Context, t *Title, categoryID int64, genreIDs []int64) error {
	t.ID = f.nextID
	f.nextID++
	f.titles[t.ID] = t
	f.byTitle[t.ID] = categoryID
	f.genres[t.ID] = genreIDs
	return nil
}

func (f *fakeTitleRepository) Update(_ context.Context, t *Title, categoryID *int64, genreIDs []int64) error {
	if _, ok := f.titles[t.ID]; !ok {
		return apperr.NotFound("Title")
	}
	f.titles[t.ID] = t
	if categoryID != nil {
		f.byTitle[t.ID] = *categoryID
	}
	if genreIDs != nil {
		f.genres[t.ID] = genreIDs
	}
	return nil
}

func (f *fakeTitleRepository) Delete(_ context.Context, id int64) error {
	if _, ok := f.titles[id]; !ok {
		return apperr.NotFound("Title")
	}
	delete(f.titles, id)
	return nil
}

// fakeTaxonomy resolves a fixed set of slugs.
type fakeTaxonomy struct {
	terms map[taxonomy.Kind]map[string]*taxonomy.Term
}

func newFakeTaxonomy() *fakeTaxonomy {
	return &fakeTaxonomy{
		terms: map[taxonomy.Kind]map[string]*taxonomy.Term{
			taxonomy.KindCategory: {
				"books": {ID: 1, Name: "Books", Slug: "books"},
			},
			taxonomy.KindGenre: {
				"drama":  {ID: 10, Name: "Drama", Slug: "drama"},
				"sci-fi": {ID: 11, Name: "Sci-Fi", Slug: "sci-fi"},
			},
		},
	}
}

func (f *fakeTaxonomy) List(context.Context, taxonomy.Kind, string, int, int) ([]*taxonomy.Term, int, error) {
	return nil, 0, nil
}

func (f *fakeTaxonomy) Create(context.Context, taxonomy.Kind, *taxonomy.Term) error { return nil }

func (f *fakeTaxonomy) GetBySlug(_ context.Context, kind taxonomy.Kind, slug string) (*taxonomy.Term, error) {
	if term, ok := f.terms[kind][slug]; ok {
		return term, nil
	}
	return nil, apperr.NotFound("Term")
}

func (f *fakeTaxonomy) DeleteBySlug(context.Context, taxonomy.Kind, string) error { return nil }

func newTestService() (*Service, *fakeTitleRepository) {
	repo := newFakeTitleRepository()
	return NewService(repo, newFakeTaxonomy(), slog.Default()), repo
}

// # Tests

func TestCreateTitle_Success(t *testing.T) {
	service, repo := newTestService()

	entity, err := service.CreateTitle(context.Background(), CreateTitleInput{
		Name:         "Dune",
		Year:         1965,
		CategorySlug: "books",
		GenreSlugs:   []string{"sci-fi", "drama"},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), entity.ID)
	assert.Equal(t, []int64{11, 10}, repo.genres[entity.ID])
	assert.Equal(t, int64(1), repo.byTitle[entity.ID])
}

func TestCreateTitle_RejectsFutureYear(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateTitle(context.Background(), CreateTitleInput{
		Name:         "Time Machine Memoirs",
		Year:         3000,
		CategorySlug: "books",
		GenreSlugs:   []string{"sci-fi"},
	})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestCreateTitle_UnknownGenreIsValidationError(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateTitle(context.Background(), CreateTitleInput{
		Name:         "Dune",
		Year:         1965,
		CategorySlug: "books",
		GenreSlugs:   []string{"jazzcore"},
	})

	require.Error(t, err)
	// An unknown slug on the title endpoint is bad input, not a 404.
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestCreateTitle_UnknownCategoryIsValidationError(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateTitle(context.Background(), CreateTitleInput{
		Name:         "Dune",
		Year:         1965,
		CategorySlug: "podcasts",
		GenreSlugs:   []string{"sci-fi"},
	})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestCreateTitle_RequiresCategoryAndGenre(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateTitle(context.Background(), CreateTitleInput{
		Name: "Dune",
		Year: 1965,
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	fields := make([]string, 0, len(ae.Details))
	for _, detail := range ae.Details {
		fields = append(fields, detail.Field)
	}
	assert.Contains(t, fields, FieldCategory)
	assert.Contains(t, fields, FieldGenre)
}

func TestUpdateTitle_ReplacesGenreSet(t *testing.T) {
	service, repo := newTestService()

	entity, err := service.CreateTitle(context.Background(), CreateTitleInput{
		Name:         "Dune",
		Year:         1965,
		CategorySlug: "books",
		GenreSlugs:   []string{"sci-fi", "drama"},
	})
	require.NoError(t, err)

	_, err = service.UpdateTitle(context.Background(), entity.ID, UpdateTitleInput{
		GenreSlugs: []string{"drama"},
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{10}, repo.genres[entity.ID])
}

func TestUpdateTitle_EmptyGenreSetRejected(t *testing.T) {
	service, repo := newTestService()

	entity, err := service.CreateTitle(context.Background(), CreateTitleInput{
		Name:         "Dune",
		Year:         1965,
		CategorySlug: "books",
		GenreSlugs:   []string{"sci-fi"},
	})
	require.NoError(t, err)

	// An explicit empty array must not clear the associations: every title
	// keeps at least one genre.
	_, err = service.UpdateTitle(context.Background(), entity.ID, UpdateTitleInput{
		GenreSlugs: []string{},
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Equal(t, []int64{11}, repo.genres[entity.ID])
}

func TestUpdateTitle_OmittedGenresKept(t *testing.T) {
	service, repo := newTestService()

	entity, err := service.CreateTitle(context.Background(), CreateTitleInput{
		Name:         "Dune",
		Year:         1965,
		CategorySlug: "books",
		GenreSlugs:   []string{"sci-fi"},
	})
	require.NoError(t, err)

	name := "Dune Messiah"
	_, err = service.UpdateTitle(context.Background(), entity.ID, UpdateTitleInput{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, []int64{11}, repo.genres[entity.ID])
	assert.Equal(t, "Dune Messiah", repo.titles[entity.ID].Name)
}

func TestDeleteTitle_Unknown(t *testing.T) {
	service, _ := newTestService()

	err := service.DeleteTitle(context.Background(), 404)

	assert.True(t, apperr.IsNotFound(err))
}
