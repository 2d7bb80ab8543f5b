// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package taxonomy

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyakovda/yamdb/internal/platform/apperr"
	"github.com/polyakovda/yamdb/pkg/pagination"
)

// # Test Doubles

type fakeRepository struct {
	nextID int64
	terms  map[Kind]map[string]*Term // kind → slug → term
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		nextID: 1,
		terms: map[Kind]map[string]*Term{
			KindCategory: {},
			KindGenre:    {},
		},
	}
}

func (f *fakeRepository) List(_ context.Context, kind Kind, search string, limit, offset int) ([]*Term, int, error) {
	var all []*Term
	for _, term := range f.terms[kind] {
		all = append(all, term)
	}
	return all, len(all), nil
}

func (f *fakeRepository) Create(_ context.Context, kind Kind, term *Term) error {
	if _, exists := f.terms[kind][term.Slug]; exists {
		return apperr.Conflict("slug exists")
	}
	term.ID = f.nextID
	f.nextID++
	f.terms[kind][term.Slug] = term
	return nil
}

func (f *fakeRepository) GetBySlug(_ context.Context, kind Kind, slug string) (*Term, error) {
	if term, ok := f.terms[kind][slug]; ok {
		return term, nil
	}
	return nil, apperr.NotFound("Term")
}

func (f *fakeRepository) DeleteBySlug(_ context.Context, kind Kind, slug string) error {
	if _, ok := f.terms[kind][slug]; !ok {
		return apperr.NotFound("Term")
	}
	delete(f.terms[kind], slug)
	return nil
}

func newTestService() (*Service, *fakeRepository) {
	repo := newFakeRepository()
	return NewService(repo, slog.Default()), repo
}

// # Tests

func TestCreateTerm_DerivesSlugFromName(t *testing.T) {
	service, _ := newTestService()

	term, err := service.CreateTerm(context.Background(), KindCategory, CreateTermInput{
		Name: "Science Fiction",
	})

	require.NoError(t, err)
	assert.Equal(t, "science-fiction", term.Slug)
}

func TestCreateTerm_ExplicitSlugWins(t *testing.T) {
	service, _ := newTestService()

	term, err := service.CreateTerm(context.Background(), KindGenre, CreateTermInput{
		Name: "Science Fiction",
		Slug: "sci-fi",
	})

	require.NoError(t, err)
	assert.Equal(t, "sci-fi", term.Slug)
}

func TestCreateTerm_RejectsBadSlug(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateTerm(context.Background(), KindCategory, CreateTermInput{
		Name: "Books",
		Slug: "Not A Slug",
	})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestCreateTerm_RequiresName(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateTerm(context.Background(), KindCategory, CreateTermInput{})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestCreateTerm_DuplicateSlugConflicts(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateTerm(context.Background(), KindCategory, CreateTermInput{Name: "Books"})
	require.NoError(t, err)

	_, err = service.CreateTerm(context.Background(), KindCategory, CreateTermInput{Name: "Books"})
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
}

func TestVocabulariesAreIndependent(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateTerm(context.Background(), KindCategory, CreateTermInput{Name: "Drama"})
	require.NoError(t, err)

	// The same slug in the other vocabulary is fine.
	_, err = service.CreateTerm(context.Background(), KindGenre, CreateTermInput{Name: "Drama"})
	require.NoError(t, err)
}

func TestDeleteTerm_Unknown(t *testing.T) {
	service, _ := newTestService()

	err := service.DeleteTerm(context.Background(), KindGenre, "ghost")

	assert.True(t, apperr.IsNotFound(err))
}

func TestListTerms(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateTerm(context.Background(), KindCategory, CreateTermInput{Name: "Books"})
	require.NoError(t, err)
	_, err = service.CreateTerm(context.Background(), KindCategory, CreateTermInput{Name: "Movies"})
	require.NoError(t, err)

	terms, total, err := service.ListTerms(context.Background(), KindCategory, "", pagination.Params{Limit: 20})

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, terms, 2)
}
