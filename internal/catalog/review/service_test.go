// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package review

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

type reviewKey struct {
	titleID  int64
	authorID int64
}

type fakeReviewRepository struct {
	nextID  int64
	reviews map[int64]*Review
	byPair  map[reviewKey]int64
}

func newFakeReviewRepository() *fakeReviewRepository {
	return &fakeReviewRepository{
		nextID:  1,
		reviews: make(map[int64]*Review),
		byPair:  make(map[reviewKey]int64),
	}
}

func (f *fakeReviewRepository) ListByTitle(_ context.Context, titleID int64, _, _ int) ([]*Review, int, error) {
	var page []*Review
	for _, r := range f.reviews {
		if r.TitleID == titleID {
			page = append(page, r)
		}
	}
	return page, len(page), nil
}

func (f *fakeReviewRepository) GetByID(_ context.Context, titleID, reviewID int64) (*Review, error) {
	r, ok := f.reviews[reviewID]
	if !ok || r.TitleID != titleID {
		return nil, apperr.NotFound("Review")
	}
	return r, nil
}

func (f *fakeReviewRepository) Create(_ context.Context, r *Review) error {
	key := reviewKey{titleID: r.TitleID, authorID: r.AuthorID}
	if _, exists := f.byPair[key]; exists {
		return apperr.Conflict("duplicate")
	}
	r.ID = f.nextID
	f.nextID++
	f.reviews[r.ID] = r
	f.byPair[key] = r.ID
	return nil
}

func (f *fakeReviewRepository) Update(_ context.Context, r *Review) error {
	if _, ok := f.reviews[r.ID]; !ok {
		return apperr.NotFound("Review")
	}
	f.reviews[r.ID] = r
	return nil
}

func (f *fakeReviewRepository) Delete(_ context.Context, titleID, reviewID int64) error {
	r, ok := f.reviews[reviewID]
	if !ok || r.TitleID != titleID {
		return apperr.NotFound("Review")
	}
	delete(f.byPair, reviewKey{titleID: r.TitleID, authorID: r.AuthorID})
	delete(f.reviews, reviewID)
	return nil
}

type fakeCommentRepository struct {
	nextID   int64
	comments map[int64]*Comment
}

func newFakeCommentRepository() *fakeCommentRepository {
	return &fakeCommentRepository{nextID: 1, comments: make(map[int64]*Comment)}
}

func (f *fakeCommentRepository) ListByReview(_ context.Context, reviewID int64, _, _ int) ([]*Comment, int, error) {
	var page []*Comment
	for _, c := range f.comments {
		if c.ReviewID == reviewID {
			page = append(page, c)
		}
	}
	return page, len(page), nil
}

func (f *fakeCommentRepository) GetByID(_ context.Context, reviewID, commentID int64) (*Comment, error) {
	c, ok := f.comments[commentID]
	if !ok || c.ReviewID != reviewID {
		return nil, apperr.NotFound("Comment")
	}
	return c, nil
}

func (f *fakeCommentRepository) Create(_ context.Context, c *Comment) error {
	c.ID = f.nextID
	f.nextID++
	f.comments[c.ID] = c
	return nil
}

func (f *fakeCommentRepository) Update(_ context.Context, c *Comment) error {
	if _, ok := f.comments[c.ID]; !ok {
		return apperr.NotFound("Comment")
	}
	f.comments[c.ID] = c
	return nil
}

func (f *fakeCommentRepository) Delete(_ context.Context, reviewID, commentID int64) error {
	c, ok := f.comments[commentID]
	if !ok || c.ReviewID != reviewID {
		return apperr.NotFound("Comment")
	}
	delete(f.comments, commentID)
	return nil
}

// fakeTitles knows a single title, ID 1.
type fakeTitles struct{}

func (fakeTitles) Exists(_ context.Context, titleID int64) error {
	if titleID == 1 {
		return nil
	}
	return apperr.NotFound("Title")
}

func newTestService() (*Service, *fakeReviewRepository, *fakeCommentRepository) {
	reviews := newFakeReviewRepository()
	comments := newFakeCommentRepository()
	service := NewService(reviews, comments, fakeTitles{}, slog.Default())
	return service, reviews, comments
}

var (
	author    = Actor{UserID: 10, Role: "user"}
	stranger  = Actor{UserID: 20, Role: "user"}
	moderator = Actor{UserID: 30, Role: "moderator"}
	admin     = Actor{UserID: 40, Role: "admin"}
	superuser = Actor{UserID: 50, Role: "user", IsSuperuser: true}
)

// # Review Tests

func TestCreateReview_Success(t *testing.T) {
	service, _, _ := newTestService()

	entity, err := service.CreateReview(context.Background(), author, 1, CreateReviewInput{
		Text:  "A slow burn that pays off.",
		Score: 8,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), entity.ID)
	assert.Equal(t, author.UserID, entity.AuthorID)
}

func TestCreateReview_SecondReviewConflicts(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.CreateReview(context.Background(), author, 1, CreateReviewInput{Text: "First take.", Score: 7})
	require.NoError(t, err)

	_, err = service.CreateReview(context.Background(), author, 1, CreateReviewInput{Text: "Second take.", Score: 9})

	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.Equal(t, "You have already reviewed this title", apperr.As(err).Message)
}

func TestCreateReview_ScoreOutOfRange(t *testing.T) {
	service, _, _ := newTestService()

	for _, score := range []int{0, 11, -3} {
		_, err := service.CreateReview(context.Background(), author, 1, CreateReviewInput{
			Text:  "Off the scale.",
			Score: score,
		})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	}
}

func TestCreateReview_UnknownTitle(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.CreateReview(context.Background(), author, 404, CreateReviewInput{Text: "Where?", Score: 5})

	assert.True(t, apperr.IsNotFound(err))
}

func TestUpdateReview_ModerationMatrix(t *testing.T) {
	cases := []struct {
		name    string
		actor   Actor
		allowed bool
	}{
		{"author", author, true},
		{"moderator", moderator, true},
		{"admin", admin, true},
		{"superuser", superuser, true},
		{"stranger", stranger, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service, _, _ := newTestService()

			entity, err := service.CreateReview(context.Background(), author, 1, CreateReviewInput{
				Text:  "Original text.",
				Score: 6,
			})
			require.NoError(t, err)

			text := "Edited text."
			_, err = service.UpdateReview(context.Background(), tc.actor, 1, entity.ID, UpdateReviewInput{Text: &text})

			if tc.allowed {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
			}
		})
	}
}

func TestDeleteReview_StrangerForbidden(t *testing.T) {
	service, reviews, _ := newTestService()

	entity, err := service.CreateReview(context.Background(), author, 1, CreateReviewInput{Text: "Keep me.", Score: 5})
	require.NoError(t, err)

	err = service.DeleteReview(context.Background(), stranger, 1, entity.ID)

	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	assert.Contains(t, reviews.reviews, entity.ID)
}

func TestDeleteReview_ModeratorAllowed(t *testing.T) {
	service, reviews, _ := newTestService()

	entity, err := service.CreateReview(context.Background(), author, 1, CreateReviewInput{Text: "Gone soon.", Score: 5})
	require.NoError(t, err)

	require.NoError(t, service.DeleteReview(context.Background(), moderator, 1, entity.ID))
	assert.NotContains(t, reviews.reviews, entity.ID)
}

func TestGetReview_WrongTitleIs404(t *testing.T) {
	service, _, _ := newTestService()

	entity, err := service.CreateReview(context.Background(), author, 1, CreateReviewInput{Text: "Scoped.", Score: 5})
	require.NoError(t, err)

	// The review exists but not under title 2.
	_, err = service.GetReview(context.Background(), 2, entity.ID)
	assert.True(t, apperr.IsNotFound(err))
}

// # Comment Tests

func TestCreateComment_Success(t *testing.T) {
	service, _, _ := newTestService()

	reviewEntity, err := service.CreateReview(context.Background(), author, 1, CreateReviewInput{Text: "Thread root.", Score: 7})
	require.NoError(t, err)

	comment, err := service.CreateComment(context.Background(), stranger, 1, reviewEntity.ID, "Completely agree.")

	require.NoError(t, err)
	assert.Equal(t, reviewEntity.ID, comment.ReviewID)
	assert.Equal(t, stranger.UserID, comment.AuthorID)
}

func TestCreateComment_RequiresText(t *testing.T) {
	service, _, _ := newTestService()

	reviewEntity, err := service.CreateReview(context.Background(), author, 1, CreateReviewInput{Text: "Thread root.", Score: 7})
	require.NoError(t, err)

	_, err = service.CreateComment(context.Background(), stranger, 1, reviewEntity.ID, "")

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestCreateComment_BrokenChainIs404(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.CreateComment(context.Background(), stranger, 1, 999, "Into the void.")

	assert.True(t, apperr.IsNotFound(err))
}

func TestUpdateComment_StrangerForbidden(t *testing.T) {
	service, _, _ := newTestService()

	reviewEntity, err := service.CreateReview(context.Background(), author, 1, CreateReviewInput{Text: "Thread root.", Score: 7})
	require.NoError(t, err)

	comment, err := service.CreateComment(context.Background(), author, 1, reviewEntity.ID, "My own reply.")
	require.NoError(t, err)

	_, err = service.UpdateComment(context.Background(), stranger, 1, reviewEntity.ID, comment.ID, "Hijacked.")

	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

func TestDeleteComment_SuperuserAllowed(t *testing.T) {
	service, _, comments := newTestService()

	reviewEntity, err := service.CreateReview(context.Background(), author, 1, CreateReviewInput{Text: "Thread root.", Score: 7})
	require.NoError(t, err)

	comment, err := service.CreateComment(context.Background(), stranger, 1, reviewEntity.ID, "Off-topic.")
	require.NoError(t, err)

	require.NoError(t, service.DeleteComment(context.Background(), superuser, 1, reviewEntity.ID, comment.ID))
	assert.NotContains(t, comments.comments, comment.ID)
}

func TestListReviews_UnknownTitle(t *testing.T) {
	service, _, _ := newTestService()

	_, _, err := service.ListReviews(context.Background(), 404, pagination.Params{Limit: 20})

	assert.True(t, apperr.IsNotFound(err))
}
