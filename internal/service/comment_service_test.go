package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

type fakeArticleRepo struct {
	articles map[string]*domain.Article
}

func (f *fakeArticleRepo) Create(_ context.Context, article *domain.Article) error {
	article.ID = uuid.NewString()
	f.articles[article.ID] = article
	return nil
}

func (f *fakeArticleRepo) Update(_ context.Context, article *domain.Article) error {
	if _, ok := f.articles[article.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.articles[article.ID] = article
	return nil
}

func (f *fakeArticleRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.articles[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.articles, id)
	return nil
}

func (f *fakeArticleRepo) GetByID(_ context.Context, id string) (*domain.Article, error) {
	article, ok := f.articles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *article
	return &copied, nil
}

func (f *fakeArticleRepo) List(_ context.Context, _, _ int) ([]domain.Article, error) {
	var result []domain.Article
	for _, article := range f.articles {
		result = append(result, *article)
	}
	return result, nil
}

type fakeCommentRepo struct {
	comments map[string]*domain.Comment
}

func (f *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	comment.ID = uuid.NewString()
	copied := *comment
	f.comments[comment.ID] = &copied
	return nil
}

func (f *fakeCommentRepo) Update(_ context.Context, comment *domain.Comment) error {
	if _, ok := f.comments[comment.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *comment
	f.comments[comment.ID] = &copied
	return nil
}

func (f *fakeCommentRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.comments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeCommentRepo) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	comment, ok := f.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *comment
	return &copied, nil
}

func (f *fakeCommentRepo) ListByArticle(_ context.Context, articleID string) ([]domain.Comment, error) {
	var result []domain.Comment
	for _, comment := range f.comments {
		if comment.ArticleID == articleID {
			result = append(result, *comment)
		}
	}
	return result, nil
}

func newCommentFixture(commentsAllowed bool) (*CommentService, string) {
	articles := &fakeArticleRepo{articles: make(map[string]*domain.Article)}
	comments := &fakeCommentRepo{comments: make(map[string]*domain.Comment)}

	article := &domain.Article{Title: "post", Content: "body", AuthorID: "author", CommentsAllowed: commentsAllowed}
	_ = articles.Create(context.Background(), article)

	return NewCommentService(comments, articles, nil), article.ID
}

func TestAddCommentHonorsCommentsAllowed(t *testing.T) {
	ctx := context.Background()

	svc, articleID := newCommentFixture(true)
	comment, err := svc.Add(ctx, "u1", articleID, "nice post")
	require.NoError(t, err)
	assert.Equal(t, "u1", comment.AuthorID)

	svc, articleID = newCommentFixture(false)
	_, err = svc.Add(ctx, "u1", articleID, "nice post")
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, http.StatusForbidden, domainErr.HTTPStatus)
}

func TestAddCommentRejectsEmptyContent(t *testing.T) {
	svc, articleID := newCommentFixture(true)

	_, err := svc.Add(context.Background(), "u1", articleID, "   ")
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)
}

func TestCommentEventPreviewKeepsRuneBoundaries(t *testing.T) {
	ctx := context.Background()
	articles := &fakeArticleRepo{articles: make(map[string]*domain.Article)}
	comments := &fakeCommentRepo{comments: make(map[string]*domain.Comment)}
	article := &domain.Article{Title: "post", Content: "body", AuthorID: "author", CommentsAllowed: true}
	require.NoError(t, articles.Create(ctx, article))

	dispatcher := &recordingDispatcher{}
	svc := NewCommentService(comments, articles, dispatcher)

	// 100 two-byte runes; a byte-index cut at 80 would split one in half.
	_, err := svc.Add(ctx, "u1", article.ID, strings.Repeat("é", 100))
	require.NoError(t, err)

	payload := dispatcher.last(t, events.EventCommentAdded).Payload.(events.CommentAddedPayload)
	assert.True(t, utf8.ValidString(payload.BodyPreview))
	assert.Equal(t, strings.Repeat("é", 80), payload.BodyPreview)
}

func TestUpdateCommentOwnerOrAdmin(t *testing.T) {
	ctx := context.Background()
	svc, articleID := newCommentFixture(true)

	comment, err := svc.Add(ctx, "owner", articleID, "original")
	require.NoError(t, err)

	_, err = svc.Update(ctx, "intruder", false, comment.ID, "hijacked")
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, http.StatusForbidden, domainErr.HTTPStatus)

	updated, err := svc.Update(ctx, "owner", false, comment.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	updated, err = svc.Update(ctx, "moderator", true, comment.ID, "moderated")
	require.NoError(t, err)
	assert.Equal(t, "moderated", updated.Content)
}

func TestDeleteCommentOwnerOrAdmin(t *testing.T) {
	ctx := context.Background()
	svc, articleID := newCommentFixture(true)

	comment, err := svc.Add(ctx, "owner", articleID, "original")
	require.NoError(t, err)

	err = svc.Delete(ctx, "intruder", false, comment.ID)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, http.StatusForbidden, domainErr.HTTPStatus)

	require.NoError(t, svc.Delete(ctx, "owner", false, comment.ID))

	_, err = svc.Get(ctx, comment.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
