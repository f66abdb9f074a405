package service

import (
	"context"
	"strings"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// ArticleService coordinates article workflows.
type ArticleService struct {
	articles repository.ArticleRepository
	comments repository.CommentRepository
}

// NewArticleService constructs the service.
func NewArticleService(articles repository.ArticleRepository, comments repository.CommentRepository) *ArticleService {
	return &ArticleService{articles: articles, comments: comments}
}

// ArticleInput describes article create/update payload.
type ArticleInput struct {
	Title           string
	Content         string
	Summary         string
	Tags            []string
	CommentsAllowed *bool
}

func (in ArticleInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return apperrors.NewValidationError("please provide a title", nil)
	}
	if strings.TrimSpace(in.Content) == "" {
		return apperrors.NewValidationError("please provide a content", nil)
	}
	return nil
}

// List returns recent articles.
func (s *ArticleService) List(ctx context.Context, limit, offset int) ([]domain.Article, error) {
	return s.articles.List(ctx, limit, offset)
}

// Get returns a single article with its comments.
func (s *ArticleService) Get(ctx context.Context, id string) (*domain.Article, []domain.Comment, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	comments, err := s.comments.ListByArticle(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return article, comments, nil
}

// Create publishes a new article.
func (s *ArticleService) Create(ctx context.Context, authorID string, input ArticleInput) (*domain.Article, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	article := &domain.Article{
		Title:           strings.TrimSpace(input.Title),
		Content:         input.Content,
		Summary:         input.Summary,
		AuthorID:        authorID,
		Tags:            input.Tags,
		CommentsAllowed: true,
	}
	if input.CommentsAllowed != nil {
		article.CommentsAllowed = *input.CommentsAllowed
	}

	if err := s.articles.Create(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// Update rewrites an existing article.
func (s *ArticleService) Update(ctx context.Context, id string, input ArticleInput) (*domain.Article, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	article.Title = strings.TrimSpace(input.Title)
	article.Content = input.Content
	article.Summary = input.Summary
	article.Tags = input.Tags
	if input.CommentsAllowed != nil {
		article.CommentsAllowed = *input.CommentsAllowed
	}

	if err := s.articles.Update(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// Delete removes an article.
func (s *ArticleService) Delete(ctx context.Context, id string) error {
	return s.articles.Delete(ctx, id)
}
