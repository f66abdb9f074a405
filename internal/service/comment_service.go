package service

import (
	"context"
	"strings"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// CommentService coordinates comment workflows. Authors may edit or delete
// their own comments; admins may act on any.
type CommentService struct {
	comments   repository.CommentRepository
	articles   repository.ArticleRepository
	dispatcher events.Dispatcher
}

// NewCommentService constructs the service.
func NewCommentService(comments repository.CommentRepository, articles repository.ArticleRepository, dispatcher events.Dispatcher) *CommentService {
	return &CommentService{comments: comments, articles: articles, dispatcher: dispatcher}
}

// Get returns a single comment.
func (s *CommentService) Get(ctx context.Context, id string) (*domain.Comment, error) {
	return s.comments.GetByID(ctx, id)
}

// ListByArticle returns an article's comments in posting order.
func (s *CommentService) ListByArticle(ctx context.Context, articleID string) ([]domain.Comment, error) {
	return s.comments.ListByArticle(ctx, articleID)
}

// Add posts a comment on an article that allows commenting.
func (s *CommentService) Add(ctx context.Context, authorID, articleID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("comment content required", nil)
	}

	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if !article.CommentsAllowed {
		return nil, apperrors.NewForbidden("comments disabled for this article")
	}

	comment := &domain.Comment{
		ArticleID: articleID,
		AuthorID:  authorID,
		Content:   content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:   events.EventCommentAdded,
			UserID: authorID,
			Payload: events.CommentAddedPayload{
				ArticleID:   articleID,
				CommentID:   comment.ID,
				BodyPreview: preview(content),
			},
		})
	}
	return comment, nil
}

// Update edits a comment owned by the caller (or any, for admins).
func (s *CommentService) Update(ctx context.Context, callerID string, isAdmin bool, commentID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("comment content required", nil)
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != callerID && !isAdmin {
		return nil, apperrors.NewForbidden("not the comment author")
	}

	comment.Content = content
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment owned by the caller (or any, for admins).
func (s *CommentService) Delete(ctx context.Context, callerID string, isAdmin bool, commentID string) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != callerID && !isAdmin {
		return apperrors.NewForbidden("not the comment author")
	}
	return s.comments.Delete(ctx, commentID)
}

func preview(content string) string {
	const max = 80
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max])
}
