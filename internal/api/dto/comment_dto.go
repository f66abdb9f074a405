package dto

import (
	"time"

	"github.com/spec-kit/blog-service/internal/domain"
)

// CommentRequest payload for posting or editing a comment.
type CommentRequest struct {
	ArticleID string `json:"article_id"`
	Content   string `json:"content"`
}

// CommentResponse is the public view of a comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"article_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCommentResponse maps a domain comment.
func NewCommentResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		ArticleID: comment.ArticleID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

// NewCommentResponses maps a slice of comments.
func NewCommentResponses(comments []domain.Comment) []CommentResponse {
	result := make([]CommentResponse, len(comments))
	for i := range comments {
		result[i] = NewCommentResponse(&comments[i])
	}
	return result
}
