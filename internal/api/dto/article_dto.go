package dto

import (
	"time"

	"github.com/spec-kit/blog-service/internal/domain"
)

// ArticleRequest payload for creating or updating an article.
type ArticleRequest struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Summary         string   `json:"summary"`
	Tags            []string `json:"tags"`
	CommentsAllowed *bool    `json:"comments_allowed"`
}

// ArticleResponse is the public view of an article.
type ArticleResponse struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Content         string            `json:"content"`
	Summary         string            `json:"summary,omitempty"`
	AuthorID        string            `json:"author_id"`
	Tags            []string          `json:"tags,omitempty"`
	CommentsAllowed bool              `json:"comments_allowed"`
	Comments        []CommentResponse `json:"comments,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// NewArticleResponse maps a domain article.
func NewArticleResponse(article *domain.Article) ArticleResponse {
	return ArticleResponse{
		ID:              article.ID,
		Title:           article.Title,
		Content:         article.Content,
		Summary:         article.Summary,
		AuthorID:        article.AuthorID,
		Tags:            article.Tags,
		CommentsAllowed: article.CommentsAllowed,
		CreatedAt:       article.CreatedAt,
		UpdatedAt:       article.UpdatedAt,
	}
}
