package domain

import "time"

// Comment is a reader comment attached to an article.
type Comment struct {
	ID        string
	ArticleID string
	AuthorID  string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
