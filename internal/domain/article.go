package domain

import "time"

// Article is a published blog post.
type Article struct {
	ID              string
	Title           string
	Content         string
	Summary         string
	AuthorID        string
	Tags            []string
	CommentsAllowed bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
