package domain

import "time"

// User is the domain model for registered accounts. Accounts start
// inactive and become active once an account verification token is consumed.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	IsActive     bool
	AvatarName   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
