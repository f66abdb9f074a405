package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserVerified   EventType = "user_verified"
	EventUserRemoved    EventType = "user_removed"
	EventPassResetAsked EventType = "password_reset_requested"
	EventCommentAdded   EventType = "comment_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload carries what the welcome mail needs.
type UserRegisteredPayload struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	VerificationToken string `json:"verification_token"`
}

// PassResetRequestedPayload carries what the reset mail needs.
type PassResetRequestedPayload struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	ResetToken string `json:"reset_token"`
}

// UserVerifiedPayload payload.
type UserVerifiedPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserRemovedPayload payload.
type UserRemovedPayload struct {
	Email string `json:"email"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	ArticleID   string `json:"article_id"`
	CommentID   string `json:"comment_id"`
	BodyPreview string `json:"body_preview"`
}
