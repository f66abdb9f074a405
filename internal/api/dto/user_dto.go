package dto

import (
	"time"

	"github.com/spec-kit/blog-service/internal/domain"
)

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyRequest carries an account verification token.
type VerifyRequest struct {
	VerifyToken string `json:"verifyToken"`
}

// PasswordResetRequest asks for a reset token by mail.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest consumes a reset token.
type PasswordResetConfirmRequest struct {
	ResetToken  string `json:"resetToken"`
	NewPassword string `json:"newPassword"`
}

// UserUpdateRequest payload for profile updates.
type UserUpdateRequest struct {
	Name string `json:"name"`
}

// LoginResponse carries the freshly minted token.
type LoginResponse struct {
	Token string `json:"token"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	resp := UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
	if user.AvatarName != "" {
		resp.AvatarURL = "/files/avatar/" + user.AvatarName
	}
	return resp
}
