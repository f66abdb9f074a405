package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// UserService covers profile reads and updates.
type UserService struct {
	users repository.UserRepository
	roles repository.RoleRepository
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, roles repository.RoleRepository) *UserService {
	return &UserService{users: users, roles: roles}
}

// List returns all accounts.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// Get returns a single account.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetRoles returns the live role assignment for a user.
func (s *UserService) GetRoles(ctx context.Context, id string) ([]domain.Role, error) {
	return s.roles.GetRolesForUser(ctx, id)
}

// UpdateProfileInput carries editable profile fields.
type UpdateProfileInput struct {
	Name string
}

// UpdateProfile changes the caller's own profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	if n := utf8.RuneCountInString(name); n <= 4 || n >= 30 {
		return nil, apperrors.NewValidationError("name must be 5-29 characters", nil)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Name = name
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
