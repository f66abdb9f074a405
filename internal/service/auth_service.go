package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// AuthService coordinates registration, verification, login and revocation
// flows. Every issued token gets a fresh uuid as its token id so revocation
// can target a single issuance.
type AuthService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	blacklist  repository.TokenBlacklistRepository
	tokens     *auth.TokenFactory
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo      repository.UserRepository
	RoleRepo      repository.RoleRepository
	BlacklistRepo repository.TokenBlacklistRepository
	Dispatcher    events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		roles:      deps.RoleRepo,
		blacklist:  deps.BlacklistRepo,
		tokens:     auth.NewTokenFactory(cfg.Auth),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new inactive account and mints its verification token.
// The token travels to the user by mail (notification handler); the HTTP
// response carries no body.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		IsActive:     false,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	if err := s.roles.Assign(ctx, user.ID, domain.RoleUser); err != nil {
		return nil, err
	}

	tokenID := uuid.NewString()
	token, err := s.tokens.IssueVerificationToken(user.ID, tokenID)
	if err != nil {
		return nil, err
	}
	if err := s.blacklist.RegisterIssued(ctx, user.ID, tokenID, s.tokens.TTL(auth.TokenTypeVerifyAccount)); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:   events.EventUserRegistered,
		UserID: user.ID,
		Payload: events.UserRegisteredPayload{
			Name:              user.Name,
			Email:             user.Email,
			VerificationToken: token,
		},
	})
	return user, nil
}

// Verify consumes an account verification token: the account becomes
// active and the token id is blacklisted so the token cannot be replayed.
func (s *AuthService) Verify(ctx context.Context, tokenStr string) (*domain.User, error) {
	claims, err := s.tokens.Verify(tokenStr, auth.TokenTypeVerifyAccount)
	if err != nil {
		return nil, mapTokenError(err)
	}
	if err := s.requireNotRevoked(ctx, claims.TokenID()); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID())
	if err != nil {
		return nil, err
	}
	user.IsActive = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if err := s.blacklist.Blacklist(ctx, claims.TokenID(), remainingLife(claims)); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:    events.EventUserVerified,
		UserID:  user.ID,
		Payload: events.UserVerifiedPayload{Name: user.Name, Email: user.Email},
	})
	return user, nil
}

// Login authenticates credentials and mints an authorization token carrying
// the user's current roles as an informational snapshot. If the issuance
// cannot be recorded for later revocation, the token is blacklisted on the
// spot and login fails.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, *auth.Claims, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if !user.IsActive {
		return nil, "", nil, apperrors.NewUnauthorized("account not verified")
	}

	roles, err := s.roles.GetRolesForUser(ctx, user.ID)
	if err != nil {
		return nil, "", nil, err
	}

	tokenID := uuid.NewString()
	token, claims, err := s.tokens.IssueAuthToken(user, domain.RoleNames(roles), tokenID)
	if err != nil {
		return nil, "", nil, err
	}

	authTTL := s.tokens.TTL(auth.TokenTypeAuthorization)
	if err := s.blacklist.RegisterIssued(ctx, user.ID, tokenID, authTTL); err != nil {
		_ = s.blacklist.Blacklist(ctx, tokenID, authTTL)
		return nil, "", nil, apperrors.NewUnauthorized("cannot log in")
	}

	return user, token, claims, nil
}

// Logout revokes the presented token for the rest of its natural life.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	return s.blacklist.Blacklist(ctx, claims.TokenID(), remainingLife(claims))
}

// RemoveAccount revokes every live token for the user, then deletes the
// account. Revocation comes first so a delete failure never leaves usable
// tokens behind for a half-removed account.
func (s *AuthService) RemoveAccount(ctx context.Context, userID string) error {
	if err := s.blacklist.BlacklistAllForUser(ctx, userID); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	s.publish(ctx, events.Event{
		Type:    events.EventUserRemoved,
		UserID:  userID,
		Payload: events.UserRemovedPayload{Email: user.Email},
	})
	return nil
}

// RequestPasswordReset mints a reset token for the account, delivered by
// mail. Unknown emails report success to the caller; the notification
// simply never goes out.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}

	tokenID := uuid.NewString()
	token, err := s.tokens.IssuePasswordResetToken(user.ID, tokenID)
	if err != nil {
		return err
	}
	if err := s.blacklist.RegisterIssued(ctx, user.ID, tokenID, s.tokens.TTL(auth.TokenTypePassReset)); err != nil {
		return err
	}

	s.publish(ctx, events.Event{
		Type:   events.EventPassResetAsked,
		UserID: user.ID,
		Payload: events.PassResetRequestedPayload{
			Name:       user.Name,
			Email:      user.Email,
			ResetToken: token,
		},
	})
	return nil
}

// ConfirmPasswordReset consumes a reset token and updates the password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	claims, err := s.tokens.Verify(tokenStr, auth.TokenTypePassReset)
	if err != nil {
		return mapTokenError(err)
	}
	if err := s.requireNotRevoked(ctx, claims.TokenID()); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, claims.UserID())
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	return s.blacklist.Blacklist(ctx, claims.TokenID(), remainingLife(claims))
}

// TokenFactory exposes the underlying token factory for middleware usage.
func (s *AuthService) TokenFactory() *auth.TokenFactory {
	return s.tokens
}

func (s *AuthService) requireNotRevoked(ctx context.Context, tokenID string) error {
	revoked, err := s.blacklist.IsBlacklisted(ctx, tokenID)
	if err != nil {
		return apperrors.NewUnauthorized("authorization unavailable")
	}
	if revoked {
		return apperrors.NewUnauthorized("token revoked")
	}
	return nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}

func mapTokenError(err error) error {
	if errors.Is(err, auth.ErrScopeMismatch) {
		return apperrors.NewScopeMismatch("token not valid for this operation")
	}
	return apperrors.NewUnauthorized("invalid token")
}

func remainingLife(claims *auth.Claims) time.Duration {
	if claims.ExpiresAt == nil {
		return 0
	}
	return time.Until(claims.ExpiresAt.Time)
}
