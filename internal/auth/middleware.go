package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User   *domain.User
	Roles  []domain.Role
	Claims *Claims
}

// HasRole reports whether the principal holds the given role.
func (p *Principal) HasRole(role domain.Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens    *TokenFactory
	blacklist repository.TokenBlacklistRepository
	users     repository.UserRepository
	roles     repository.RoleRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenFactory, blacklist repository.TokenBlacklistRepository, users repository.UserRepository, roles repository.RoleRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, blacklist: blacklist, users: users, roles: roles}
}

// Authorize gates a route. Pipeline per request: extract bearer token,
// verify it is an authorization token, check the blacklist, then compare
// the user's current roles (not the token snapshot) against requiredRoles.
// An empty requiredRoles admits any authenticated user.
func (m *AuthMiddleware) Authorize(requiredRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr, err := bearerToken(c)
		if err != nil {
			return err
		}

		claims, err := m.tokens.Verify(tokenStr, TokenTypeAuthorization)
		if err != nil {
			if errors.Is(err, ErrScopeMismatch) {
				return apperrors.NewScopeMismatch("token not valid for this operation")
			}
			return apperrors.NewUnauthorized("invalid token")
		}

		// Fail closed: a blacklist that cannot answer denies the request.
		revoked, err := m.blacklist.IsBlacklisted(c.UserContext(), claims.TokenID())
		if err != nil {
			return apperrors.NewUnauthorized("authorization unavailable")
		}
		if revoked {
			return apperrors.NewUnauthorized("token revoked")
		}

		user, err := m.users.GetByID(c.UserContext(), claims.UserID())
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewUnauthorized("user not found")
			}
			return apperrors.MapError(err)
		}

		roles, err := m.roles.GetRolesForUser(c.UserContext(), user.ID)
		if err != nil {
			return apperrors.MapError(err)
		}

		if len(requiredRoles) > 0 && !intersects(roles, requiredRoles) {
			return apperrors.NewForbidden("insufficient role")
		}

		c.Locals(principalKey, &Principal{User: user, Roles: roles, Claims: claims})
		return c.Next()
	}
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", apperrors.NewUnauthorized("invalid authorization header")
	}
	return parts[1], nil
}

func intersects(have, want []domain.Role) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
