package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	var result []domain.User
	for _, user := range f.users {
		result = append(result, *user)
	}
	return result, nil
}

type fakeRoleRepo struct {
	roles map[string][]domain.Role
	err   error
}

func (f *fakeRoleRepo) GetRolesForUser(_ context.Context, userID string) ([]domain.Role, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.roles[userID], nil
}

func (f *fakeRoleRepo) Assign(_ context.Context, userID string, role domain.Role) error {
	f.roles[userID] = append(f.roles[userID], role)
	return nil
}

func (f *fakeRoleRepo) Revoke(_ context.Context, userID string, role domain.Role) error {
	kept := f.roles[userID][:0]
	for _, r := range f.roles[userID] {
		if r != role {
			kept = append(kept, r)
		}
	}
	f.roles[userID] = kept
	return nil
}

// failingBlacklist simulates an unreachable store.
type failingBlacklist struct{}

func (failingBlacklist) RegisterIssued(context.Context, string, string, time.Duration) error {
	return errors.New("store down")
}
func (failingBlacklist) Blacklist(context.Context, string, time.Duration) error {
	return errors.New("store down")
}
func (failingBlacklist) BlacklistAllForUser(context.Context, string) error {
	return errors.New("store down")
}
func (failingBlacklist) IsBlacklisted(context.Context, string) (bool, error) {
	return false, errors.New("store down")
}

type middlewareFixture struct {
	app       *fiber.App
	factory   *TokenFactory
	users     *fakeUserRepo
	roles     *fakeRoleRepo
	blacklist repository.TokenBlacklistRepository
}

func newMiddlewareFixture(t *testing.T, blacklist repository.TokenBlacklistRepository) *middlewareFixture {
	t.Helper()

	factory := testFactory("test-secret")
	users := &fakeUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Name: "alice", Email: "alice@example.com", IsActive: true},
		"u2": {ID: "u2", Name: "bob", Email: "bob@example.com", IsActive: true},
	}}
	roles := &fakeRoleRepo{roles: map[string][]domain.Role{
		"u1": {domain.RoleAdmin, domain.RoleUser},
		"u2": {domain.RoleUser},
	}}

	middleware := NewAuthMiddleware(factory, blacklist, users, roles)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"message": domainErr.Message})
		},
	})
	app.Get("/any", middleware.Authorize(), func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		require.True(t, ok)
		return c.JSON(fiber.Map{"id": principal.User.ID})
	})
	app.Get("/admin", middleware.Authorize(domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	return &middlewareFixture{app: app, factory: factory, users: users, roles: roles, blacklist: blacklist}
}

func (f *middlewareFixture) request(t *testing.T, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	return resp
}

func (f *middlewareFixture) mintAuthToken(t *testing.T, userID, tokenID string) string {
	t.Helper()
	user, err := f.users.GetByID(context.Background(), userID)
	require.NoError(t, err)
	token, _, err := f.factory.IssueAuthToken(user, nil, tokenID)
	require.NoError(t, err)
	require.NoError(t, f.blacklist.RegisterIssued(context.Background(), userID, tokenID, time.Hour))
	return token
}

func TestAuthorizeRejectsMissingAndMalformedHeader(t *testing.T) {
	f := newMiddlewareFixture(t, repository.NewMemoryTokenBlacklist(time.Hour))

	resp := f.request(t, "/any", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/any", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthorizeRejectsInvalidToken(t *testing.T) {
	f := newMiddlewareFixture(t, repository.NewMemoryTokenBlacklist(time.Hour))

	resp := f.request(t, "/any", "garbage")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	foreign, _, err := testFactory("other-secret").IssueAuthToken(&domain.User{ID: "u1"}, nil, "jti-x")
	require.NoError(t, err)
	resp = f.request(t, "/any", foreign)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthorizeRejectsNonAuthorizationToken(t *testing.T) {
	f := newMiddlewareFixture(t, repository.NewMemoryTokenBlacklist(time.Hour))

	verifyToken, err := f.factory.IssueVerificationToken("u1", "jti-verify")
	require.NoError(t, err)

	resp := f.request(t, "/any", verifyToken)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthorizeAdmitsValidToken(t *testing.T) {
	f := newMiddlewareFixture(t, repository.NewMemoryTokenBlacklist(time.Hour))
	token := f.mintAuthToken(t, "u1", "jti-1")

	resp := f.request(t, "/any", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthorizeRejectsBlacklistedToken(t *testing.T) {
	f := newMiddlewareFixture(t, repository.NewMemoryTokenBlacklist(time.Hour))
	token := f.mintAuthToken(t, "u1", "jti-1")

	require.NoError(t, f.blacklist.Blacklist(context.Background(), "jti-1", time.Hour))

	// Cryptographically valid and unexpired, revoked anyway.
	resp := f.request(t, "/any", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthorizeBlacklistAllForUser(t *testing.T) {
	f := newMiddlewareFixture(t, repository.NewMemoryTokenBlacklist(time.Hour))
	first := f.mintAuthToken(t, "u1", "jti-1")
	second := f.mintAuthToken(t, "u1", "jti-2")
	other := f.mintAuthToken(t, "u2", "jti-3")

	require.NoError(t, f.blacklist.BlacklistAllForUser(context.Background(), "u1"))

	assert.Equal(t, http.StatusUnauthorized, f.request(t, "/any", first).StatusCode)
	assert.Equal(t, http.StatusUnauthorized, f.request(t, "/any", second).StatusCode)
	assert.Equal(t, http.StatusOK, f.request(t, "/any", other).StatusCode)
}

func TestAuthorizeFailsClosedOnStoreError(t *testing.T) {
	f := newMiddlewareFixture(t, failingBlacklist{})
	user := &domain.User{ID: "u1"}
	token, _, err := f.factory.IssueAuthToken(user, nil, "jti-1")
	require.NoError(t, err)

	resp := f.request(t, "/any", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthorizeRoleGate(t *testing.T) {
	f := newMiddlewareFixture(t, repository.NewMemoryTokenBlacklist(time.Hour))
	adminToken := f.mintAuthToken(t, "u1", "jti-1")
	userToken := f.mintAuthToken(t, "u2", "jti-2")

	assert.Equal(t, http.StatusOK, f.request(t, "/admin", adminToken).StatusCode)
	assert.Equal(t, http.StatusForbidden, f.request(t, "/admin", userToken).StatusCode)
}

func TestAuthorizeUsesLiveRolesNotSnapshot(t *testing.T) {
	f := newMiddlewareFixture(t, repository.NewMemoryTokenBlacklist(time.Hour))

	// Token minted while u2 claims an Admin snapshot; live assignment says User.
	user, err := f.users.GetByID(context.Background(), "u2")
	require.NoError(t, err)
	token, _, err := f.factory.IssueAuthToken(user, []string{"Admin"}, "jti-stale")
	require.NoError(t, err)
	require.NoError(t, f.blacklist.RegisterIssued(context.Background(), "u2", "jti-stale", time.Hour))

	resp := f.request(t, "/admin", token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAuthorizeRejectsRemovedUser(t *testing.T) {
	f := newMiddlewareFixture(t, repository.NewMemoryTokenBlacklist(time.Hour))
	token := f.mintAuthToken(t, "u1", "jti-1")

	require.NoError(t, f.users.Delete(context.Background(), "u1"))

	resp := f.request(t, "/any", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
