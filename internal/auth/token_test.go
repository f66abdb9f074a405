package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/domain"
)

func testFactory(secret string) *TokenFactory {
	return NewTokenFactory(config.AuthConfig{
		JWTSecret:             secret,
		AuthTokenTTLMinutes:   60,
		PassResetTTLMinutes:   60,
		VerifyTokenTTLMinutes: 60,
	})
}

func TestIssueAuthTokenRoundTrip(t *testing.T) {
	factory := testFactory("test-secret")
	user := &domain.User{ID: "u1"}

	token, claims, err := factory.IssueAuthToken(user, []string{"Admin"}, "jti-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.Equal(t, "u1", claims.UserID())
	assert.Equal(t, "jti-1", claims.TokenID())
	assert.Equal(t, []string{"Admin"}, claims.UserRoles)
	assert.Equal(t, []string{"app:use"}, claims.Scopes)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)

	decoded, err := factory.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, claims.UserID(), decoded.UserID())
	assert.Equal(t, claims.TokenID(), decoded.TokenID())
	assert.Equal(t, claims.Scopes, decoded.Scopes)
	assert.Equal(t, claims.UserRoles, decoded.UserRoles)
	assert.Equal(t, TokenTypeAuthorization, decoded.TokenType)
}

func TestDecodeRejectsForeignSecret(t *testing.T) {
	token, _, err := testFactory("secret-a").IssueAuthToken(&domain.User{ID: "u1"}, nil, "jti-1")
	require.NoError(t, err)

	_, err = testFactory("secret-b").Decode(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecodeRejectsForeignAudienceAndIssuer(t *testing.T) {
	factory := testFactory("test-secret")

	sign := func(audience, issuer string) string {
		claims := &Claims{
			TokenType: TokenTypeAuthorization,
			Scopes:    ScopesFor(TokenTypeAuthorization),
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "jti-1",
				Subject:   "u1",
				Audience:  jwt.ClaimStrings{audience},
				Issuer:    issuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		return signed
	}

	_, err := factory.Decode(sign("someone:else", TokenIssuer))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = factory.Decode(sign(TokenAudience, "someone:else"))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = factory.Decode(sign(TokenAudience, TokenIssuer))
	assert.NoError(t, err)
}

func TestDecodeRejectsExpiredToken(t *testing.T) {
	claims := &Claims{
		TokenType: TokenTypeAuthorization,
		Scopes:    ScopesFor(TokenTypeAuthorization),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-1",
			Subject:   "u1",
			Audience:  jwt.ClaimStrings{TokenAudience},
			Issuer:    TokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = testFactory("test-secret").Decode(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecodeRejectsMalformedToken(t *testing.T) {
	_, err := testFactory("test-secret").Decode("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyEnforcesTokenType(t *testing.T) {
	factory := testFactory("test-secret")

	verifyToken, err := factory.IssueVerificationToken("u1", "jti-verify")
	require.NoError(t, err)

	claims, err := factory.Verify(verifyToken, TokenTypeVerifyAccount)
	require.NoError(t, err)
	assert.Equal(t, []string{"user:verify"}, claims.Scopes)

	_, err = factory.Verify(verifyToken, TokenTypePassReset)
	assert.ErrorIs(t, err, ErrScopeMismatch)

	_, err = factory.Verify(verifyToken, TokenTypeAuthorization)
	assert.ErrorIs(t, err, ErrScopeMismatch)
}

func TestVerifyRejectsTamperedScopes(t *testing.T) {
	factory := testFactory("test-secret")

	// Right type claim, wrong scope set: still a mismatch.
	claims := &Claims{
		TokenType: TokenTypePassReset,
		Scopes:    []string{"app:use"},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-1",
			Subject:   "u1",
			Audience:  jwt.ClaimStrings{TokenAudience},
			Issuer:    TokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = factory.Verify(signed, TokenTypePassReset)
	assert.ErrorIs(t, err, ErrScopeMismatch)
}

func TestPerTypeTTL(t *testing.T) {
	factory := NewTokenFactory(config.AuthConfig{
		JWTSecret:             "test-secret",
		AuthTokenTTLMinutes:   30,
		PassResetTTLMinutes:   10,
		VerifyTokenTTLMinutes: 0, // falls back to an hour
	})

	assert.Equal(t, 30*time.Minute, factory.TTL(TokenTypeAuthorization))
	assert.Equal(t, 10*time.Minute, factory.TTL(TokenTypePassReset))
	assert.Equal(t, time.Hour, factory.TTL(TokenTypeVerifyAccount))
}
