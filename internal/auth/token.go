package auth

import (
	"errors"
	"fmt"
	"slices"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/domain"
)

// TokenType selects the purpose a token is minted for. The type is carried
// as an explicit claim and validated together with the scope set.
type TokenType string

const (
	TokenTypeAuthorization TokenType = "AuthToken"
	TokenTypePassReset     TokenType = "PassResetToken"
	TokenTypeVerifyAccount TokenType = "VerifyAccountToken"
)

// Audience and issuer constants embedded in every token; decoding rejects
// tokens minted for anyone else.
const (
	TokenAudience = "webdevag:client"
	TokenIssuer   = "webdevag:issuer"
)

var tokenScopes = map[TokenType][]string{
	TokenTypeAuthorization: {"app:use"},
	TokenTypePassReset:     {"user:password-reset"},
	TokenTypeVerifyAccount: {"user:verify"},
}

// ScopesFor returns the fixed, ordered permission set for a token type.
func ScopesFor(tokenType TokenType) []string {
	return slices.Clone(tokenScopes[tokenType])
}

var (
	// ErrInvalidToken covers forged, malformed, expired and foreign
	// (wrong audience/issuer) tokens alike.
	ErrInvalidToken = errors.New("invalid token")
	// ErrScopeMismatch reports a structurally valid token presented for
	// the wrong operation.
	ErrScopeMismatch = errors.New("token scopes do not match expected type")
)

// Claims describes the JWT payload. UserRoles is a snapshot taken at issue
// time for auditing; authorization decisions always re-fetch live roles.
type Claims struct {
	TokenType TokenType `json:"token_type"`
	Scopes    []string  `json:"scopes"`
	UserRoles []string  `json:"userRoles,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the subject user identifier.
func (c *Claims) UserID() string {
	return c.Subject
}

// TokenID returns the unique id of this issuance, used for revocation.
func (c *Claims) TokenID() string {
	return c.ID
}

// TokenFactory mints and validates signed tokens. Each token type has an
// independent lifetime.
type TokenFactory struct {
	secret []byte
	ttls   map[TokenType]time.Duration
}

// NewTokenFactory builds a factory from auth configuration.
func NewTokenFactory(cfg config.AuthConfig) *TokenFactory {
	return &TokenFactory{
		secret: []byte(cfg.JWTSecret),
		ttls: map[TokenType]time.Duration{
			TokenTypeAuthorization: minutesOrHour(cfg.AuthTokenTTLMinutes),
			TokenTypePassReset:     minutesOrHour(cfg.PassResetTTLMinutes),
			TokenTypeVerifyAccount: minutesOrHour(cfg.VerifyTokenTTLMinutes),
		},
	}
}

func minutesOrHour(minutes int) time.Duration {
	if minutes <= 0 {
		minutes = 60
	}
	return time.Duration(minutes) * time.Minute
}

// TTL returns the configured lifetime for a token type.
func (f *TokenFactory) TTL(tokenType TokenType) time.Duration {
	return f.ttls[tokenType]
}

// IssueAuthToken signs an authorization token for the user. The structured
// claims are returned alongside the token string so callers can record the
// token id without a round-trip decode.
func (f *TokenFactory) IssueAuthToken(user *domain.User, roles []string, tokenID string) (string, *Claims, error) {
	claims := f.newClaims(TokenTypeAuthorization, user.ID, tokenID)
	claims.UserRoles = roles

	token, err := f.sign(claims)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// IssueVerificationToken signs an account verification token.
func (f *TokenFactory) IssueVerificationToken(userID, tokenID string) (string, error) {
	return f.sign(f.newClaims(TokenTypeVerifyAccount, userID, tokenID))
}

// IssuePasswordResetToken signs a password reset token.
func (f *TokenFactory) IssuePasswordResetToken(userID, tokenID string) (string, error) {
	return f.sign(f.newClaims(TokenTypePassReset, userID, tokenID))
}

func (f *TokenFactory) newClaims(tokenType TokenType, userID, tokenID string) *Claims {
	now := time.Now()
	return &Claims{
		TokenType: tokenType,
		Scopes:    ScopesFor(tokenType),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   userID,
			Audience:  jwt.ClaimStrings{TokenAudience},
			Issuer:    TokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(f.ttls[tokenType])),
		},
	}
}

func (f *TokenFactory) sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(f.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Decode verifies signature, audience, issuer and expiry, returning the
// claims. Scope and type checks are the caller's concern, see Verify.
func (f *TokenFactory) Decode(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return f.secret, nil
	}, jwt.WithAudience(TokenAudience), jwt.WithIssuer(TokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Verify decodes the token and checks it was minted for expectedType: the
// explicit type claim must match and the scopes must equal the fixed set
// for that type, in order. A token carrying foreign or reordered scopes is
// rejected even when its signature is good.
func (f *TokenFactory) Verify(tokenStr string, expectedType TokenType) (*Claims, error) {
	claims, err := f.Decode(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != expectedType {
		return nil, ErrScopeMismatch
	}
	if !slices.Equal(claims.Scopes, tokenScopes[expectedType]) {
		return nil, ErrScopeMismatch
	}
	return claims, nil
}
