// Package auth issues and verifies the bearer tokens used by the API and
// hashes user passwords.
package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pkordes/vacation-booking/backend/internal/domain"
)

// Claims is the payload carried by an access token.
type Claims struct {
	UserID int64       `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token holder may manage vacations and images.
func (c *Claims) IsAdmin() bool {
	return c.Role == domain.RoleAdmin
}

// TokenMaker signs and parses HS256 tokens with a shared secret.
type TokenMaker struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenMaker returns a TokenMaker whose tokens expire after ttl.
func NewTokenMaker(secret string, ttl time.Duration) *TokenMaker {
	return &TokenMaker{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for the given user.
func (m *TokenMaker) Issue(userID int64, role domain.Role) (string, error) {
	now := m.now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("auth.TokenMaker.Issue: %w", err)
	}
	return token, nil
}

// Parse verifies the signature and expiry of tokenStr and returns its claims.
// Every failure wraps domain.ErrUnauthorized.
func (m *TokenMaker) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(_ *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("auth.TokenMaker.Parse: %w: %w", domain.ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("auth.TokenMaker.Parse: %w: invalid token", domain.ErrUnauthorized)
	}
	return claims, nil
}

type claimsKey struct{}

// WithClaims returns a copy of ctx carrying c.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFromContext returns the claims stored by WithClaims.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}
