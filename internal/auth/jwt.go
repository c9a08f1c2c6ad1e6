package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/truthprism/prism/internal/domain"
)

// ErrInvalidToken is returned for malformed, expired, or mis-signed tokens.
var ErrInvalidToken = errors.New("auth: invalid token")

type claims struct {
	jwt.RegisteredClaims
	Identity string `json:"idt"`
}

// IssueToken signs an HS256 access token bound to a caller identity.
func IssueToken(secret string, identity domain.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Identity: identity.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("auth.IssueToken: %w", err)
	}

	return signed, nil
}

// ValidateToken parses a token and returns the identity it is bound to.
func ValidateToken(secret, tokenStr string) (domain.Identity, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenStr, c, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return domain.Identity{}, fmt.Errorf("auth.ValidateToken: %w", ErrInvalidToken)
	}

	identity, err := domain.ParseIdentity(c.Identity)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("auth.ValidateToken: %w", ErrInvalidToken)
	}

	return identity, nil
}
