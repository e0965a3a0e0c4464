package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultTokenTTL = 24 * time.Hour

var errEmptySecret = errors.New("jwt secret is empty")

// Claims identify the caller of the analysis API.
type Claims struct {
	jwt.RegisteredClaims
}

// SignToken mints an HS256 bearer token for subject.
func SignToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
