package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the validated contents of an access token.
type Claims struct {
	UserID string
	Email  string
	Roles  []string
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating JWTs.
type TokenService interface {
	GenerateAccessToken(userID, email string, roles []string) (string, error)

	ValidateToken(tokenString string) (*Claims, error)

	AccessTokenDuration() time.Duration
}
