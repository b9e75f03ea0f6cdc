package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the custom claims of a tenant session token.
type Claims struct {
	TenantID uuid.UUID `json:"tid"`
	jwt.RegisteredClaims
}

// TokenService issues and validates tenant session tokens.
type TokenService interface {
	GenerateToken(tenantID uuid.UUID, ttl time.Duration) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}
