// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"reviewdesk/config"
	"reviewdesk/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// jwtService signs and validates tenant session tokens with HMAC-SHA256.
type jwtService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.Auth == nil || cfg.Auth.JWTSecret == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	return &jwtService{
		secret: []byte(cfg.Auth.JWTSecret),
		issuer: cfg.Auth.Issuer,
		now:    time.Now,
	}, nil
}

// GenerateToken issues a session token for tenantID.
func (s *jwtService) GenerateToken(tenantID uuid.UUID, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &service.Claims{
		TenantID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   tenantID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign tenant token")
	}

	return signed, nil
}

// ValidateToken parses tokenString and checks signature, expiry and issuer.
func (s *jwtService) ValidateToken(tokenString string) (*service.Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &service.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "parse tenant token")
	}
	if !token.Valid {
		return nil, errors.New("tenant token is not valid")
	}

	if claims.TenantID == uuid.Nil {
		tenantID, err := uuid.Parse(claims.Subject)
		if err != nil {
			return nil, errors.Wrap(err, "tenant token subject is not a tenant id")
		}
		claims.TenantID = tenantID
	}

	return claims, nil
}
