// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"ratehub/config"
	domainerrors "ratehub/internal/domain/errors"
	"ratehub/internal/domain/service"
)

const defaultTokenTTL = 24 * time.Hour

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret   string
	tokenTTL time.Duration
}

// tokenClaims is the wire shape of the claims carried by an access token.
type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	tokenTTL := defaultTokenTTL
	if cfg.Auth != nil && cfg.Auth.TokenTTL > 0 {
		tokenTTL = cfg.Auth.TokenTTL
	}

	return &jwtService{
		secret:   cfg.SecretKey.Access,
		tokenTTL: tokenTTL,
	}, nil
}

// GenerateToken creates a signed HS256 access token carrying the user's identity and role.
func (s *jwtService) GenerateToken(userID uuid.UUID, role string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign access token")
	}

	return signed, nil
}

// ValidateToken checks the validity of a token string and returns its claims.
func (s *jwtService) ValidateToken(tokenString string) (*service.Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(s.secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Wrap(domainerrors.ErrTokenExpired, "token validation failed")
		}

		return nil, errors.Wrap(domainerrors.ErrTokenInvalid, "token validation failed")
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, errors.Wrap(domainerrors.ErrTokenInvalid, "failed to parse token structure")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrTokenInvalid, "token subject is not a valid user id")
	}

	return &service.Claims{
		UserID:           userID,
		Role:             claims.Role,
		RegisteredClaims: claims.RegisteredClaims,
	}, nil
}

// GetTokenDuration returns the configured access token lifetime.
func (s *jwtService) GetTokenDuration() time.Duration {
	return s.tokenTTL
}
