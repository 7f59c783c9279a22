package auth

import (
	"testing"
	"time"

	"ratehub/config"
	domainerrors "ratehub/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func newTestTokenConfig(ttl time.Duration) *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{TokenTTL: ttl},
	}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"

	return cfg
}

func TestJWTService_GenerateAndValidateToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestTokenConfig(time.Hour))
	assert.NoError(t, err)
	assert.NotNil(t, jwtService)

	userID := uuid.New()

	token, err := jwtService.GenerateToken(userID, "owner")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "owner", claims.Role)
}

func TestJWTService_InvalidToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestTokenConfig(time.Hour))
	assert.NoError(t, err)

	// Clearly non-JWT format
	claims, err := jwtService.ValidateToken("clearly-not-a-jwt-token-format")
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid))
}

func TestJWTService_WrongSecret(t *testing.T) {
	jwtService, err := NewJWTService(newTestTokenConfig(time.Hour))
	assert.NoError(t, err)

	otherCfg := newTestTokenConfig(time.Hour)
	otherCfg.SecretKey.Access = "another_secret_entirely_for_testing_purposes"
	otherService, err := NewJWTService(otherCfg)
	assert.NoError(t, err)

	token, err := jwtService.GenerateToken(uuid.New(), "user")
	assert.NoError(t, err)

	claims, err := otherService.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid))
}

func TestJWTService_ExpiredToken(t *testing.T) {
	// Negative lifetime so the token is born expired.
	jwtService := &jwtService{
		secret:   "test_access_secret_key_very_long_for_testing",
		tokenTTL: -time.Minute,
	}

	token, err := jwtService.GenerateToken(uuid.New(), "user")
	assert.NoError(t, err)

	claims, err := jwtService.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenExpired))
}

func TestJWTService_EmptySecret(t *testing.T) {
	cfg := &config.Config{}

	jwtService, err := NewJWTService(cfg)
	assert.Error(t, err)
	assert.Nil(t, jwtService)
	assert.Contains(t, err.Error(), "jwt secret must be provided")
}

func TestJWTService_TokenDuration(t *testing.T) {
	jwtService, err := NewJWTService(newTestTokenConfig(2 * time.Hour))
	assert.NoError(t, err)
	assert.Equal(t, 2*time.Hour, jwtService.GetTokenDuration())

	// Defaults to a day when the config leaves it unset.
	jwtService, err = NewJWTService(newTestTokenConfig(0))
	assert.NoError(t, err)
	assert.Equal(t, 24*time.Hour, jwtService.GetTokenDuration())
}
