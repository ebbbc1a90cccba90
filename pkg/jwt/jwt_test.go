package jwt

import (
	"testing"
	"time"

	"contractor-booking/config"
	"contractor-booking/internal/domain/entity"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(expiry time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: expiry})
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestService(time.Minute)
	actor := entity.Actor{ID: uuid.New(), Role: entity.RoleContractor}

	token, err := svc.GenerateAccessToken(actor)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, actor, claims.Actor())
}

func TestValidateToken_Rejects(t *testing.T) {
	svc := newTestService(time.Minute)
	actor := entity.Actor{ID: uuid.New(), Role: entity.RoleUser}

	t.Run("expired", func(t *testing.T) {
		token, err := newTestService(-time.Minute).GenerateAccessToken(actor)
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "other", AccessExpiry: time.Minute})
		token, err := other.GenerateAccessToken(actor)
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("unknown role", func(t *testing.T) {
		token, err := svc.GenerateAccessToken(entity.Actor{ID: actor.ID, Role: "superuser"})
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := Claims{UserID: actor.ID, Role: actor.Role}
		token, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})
}
