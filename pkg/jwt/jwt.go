package jwt

import (
	"errors"
	"time"

	"contractor-booking/config"
	"contractor-booking/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	UserID uuid.UUID   `json:"user_id"`
	Role   entity.Role `json:"role"`
	jwt.RegisteredClaims
}

// Actor returns the identity carried by the token.
func (c *Claims) Actor() entity.Actor {
	return entity.Actor{ID: c.UserID, Role: c.Role}
}

type JWTService struct {
	config config.JWTConfig
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{config: cfg}
}

// GenerateAccessToken signs a token for actor. Login lives outside this
// service; the signer is used by tooling and tests.
func (s *JWTService) GenerateAccessToken(actor entity.Actor) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: actor.ID,
		Role:   actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.AccessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.config.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == uuid.Nil || !claims.Role.IsValid() {
		return nil, errors.New("token does not carry a valid identity")
	}

	return claims, nil
}

func (s *JWTService) GetAccessExpiry() time.Duration {
	return s.config.AccessExpiry
}
