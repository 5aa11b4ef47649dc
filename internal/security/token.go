package security

import (
	"errors"
	"time"

	"fieldops-backend/internal/clock"
	"fieldops-backend/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

const (
	tokenIssuer   = "fieldops-auth"
	tokenAudience = "fieldops-api"
)

// SessionClaims is everything a request is authorized on: the user's id and
// role at login time. Mutable fields such as status are not carried.
type SessionClaims struct {
	UserID string      `json:"id"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type TokenManager interface {
	GenerateSessionToken(userID string, role domain.Role) (string, error)
	ValidateToken(tokenString string) (*SessionClaims, error)
}

type tokenManager struct {
	secret []byte
	expiry time.Duration
	clock  clock.Clock
}

func NewTokenManager(secret string, expiry time.Duration, c clock.Clock) TokenManager {
	return &tokenManager{
		secret: []byte(secret),
		expiry: expiry,
		clock:  c,
	}
}

func (m *tokenManager) GenerateSessionToken(userID string, role domain.Role) (string, error) {
	now := m.clock.Now()
	claims := SessionClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	},
		jwt.WithTimeFunc(m.clock.Now),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	// The role is re-validated rather than trusted as an arbitrary string.
	role, err := domain.ParseRole(string(claims.Role))
	if err != nil || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	claims.Role = role
	return claims, nil
}
