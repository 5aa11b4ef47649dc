package domain

import "time"

type AuthTokenType string

const (
	AuthTokenPasswordReset     AuthTokenType = "password_reset"
	AuthTokenEmailVerification AuthTokenType = "email_verification"
)

type AuthToken struct {
	ID        string        `json:"id"`
	Email     string        `json:"email"`
	Token     string        `json:"-"`
	Type      AuthTokenType `json:"type"`
	ExpiresAt time.Time     `json:"expires_at"`
	CreatedAt time.Time     `json:"created_at"`
}

func (t *AuthToken) ExpiredAt(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
