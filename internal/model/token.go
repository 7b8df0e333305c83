package model

import (
	"time"
)

const (
	TokenTypePasswordReset = "password_reset"
)

type Token struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Type      string    `db:"type"`
	Token     string    `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

func (t *Token) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
