// Package sessions stores server-side login sessions of the self-hosted
// backend. A session row backs the jti claim of every issued token so
// tokens can be revoked on sign-out.
package sessions

import (
	"context"
	"time"
)

type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
}

type Repository interface {
	Create(ctx context.Context, s *Session) error
	Find(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
