package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:admin:"

// Session is the server-side record behind an issued token. Login writes
// it, the auth middleware reads it, logout deletes it — so a stolen or
// lingering token dies with the session.
type Session struct {
	AdminID  int64     `json:"admin_id"`
	Email    string    `json:"email"`
	IssuedAt time.Time `json:"issued_at"`
}

// SessionStore keeps admin sessions in Redis, keyed by JWT ID.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a session store.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Put stores a session with the given TTL.
func (s *SessionStore) Put(ctx context.Context, jti string, sess Session, ttl time.Duration) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+jti, raw, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Exists reports whether the session is still live.
func (s *SessionStore) Exists(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}
	return n > 0, nil
}

// Delete revokes a session.
func (s *SessionStore) Delete(ctx context.Context, jti string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+jti).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
