package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionStore keeps one login session per user in a Redis hash (user:session:<uid>).
// The session id is embedded in both tokens; rotating or ending it revokes older tokens.
type SessionStore struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{Redis: rdb, TTL: ttl}
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Start records a fresh session and returns its id.
func (s *SessionStore) Start(ctx context.Context, userID, role string) (string, error) {
	sid := uuid.NewString()
	key := sessionKey(userID)
	pipe := s.Redis.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    userID,
		"role":       role,
		"sid":        sid,
		"created_at": nowRFC3339(),
	})
	pipe.Expire(ctx, key, s.TTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return sid, nil
}

// Valid reports whether sid is the user's current session.
func (s *SessionStore) Valid(ctx context.Context, userID, sid string) (bool, error) {
	cur, err := s.Redis.HGet(ctx, sessionKey(userID), "sid").Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return sid != "" && cur == sid, nil
}

// Rotate replaces the session id, keeping the hash alive for another TTL.
func (s *SessionStore) Rotate(ctx context.Context, userID string) (string, error) {
	sid := uuid.NewString()
	key := sessionKey(userID)
	pipe := s.Redis.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{"sid": sid, "updated_at": nowRFC3339()})
	pipe.Expire(ctx, key, s.TTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return sid, nil
}

func (s *SessionStore) End(ctx context.Context, userID string) error {
	return s.Redis.Del(ctx, sessionKey(userID)).Err()
}
