package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis so several replicas can share them.
type RedisStore struct {
	redis   *redis.Client
	idleTTL time.Duration
}

// NewRedisStore creates a Redis-backed session store. A zero idleTTL
// stores sessions without expiry.
func NewRedisStore(client *redis.Client, idleTTL time.Duration) *RedisStore {
	if client == nil {
		panic("conversation: redis client cannot be nil")
	}
	if idleTTL < 0 {
		idleTTL = 0
	}
	return &RedisStore{redis: client, idleTTL: idleTTL}
}

func (s *RedisStore) Get(ctx context.Context, userID string) (*Session, error) {
	data, err := s.redis.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		session := NewSession(userID)
		if err := s.Set(ctx, userID, session); err != nil {
			return nil, err
		}
		return session, nil
	}
	if err != nil {
		return nil, fmt.Errorf("conversation: load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("conversation: decode session: %w", err)
	}
	return &session, nil
}

func (s *RedisStore) Set(ctx context.Context, userID string, session *Session) error {
	if session == nil {
		return nil
	}
	stored := *session
	stored.UserID = userID
	stored.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("conversation: encode session: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(userID), data, s.idleTTL).Err(); err != nil {
		return fmt.Errorf("conversation: persist session: %w", err)
	}
	return nil
}

func sessionKey(userID string) string {
	return fmt.Sprintf("session:%s", userID)
}
