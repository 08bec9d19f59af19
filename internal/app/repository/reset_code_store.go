package repository

import (
	"context"
	"time"

	"github.com/ikkim/gamecatalog-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// ResetCodeStore remembers which reset codes were already exchanged.
type ResetCodeStore interface {
	// Consume marks the code id as used for ttl. It reports false when the
	// id had already been consumed.
	Consume(ctx context.Context, codeID string, ttl time.Duration) (bool, error)
}

type redisResetCodeStore struct {
	client *redis.Client
}

func NewResetCodeStore(client *redis.Client) ResetCodeStore {
	return &redisResetCodeStore{client: client}
}

func resetCodeKey(codeID string) string {
	return "reset_code:used:" + codeID
}

func (s *redisResetCodeStore) Consume(ctx context.Context, codeID string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		// already expired, verification will refuse it anyway
		ttl = time.Second
	}

	ok, err := s.client.SetNX(ctx, resetCodeKey(codeID), "used", ttl).Result()
	if err != nil {
		logger.Error("Failed to mark reset code as used", err, map[string]interface{}{
			"code_id": codeID,
		})
		return false, err
	}
	if !ok {
		logger.Warn("Reset code replayed", map[string]interface{}{
			"code_id": codeID,
		})
	}
	return ok, nil
}
