package token

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "auth:token:"

// RedisStore 基于Redis的令牌存储，多实例部署或重启后会话仍然有效。
// 过期交由Redis的TTL处理，无需清理协程。
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
	ctx context.Context
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{
		rdb: rdb,
		ttl: ttl,
		ctx: context.Background(),
	}
}

func (s *RedisStore) Issue(userID string) (string, error) {
	tok, err := newToken()
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(s.ctx, redisKeyPrefix+tok, userID, s.ttl).Err(); err != nil {
		return "", err
	}
	return tok, nil
}

func (s *RedisStore) Validate(tok string) (string, bool) {
	userID, err := s.rdb.Get(s.ctx, redisKeyPrefix+tok).Result()
	if err != nil {
		return "", false
	}
	return userID, true
}

func (s *RedisStore) Revoke(tok string) error {
	return s.rdb.Del(s.ctx, redisKeyPrefix+tok).Err()
}
