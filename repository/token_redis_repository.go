// file: repository/token_redis_repository.go

package repository

import (
	"context"
	"encoding/json"
	"time"

	"secure-auth-api/logger"
	"secure-auth-api/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	refreshKeyPrefix    = "refresh_session:"
	userTokensKeyPrefix = "user_sessions:"
)

// redisSession is the stored value for a refresh-session key.
type redisSession struct {
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// RedisTokenRepository implements ITokenRepository over Redis. Each session
// lives under its own token key with a TTL matching its expiry, and a
// per-user set indexes tokens for DeleteAllByUser. The key TTL is a safety
// net; the engine still checks ExpiresAt itself.
type RedisTokenRepository struct {
	client *redis.Client
}

func NewRedisTokenRepository(client *redis.Client) *RedisTokenRepository {
	return &RedisTokenRepository{client: client}
}

func refreshKey(token string) string {
	return refreshKeyPrefix + token
}

func userTokensKey(userID uuid.UUID) string {
	return userTokensKeyPrefix + userID.String()
}

func (r *RedisTokenRepository) Create(session *model.RefreshSession) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	payload, err := json.Marshal(redisSession{
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
	})
	if err != nil {
		return err
	}

	ctx := context.Background()
	ttl := time.Until(session.ExpiresAt)

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, refreshKey(session.Token), payload, ttl)
	pipe.SAdd(ctx, userTokensKey(session.UserID), session.Token)
	// New sessions always expire later than existing ones, so extending the
	// index set's TTL to the newest expiry keeps it alive exactly as long as
	// its longest-lived member.
	pipe.Expire(ctx, userTokensKey(session.UserID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Log.WithError(err).Error("Failed to store refresh session in redis")
		return err
	}
	return nil
}

func (r *RedisTokenRepository) GetByToken(token string) (*model.RefreshSession, error) {
	ctx := context.Background()

	payload, err := r.client.Get(ctx, refreshKey(token)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		logger.Log.WithError(err).Error("Failed to read refresh session from redis")
		return nil, err
	}

	var stored redisSession
	if err := json.Unmarshal([]byte(payload), &stored); err != nil {
		return nil, err
	}

	return &model.RefreshSession{
		Token:     token,
		UserID:    stored.UserID,
		ExpiresAt: stored.ExpiresAt,
		CreatedAt: stored.CreatedAt,
	}, nil
}

// DeleteByToken removes a session key and reports whether it existed.
// DEL's reply count is the atomic decision point; the index-set cleanup
// afterwards is bookkeeping only.
func (r *RedisTokenRepository) DeleteByToken(token string) (bool, error) {
	ctx := context.Background()

	payload, err := r.client.Get(ctx, refreshKey(token)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	deleted, err := r.client.Del(ctx, refreshKey(token)).Result()
	if err != nil {
		logger.Log.WithError(err).Error("Failed to delete refresh session from redis")
		return false, err
	}
	if deleted == 0 {
		return false, nil
	}

	var stored redisSession
	if err := json.Unmarshal([]byte(payload), &stored); err == nil {
		r.client.SRem(ctx, userTokensKey(stored.UserID), token)
	}
	return true, nil
}

func (r *RedisTokenRepository) DeleteAllByUser(userID uuid.UUID) (int64, error) {
	ctx := context.Background()

	tokens, err := r.client.SMembers(ctx, userTokensKey(userID)).Result()
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list refresh sessions for user in redis")
		return 0, err
	}
	if len(tokens) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(tokens))
	for _, token := range tokens {
		keys = append(keys, refreshKey(token))
	}

	deleted, err := r.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, err
	}
	if err := r.client.Del(ctx, userTokensKey(userID)).Err(); err != nil {
		return deleted, err
	}
	return deleted, nil
}
