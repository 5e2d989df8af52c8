// file: repository/token_redis_repository_test.go

package repository

import (
	"testing"
	"time"

	"secure-auth-api/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newRedisRepoForTest(t *testing.T) (*RedisTokenRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisTokenRepository(client), mr
}

func TestRedisTokenRepository_CreateAndGet(t *testing.T) {
	repo, _ := newRedisRepoForTest(t)
	userID := uuid.New()
	expiresAt := time.Now().Add(time.Hour).Truncate(time.Millisecond)

	session := &model.RefreshSession{
		Token:     "signed-token",
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	assert.NoError(t, repo.Create(session))
	assert.False(t, session.CreatedAt.IsZero())

	found, err := repo.GetByToken("signed-token")
	assert.NoError(t, err)
	assert.NotNil(t, found)
	assert.Equal(t, userID, found.UserID)
	assert.True(t, expiresAt.Equal(found.ExpiresAt))

	missing, err := repo.GetByToken("missing-token")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRedisTokenRepository_KeyExpiry(t *testing.T) {
	repo, mr := newRedisRepoForTest(t)

	assert.NoError(t, repo.Create(&model.RefreshSession{
		Token:     "short-lived",
		UserID:    uuid.New(),
		ExpiresAt: time.Now().Add(time.Minute),
	}))

	mr.FastForward(2 * time.Minute)

	found, err := repo.GetByToken("short-lived")
	assert.NoError(t, err)
	assert.Nil(t, found, "key should have expired with its session")
}

func TestRedisTokenRepository_DeleteByToken(t *testing.T) {
	repo, _ := newRedisRepoForTest(t)
	userID := uuid.New()

	assert.NoError(t, repo.Create(&model.RefreshSession{
		Token:     "signed-token",
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	deleted, err := repo.DeleteByToken("signed-token")
	assert.NoError(t, err)
	assert.True(t, deleted)

	// Second delete must report that nothing was there.
	deleted, err = repo.DeleteByToken("signed-token")
	assert.NoError(t, err)
	assert.False(t, deleted)

	found, err := repo.GetByToken("signed-token")
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestRedisTokenRepository_DeleteAllByUser(t *testing.T) {
	repo, _ := newRedisRepoForTest(t)
	userID := uuid.New()
	otherID := uuid.New()

	for _, token := range []string{"token-a", "token-b", "token-c"} {
		assert.NoError(t, repo.Create(&model.RefreshSession{
			Token:     token,
			UserID:    userID,
			ExpiresAt: time.Now().Add(time.Hour),
		}))
	}
	assert.NoError(t, repo.Create(&model.RefreshSession{
		Token:     "other-token",
		UserID:    otherID,
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	count, err := repo.DeleteAllByUser(userID)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)

	for _, token := range []string{"token-a", "token-b", "token-c"} {
		found, err := repo.GetByToken(token)
		assert.NoError(t, err)
		assert.Nil(t, found)
	}

	// Unrelated users keep their sessions.
	found, err := repo.GetByToken("other-token")
	assert.NoError(t, err)
	assert.NotNil(t, found)

	// Deleting again is a no-op.
	count, err = repo.DeleteAllByUser(userID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
