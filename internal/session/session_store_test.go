package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/mdvohra/LMS-app/internal/session"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRedisStore_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("existing session is hydrated from the hash", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		store := session.NewRedisStore(rdb)
		sid := uuid.New().String()

		mock.ExpectHGetAll("session:" + sid).SetVal(map[string]string{
			"user_id":    "u-1",
			"username":   "jdoe",
			"role":       "employee",
			"views":      "7",
			"created_at": "2026-03-01T10:00:00Z",
		})

		sess, err := store.Get(ctx, sid)

		assert.NoError(t, err)
		assert.Equal(t, sid, sess.ID)
		assert.Equal(t, "u-1", sess.UserID)
		assert.Equal(t, "jdoe", sess.Username)
		assert.Equal(t, "employee", sess.Role)
		assert.Equal(t, int64(7), sess.Views)
		assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), sess.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing hash maps to session not found", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		store := session.NewRedisStore(rdb)
		sid := uuid.New().String()

		mock.ExpectHGetAll("session:" + sid).SetVal(map[string]string{})

		_, err := store.Get(ctx, sid)

		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})
}

func TestRedisStore_Touch(t *testing.T) {
	ctx := context.Background()

	t.Run("increments the view counter and refreshes the TTL", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		store := session.NewRedisStore(rdb)
		sid := uuid.New().String()
		key := "session:" + sid

		mock.ExpectHIncrBy(key, "views", 1).SetVal(8)
		mock.ExpectExpire(key, 24*time.Hour).SetVal(true)

		views, err := store.Touch(ctx, sid)

		assert.NoError(t, err)
		assert.Equal(t, int64(8), views)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		store := session.NewRedisStore(rdb)
		sid := uuid.New().String()

		mock.ExpectHIncrBy("session:"+sid, "views", 1).SetErr(assert.AnError)

		_, err := store.Touch(ctx, sid)

		assert.Error(t, err)
	})
}

func TestRedisStore_Destroy(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := session.NewRedisStore(rdb)
	sid := uuid.New().String()

	mock.ExpectDel("session:" + sid).SetVal(1)

	assert.NoError(t, store.Destroy(context.Background(), sid))
	assert.NoError(t, mock.ExpectationsWereMet())
}
