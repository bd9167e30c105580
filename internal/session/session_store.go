package session

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/mdvohra/LMS-app/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "session:"
	defaultTTL = 24 * time.Hour
)

var ErrSessionNotFound = apperror.New(
	apperror.CodeUnauthorized,
	"You are not authenticated",
	http.StatusUnauthorized,
)

// Session is the server-side state referenced by the signed cookie. Views is a
// diagnostic access counter, incremented atomically on every authenticated
// request.
type Session struct {
	ID        string
	UserID    string
	Username  string
	Role      string
	Views     int64
	CreatedAt time.Time
}

//go:generate mockgen -source=session_store.go -destination=mock/session_store_mock.go -package=mock
type Store interface {
	Create(ctx context.Context, userID, username, role string) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	Touch(ctx context.Context, id string) (int64, error)
	Destroy(ctx context.Context, id string) error
}

type redisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client) Store {
	return &redisStore{rdb: rdb, ttl: defaultTTL}
}

func (s *redisStore) Create(ctx context.Context, userID, username, role string) (Session, error) {
	sess := Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Username:  username,
		Role:      role,
		Views:     1,
		CreatedAt: time.Now().UTC(),
	}

	key := keyPrefix + sess.ID
	if err := s.rdb.HSet(ctx, key,
		"user_id", sess.UserID,
		"username", sess.Username,
		"role", sess.Role,
		"views", sess.Views,
		"created_at", sess.CreatedAt.Format(time.RFC3339),
	).Err(); err != nil {
		return Session{}, err
	}
	if err := s.rdb.Expire(ctx, key, s.ttl).Err(); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *redisStore) Get(ctx context.Context, id string) (Session, error) {
	fields, err := s.rdb.HGetAll(ctx, keyPrefix+id).Result()
	if err != nil {
		return Session{}, err
	}
	if len(fields) == 0 {
		return Session{}, ErrSessionNotFound
	}

	views, _ := strconv.ParseInt(fields["views"], 10, 64)
	createdAt, _ := time.Parse(time.RFC3339, fields["created_at"])
	return Session{
		ID:        id,
		UserID:    fields["user_id"],
		Username:  fields["username"],
		Role:      fields["role"],
		Views:     views,
		CreatedAt: createdAt,
	}, nil
}

// Touch bumps the view counter with a single HINCRBY so concurrent requests on
// the same session never lose an update, and refreshes the TTL.
func (s *redisStore) Touch(ctx context.Context, id string) (int64, error) {
	key := keyPrefix + id
	views, err := s.rdb.HIncrBy(ctx, key, "views", 1).Result()
	if err != nil {
		return 0, err
	}
	if err := s.rdb.Expire(ctx, key, s.ttl).Err(); err != nil {
		return views, err
	}
	return views, nil
}

func (s *redisStore) Destroy(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, keyPrefix+id).Err()
}
