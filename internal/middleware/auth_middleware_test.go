package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mdvohra/LMS-app/internal/middleware"
	"github.com/mdvohra/LMS-app/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeSessionStore struct {
	getFn   func(ctx context.Context, id string) (session.Session, error)
	touchFn func(ctx context.Context, id string) (int64, error)

	touchCalls int
}

func (f *fakeSessionStore) Create(ctx context.Context, userID, username, role string) (session.Session, error) {
	return session.Session{}, nil
}

func (f *fakeSessionStore) Get(ctx context.Context, id string) (session.Session, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return session.Session{}, session.ErrSessionNotFound
}

func (f *fakeSessionStore) Touch(ctx context.Context, id string) (int64, error) {
	f.touchCalls++
	if f.touchFn != nil {
		return f.touchFn(ctx, id)
	}
	return 1, nil
}

func (f *fakeSessionStore) Destroy(ctx context.Context, id string) error { return nil }

type seenIdentity struct {
	called   bool
	userID   string
	username string
	role     string
}

func setupAuthRouter(store session.Store, manager bool) (*gin.Engine, *seenIdentity) {
	gin.SetMode(gin.TestMode)
	seen := &seenIdentity{}

	router := gin.New()
	handlers := []gin.HandlerFunc{middleware.RequireAuth(store)}
	if manager {
		handlers = append(handlers, middleware.RequireManager())
	}
	handlers = append(handlers, func(c *gin.Context) {
		seen.called = true
		seen.userID = c.GetString("user_id")
		seen.username = c.GetString("username")
		seen.role = c.GetString("role")
		c.Status(http.StatusOK)
	})
	router.GET("/protected", handlers...)
	return router, seen
}

func managerSession(userID string) session.Session {
	return session.Session{
		ID:       uuid.New().String(),
		UserID:   userID,
		Username: "boss",
		Role:     "manager",
		Views:    3,
	}
}

func TestRequireAuth(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	t.Run("no cookie is rejected with 401", func(t *testing.T) {
		store := &fakeSessionStore{}
		router, seen := setupAuthRouter(store, false)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, seen.called)
		assert.Equal(t, 0, store.touchCalls)
	})

	t.Run("tampered cookie is rejected before the store is consulted", func(t *testing.T) {
		getCalled := false
		store := &fakeSessionStore{
			getFn: func(ctx context.Context, id string) (session.Session, error) {
				getCalled = true
				return session.Session{}, nil
			},
		}
		router, seen := setupAuthRouter(store, false)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "not.a.jwt"})
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, seen.called)
		assert.False(t, getCalled)
	})

	t.Run("expired session in the store is rejected", func(t *testing.T) {
		store := &fakeSessionStore{
			getFn: func(ctx context.Context, id string) (session.Session, error) {
				return session.Session{}, session.ErrSessionNotFound
			},
		}
		router, seen := setupAuthRouter(store, false)

		cookie, err := session.EncodeCookie(uuid.New().String())
		assert.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie})
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, seen.called)
	})

	t.Run("valid session resolves the caller's identity and bumps the counter", func(t *testing.T) {
		userID := uuid.New().String()
		sid := uuid.New().String()
		store := &fakeSessionStore{
			getFn: func(ctx context.Context, id string) (session.Session, error) {
				assert.Equal(t, sid, id)
				return session.Session{ID: id, UserID: userID, Username: "jdoe", Role: "employee", Views: 7}, nil
			},
		}
		router, seen := setupAuthRouter(store, false)

		cookie, err := session.EncodeCookie(sid)
		assert.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie})
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, seen.called)
		assert.Equal(t, userID, seen.userID)
		assert.Equal(t, "jdoe", seen.username)
		assert.Equal(t, "employee", seen.role)
		assert.Equal(t, 1, store.touchCalls)
	})
}

func TestRequireManager(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	t.Run("employee is rejected with 403", func(t *testing.T) {
		store := &fakeSessionStore{
			getFn: func(ctx context.Context, id string) (session.Session, error) {
				return session.Session{ID: id, UserID: uuid.New().String(), Username: "jdoe", Role: "employee"}, nil
			},
		}
		router, seen := setupAuthRouter(store, true)

		cookie, err := session.EncodeCookie(uuid.New().String())
		assert.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie})
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, seen.called)
	})

	t.Run("manager passes through", func(t *testing.T) {
		userID := uuid.New().String()
		store := &fakeSessionStore{
			getFn: func(ctx context.Context, id string) (session.Session, error) {
				return managerSession(userID), nil
			},
		}
		router, seen := setupAuthRouter(store, true)

		cookie, err := session.EncodeCookie(uuid.New().String())
		assert.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie})
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, seen.called)
		assert.Equal(t, userID, seen.userID)
		assert.Equal(t, "manager", seen.role)
	})
}
