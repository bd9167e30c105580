package middleware

import (
	"net/http"

	"github.com/mdvohra/LMS-app/internal/session"
	"github.com/mdvohra/LMS-app/internal/shared/contextutil"
	"github.com/mdvohra/LMS-app/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const RoleManager = "manager"

// RequireAuth is the authenticated gate: it verifies the signed session cookie,
// loads the session from the store and places the caller's identity into both
// the gin context and the request context. Nothing downstream reads ambient
// session state.
func RequireAuth(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := zap.L().Named("middleware.auth")

		cookie, err := c.Cookie(session.CookieName)
		if err != nil || cookie == "" {
			log.Error("access denied, no session cookie",
				zap.String("path", c.FullPath()),
			)
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "You are not authenticated", nil)
			c.Abort()
			return
		}

		sid, err := session.DecodeCookie(cookie)
		if err != nil {
			log.Error("access denied, invalid session cookie",
				zap.String("path", c.FullPath()),
			)
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "You are not authenticated", nil)
			c.Abort()
			return
		}

		sess, err := store.Get(c.Request.Context(), sid)
		if err != nil {
			log.Error("access denied, session not found or store unavailable",
				zap.String("path", c.FullPath()),
				zap.Error(err),
			)
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "You are not authenticated", nil)
			c.Abort()
			return
		}

		// Diagnostic access counter; an atomic HINCRBY on the store side.
		views, err := store.Touch(c.Request.Context(), sid)
		if err != nil {
			views = sess.Views
			log.Warn("session touch failed", zap.String("session_id", sid), zap.Error(err))
		}

		log.Info("access granted",
			zap.String("user_id", sess.UserID),
			zap.String("role", sess.Role),
			zap.Int64("views", views),
		)

		c.Set("session_id", sid)
		c.Set("user_id", sess.UserID)
		c.Set("username", sess.Username)
		c.Set("role", sess.Role)

		ctx := c.Request.Context()
		ctx = contextutil.WithUserID(ctx, sess.UserID)
		ctx = contextutil.WithUserRole(ctx, sess.Role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireManager is the manager gate. It must be composed after RequireAuth;
// role is only meaningful for an authenticated session.
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := zap.L().Named("middleware.auth")

		role := c.GetString("role")
		if role != RoleManager {
			log.Error("access denied, user is not a manager",
				zap.String("user_id", c.GetString("user_id")),
				zap.String("role", role),
			)
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You are not authorized to access this page", nil)
			c.Abort()
			return
		}

		log.Info("manager access confirmed", zap.String("user_id", c.GetString("user_id")))
		c.Next()
	}
}
