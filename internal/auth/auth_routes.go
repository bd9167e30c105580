package auth

import (
	"github.com/mdvohra/LMS-app/internal/middleware"
	"github.com/mdvohra/LMS-app/internal/session"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.Engine, handler *Handler, sessions session.Store) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", handler.Register)
		authGroup.POST("/login", middleware.RateLimitByIP(rate.Limit(1), 5), handler.Login)
		authGroup.POST("/logout", middleware.RequireAuth(sessions), handler.Logout)
		authGroup.GET("/me", middleware.RequireAuth(sessions), handler.GetMe)
	}
}
