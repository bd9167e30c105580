package leave

import (
	"github.com/mdvohra/LMS-app/internal/middleware"
	"github.com/mdvohra/LMS-app/internal/session"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes keeps the original application's paths. The manager dashboard
// requires both gates; listing every employee's leave is manager-only.
func RegisterRoutes(r *gin.Engine, handler *Handler, sessions session.Store) {
	authed := r.Group("/")
	authed.Use(middleware.RequireAuth(sessions))
	{
		authed.GET("/leaveApplication", handler.ApplicationForm)
		authed.POST("/apply-for-leave", handler.Apply)
		authed.GET("/view-applied-leaves", handler.ViewAppliedLeaves)
	}

	managers := r.Group("/")
	managers.Use(middleware.RequireAuth(sessions), middleware.RequireManager())
	{
		managers.GET("/manager-dashboard", handler.ManagerDashboard)
		managers.POST("/approve-leave/:id", handler.Approve)
		managers.POST("/reject-leave/:id", handler.Reject)
	}
}
