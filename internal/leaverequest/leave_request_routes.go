package leaverequest

import (
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer middleware.Enforcer,
) {
	leaves := r.Group("/leave-requests")
	leaves.Use(middleware.AuthMiddleware())
	leaves.Use(middleware.RateLimitByUser(rate.Limit(10), 20))
	{
		leaves.GET("", middleware.Authorize(enforcer, "leave_request", "read"), handler.GetAll)
		leaves.GET("/:id", middleware.Authorize(enforcer, "leave_request", "read"), handler.GetById)
		leaves.GET("/personnel/:personnelId", middleware.Authorize(enforcer, "leave_request", "read"), handler.GetAllByPersonnel)
		leaves.POST("", middleware.Authorize(enforcer, "leave_request", "create"), handler.Create)
		leaves.POST("/:id/preview", middleware.Authorize(enforcer, "leave_request", "approve"), handler.Preview)
		leaves.POST("/:id/approve", middleware.Authorize(enforcer, "leave_request", "approve"), handler.Approve)
		leaves.POST("/:id/reject", middleware.Authorize(enforcer, "leave_request", "approve"), handler.Reject)
	}
}
