package leavebalance

import (
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer middleware.Enforcer,
) {
	balances := r.Group("/leave-balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("/:personnelId", middleware.Authorize(enforcer, "leave_balance", "read"), handler.GetForPersonnel)
	}
}
