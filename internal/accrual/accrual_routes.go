package accrual

import (
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer middleware.Enforcer,
	redisClient *redis.Client,
) {
	accruals := r.Group("/accruals")
	accruals.Use(middleware.AuthMiddleware())
	{
		accruals.POST("/run",
			middleware.Authorize(enforcer, "accrual", "run"),
			middleware.Idempotency(redisClient),
			handler.Run,
		)
	}
}
