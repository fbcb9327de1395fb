package personnel

import (
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer middleware.Enforcer,
) {
	people := r.Group("/personnel")
	people.Use(middleware.AuthMiddleware())
	{
		people.GET("", middleware.Authorize(enforcer, "personnel", "read"), handler.GetAll)
		people.GET("/:id", middleware.Authorize(enforcer, "personnel", "read"), handler.GetById)
		people.POST("", middleware.Authorize(enforcer, "personnel", "create"), handler.Create)
		people.PUT("/:id", middleware.Authorize(enforcer, "personnel", "update"), handler.Update)
		people.PATCH("/:id/status", middleware.Authorize(enforcer, "personnel", "update"), handler.ChangeStatus)
		people.POST("/:id/photo", middleware.Authorize(enforcer, "personnel", "update"), handler.UploadPhoto)
		people.DELETE("/:id", middleware.Authorize(enforcer, "personnel", "delete"), handler.Delete)
	}
}
