package user

import (
	"go-welfare/internal/authz"
	"go-welfare/internal/middleware"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer *casbin.Enforcer) {
	users := r.Group("/users")

	users.Use(middleware.AuthMiddleware())

	{
		users.GET("", middleware.Authorize(enforcer, authz.ResourceUsers, authz.ActionRead), h.List)
		users.POST("", middleware.Authorize(enforcer, authz.ResourceUsers, authz.ActionCreate), h.Create)
		users.GET("/:id", middleware.Authorize(enforcer, authz.ResourceUsers, authz.ActionRead), h.GetByID)
		users.PUT("/:id", middleware.Authorize(enforcer, authz.ResourceUsers, authz.ActionUpdate), h.Update)
		users.DELETE("/:id", middleware.Authorize(enforcer, authz.ResourceUsers, authz.ActionDelete), h.Delete)
	}
}
