package itemtype

import (
	"go-welfare/internal/authz"
	"go-welfare/internal/middleware"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer *casbin.Enforcer) {
	itemTypes := r.Group("/item-types")

	itemTypes.Use(middleware.AuthMiddleware())

	{
		itemTypes.GET("", middleware.Authorize(enforcer, authz.ResourceItemTypes, authz.ActionRead), h.List)
		itemTypes.POST("", middleware.Authorize(enforcer, authz.ResourceItemTypes, authz.ActionCreate), h.Create)
		// registered before /:id so the literal path wins
		itemTypes.GET("/all", middleware.Authorize(enforcer, authz.ResourceItemTypes, authz.ActionRead), h.ListAll)
		itemTypes.GET("/:id", middleware.Authorize(enforcer, authz.ResourceItemTypes, authz.ActionRead), h.GetByID)
		itemTypes.PUT("/:id", middleware.Authorize(enforcer, authz.ResourceItemTypes, authz.ActionUpdate), h.Update)
		itemTypes.DELETE("/:id", middleware.Authorize(enforcer, authz.ResourceItemTypes, authz.ActionDelete), h.Delete)
	}
}
