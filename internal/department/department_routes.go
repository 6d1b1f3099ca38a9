package department

import (
	"go-welfare/internal/authz"
	"go-welfare/internal/middleware"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer *casbin.Enforcer) {
	departments := r.Group("/departments")

	departments.Use(middleware.AuthMiddleware())

	{
		departments.GET("", middleware.Authorize(enforcer, authz.ResourceDepartments, authz.ActionRead), h.List)
		departments.POST("", middleware.Authorize(enforcer, authz.ResourceDepartments, authz.ActionCreate), h.Create)
		departments.GET("/:id", middleware.Authorize(enforcer, authz.ResourceDepartments, authz.ActionRead), h.GetByID)
		departments.PUT("/:id", middleware.Authorize(enforcer, authz.ResourceDepartments, authz.ActionUpdate), h.Update)
		departments.DELETE("/:id", middleware.Authorize(enforcer, authz.ResourceDepartments, authz.ActionDelete), h.Delete)
	}
}
