package statuslog

import (
	"go-welfare/internal/authz"
	"go-welfare/internal/middleware"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the status log listing and direct-create endpoints.
// The owning record is addressed by welfareRecordId (query on GET, body on POST).
func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer *casbin.Enforcer) {
	logs := r.Group("/status-logs")

	logs.Use(middleware.AuthMiddleware())

	{
		logs.GET("", middleware.Authorize(enforcer, authz.ResourceStatusLogs, authz.ActionRead), h.List)
		logs.POST("", middleware.Authorize(enforcer, authz.ResourceStatusLogs, authz.ActionCreate), h.Create)
	}
}
