package welfarerecord

import (
	"go-welfare/internal/authz"
	"go-welfare/internal/middleware"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer *casbin.Enforcer) {
	records := r.Group("/welfare-records")

	records.Use(middleware.AuthMiddleware())

	{
		records.GET("", middleware.Authorize(enforcer, authz.ResourceWelfareRecords, authz.ActionRead), h.List)
		records.POST("", middleware.Authorize(enforcer, authz.ResourceWelfareRecords, authz.ActionCreate), h.Create)
		// literal paths before /:id
		records.GET("/my", middleware.Authorize(enforcer, authz.ResourceWelfareRecords, authz.ActionRead), h.ListMine)
		records.GET("/stats", middleware.Authorize(enforcer, authz.ResourceWelfareRecords, authz.ActionRead), h.Stats)
		records.POST("/bulk-update-status", middleware.Authorize(enforcer, authz.ResourceWelfareRecords, authz.ActionBulkUpdate), h.BulkUpdateStatus)
		records.GET("/:id", middleware.Authorize(enforcer, authz.ResourceWelfareRecords, authz.ActionRead), h.GetByID)
		records.PUT("/:id", middleware.Authorize(enforcer, authz.ResourceWelfareRecords, authz.ActionUpdate), h.Update)
		records.DELETE("/:id", middleware.Authorize(enforcer, authz.ResourceWelfareRecords, authz.ActionDelete), h.Delete)
	}
}
