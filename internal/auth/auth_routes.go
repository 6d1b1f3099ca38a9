package auth

import (
	"time"

	"go-welfare/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	authGroup := r.Group("/auth")

	{
		// login and refresh are the only unauthenticated endpoints, so they
		// carry a per-IP throttle
		authGroup.POST("/login", middleware.RateLimitByIP(rate.Every(5*time.Second), 5), h.Login)
		authGroup.POST("/refresh", middleware.RateLimitByIP(rate.Every(5*time.Second), 5), h.Refresh)
		authGroup.GET("/me", middleware.AuthMiddleware(), h.Me)
	}
}
