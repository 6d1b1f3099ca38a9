package app

import (
	"go-welfare/internal/auth"
	"go-welfare/internal/authz"
	"go-welfare/internal/department"
	"go-welfare/internal/itemtype"
	"go-welfare/internal/middleware"
	"go-welfare/internal/shared/cache"
	"go-welfare/internal/statuslog"
	"go-welfare/internal/user"
	"go-welfare/internal/welfarerecord"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()
	cacheGW := cache.New(rdb, logger)

	enforcer, err := authz.NewEnforcer()
	if err != nil {
		return err
	}

	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	itemTypeRepo := itemtype.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	statusLogRepo := statuslog.NewRepository(gormDB)
	recordRepo := welfarerecord.NewRepository(gormDB)

	// --- Services ---
	authService := auth.NewService(authRepo, logger)
	departmentService := department.NewService(gormDB, departmentRepo, cacheGW, logger)
	itemTypeService := itemtype.NewService(gormDB, itemTypeRepo, cacheGW, logger)
	userService := user.NewService(gormDB, userRepo, cacheGW, logger)
	statusLogService := statuslog.NewService(gormDB, statusLogRepo, cacheGW, logger)
	recordService := welfarerecord.NewService(gormDB, recordRepo, statusLogRepo, cacheGW, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, logger)
	departmentHandler := department.NewHandler(departmentService, logger)
	itemTypeHandler := itemtype.NewHandler(itemTypeService, logger)
	userHandler := user.NewHandler(userService, logger)
	statusLogHandler := statuslog.NewHandler(statusLogService, logger)
	recordHandler := welfarerecord.NewHandler(recordService, logger)

	router.Use(middleware.RequestContext(logger))

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		department.RegisterRoutes(api, departmentHandler, enforcer)
		itemtype.RegisterRoutes(api, itemTypeHandler, enforcer)
		user.RegisterRoutes(api, userHandler, enforcer)
		welfarerecord.RegisterRoutes(api, recordHandler, enforcer)
		statuslog.RegisterRoutes(api, statusLogHandler, enforcer)
	}

	return nil
}
