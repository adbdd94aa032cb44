package admin

import (
	"github.com/AaravSuri1/StudyBuddy/internal/auth"
	"github.com/AaravSuri1/StudyBuddy/internal/config"
	"github.com/AaravSuri1/StudyBuddy/internal/db"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the admin surface on the given engine.
func SetupRoutes(router *gin.Engine, dbService db.Service, cfg *config.Config) {
	handler := NewHandler(dbService)

	router.GET("/healthz", handler.HealthzHandler)

	adminGroup := router.Group("/admin")
	adminGroup.Use(auth.AdminAuthMiddleware(cfg.Admin.Password))
	{
		adminGroup.GET("/usage", handler.UsageHandler)
		adminGroup.POST("/unlock/:user_id", handler.UnlockHandler)
	}
}
