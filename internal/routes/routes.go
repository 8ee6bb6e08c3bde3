package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mintenance-LTD/mintenance-sub002/internal/handlers"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/logger"
)

// RegisterRoutes registers all HTTP routes.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.ReviewHandler.RegisterRoutes(api)
		appHandlers.ReputationHandler.RegisterRoutes(api)
		appHandlers.DisputeHandler.RegisterRoutes(api)
	}

	logger.Info("HTTP routes registered")
}
