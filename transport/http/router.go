package http

import (
	"github.com/gin-gonic/gin"
	"github.com/layer-3/keychat/service"
)

// SetupRouter sets up the Gin router for the operational surface.
func SetupRouter(registry *service.Registry) *gin.Engine {
	router := gin.Default()

	handlers := NewStatusHandlers(registry)

	router.GET("/healthz", handlers.Health)
	router.GET("/status", handlers.Status)

	return router
}
