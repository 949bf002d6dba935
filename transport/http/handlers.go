package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/keychat/service"
)

// StatusHandlers contains HTTP handlers for the operational endpoints.
// Chat itself never goes over HTTP; this surface only reports on it.
type StatusHandlers struct {
	registry *service.Registry
}

// NewStatusHandlers creates new status handlers.
func NewStatusHandlers(registry *service.Registry) *StatusHandlers {
	return &StatusHandlers{
		registry: registry,
	}
}

// Health handles the liveness check.
func (h *StatusHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Status reports the live session count and delivery totals.
func (h *StatusHandlers) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"active_sessions":    h.registry.Count(),
		"messages_delivered": h.registry.DeliveredTotal(),
	})
}
