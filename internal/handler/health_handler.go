package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shonra/storefront_api/internal/service"
	"github.com/shonra/storefront_api/internal/sse"
	"github.com/shonra/storefront_api/internal/utils"
)

var startTime = time.Now()

// HealthHandler provides health endpoint.
type HealthHandler struct {
	gateway      service.SettingsSource
	hub          *sse.Hub
	cacheEnabled bool
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(gateway service.SettingsSource, hub *sse.Hub, cacheEnabled bool) *HealthHandler {
	return &HealthHandler{gateway: gateway, hub: hub, cacheEnabled: cacheEnabled}
}

// GetHealth responds with service and gateway status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	gatewayStatus := "connected"
	if _, err := h.gateway.GetSettings(ctx); err != nil {
		gatewayStatus = "disconnected"
	}

	utils.Success(c, 200, "Service is healthy", gin.H{
		"status":  "healthy",
		"version": "1.0.0",
		"uptime":  int(time.Since(startTime).Seconds()),
		"gateway": gin.H{
			"status": gatewayStatus,
		},
		"cache": gin.H{
			"enabled": h.cacheEnabled,
		},
		"streamClients": h.hub.ClientCount(),
	})
}
