package handler

import (
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/shonra/storefront_api/internal/service"
	"github.com/shonra/storefront_api/internal/sse"
)

// SSEHandler streams flash-sale countdown updates.
type SSEHandler struct {
	hub       *sse.Hub
	flashSale *service.FlashSaleService
	ping      time.Duration
}

// NewSSEHandler creates a new SSEHandler.
func NewSSEHandler(hub *sse.Hub, flashSale *service.FlashSaleService) *SSEHandler {
	return &SSEHandler{hub: hub, flashSale: flashSale, ping: 30 * time.Second}
}

// Stream handles GET /api/storefront/flash-sale/stream.
func (h *SSEHandler) Stream(c *gin.Context) {
	clientID := fmt.Sprintf("storefront-%s", uuid.New().String())

	// SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // Disable nginx buffering

	client := h.hub.Register(clientID)
	defer h.hub.Unregister(clientID)

	// The current strip goes out first so the page renders without waiting
	// for the next refresh.
	c.SSEvent(string(sse.EventFlashSaleRefreshed), h.flashSale.Snapshot())
	c.Writer.Flush()

	log.Debug().Str("client_id", clientID).Msg("Flash sale stream started")

	c.Stream(func(w io.Writer) bool {
		select {
		case data, ok := <-client.Events:
			if !ok {
				return false
			}
			c.SSEvent("message", string(data))
			return true
		case <-time.After(h.ping):
			c.SSEvent("ping", gin.H{"timestamp": time.Now().Format(time.RFC3339)})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
