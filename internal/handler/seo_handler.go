package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/shonra/storefront_api/internal/service"
	"github.com/shonra/storefront_api/internal/utils"
)

// SeoHandler serves the sitemap and the storefront shell document.
type SeoHandler struct {
	seoService *service.SeoService
}

// NewSeoHandler constructs a SeoHandler.
func NewSeoHandler(seoService *service.SeoService) *SeoHandler {
	return &SeoHandler{seoService: seoService}
}

// Sitemap handles GET /sitemap.xml.
func (h *SeoHandler) Sitemap(c *gin.Context) {
	body, err := h.seoService.Sitemap(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to render sitemap")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to render sitemap")
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
}

// Homepage handles GET /.
func (h *SeoHandler) Homepage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(h.seoService.HomepageHTML(c.Request.Context())))
}
