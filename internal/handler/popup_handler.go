package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/shonra/storefront_api/internal/service"
	"github.com/shonra/storefront_api/internal/utils"
)

// cookieStore is the popup suppression store backed by the visitor's cookies.
// Writes are visible to later reads within the same request.
type cookieStore struct {
	c       *gin.Context
	secure  bool
	written map[string]*string
}

func newCookieStore(c *gin.Context, secure bool) *cookieStore {
	return &cookieStore{c: c, secure: secure, written: map[string]*string{}}
}

func (s *cookieStore) Get(key string) (string, bool) {
	if v, ok := s.written[key]; ok {
		if v == nil {
			return "", false
		}
		return *v, true
	}
	v, err := s.c.Cookie(key)
	if err != nil {
		return "", false
	}
	return v, true
}

func (s *cookieStore) Set(key, value string, ttl time.Duration) {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(key, value, int(ttl.Seconds()), "/", "", s.secure, false)
	s.written[key] = &value
}

func (s *cookieStore) Clear(key string) {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(key, "", -1, "/", "", s.secure, false)
	s.written[key] = nil
}

// PopupHandler serves the promotional banner popup.
type PopupHandler struct {
	bannerService *service.BannerService
	secureCookies bool
}

// NewPopupHandler constructs a PopupHandler.
func NewPopupHandler(bannerService *service.BannerService, secureCookies bool) *PopupHandler {
	return &PopupHandler{bannerService: bannerService, secureCookies: secureCookies}
}

// GetPopup handles GET /api/storefront/popup.
func (h *PopupHandler) GetPopup(c *gin.Context) {
	view, err := h.bannerService.Popup(c.Request.Context(), newCookieStore(c, h.secureCookies))
	if err != nil {
		log.Error().Err(err).Msg("Failed to load popup banners")
		utils.GatewayError(c, err, "Failed to fetch banners")
		return
	}
	utils.Success(c, http.StatusOK, "Popup retrieved successfully", view)
}

type dismissRequest struct {
	DontShowAgain bool `json:"dontShowAgain"`
}

// Dismiss handles POST /api/storefront/popup/dismiss.
func (h *PopupHandler) Dismiss(c *gin.Context) {
	var req dismissRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
			return
		}
	}
	h.bannerService.DismissPopup(newCookieStore(c, h.secureCookies), req.DontShowAgain)
	utils.Success(c, http.StatusOK, "Popup dismissed", gin.H{"suppressed": req.DontShowAgain})
}
