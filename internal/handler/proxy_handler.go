package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/shonra/storefront_api/internal/cache"
	"github.com/shonra/storefront_api/internal/utils"
	"github.com/shonra/storefront_api/pkg/gateway"
)

// productQueryKeys are the listing parameters forwarded to the gateway.
var productQueryKeys = []string{"limit", "status", "category_id", "tag_id", "search", "page"}

// ProxyHandler forwards storefront API calls to the Backend Gateway. Each
// route issues exactly one gateway call and relays the body unchanged.
type ProxyHandler struct {
	gateway     *gateway.Client
	cache       *cache.ResponseCache
	saveTimeout time.Duration
}

// NewProxyHandler constructs a ProxyHandler. A nil cache disables response
// caching.
func NewProxyHandler(gw *gateway.Client, respCache *cache.ResponseCache, saveTimeout time.Duration) *ProxyHandler {
	return &ProxyHandler{gateway: gw, cache: respCache, saveTimeout: saveTimeout}
}

// ListProducts handles GET /api/products.
func (h *ProxyHandler) ListProducts(c *gin.Context) {
	in := c.Request.URL.Query()
	out := url.Values{}
	for _, key := range productQueryKeys {
		for _, v := range in[key] {
			if v != "" {
				out.Add(key, v)
			}
		}
	}
	if out.Get("category_id") == "all" {
		out.Del("category_id")
	}
	h.forward(c, http.MethodGet, "/api/products", out, nil, "Failed to fetch products")
}

// SearchMarketplace handles GET /api/shopee/search and GET /api/shopee.
func (h *ProxyHandler) SearchMarketplace(c *gin.Context) {
	q := gateway.MarketplaceQuery{
		Search:         c.Query("search"),
		Page:           queryInt(c, "page", 1),
		CommissionRate: queryFloat(c, "commissionRate"),
		RatingStar:     queryFloat(c, "ratingStar"),
	}
	resp, err := h.gateway.ForwardMarketplace(c.Request.Context(), q)
	if err != nil {
		log.Error().Err(err).Str("search", q.Search).Msg("Marketplace search proxy failed")
		utils.GatewayError(c, err, "")
		return
	}
	utils.Raw(c, resp.StatusCode, resp.Body)
}

// CheckProduct handles POST /api/shopee/check-product.
func (h *ProxyHandler) CheckProduct(c *gin.Context) {
	body, ok := jsonBody(c)
	if !ok {
		return
	}
	h.forward(c, http.MethodPost, "/api/products/check", nil, body, "Failed to check product")
}

// ListSavedProducts handles GET /api/shopee/saved-products.
func (h *ProxyHandler) ListSavedProducts(c *gin.Context) {
	q := url.Values{}
	q.Set("page", c.DefaultQuery("page", "1"))
	q.Set("limit", c.DefaultQuery("limit", "20"))
	q.Set("status", c.DefaultQuery("status", "active"))
	if search := c.Query("search"); search != "" {
		q.Set("search", search)
	}
	h.forward(c, http.MethodGet, "/api/products/saved", q, nil, "Failed to fetch saved products")
}

type updateStatusRequest struct {
	ItemID any    `json:"itemId"`
	Status string `json:"status"`
}

// UpdateSavedProductStatus handles PATCH and PUT /api/shopee/saved-products.
func (h *ProxyHandler) UpdateSavedProductStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || isBlank(req.ItemID) || req.Status == "" {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Item ID and status are required")
		return
	}
	h.forward(c, http.MethodPatch, "/api/products/status", nil, req, "Failed to update product status")
}

type deleteSavedRequest struct {
	ID     any `json:"id"`
	ItemID any `json:"itemId"`
}

// DeleteSavedProduct handles DELETE /api/shopee/saved-products. Either the
// database id or the item id identifies the product.
func (h *ProxyHandler) DeleteSavedProduct(c *gin.Context) {
	var req deleteSavedRequest
	_ = c.ShouldBindJSON(&req)
	target := req.ID
	if isBlank(target) {
		target = req.ItemID
	}
	if isBlank(target) {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Product ID is required")
		return
	}
	h.forward(c, http.MethodDelete, "/api/products/saved/delete", nil, gin.H{"id": target}, "Failed to delete product")
}

// SaveFromFrontend handles POST /api/products/save-from-frontend.
func (h *ProxyHandler) SaveFromFrontend(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.saveTimeout)
	defer cancel()

	resp, err := h.gateway.ForwardSave(ctx, payload)
	if err != nil {
		log.Error().Err(err).Interface("item_id", payload["itemId"]).Msg("Save product from frontend failed")
		utils.GatewayError(c, err, "")
		return
	}
	utils.Raw(c, resp.StatusCode, resp.Body)
}

// GenerateKeywords handles POST /api/ai-seo/keywords. The gateway status is
// relayed as is, including errors.
func (h *ProxyHandler) GenerateKeywords(c *gin.Context) {
	body, ok := jsonBody(c)
	if !ok {
		return
	}
	resp, err := h.gateway.Do(c.Request.Context(), http.MethodPost, "/api/ai-seo/keywords", nil, body)
	if err != nil {
		log.Error().Err(err).Msg("AI keyword generation failed")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate keywords")
		return
	}
	utils.Raw(c, resp.StatusCode, resp.Body)
}

// GetCategories handles GET /api/categories.
func (h *ProxyHandler) GetCategories(c *gin.Context) {
	h.cached(c, "categories", cache.CatalogPolicy, "/api/categories", "Failed to fetch categories")
}

// GetTags handles GET /api/tags.
func (h *ProxyHandler) GetTags(c *gin.Context) {
	h.cached(c, "tags", cache.CatalogPolicy, "/api/tags", "Failed to fetch tags")
}

// GetSettings handles GET /api/settings.
func (h *ProxyHandler) GetSettings(c *gin.Context) {
	h.cached(c, "settings", cache.SettingsPolicy, "/api/settings", "Failed to fetch settings")
}

// GetBanners handles GET /api/banners/:slot.
func (h *ProxyHandler) GetBanners(c *gin.Context) {
	slot := c.Param("slot")
	if slot == "" {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", utils.ErrInvalidSlot.Error())
		return
	}
	h.cached(c, "banners:"+slot, cache.CatalogPolicy, gateway.BannerPath(slot), "Failed to fetch banners")
}

// forward relays one gateway call. Non-2xx answers keep their status with the
// gateway message.
func (h *ProxyHandler) forward(c *gin.Context, method, path string, query url.Values, body any, failMsg string) {
	ctx := gateway.WithAuthToken(c.Request.Context(), utils.AuthToken(c))
	resp, err := h.gateway.Forward(ctx, method, path, query, body)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg(failMsg)
		utils.GatewayError(c, err, "")
		return
	}
	utils.Raw(c, resp.StatusCode, resp.Body)
}

// cached serves a GET through the response cache and sets Cache-Control.
func (h *ProxyHandler) cached(c *gin.Context, key string, policy cache.Policy, path, failMsg string) {
	entry, result, err := h.cache.Fetch(c.Request.Context(), key, policy, func(ctx context.Context) (*cache.Entry, error) {
		resp, err := h.gateway.Do(ctx, http.MethodGet, path, nil, nil)
		if err != nil {
			return nil, err
		}
		return &cache.Entry{
			Status:      resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        resp.Body,
		}, nil
	})
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg(failMsg)
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	c.Header("X-Cache", string(result))
	if !entry.OK() {
		utils.GatewayError(c, gateway.NewAPIError(entry.Status, entry.Body), "")
		return
	}
	c.Header("Cache-Control", policy.Header())
	utils.Raw(c, entry.Status, entry.Body)
}

// jsonBody reads the request body and checks it is JSON.
func jsonBody(c *gin.Context) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 || !json.Valid(body) {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return nil, false
	}
	return body, true
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case float64:
		return t == 0
	case bool:
		return !t
	}
	return false
}

func queryInt(c *gin.Context, key string, def int) int {
	if n, err := strconv.Atoi(c.Query(key)); err == nil && n > 0 {
		return n
	}
	return def
}

func queryFloat(c *gin.Context, key string) float64 {
	f, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil {
		return 0
	}
	return f
}
