package handler

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/shonra/storefront_api/internal/models"
	"github.com/shonra/storefront_api/internal/service"
	"github.com/shonra/storefront_api/internal/storefront"
	"github.com/shonra/storefront_api/internal/utils"
)

// StorefrontHandler serves the storefront page procedures: search, browse,
// flash sale, home bootstrap and shop-now.
type StorefrontHandler struct {
	searchService    *service.SearchService
	productService   *service.ProductService
	flashSaleService *service.FlashSaleService
	bannerService    *service.BannerService
	homeService      *service.HomeService
	saveService      *service.SaveService
}

// NewStorefrontHandler constructs a StorefrontHandler.
func NewStorefrontHandler(
	searchService *service.SearchService,
	productService *service.ProductService,
	flashSaleService *service.FlashSaleService,
	bannerService *service.BannerService,
	homeService *service.HomeService,
	saveService *service.SaveService,
) *StorefrontHandler {
	return &StorefrontHandler{
		searchService:    searchService,
		productService:   productService,
		flashSaleService: flashSaleService,
		bannerService:    bannerService,
		homeService:      homeService,
		saveService:      saveService,
	}
}

// Search handles GET /api/storefront/search?q=.
func (h *StorefrontHandler) Search(c *gin.Context) {
	res, err := h.searchService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		if errors.Is(err, utils.ErrEmptyQuery) {
			utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		log.Error().Err(err).Str("query", c.Query("q")).Msg("Search failed")
		utils.GatewayError(c, err, "Failed to search products")
		return
	}
	utils.Success(c, http.StatusOK, "Search completed", res)
}

// Browse handles GET /api/storefront/products?category=&tag=&sort=&page=&seed=.
func (h *StorefrontHandler) Browse(c *gin.Context) {
	seed, err := strconv.ParseInt(c.Query("seed"), 10, 64)
	if err != nil {
		seed = time.Now().UnixNano()
	}
	req := service.BrowseRequest{
		CategoryID: c.DefaultQuery("category", models.AllCategory),
		TagIDs:     tagIDs(c.QueryArray("tag")),
		Sort:       storefront.ParseSort(c.Query("sort")),
		Page:       queryInt(c, "page", 1),
		Seed:       seed,
	}

	res, err := h.productService.Browse(c.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("category", req.CategoryID).Msg("Browse failed")
		utils.GatewayError(c, err, "Failed to fetch products")
		return
	}
	utils.SuccessWithPagination(c, http.StatusOK, "Products retrieved successfully", res, res.Page, storefront.PageSize, res.Total)
}

// FlashSale handles GET /api/storefront/flash-sale.
func (h *StorefrontHandler) FlashSale(c *gin.Context) {
	if len(h.flashSaleService.Products()) == 0 {
		if err := h.flashSaleService.Refresh(c.Request.Context()); err != nil {
			log.Warn().Err(err).Msg("Flash sale refresh on demand failed")
		}
	}
	utils.Success(c, http.StatusOK, "Flash sale retrieved successfully", h.flashSaleService.Snapshot())
}

// FlashSaleBanner handles GET /api/storefront/flash-sale/banner.
func (h *StorefrontHandler) FlashSaleBanner(c *gin.Context) {
	banner, err := h.bannerService.FlashSaleBanner(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch flash sale banner")
		utils.GatewayError(c, err, "Failed to fetch flash sale banner")
		return
	}
	utils.Success(c, http.StatusOK, "Banner retrieved successfully", gin.H{"banner": banner})
}

// Home handles GET /api/storefront/home.
func (h *StorefrontHandler) Home(c *gin.Context) {
	utils.Success(c, http.StatusOK, "Home retrieved successfully", h.homeService.Home(c.Request.Context()))
}

// ShopNow handles POST /api/storefront/shop-now. With ?redirect=1 the
// visitor is sent straight to the offer link.
func (h *StorefrontHandler) ShopNow(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid product")
		return
	}
	res, err := h.saveService.ShopNow(p)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if c.Query("redirect") == "1" {
		c.Redirect(http.StatusFound, res.RedirectURL)
		return
	}
	utils.Success(c, http.StatusOK, "Redirect ready", res)
}

// tagIDs parses tag ids, dropping invalid and duplicate values.
func tagIDs(raw []string) []int {
	seen := make(map[int]bool, len(raw))
	out := make([]int, 0, len(raw))
	for _, v := range raw {
		id, err := strconv.Atoi(v)
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
