package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/shonra/storefront_api/internal/app"
	"github.com/shonra/storefront_api/internal/config"
	"github.com/shonra/storefront_api/internal/handler"
	"github.com/shonra/storefront_api/internal/middleware"
	"github.com/shonra/storefront_api/internal/sse"
	"github.com/shonra/storefront_api/internal/worker"
)

// main is the application entrypoint for the SHONRA storefront API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Str("backend", cfg.Backend.URL).Msg("starting storefront api")

	// 3. Wire gateway client and services
	a := app.New(cfg)
	if err := a.WithCache(); err != nil {
		// Serve uncached when Redis is unreachable.
		log.Warn().Err(err).Msg("Redis unavailable, response cache disabled")
	}
	defer a.Close()
	log.Info().Bool("enabled", a.Cache != nil).Msg("Response cache")

	// 4. SSE hub
	hub := sse.NewHub()
	notifier := sse.NewHubNotifier(hub)

	// 5. Initialize handlers
	handlers := &Handlers{
		Health:     handler.NewHealthHandler(a.Gateway, hub, a.Cache != nil),
		Proxy:      handler.NewProxyHandler(a.Gateway, a.Cache, cfg.Backend.SaveTimeout),
		Storefront: handler.NewStorefrontHandler(a.Search, a.Products, a.FlashSale, a.Banners, a.Home, a.Save),
		Popup:      handler.NewPopupHandler(a.Banners, cfg.IsProduction()),
		SSE:        handler.NewSSEHandler(hub, a.FlashSale),
		Seo:        handler.NewSeoHandler(a.Seo),
	}

	// 6. Initialize middleware
	limiter := middleware.NewClientRateLimiter(cfg.RateLimit.ClientRPS, cfg.RateLimit.ClientBurst)

	// 7. Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, limiter.Handle())

	// 8. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 9. Start workers
	go worker.NewSettingsWorker(a.Settings, cfg.Worker.SettingsRefreshInterval).Start(ctx)
	go worker.NewFlashSaleWorker(a.FlashSale, notifier, cfg.Worker.FlashSaleRefreshInterval).Start(ctx)
	go worker.NewCountdownWorker(a.FlashSale, notifier, cfg.Worker.CountdownTick).Start(ctx)
	go worker.NewSaveWorker(a.Save).Start(ctx)
	go limiter.Start(ctx, 5*time.Minute)

	// 10. Start HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 11. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 12. Cancel context to stop workers
	cancel()

	// 13. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health     *handler.HealthHandler
	Proxy      *handler.ProxyHandler
	Storefront *handler.StorefrontHandler
	Popup      *handler.PopupHandler
	SSE        *handler.SSEHandler
	Seo        *handler.SeoHandler
}

// setupRoutes registers all routes.
func setupRoutes(r *gin.Engine, handlers *Handlers, rateLimit gin.HandlerFunc) {
	r.GET("/", handlers.Seo.Homepage)
	r.GET("/sitemap.xml", handlers.Seo.Sitemap)
	r.GET("/health", handlers.Health.GetHealth)

	api := r.Group("/api")
	{
		// Gateway proxy
		api.GET("/products", handlers.Proxy.ListProducts)
		api.POST("/products/save-from-frontend", rateLimit, handlers.Proxy.SaveFromFrontend)
		api.GET("/categories", handlers.Proxy.GetCategories)
		api.GET("/tags", handlers.Proxy.GetTags)
		api.GET("/settings", handlers.Proxy.GetSettings)
		api.GET("/banners/:slot", handlers.Proxy.GetBanners)
		api.POST("/ai-seo/keywords", rateLimit, handlers.Proxy.GenerateKeywords)

		shopee := api.Group("/shopee")
		shopee.GET("", rateLimit, handlers.Proxy.SearchMarketplace)
		shopee.GET("/search", rateLimit, handlers.Proxy.SearchMarketplace)
		shopee.POST("/check-product", handlers.Proxy.CheckProduct)
		shopee.GET("/saved-products", handlers.Proxy.ListSavedProducts)
		shopee.PATCH("/saved-products", handlers.Proxy.UpdateSavedProductStatus)
		shopee.PUT("/saved-products", handlers.Proxy.UpdateSavedProductStatus)
		shopee.DELETE("/saved-products", handlers.Proxy.DeleteSavedProduct)
	}

	store := r.Group("/api/storefront")
	{
		store.GET("/home", handlers.Storefront.Home)
		store.GET("/search", rateLimit, handlers.Storefront.Search)
		store.GET("/products", handlers.Storefront.Browse)
		store.GET("/flash-sale", handlers.Storefront.FlashSale)
		store.GET("/flash-sale/banner", handlers.Storefront.FlashSaleBanner)
		store.GET("/flash-sale/stream", handlers.SSE.Stream)
		store.POST("/shop-now", rateLimit, handlers.Storefront.ShopNow)

		popup := store.Group("/popup", middleware.NoStore())
		popup.GET("", handlers.Popup.GetPopup)
		popup.POST("/dismiss", handlers.Popup.Dismiss)
	}
}

// setupLogger configures zerolog based on environment.
func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
