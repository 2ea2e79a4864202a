package app

import (
	"golang.org/x/time/rate"

	"github.com/shonra/storefront_api/internal/cache"
	"github.com/shonra/storefront_api/internal/config"
	"github.com/shonra/storefront_api/internal/service"
	"github.com/shonra/storefront_api/internal/storefront"
	"github.com/shonra/storefront_api/pkg/gateway"
)

// App holds the gateway client and every storefront service.
type App struct {
	Config  *config.Config
	Gateway *gateway.Client
	Cache   *cache.ResponseCache
	Redis   *cache.RedisClient

	Settings  *service.SettingsService
	Search    *service.SearchService
	Products  *service.ProductService
	FlashSale *service.FlashSaleService
	Banners   *service.BannerService
	Save      *service.SaveService
	Seo       *service.SeoService
	Home      *service.HomeService
}

// New wires the services over a gateway client. The response cache is
// attached separately with WithCache.
func New(cfg *config.Config) *App {
	gw := gateway.NewClient(gateway.Config{
		BaseURL:            cfg.Backend.URL,
		Timeout:            cfg.Backend.Timeout,
		Debug:              !cfg.IsProduction(),
		MarketplaceLimiter: rate.NewLimiter(rate.Limit(cfg.RateLimit.MarketplaceRPS), cfg.RateLimit.MarketplaceBurst),
	})

	settings := service.NewSettingsService(gw, cfg.Worker.SettingsRefreshInterval)
	products := service.NewProductService(gw, gw)
	flashSale := service.NewFlashSaleService(gw, storefront.NewCountdown(nil))
	banners := service.NewBannerService(gw, gw.BaseURL())

	return &App{
		Config:    cfg,
		Gateway:   gw,
		Settings:  settings,
		Search:    service.NewSearchService(gw, gw, settings),
		Products:  products,
		FlashSale: flashSale,
		Banners:   banners,
		Save:      service.NewSaveService(gw, cfg.Worker.SaveQueueSize, cfg.Backend.SaveTimeout),
		Seo:       service.NewSeoService(gw, gw, settings, cfg.Site.URL, cfg.Backend.SitemapTimeout, cfg.Site.EnableAISEO),
		Home:      service.NewHomeService(settings, products, flashSale, banners),
	}
}

// WithCache connects Redis and enables the response cache. Without a Redis
// host the app stays uncached.
func (a *App) WithCache() error {
	if !a.Config.Redis.Enabled() {
		return nil
	}
	client, err := cache.NewRedisClient(&a.Config.Redis)
	if err != nil {
		return err
	}
	a.Redis = client
	a.Cache = cache.NewResponseCache(client, a.Config.Backend.Timeout)
	return nil
}

// Close releases external connections.
func (a *App) Close() error {
	if a.Redis != nil {
		return a.Redis.Close()
	}
	return nil
}
