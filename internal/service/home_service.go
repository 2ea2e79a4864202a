package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/shonra/storefront_api/internal/models"
)

// HomeView is everything the storefront renders on first load.
type HomeView struct {
	Settings        models.SiteSettings    `json:"settings"`
	Categories      []models.Category      `json:"categories"`
	Tags            []models.Tag           `json:"tags"`
	Products        []models.Product       `json:"products"`
	FlashSale       []models.FlashSaleItem `json:"flashSale"`
	FlashSaleBanner *models.Banner         `json:"flashSaleBanner"`
}

// HomeService assembles the home page from independent sources.
type HomeService struct {
	settings  *SettingsService
	products  *ProductService
	flashSale *FlashSaleService
	banners   *BannerService
}

// NewHomeService constructs a HomeService.
func NewHomeService(settings *SettingsService, products *ProductService, flashSale *FlashSaleService, banners *BannerService) *HomeService {
	return &HomeService{settings: settings, products: products, flashSale: flashSale, banners: banners}
}

// Home loads every section concurrently. A failing section is logged and left
// empty; it never fails the page.
func (s *HomeService) Home(ctx context.Context) *HomeView {
	view := &HomeView{
		Categories: []models.Category{},
		Tags:       []models.Tag{},
		Products:   []models.Product{},
	}

	var g errgroup.Group
	g.Go(func() error {
		view.Settings = s.settings.Get(ctx)
		return nil
	})
	g.Go(func() error {
		categories, err := s.products.GetCategories(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Home: categories unavailable")
			return nil
		}
		view.Categories = categories
		return nil
	})
	g.Go(func() error {
		tags, err := s.products.GetTags(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Home: tags unavailable")
			return nil
		}
		view.Tags = tags
		return nil
	})
	g.Go(func() error {
		products, err := s.products.GetProducts(ctx, models.AllCategory, nil)
		if err != nil {
			log.Warn().Err(err).Msg("Home: products unavailable")
			return nil
		}
		view.Products = products
		return nil
	})
	g.Go(func() error {
		if len(s.flashSale.Products()) == 0 {
			if err := s.flashSale.Refresh(ctx); err != nil {
				log.Warn().Err(err).Msg("Home: flash sale unavailable")
			}
		}
		view.FlashSale = s.flashSale.Snapshot().Items
		return nil
	})
	g.Go(func() error {
		banner, err := s.banners.FlashSaleBanner(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Home: flash sale banner unavailable")
			return nil
		}
		view.FlashSaleBanner = banner
		return nil
	})
	_ = g.Wait()
	return view
}
