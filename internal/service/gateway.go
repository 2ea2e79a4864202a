package service

import (
	"context"

	"github.com/shonra/storefront_api/pkg/gateway"
)

// ProductSource lists catalog products.
type ProductSource interface {
	ListProducts(ctx context.Context, q gateway.ProductQuery) ([]gateway.Product, error)
}

// MarketplaceSource searches the external marketplace.
type MarketplaceSource interface {
	SearchMarketplace(ctx context.Context, q gateway.MarketplaceQuery) ([]gateway.MarketplaceNode, error)
}

// SettingsSource reads site settings.
type SettingsSource interface {
	GetSettings(ctx context.Context) (*gateway.Settings, error)
}

// CatalogSource reads categories and tags.
type CatalogSource interface {
	GetCategories(ctx context.Context) ([]gateway.Category, error)
	GetTags(ctx context.Context) ([]gateway.Tag, error)
}

// BannerSource reads banners by slot.
type BannerSource interface {
	GetBanners(ctx context.Context, slot string) ([]gateway.Banner, error)
}

// ProductSaver persists products picked on the storefront.
type ProductSaver interface {
	SaveFromFrontend(ctx context.Context, payload map[string]any) error
}

// MetaDescriber generates AI meta descriptions.
type MetaDescriber interface {
	GenerateMetaDescription(ctx context.Context, req gateway.MetaDescriptionRequest) (string, error)
}
