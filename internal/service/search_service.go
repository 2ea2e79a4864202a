package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/shonra/storefront_api/internal/models"
	"github.com/shonra/storefront_api/internal/storefront"
	"github.com/shonra/storefront_api/internal/utils"
	"github.com/shonra/storefront_api/pkg/gateway"
)

// internalSearchLimit bounds the catalog search page.
const internalSearchLimit = 50

// SearchSettingsProvider supplies the current search thresholds.
type SearchSettingsProvider interface {
	SearchSettings(ctx context.Context) models.SearchSettings
}

// SearchResult is the outcome of a search run.
type SearchResult struct {
	Query           string           `json:"query"`
	Products        []models.Product `json:"products"`
	Source          string           `json:"source"`
	InternalCount   int              `json:"internalCount"`
	ExternalCount   int              `json:"externalCount"`
	ExternalQueried bool             `json:"externalQueried"`
	Internal        []models.Product `json:"-"`
	External        []models.Product `json:"-"`
}

// Result sources.
const (
	SourceInternal    = "internal"
	SourceMarketplace = "marketplace"
	SourceNone        = "none"
)

// SearchService searches the catalog first and falls back to the external
// marketplace when the catalog returns too few products.
type SearchService struct {
	products    ProductSource
	marketplace MarketplaceSource
	settings    SearchSettingsProvider
}

// NewSearchService constructs a SearchService.
func NewSearchService(products ProductSource, marketplace MarketplaceSource, settings SearchSettingsProvider) *SearchService {
	return &SearchService{products: products, marketplace: marketplace, settings: settings}
}

// Search runs the augmentation procedure. Calls are sequential: the
// marketplace is only queried once the catalog count is known. Marketplace
// failures are logged and treated as no results.
func (s *SearchService) Search(ctx context.Context, rawQuery string) (*SearchResult, error) {
	query := utils.NormalizeQuery(rawQuery)
	if query == "" {
		return nil, utils.ErrEmptyQuery
	}

	list, err := s.products.ListProducts(ctx, gateway.ProductQuery{Search: query, Limit: internalSearchLimit})
	if err != nil {
		return nil, fmt.Errorf("internal search: %w", err)
	}
	internal := storefront.FromInternalList(list)

	res := &SearchResult{
		Query:         query,
		Internal:      internal,
		InternalCount: len(internal),
	}

	settings := s.settings.SearchSettings(ctx).WithDefaults()
	if len(internal) < settings.MinSearchResults {
		res.ExternalQueried = true
		res.External = s.searchMarketplace(ctx, query, settings)
		res.ExternalCount = len(res.External)
	}

	switch {
	case len(res.External) > 0:
		res.Products = res.External
		res.Source = SourceMarketplace
	case len(internal) > 0:
		res.Products = internal
		res.Source = SourceInternal
	default:
		res.Products = []models.Product{}
		res.Source = SourceNone
	}
	return res, nil
}

func (s *SearchService) searchMarketplace(ctx context.Context, query string, settings models.SearchSettings) []models.Product {
	nodes, err := s.marketplace.SearchMarketplace(ctx, gateway.MarketplaceQuery{
		Search:         query,
		Page:           1,
		CommissionRate: settings.MinCommissionRate,
		RatingStar:     settings.MinRatingStar,
	})
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("Marketplace search failed")
		return nil
	}
	return storefront.FromMarketplaceList(nodes)
}
