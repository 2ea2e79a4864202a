package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shonra/storefront_api/internal/models"
	"github.com/shonra/storefront_api/internal/storefront"
	"github.com/shonra/storefront_api/pkg/gateway"
)

// catalogLimit is the catalog page the storefront loads per filter change.
const catalogLimit = 50

// ProductService provides catalog browsing: filtered listings, categories and
// tags.
type ProductService struct {
	products ProductSource
	catalog  CatalogSource
}

// NewProductService constructs a ProductService.
func NewProductService(products ProductSource, catalog CatalogSource) *ProductService {
	return &ProductService{products: products, catalog: catalog}
}

// GetProducts returns the displayable active products for a category and tag
// filter. Category "all" or empty disables the category filter.
func (s *ProductService) GetProducts(ctx context.Context, categoryID string, tagIDs []int) ([]models.Product, error) {
	tags := make([]string, 0, len(tagIDs))
	for _, id := range tagIDs {
		tags = append(tags, strconv.Itoa(id))
	}
	list, err := s.products.ListProducts(ctx, gateway.ProductQuery{
		Limit:      catalogLimit,
		Status:     "active",
		CategoryID: categoryID,
		TagIDs:     tags,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	return storefront.FromInternalList(list), nil
}

// GetCategories returns categories with their display icons.
func (s *ProductService) GetCategories(ctx context.Context) ([]models.Category, error) {
	list, err := s.catalog.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	out := make([]models.Category, 0, len(list))
	for _, c := range list {
		out = append(out, storefront.FromCategory(c))
	}
	return out, nil
}

// GetTags returns every tag.
func (s *ProductService) GetTags(ctx context.Context) ([]models.Tag, error) {
	list, err := s.catalog.GetTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch tags: %w", err)
	}
	out := make([]models.Tag, 0, len(list))
	for _, t := range list {
		out = append(out, storefront.FromTag(t))
	}
	return out, nil
}

// BrowseRequest selects one page of the catalog view.
type BrowseRequest struct {
	CategoryID string
	TagIDs     []int
	Sort       storefront.SortOption
	Page       int
	Seed       int64
}

// BrowseResult is one load-more page.
type BrowseResult struct {
	Items   []models.Product `json:"items"`
	Page    int              `json:"page"`
	Total   int              `json:"total"`
	HasMore bool             `json:"hasMore"`
	Seed    int64            `json:"seed"`
}

// Browse replays the page reducers: filter, load, sort, then one LoadMore per
// page after the first. Items holds only the requested page.
func (s *ProductService) Browse(ctx context.Context, req BrowseRequest) (*BrowseResult, error) {
	if req.Page <= 0 {
		req.Page = 1
	}

	state := storefront.NewViewState(req.Seed)
	state, _ = storefront.Reduce(state, storefront.SetSort{Sort: req.Sort})
	state, _ = storefront.Reduce(state, storefront.SelectCategory{ID: req.CategoryID})
	for _, id := range req.TagIDs {
		state, _ = storefront.Reduce(state, storefront.ToggleTag{ID: id})
	}

	products, err := s.GetProducts(ctx, state.ActiveCategory, state.ActiveTags)
	if err != nil {
		return nil, err
	}
	state, _ = storefront.Reduce(state, storefront.ProductsLoaded{Products: products})
	for i := 1; i < req.Page; i++ {
		state, _ = storefront.Reduce(state, storefront.LoadMore{})
	}

	visible := state.Visible()
	start := (req.Page - 1) * storefront.PageSize
	if start > len(visible) {
		start = len(visible)
	}
	return &BrowseResult{
		Items:   visible[start:],
		Page:    req.Page,
		Total:   len(state.Display),
		HasMore: state.CanLoadMore(),
		Seed:    req.Seed,
	}, nil
}
