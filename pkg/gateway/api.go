package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ProductQuery filters the gateway product listing.
type ProductQuery struct {
	Limit      int
	Page       int
	Status     string
	CategoryID string
	TagIDs     []string
	Search     string
	FlashSale  bool
}

// Values encodes the query the way the gateway expects it. Tags repeat as
// tag_id; zero fields are omitted.
func (q ProductQuery) Values() url.Values {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.CategoryID != "" && q.CategoryID != "all" {
		v.Set("category_id", q.CategoryID)
	}
	for _, id := range q.TagIDs {
		if id != "" {
			v.Add("tag_id", id)
		}
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.FlashSale {
		v.Set("is_flash_sale", "true")
	}
	return v
}

// MarketplaceQuery is a search against the external marketplace proxy.
type MarketplaceQuery struct {
	Search         string
	Page           int
	CommissionRate float64
	RatingStar     float64
}

// Values encodes the query. commissionRate and ratingStar are only sent when
// positive.
func (q MarketplaceQuery) Values() url.Values {
	page := q.Page
	if page <= 0 {
		page = 1
	}
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("search", q.Search)
	if q.CommissionRate > 0 {
		v.Set("commissionRate", strconv.FormatFloat(q.CommissionRate, 'f', -1, 64))
	}
	if q.RatingStar > 0 {
		v.Set("ratingStar", strconv.FormatFloat(q.RatingStar, 'f', -1, 64))
	}
	return v
}

// ListProducts returns the stored products matching q.
func (c *Client) ListProducts(ctx context.Context, q ProductQuery) ([]Product, error) {
	return getJSON[[]Product](ctx, c, http.MethodGet, "/api/products", q.Values(), nil)
}

// SearchMarketplace runs a marketplace search and returns the product offer
// nodes from either response shape.
func (c *Client) SearchMarketplace(ctx context.Context, q MarketplaceQuery) ([]MarketplaceNode, error) {
	if err := c.waitMarketplace(ctx); err != nil {
		return nil, err
	}
	payload, err := getJSON[marketplacePayload](ctx, c, http.MethodGet, "/api/products/search", q.Values(), nil)
	if err != nil {
		return nil, err
	}
	return payload.nodes(), nil
}

// ForwardMarketplace is the raw variant of SearchMarketplace used by the proxy
// route. It shares the marketplace limiter.
func (c *Client) ForwardMarketplace(ctx context.Context, q MarketplaceQuery) (*Response, error) {
	if err := c.waitMarketplace(ctx); err != nil {
		return nil, err
	}
	return c.Forward(ctx, http.MethodGet, "/api/products/search", q.Values(), nil)
}

func (c *Client) waitMarketplace(ctx context.Context) error {
	if c.marketplace == nil {
		return nil
	}
	if err := c.marketplace.Wait(ctx); err != nil {
		return fmt.Errorf("marketplace rate limit: %w", err)
	}
	return nil
}

// GetSettings returns the site settings.
func (c *Client) GetSettings(ctx context.Context) (*Settings, error) {
	s, err := getJSON[Settings](ctx, c, http.MethodGet, "/api/settings", nil, nil)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetCategories returns every category.
func (c *Client) GetCategories(ctx context.Context) ([]Category, error) {
	return getJSON[[]Category](ctx, c, http.MethodGet, "/api/categories", nil, nil)
}

// GetTags returns every tag.
func (c *Client) GetTags(ctx context.Context) ([]Tag, error) {
	return getJSON[[]Tag](ctx, c, http.MethodGet, "/api/tags", nil, nil)
}

// GetBanners returns the banners configured for slot.
func (c *Client) GetBanners(ctx context.Context, slot string) ([]Banner, error) {
	list, err := getJSON[BannerList](ctx, c, http.MethodGet, BannerPath(slot), nil, nil)
	if err != nil {
		return nil, err
	}
	return list, nil
}

// BannerPath is the gateway path for a banner slot.
func BannerPath(slot string) string {
	return "/api/banners/" + url.PathEscape(slot)
}

// SaveFromFrontend persists a product picked on the storefront.
func (c *Client) SaveFromFrontend(ctx context.Context, payload map[string]any) error {
	_, err := c.ForwardSave(ctx, payload)
	return err
}

// ForwardSave posts payload to the save endpoint tagged with source
// "frontend" and returns the raw answer.
func (c *Client) ForwardSave(ctx context.Context, payload map[string]any) (*Response, error) {
	body := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["source"] = "frontend"
	return c.Forward(ctx, http.MethodPost, "/api/products/save-from-frontend", nil, body)
}

// GenerateMetaDescription asks the AI SEO service for a page description.
func (c *Client) GenerateMetaDescription(ctx context.Context, req MetaDescriptionRequest) (string, error) {
	resp, err := getJSON[MetaDescriptionResponse](ctx, c, http.MethodPost, "/api/ai-seo/meta-description", nil, req)
	if err != nil {
		return "", err
	}
	if resp.MetaDescription != "" {
		return resp.MetaDescription, nil
	}
	return resp.Description, nil
}
