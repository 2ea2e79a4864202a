package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Envelope is the response wrapper shared by every Backend Gateway endpoint.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// Number is a JSON number the gateway may also send as a quoted string
// (decimal columns) or as a boolean. Unparseable strings decode to zero.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch s {
	case "", "null", "false":
		*n = 0
		return nil
	case "true":
		*n = 1
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = Number(f)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", s, err)
	}
	*n = Number(f)
	return nil
}

// Float64 returns the value as float64.
func (n Number) Float64() float64 { return float64(n) }

// Ptr returns a pointer to the float value or nil when n is nil.
func (n *Number) Ptr() *float64 {
	if n == nil {
		return nil
	}
	f := float64(*n)
	return &f
}

// IntPtr returns a pointer to the truncated integer value or nil when n is nil.
func (n *Number) IntPtr() *int {
	if n == nil {
		return nil
	}
	i := int(*n)
	return &i
}

// Flag is a boolean the gateway encodes as true/false, 0/1 or "1"/"0".
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	switch strings.ToLower(s) {
	case "true", "1":
		*f = true
	default:
		*f = false
	}
	return nil
}

// ID is an identifier sent either as a JSON number or a string.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return fmt.Errorf("invalid id %s: %w", string(b), err)
	}
	*id = ID(num.String())
	return nil
}

// String returns the identifier text.
func (id ID) String() string { return string(id) }

// Product is a product record as stored by the gateway (snake_case wire format).
type Product struct {
	ID               ID      `json:"id,omitempty"`
	ItemID           ID      `json:"item_id"`
	ProductName      string  `json:"product_name"`
	Price            Number  `json:"price"`
	PriceMin         *Number `json:"price_min,omitempty"`
	PriceMax         *Number `json:"price_max,omitempty"`
	ImageURL         string  `json:"image_url"`
	OfferLink        string  `json:"offer_link"`
	ProductLink      string  `json:"product_link,omitempty"`
	RatingStar       *Number `json:"rating_star,omitempty"`
	DiscountRate     *Number `json:"discount_rate,omitempty"`
	ShopType         ID      `json:"shop_type,omitempty"`
	ShopName         string  `json:"shop_name,omitempty"`
	ShopID           ID      `json:"shop_id,omitempty"`
	CommissionAmount Number  `json:"commission_amount"`
	CommissionRate   Number  `json:"commission_rate"`
	SalesCount       Number  `json:"sales_count"`
	IsFlashSale      Flag    `json:"is_flash_sale"`
	PeriodEndTime    *Number `json:"period_end_time,omitempty"`
}

// MarketplaceNode is one product offer returned by the marketplace search proxy
// (camelCase wire format, numeric fields frequently quoted).
type MarketplaceNode struct {
	ItemID               ID      `json:"itemId"`
	ProductName          string  `json:"productName"`
	Price                Number  `json:"price"`
	PriceMin             *Number `json:"priceMin,omitempty"`
	PriceMax             *Number `json:"priceMax,omitempty"`
	ImageURL             string  `json:"imageUrl"`
	OfferLink            string  `json:"offerLink"`
	ProductLink          string  `json:"productLink,omitempty"`
	RatingStar           Number  `json:"ratingStar"`
	PriceDiscountRate    Number  `json:"priceDiscountRate"`
	ShopType             ID      `json:"shopType,omitempty"`
	ShopName             string  `json:"shopName,omitempty"`
	ShopID               ID      `json:"shopId,omitempty"`
	Commission           Number  `json:"commission"`
	CommissionRate       Number  `json:"commissionRate"`
	SellerCommissionRate Number  `json:"sellerCommissionRate"`
	ShopeeCommissionRate Number  `json:"shopeeCommissionRate"`
	Sales                Number  `json:"sales"`
	PeriodStartTime      Number  `json:"periodStartTime"`
	PeriodEndTime        Number  `json:"periodEndTime"`
	CampaignActive       *Flag   `json:"campaignActive,omitempty"`
}

// Category is a product category.
type Category struct {
	ID           Number  `json:"id"`
	Name         string  `json:"name"`
	IsActive     Flag    `json:"is_active"`
	ProductCount *Number `json:"product_count,omitempty"`
}

// Tag is a product tag.
type Tag struct {
	ID           Number  `json:"id"`
	Name         string  `json:"name"`
	IsActive     Flag    `json:"is_active"`
	ProductCount *Number `json:"product_count,omitempty"`
}

// Banner is a campaign banner as configured in the gateway.
type Banner struct {
	ImageURL   string `json:"image_url"`
	TargetURL  string `json:"target_url"`
	AltText    string `json:"alt_text"`
	OpenNewTab Flag   `json:"open_new_tab"`
}

// BannerList accepts either a single banner object or an array of banners.
type BannerList []Banner

// UnmarshalJSON implements json.Unmarshaler.
func (l *BannerList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*l = nil
		return nil
	}
	if b[0] == '[' {
		var items []Banner
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var single Banner
	if err := json.Unmarshal(b, &single); err != nil {
		return err
	}
	*l = BannerList{single}
	return nil
}

// Settings holds the site-wide settings exposed by the gateway.
type Settings struct {
	WebsiteName       string `json:"website_name"`
	LogoClientURL     string `json:"logo_client_url"`
	LogoURL           string `json:"logo_url"`
	SiteURL           string `json:"site_url"`
	MinSearchResults  Number `json:"min_search_results"`
	MinCommissionRate Number `json:"min_commission_rate"`
	MinRatingStar     Number `json:"min_rating_star"`
}

// MetaDescriptionRequest asks the AI SEO service for a meta description.
type MetaDescriptionRequest struct {
	Content  string `json:"content"`
	Type     string `json:"type"`
	Language string `json:"language"`
}

// MetaDescriptionResponse is the payload returned by the AI SEO service.
type MetaDescriptionResponse struct {
	Description     string `json:"description"`
	MetaDescription string `json:"metaDescription"`
}

type productOffer struct {
	Nodes []MarketplaceNode `json:"nodes"`
}

// marketplacePayload covers both shapes the proxy returns:
// data.data.productOfferV2.nodes and data.productOfferV2.nodes.
type marketplacePayload struct {
	Data *struct {
		ProductOfferV2 *productOffer `json:"productOfferV2"`
	} `json:"data"`
	ProductOfferV2 *productOffer `json:"productOfferV2"`
}

func (p *marketplacePayload) nodes() []MarketplaceNode {
	if p.Data != nil && p.Data.ProductOfferV2 != nil && len(p.Data.ProductOfferV2.Nodes) > 0 {
		return p.Data.ProductOfferV2.Nodes
	}
	if p.ProductOfferV2 != nil {
		return p.ProductOfferV2.Nodes
	}
	return nil
}
