package models

// ProductSource tells where a display product came from.
type ProductSource string

const (
	SourceInternal    ProductSource = "internal"
	SourceMarketplace ProductSource = "marketplace"
)

// Product is the display model shared by catalog listings, search results and
// the flash-sale strip. Internal products come from the gateway catalog,
// external ones from the marketplace search (FromShopee).
type Product struct {
	ItemID            string   `json:"itemId"`
	ProductName       string   `json:"productName"`
	Price             float64  `json:"price"`
	PriceMin          *float64 `json:"priceMin,omitempty"`
	PriceMax          *float64 `json:"priceMax,omitempty"`
	ImageURL          string   `json:"imageUrl"`
	OfferLink         string   `json:"offerLink"`
	ProductLink       string   `json:"productLink,omitempty"`
	RatingStar        *float64 `json:"ratingStar,omitempty"`
	PriceDiscountRate *float64 `json:"priceDiscountRate,omitempty"`
	ShopType          string   `json:"shopType,omitempty"`
	ShopName          string   `json:"shopName"`
	ShopID            string   `json:"shopId,omitempty"`
	IsMall            bool     `json:"isMall"`

	// Commission is an absolute amount; CommissionRate is a display percentage.
	Commission             float64  `json:"commission"`
	CommissionRate         float64  `json:"commissionRate"`
	CommissionRateOriginal *float64 `json:"commissionRateOriginal,omitempty"`
	SellerCommissionRate   *float64 `json:"sellerCommissionRate,omitempty"`
	ShopeeCommissionRate   float64  `json:"shopeeCommissionRate,omitempty"`

	SalesCount      int   `json:"salesCount"`
	IsFlashSale     bool  `json:"isFlashSale"`
	FromShopee      bool  `json:"fromShopee"`
	PeriodStartTime int64 `json:"periodStartTime,omitempty"`
	PeriodEndTime   int64 `json:"periodEndTime,omitempty"`
	CampaignActive  *bool `json:"campaignActive,omitempty"`

	// Flash-sale presentation
	Tag            string  `json:"tag,omitempty"`
	DiscountRate   float64 `json:"discountRate,omitempty"`
	OriginalPrice  float64 `json:"originalPrice,omitempty"`
	SoldPercentage *int    `json:"soldPercentage,omitempty"`
	SoldCount      int     `json:"soldCount,omitempty"`
}

// Source returns the provenance of p.
func (p Product) Source() ProductSource {
	if p.FromShopee {
		return SourceMarketplace
	}
	return SourceInternal
}

// Valid reports whether p may be displayed: positive price, an image and an
// offer link.
func (p Product) Valid() bool {
	return p.Price > 0 && p.ImageURL != "" && p.OfferLink != ""
}

// FlashSaleItem is a flash-sale product with its live countdown.
type FlashSaleItem struct {
	Product
	RemainingSeconds int64  `json:"remainingSeconds"`
	Countdown        string `json:"countdown"`
	UsesFallback     bool   `json:"usesFallback"`
}
