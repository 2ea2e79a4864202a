package storefront

import (
	"math"
	"net/url"
	"strings"

	"github.com/shonra/storefront_api/internal/models"
	"github.com/shonra/storefront_api/internal/utils"
	"github.com/shonra/storefront_api/pkg/gateway"
)

const (
	unknownProduct = "Unknown Product"
	unknownShop    = "Unknown Shop"
	flashSaleTag   = "Flash Sale"
	mallShopType   = "1"
)

// FromInternal maps a catalog product to the display model.
func FromInternal(p gateway.Product) models.Product {
	out := models.Product{
		ItemID:            p.ItemID.String(),
		ProductName:       orDefault(p.ProductName, unknownProduct),
		Price:             p.Price.Float64(),
		PriceMin:          p.PriceMin.Ptr(),
		PriceMax:          p.PriceMax.Ptr(),
		ImageURL:          p.ImageURL,
		OfferLink:         p.OfferLink,
		ProductLink:       p.ProductLink,
		RatingStar:        p.RatingStar.Ptr(),
		PriceDiscountRate: p.DiscountRate.Ptr(),
		ShopType:          p.ShopType.String(),
		ShopName:          orDefault(p.ShopName, unknownShop),
		ShopID:            p.ShopID.String(),
		Commission:        p.CommissionAmount.Float64(),
		CommissionRate:    p.CommissionRate.Float64(),
		SalesCount:        int(p.SalesCount),
		IsFlashSale:       bool(p.IsFlashSale),
	}
	out.IsMall = out.ShopType == mallShopType
	return out
}

// FromInternalList maps and filters a catalog page, dropping invalid products.
func FromInternalList(list []gateway.Product) []models.Product {
	out := make([]models.Product, 0, len(list))
	for _, p := range list {
		dp := FromInternal(p)
		if dp.Valid() {
			out = append(out, dp)
		}
	}
	return out
}

// FromMarketplace maps a marketplace offer to the display model. It reports
// false when an identifying field is missing or the offer is not displayable.
func FromMarketplace(n gateway.MarketplaceNode) (models.Product, bool) {
	if n.ItemID == "" || n.ProductName == "" || n.ImageURL == "" || n.OfferLink == "" {
		return models.Product{}, false
	}

	// Rates arrive as fractions (0.1 == 10%).
	seller := n.SellerCommissionRate.Float64()
	fraction := n.CommissionRate.Float64()
	if fraction <= 0 {
		fraction = seller
	}
	rating := n.RatingStar.Float64()
	discount := n.PriceDiscountRate.Float64()
	campaign := false
	if n.CampaignActive != nil {
		campaign = bool(*n.CampaignActive)
	}

	out := models.Product{
		ItemID:                 n.ItemID.String(),
		ProductName:            n.ProductName,
		Price:                  n.Price.Float64(),
		PriceMin:               n.PriceMin.Ptr(),
		PriceMax:               n.PriceMax.Ptr(),
		ImageURL:               n.ImageURL,
		OfferLink:              n.OfferLink,
		ProductLink:            n.ProductLink,
		RatingStar:             &rating,
		PriceDiscountRate:      &discount,
		ShopType:               n.ShopType.String(),
		ShopName:               orDefault(n.ShopName, unknownShop),
		ShopID:                 n.ShopID.String(),
		Commission:             n.Commission.Float64(),
		CommissionRate:         fraction * 100,
		CommissionRateOriginal: &fraction,
		SellerCommissionRate:   &seller,
		ShopeeCommissionRate:   n.ShopeeCommissionRate.Float64(),
		SalesCount:             int(n.Sales),
		FromShopee:             true,
		PeriodStartTime:        int64(n.PeriodStartTime),
		PeriodEndTime:          int64(n.PeriodEndTime),
		CampaignActive:         &campaign,
	}
	out.IsMall = out.ShopType == mallShopType
	return out, out.Valid()
}

// FromMarketplaceList maps offers, skipping incomplete or unpriced ones.
func FromMarketplaceList(nodes []gateway.MarketplaceNode) []models.Product {
	out := make([]models.Product, 0, len(nodes))
	for _, n := range nodes {
		if p, ok := FromMarketplace(n); ok {
			out = append(out, p)
		}
	}
	return out
}

// FilterValid keeps only displayable products.
func FilterValid(products []models.Product) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.Valid() {
			out = append(out, p)
		}
	}
	return out
}

// FlashSaleProducts maps a flash-sale catalog page: invalid products are
// dropped, end times normalized to seconds and sold percentages computed
// relative to the best seller of the page.
func FlashSaleProducts(list []gateway.Product) []models.Product {
	valid := make([]gateway.Product, 0, len(list))
	for _, p := range list {
		if p.Price > 0 && p.ImageURL != "" && p.OfferLink != "" {
			valid = append(valid, p)
		}
	}

	sales := make([]int, len(valid))
	for i, p := range valid {
		sales[i] = int(p.SalesCount)
	}
	percents := SoldPercentages(sales)

	out := make([]models.Product, 0, len(valid))
	for i, p := range valid {
		var discount float64
		if p.DiscountRate != nil {
			discount = p.DiscountRate.Float64()
		}
		var rating float64
		if p.RatingStar != nil {
			rating = p.RatingStar.Float64()
		}
		var end float64
		if p.PeriodEndTime != nil {
			end = p.PeriodEndTime.Float64()
		}
		pct := percents[i]
		price := p.Price.Float64()
		out = append(out, models.Product{
			ItemID:         p.ItemID.String(),
			ProductName:    orDefault(p.ProductName, unknownProduct),
			Price:          price,
			ImageURL:       p.ImageURL,
			OfferLink:      p.OfferLink,
			Commission:     p.CommissionAmount.Float64(),
			CommissionRate: p.CommissionRate.Float64(),
			ShopName:       orDefault(p.ShopName, unknownShop),
			RatingStar:     &rating,
			SalesCount:     sales[i],
			DiscountRate:   discount,
			IsFlashSale:    true,
			Tag:            flashSaleTag,
			OriginalPrice:  price * (1 + discount/100),
			SoldPercentage: &pct,
			SoldCount:      sales[i],
			PeriodEndTime:  NormalizeEndTime(end),
		})
	}
	return out
}

// SavePayload is the body persisted when a marketplace product is opened.
type SavePayload map[string]any

// BuildSavePayload builds the save-from-frontend body for a marketplace
// product. The stored commission rate is a fraction: the original marketplace
// fraction when known, otherwise the display percentage scaled back.
func BuildSavePayload(p models.Product) SavePayload {
	var commission float64
	if p.CommissionRateOriginal != nil {
		commission = *p.CommissionRateOriginal
	} else {
		commission = p.CommissionRate
		if commission > 1 {
			commission /= 100
		}
	}
	seller := commission
	if p.SellerCommissionRate != nil {
		seller = *p.SellerCommissionRate
	}
	productLink := p.ProductLink
	if productLink == "" {
		productLink = p.OfferLink
	}
	var rating, discount float64
	if p.RatingStar != nil {
		rating = *p.RatingStar
	}
	if p.PriceDiscountRate != nil {
		discount = *p.PriceDiscountRate
	}
	campaign := false
	if p.CampaignActive != nil {
		campaign = *p.CampaignActive
	}

	payload := SavePayload{
		"itemId":               p.ItemID,
		"productName":          p.ProductName,
		"shopName":             p.ShopName,
		"shopId":               p.ShopID,
		"price":                p.Price,
		"commissionRate":       commission,
		"sellerCommissionRate": seller,
		"shopeeCommissionRate": p.ShopeeCommissionRate,
		"commission":           p.Commission,
		"imageUrl":             p.ImageURL,
		"productLink":          productLink,
		"offerLink":            p.OfferLink,
		"ratingStar":           rating,
		"sold":                 p.SalesCount,
		"discountRate":         discount,
		"periodStartTime":      p.PeriodStartTime,
		"periodEndTime":        p.PeriodEndTime,
		"campaignActive":       campaign,
		"is_flash_sale":        false,
	}
	if p.PriceMin != nil {
		payload["priceMin"] = *p.PriceMin
	}
	if p.PriceMax != nil {
		payload["priceMax"] = *p.PriceMax
	}
	return payload
}

// DisplayOriginalPrice is the struck-through price on a product card: the
// lowest price grossed up by the discount, rounded up.
func DisplayOriginalPrice(p models.Product) float64 {
	current := p.Price
	if p.PriceMin != nil && *p.PriceMin > 0 {
		current = *p.PriceMin
	}
	if p.PriceDiscountRate == nil || *p.PriceDiscountRate <= 0 || *p.PriceDiscountRate >= 100 {
		return current
	}
	return math.Ceil(current / (1 - *p.PriceDiscountRate/100))
}

// marketplaceDomains are the hosts an offer link may point to, subdomains
// included.
var marketplaceDomains = []string{
	"shopee.co.th", "shope.ee", "shopee.com", "shopee.sg", "shopee.co.id",
	"shopee.vn", "shopee.ph", "shopee.com.my", "shopee.tw", "shopee.com.br",
}

// ValidOfferLink reports whether raw is an http(s) link to the marketplace.
func ValidOfferLink(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.User != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, domain := range marketplaceDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

var categoryIcons = []struct {
	icon     string
	keywords []string
}{
	{"laptop", []string{"อิเล็กทรอนิก", "electronic", "tech"}},
	{"shirt", []string{"แฟชั่น", "fashion", "เสื้อผ้า"}},
	{"heart", []string{"ความงาม", "beauty", "เครื่องสำอาง"}},
	{"dumbbell", []string{"กีฬา", "sport", "ออกกำลังกาย"}},
	{"home", []string{"บ้าน", "home", "living"}},
	{"smartphone", []string{"มือถือ", "phone", "smartphone"}},
	{"gamepad", []string{"เกม", "game"}},
	{"baby", []string{"เด็ก", "baby", "kid"}},
	{"car", []string{"รถ", "car", "auto"}},
	{"music", []string{"ดนตรี", "music", "audio"}},
	{"book", []string{"หนังสือ", "book"}},
	{"camera", []string{"กล้อง", "camera"}},
	{"watch", []string{"นาฬิกา", "watch"}},
}

// CategoryIcon picks a display icon from keywords in the category name.
func CategoryIcon(name string) string {
	lower := strings.ToLower(name)
	for _, entry := range categoryIcons {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.icon
			}
		}
	}
	return "shopping-bag"
}

// FromCategory maps a gateway category and attaches its icon.
func FromCategory(c gateway.Category) models.Category {
	return models.Category{
		ID:           int(c.ID),
		Name:         c.Name,
		IsActive:     bool(c.IsActive),
		ProductCount: c.ProductCount.IntPtr(),
		Icon:         CategoryIcon(c.Name),
	}
}

// FromTag maps a gateway tag.
func FromTag(t gateway.Tag) models.Tag {
	return models.Tag{
		ID:           int(t.ID),
		Name:         t.Name,
		IsActive:     bool(t.IsActive),
		ProductCount: t.ProductCount.IntPtr(),
	}
}

// FromBanner resolves a gateway banner for display. Relative image paths are
// made absolute against origin.
func FromBanner(origin string, b gateway.Banner, defaultAlt string) models.Banner {
	return models.Banner{
		ImageURL:     utils.ResolveAssetURL(origin, b.ImageURL),
		TargetURL:    b.TargetURL,
		AltText:      orDefault(b.AltText, defaultAlt),
		OpenInNewTab: bool(b.OpenNewTab),
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
