package models

// AllCategory is the pseudo-category that disables category filtering.
const AllCategory = "all"

// Category is a product category with its display icon.
type Category struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	IsActive     bool   `json:"isActive"`
	ProductCount *int   `json:"productCount,omitempty"`
	Icon         string `json:"icon"`
}

// Tag is a product tag. Active tags form an unordered set.
type Tag struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	IsActive     bool   `json:"isActive"`
	ProductCount *int   `json:"productCount,omitempty"`
}

// Banner slots known to the gateway.
const (
	SlotPopup     = "Banner Popup"
	SlotFlashSale = "Flash Sale Banner"
)

// Banner is a campaign banner ready for display. ImageURL is absolute or a
// data URI.
type Banner struct {
	ImageURL     string `json:"imageUrl"`
	TargetURL    string `json:"targetUrl,omitempty"`
	AltText      string `json:"altText"`
	OpenInNewTab bool   `json:"openInNewTab"`
}
