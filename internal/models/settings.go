package models

// Search settings defaults, applied when the gateway value is zero or missing.
const (
	DefaultMinSearchResults  = 10
	DefaultMinCommissionRate = 10
	DefaultMinRatingStar     = 4.5
	DefaultWebsiteName       = "SHONRA"
)

// SearchSettings controls when the marketplace fallback runs and how it is
// filtered.
type SearchSettings struct {
	MinSearchResults  int     `json:"minSearchResults"`
	MinCommissionRate float64 `json:"minCommissionRate"`
	MinRatingStar     float64 `json:"minRatingStar"`
}

// DefaultSearchSettings returns the built-in search settings.
func DefaultSearchSettings() SearchSettings {
	return SearchSettings{
		MinSearchResults:  DefaultMinSearchResults,
		MinCommissionRate: DefaultMinCommissionRate,
		MinRatingStar:     DefaultMinRatingStar,
	}
}

// WithDefaults replaces zero fields with the defaults.
func (s SearchSettings) WithDefaults() SearchSettings {
	if s.MinSearchResults <= 0 {
		s.MinSearchResults = DefaultMinSearchResults
	}
	if s.MinCommissionRate <= 0 {
		s.MinCommissionRate = DefaultMinCommissionRate
	}
	if s.MinRatingStar <= 0 {
		s.MinRatingStar = DefaultMinRatingStar
	}
	return s
}

// SiteSettings is the public subset of gateway settings.
type SiteSettings struct {
	WebsiteName string         `json:"websiteName"`
	LogoURL     string         `json:"logoUrl,omitempty"`
	SiteURL     string         `json:"siteUrl,omitempty"`
	Search      SearchSettings `json:"search"`
}
