package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shonra/storefront_api/internal/seo"
	"github.com/shonra/storefront_api/pkg/gateway"
)

// SeoService renders the sitemap and the storefront shell.
type SeoService struct {
	settings       SettingsSource
	describer      MetaDescriber
	site           *SettingsService
	defaultSiteURL string
	settingsWait   time.Duration
	aiEnabled      bool
}

// NewSeoService constructs a SeoService.
func NewSeoService(settings SettingsSource, describer MetaDescriber, site *SettingsService, defaultSiteURL string, settingsWait time.Duration, aiEnabled bool) *SeoService {
	return &SeoService{
		settings:       settings,
		describer:      describer,
		site:           site,
		defaultSiteURL: defaultSiteURL,
		settingsWait:   settingsWait,
		aiEnabled:      aiEnabled,
	}
}

// SiteURL resolves the canonical site URL. The gateway setting wins when it
// answers within the wait; otherwise the configured default is used.
func (s *SeoService) SiteURL(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, s.settingsWait)
	defer cancel()
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to fetch site URL from settings, using default")
		return s.defaultSiteURL
	}
	if settings.SiteURL == "" {
		return s.defaultSiteURL
	}
	return settings.SiteURL
}

// Sitemap renders sitemap.xml.
func (s *SeoService) Sitemap(ctx context.Context) ([]byte, error) {
	return seo.Sitemap(s.SiteURL(ctx), time.Now())
}

// HomepageHTML renders the storefront shell with the site name and, when
// enabled, an AI generated description. Failures keep the static text.
func (s *SeoService) HomepageHTML(ctx context.Context) string {
	html := seo.ShellHTML
	name := s.site.Get(ctx).WebsiteName

	if out, err := seo.InjectTitle(html, name); err == nil {
		html = out
	}
	if !s.aiEnabled {
		return html
	}

	desc, err := s.describer.GenerateMetaDescription(ctx, gateway.MetaDescriptionRequest{
		Content:  seo.HomepageContent(name),
		Type:     "homepage",
		Language: "th",
	})
	if err != nil || desc == "" {
		if err != nil {
			log.Warn().Err(err).Msg("Failed to generate AI meta description")
		}
		return html
	}
	out, err := seo.InjectDescription(html, desc)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to inject meta description")
		return html
	}
	return out
}
