package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shonra/storefront_api/internal/models"
)

// SettingsService keeps the latest site settings in memory. Until the first
// successful fetch it serves the defaults.
type SettingsService struct {
	source SettingsSource

	mu        sync.RWMutex
	settings  models.SiteSettings
	fetchedAt time.Time
	maxAge    time.Duration
}

// NewSettingsService constructs a SettingsService. Snapshots older than
// maxAge are refreshed on read.
func NewSettingsService(source SettingsSource, maxAge time.Duration) *SettingsService {
	return &SettingsService{
		source: source,
		settings: models.SiteSettings{
			WebsiteName: models.DefaultWebsiteName,
			Search:      models.DefaultSearchSettings(),
		},
		maxAge: maxAge,
	}
}

// Refresh fetches settings from the gateway and replaces the snapshot.
func (s *SettingsService) Refresh(ctx context.Context) (models.SiteSettings, error) {
	raw, err := s.source.GetSettings(ctx)
	if err != nil {
		return s.Snapshot(), fmt.Errorf("fetch settings: %w", err)
	}
	next := models.SiteSettings{
		WebsiteName: raw.WebsiteName,
		LogoURL:     raw.LogoClientURL,
		SiteURL:     raw.SiteURL,
		Search: models.SearchSettings{
			MinSearchResults:  int(raw.MinSearchResults),
			MinCommissionRate: raw.MinCommissionRate.Float64(),
			MinRatingStar:     raw.MinRatingStar.Float64(),
		}.WithDefaults(),
	}
	if next.WebsiteName == "" {
		next.WebsiteName = models.DefaultWebsiteName
	}
	if next.LogoURL == "" {
		next.LogoURL = raw.LogoURL
	}

	s.mu.Lock()
	s.settings = next
	s.fetchedAt = time.Now()
	s.mu.Unlock()
	return next, nil
}

// Snapshot returns the current settings without touching the gateway.
func (s *SettingsService) Snapshot() models.SiteSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Get returns settings, refreshing a stale snapshot first. A failed refresh
// falls back to the last known settings.
func (s *SettingsService) Get(ctx context.Context) models.SiteSettings {
	s.mu.RLock()
	fresh := !s.fetchedAt.IsZero() && (s.maxAge <= 0 || time.Since(s.fetchedAt) < s.maxAge)
	s.mu.RUnlock()
	if fresh {
		return s.Snapshot()
	}
	settings, err := s.Refresh(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Using cached settings")
	}
	return settings
}

// SearchSettings returns the search thresholds.
func (s *SettingsService) SearchSettings(ctx context.Context) models.SearchSettings {
	return s.Get(ctx).Search
}
