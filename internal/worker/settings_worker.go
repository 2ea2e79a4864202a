package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shonra/storefront_api/internal/service"
)

// SettingsWorker keeps the in-memory site settings fresh.
type SettingsWorker struct {
	settings *service.SettingsService
	interval time.Duration
}

// NewSettingsWorker constructs a SettingsWorker.
func NewSettingsWorker(settings *service.SettingsService, interval time.Duration) *SettingsWorker {
	return &SettingsWorker{settings: settings, interval: interval}
}

// Start begins the periodic refresh loop and listens for context cancellation.
func (w *SettingsWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting settings worker")

	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Settings worker stopped")
			return
		}
	}
}

func (w *SettingsWorker) run(ctx context.Context) {
	if _, err := w.settings.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to refresh settings")
	}
}
