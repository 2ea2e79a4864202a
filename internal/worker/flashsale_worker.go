package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shonra/storefront_api/internal/service"
	"github.com/shonra/storefront_api/internal/sse"
)

// FlashSaleWorker periodically refreshes the flash-sale strip.
type FlashSaleWorker struct {
	flashSale *service.FlashSaleService
	notifier  sse.FlashSaleNotifier
	interval  time.Duration
}

// NewFlashSaleWorker constructs a FlashSaleWorker.
func NewFlashSaleWorker(flashSale *service.FlashSaleService, notifier sse.FlashSaleNotifier, interval time.Duration) *FlashSaleWorker {
	return &FlashSaleWorker{
		flashSale: flashSale,
		notifier:  notifier,
		interval:  interval,
	}
}

// Start begins the periodic refresh loop and listens for context cancellation.
func (w *FlashSaleWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting flash sale worker")

	// Run immediately on start
	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Flash sale worker stopped")
			return
		}
	}
}

func (w *FlashSaleWorker) run(ctx context.Context) {
	start := time.Now()
	if err := w.flashSale.Refresh(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to refresh flash sale")
	} else {
		log.Debug().Dur("duration", time.Since(start)).Int("items", len(w.flashSale.Products())).Msg("Flash sale refreshed")
	}
	w.notifier.NotifyRefreshed(w.flashSale.Snapshot())
}
