package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shonra/storefront_api/internal/service"
	"github.com/shonra/storefront_api/internal/sse"
	"github.com/shonra/storefront_api/internal/storefront"
)

// CountdownWorker advances the shared flash-sale clock and streams each tick.
type CountdownWorker struct {
	flashSale *service.FlashSaleService
	notifier  sse.FlashSaleNotifier
	interval  time.Duration
	every     storefront.Scheduler
}

// NewCountdownWorker constructs a CountdownWorker.
func NewCountdownWorker(flashSale *service.FlashSaleService, notifier sse.FlashSaleNotifier, interval time.Duration) *CountdownWorker {
	return &CountdownWorker{
		flashSale: flashSale,
		notifier:  notifier,
		interval:  interval,
		every:     storefront.Every,
	}
}

// Start ticks until ctx is cancelled.
func (w *CountdownWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting countdown worker")

	task := w.every(w.interval, w.tick)
	<-ctx.Done()
	task.Stop()

	log.Info().Msg("Countdown worker stopped")
}

func (w *CountdownWorker) tick() {
	clock := w.flashSale.Countdown().Tick()
	w.notifier.NotifyTick(w.flashSale.SnapshotAt(clock))
}
