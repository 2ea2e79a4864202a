package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shonra/storefront_api/internal/service"
)

// SaveWorker drains the shop-now save queue. Failures are logged only; the
// visitor has already been redirected.
type SaveWorker struct {
	saveService *service.SaveService
}

// NewSaveWorker constructs a SaveWorker.
func NewSaveWorker(saveService *service.SaveService) *SaveWorker {
	return &SaveWorker{saveService: saveService}
}

// Start processes jobs until ctx is cancelled.
func (w *SaveWorker) Start(ctx context.Context) {
	log.Info().Msg("Starting save worker")

	jobs := w.saveService.Jobs()
	for {
		select {
		case job := <-jobs:
			w.process(ctx, job)
		case <-ctx.Done():
			log.Info().Msg("Save worker stopped")
			return
		}
	}
}

func (w *SaveWorker) process(ctx context.Context, job service.SaveJob) {
	start := time.Now()
	if err := w.saveService.Process(ctx, job); err != nil {
		log.Error().Err(err).Str("item_id", job.ItemID).Msg("Failed to save product")
		return
	}
	log.Info().
		Str("item_id", job.ItemID).
		Dur("queued", start.Sub(job.Queued)).
		Dur("duration", time.Since(start)).
		Msg("Product saved")
}
