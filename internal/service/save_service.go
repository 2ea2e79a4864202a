package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shonra/storefront_api/internal/models"
	"github.com/shonra/storefront_api/internal/storefront"
	"github.com/shonra/storefront_api/internal/utils"
)

// SaveJob is one pending save of a marketplace product.
type SaveJob struct {
	ItemID  string
	Payload storefront.SavePayload
	Queued  time.Time
}

// ShopNowResult tells the client where to go.
type ShopNowResult struct {
	RedirectURL string `json:"redirectUrl"`
	Saved       bool   `json:"saveQueued"`
}

// SaveService implements save-then-navigate: marketplace products are queued
// for persistence and the visitor is sent to the offer link immediately.
type SaveService struct {
	saver   ProductSaver
	queue   chan SaveJob
	timeout time.Duration
}

// NewSaveService constructs a SaveService with a bounded queue.
func NewSaveService(saver ProductSaver, queueSize int, timeout time.Duration) *SaveService {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &SaveService{
		saver:   saver,
		queue:   make(chan SaveJob, queueSize),
		timeout: timeout,
	}
}

// ShopNow resolves the navigation target for p, which must be a marketplace
// link. Saving never blocks or fails the navigation.
func (s *SaveService) ShopNow(p models.Product) (*ShopNowResult, error) {
	if p.OfferLink == "" {
		return nil, fmt.Errorf("%w: offerLink", utils.ErrMissingField)
	}
	if !storefront.ValidOfferLink(p.OfferLink) {
		return nil, fmt.Errorf("%w: offerLink", utils.ErrInvalidLink)
	}
	res := &ShopNowResult{RedirectURL: p.OfferLink}
	if !p.FromShopee {
		return res, nil
	}
	if err := s.Enqueue(SaveJob{ItemID: p.ItemID, Payload: storefront.BuildSavePayload(p), Queued: time.Now()}); err != nil {
		log.Warn().Err(err).Str("item_id", p.ItemID).Msg("Dropping product save")
		return res, nil
	}
	res.Saved = true
	return res, nil
}

// Enqueue adds a job without blocking.
func (s *SaveService) Enqueue(job SaveJob) error {
	select {
	case s.queue <- job:
		return nil
	default:
		return utils.ErrQueueFull
	}
}

// Jobs exposes the queue to the save worker.
func (s *SaveService) Jobs() <-chan SaveJob {
	return s.queue
}

// Process saves one job within the save timeout.
func (s *SaveService) Process(ctx context.Context, job SaveJob) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.saver.SaveFromFrontend(ctx, map[string]any(job.Payload)); err != nil {
		return fmt.Errorf("save product %s: %w", job.ItemID, err)
	}
	return nil
}
