package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shonra/storefront_api/internal/models"
	"github.com/shonra/storefront_api/internal/storefront"
	"github.com/shonra/storefront_api/pkg/gateway"
)

// flashSaleLimit bounds the flash-sale strip.
const flashSaleLimit = 20

// FlashSaleSnapshot is the flash-sale strip at one instant.
type FlashSaleSnapshot struct {
	Items     []models.FlashSaleItem    `json:"items"`
	Clock     storefront.CountdownState `json:"clock"`
	FetchedAt time.Time                 `json:"fetchedAt"`
}

// FlashSaleService holds the current flash-sale products and renders them
// against the shared countdown clock.
type FlashSaleService struct {
	products  ProductSource
	countdown *storefront.Countdown

	mu        sync.RWMutex
	items     []models.Product
	fetchedAt time.Time
}

// NewFlashSaleService constructs a FlashSaleService.
func NewFlashSaleService(products ProductSource, countdown *storefront.Countdown) *FlashSaleService {
	return &FlashSaleService{products: products, countdown: countdown}
}

// Countdown returns the shared clock.
func (s *FlashSaleService) Countdown() *storefront.Countdown {
	return s.countdown
}

// Refresh fetches flash-sale products and resets the fallback countdown.
// An explicit unsuccessful answer empties the strip; transport errors keep
// the previous products.
func (s *FlashSaleService) Refresh(ctx context.Context) error {
	list, err := s.products.ListProducts(ctx, gateway.ProductQuery{
		Limit:     flashSaleLimit,
		Status:    "active",
		FlashSale: true,
	})
	if err != nil {
		if errors.Is(err, gateway.ErrUnsuccessful) {
			s.replace(nil)
		}
		return fmt.Errorf("fetch flash sale: %w", err)
	}
	s.replace(storefront.FlashSaleProducts(list))
	s.countdown.ResetFallback()
	return nil
}

func (s *FlashSaleService) replace(items []models.Product) {
	s.mu.Lock()
	s.items = items
	s.fetchedAt = time.Now()
	s.mu.Unlock()
}

// Products returns the current flash-sale products.
func (s *FlashSaleService) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Product(nil), s.items...)
}

// Snapshot renders every item with its remaining time.
func (s *FlashSaleService) Snapshot() FlashSaleSnapshot {
	return s.SnapshotAt(s.countdown.Snapshot())
}

// SnapshotAt renders items against a given clock state.
func (s *FlashSaleService) SnapshotAt(clock storefront.CountdownState) FlashSaleSnapshot {
	s.mu.RLock()
	items := s.items
	fetchedAt := s.fetchedAt
	s.mu.RUnlock()

	out := make([]models.FlashSaleItem, 0, len(items))
	for _, p := range items {
		remaining, fallback := clock.Remaining(p.PeriodEndTime)
		out = append(out, models.FlashSaleItem{
			Product:          p,
			RemainingSeconds: remaining,
			Countdown:        storefront.FormatHMS(remaining),
			UsesFallback:     fallback,
		})
	}
	return FlashSaleSnapshot{Items: out, Clock: clock, FetchedAt: fetchedAt}
}
