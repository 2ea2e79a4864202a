package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shonra/storefront_api/internal/models"
	"github.com/shonra/storefront_api/internal/storefront"
)

// PopupView is what the storefront needs to render the banner popup.
type PopupView struct {
	Show          bool            `json:"show"`
	Suppressed    bool            `json:"suppressed"`
	Banners       []models.Banner `json:"banners"`
	AutoAdvanceMs int64           `json:"autoAdvanceMs,omitempty"`
}

// BannerService serves the popup carousel and the flash-sale banner.
type BannerService struct {
	source BannerSource
	origin string
}

// NewBannerService constructs a BannerService. origin resolves relative
// banner images.
func NewBannerService(source BannerSource, origin string) *BannerService {
	return &BannerService{source: source, origin: origin}
}

// Banners returns display banners of slot.
func (s *BannerService) Banners(ctx context.Context, slot, defaultAlt string) ([]models.Banner, error) {
	list, err := s.source.GetBanners(ctx, slot)
	if err != nil {
		return nil, fmt.Errorf("fetch banners %q: %w", slot, err)
	}
	out := make([]models.Banner, 0, len(list))
	for _, b := range list {
		if b.ImageURL == "" {
			continue
		}
		out = append(out, storefront.FromBanner(s.origin, b, defaultAlt))
	}
	return out, nil
}

// Popup checks suppression in store and, when eligible, fetches the popup
// banners. A suppressed visitor causes no gateway call.
func (s *BannerService) Popup(ctx context.Context, store storefront.KVStore) (*PopupView, error) {
	ctrl := storefront.NewPopupController(store, storefront.WithScheduler(noopScheduler))
	if !ctrl.Eligible() {
		return &PopupView{Suppressed: true, Banners: []models.Banner{}}, nil
	}
	banners, err := s.Banners(ctx, models.SlotPopup, models.SlotPopup)
	if err != nil {
		return nil, err
	}
	view := &PopupView{Banners: banners, Show: ctrl.Mount(banners)}
	if len(banners) > 1 {
		view.AutoAdvanceMs = storefront.AutoAdvanceInterval.Milliseconds()
	}
	return view, nil
}

// DismissPopup closes the popup, suppressing it for 24h when asked.
func (s *BannerService) DismissPopup(store storefront.KVStore, dontShowAgain bool) {
	ctrl := storefront.NewPopupController(store, storefront.WithScheduler(noopScheduler))
	ctrl.SetDontShowAgain(dontShowAgain)
	ctrl.Close()
}

// FlashSaleBanner returns the first flash-sale banner, or nil when none is
// configured.
func (s *BannerService) FlashSaleBanner(ctx context.Context) (*models.Banner, error) {
	banners, err := s.Banners(ctx, models.SlotFlashSale, models.SlotFlashSale)
	if err != nil {
		return nil, err
	}
	if len(banners) == 0 {
		return nil, nil
	}
	return &banners[0], nil
}

type noopTask struct{}

func (noopTask) Stop() {}

// Auto-advance runs in the browser; request-scoped controllers never tick.
func noopScheduler(_ time.Duration, _ func()) storefront.Stopper { return noopTask{} }
