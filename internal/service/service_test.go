package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shonra/storefront_api/internal/models"
	"github.com/shonra/storefront_api/internal/storefront"
	"github.com/shonra/storefront_api/internal/utils"
	"github.com/shonra/storefront_api/pkg/gateway"
)

type fakeProducts struct {
	mu      sync.Mutex
	list    []gateway.Product
	err     error
	queries []gateway.ProductQuery
}

func (f *fakeProducts) ListProducts(_ context.Context, q gateway.ProductQuery) ([]gateway.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.list, f.err
}

type fakeMarketplace struct {
	calls int
	last  gateway.MarketplaceQuery
	nodes []gateway.MarketplaceNode
	err   error
}

func (f *fakeMarketplace) SearchMarketplace(_ context.Context, q gateway.MarketplaceQuery) ([]gateway.MarketplaceNode, error) {
	f.calls++
	f.last = q
	return f.nodes, f.err
}

type staticSettings models.SearchSettings

func (s staticSettings) SearchSettings(context.Context) models.SearchSettings {
	return models.SearchSettings(s)
}

func validProducts(n int) []gateway.Product {
	out := make([]gateway.Product, n)
	for i := range out {
		out[i] = gateway.Product{
			ItemID:    gateway.ID(fmt.Sprint(i + 1)),
			Price:     10,
			ImageURL:  "img",
			OfferLink: "link",
		}
	}
	return out
}

func marketplaceNodes(n int) []gateway.MarketplaceNode {
	out := make([]gateway.MarketplaceNode, n)
	for i := range out {
		out[i] = gateway.MarketplaceNode{
			ItemID:      gateway.ID(fmt.Sprint(100 + i)),
			ProductName: "ext",
			ImageURL:    "img",
			OfferLink:   "link",
			Price:       20,
		}
	}
	return out
}

func TestSearchThreshold(t *testing.T) {
	settings := staticSettings{MinSearchResults: 10, MinCommissionRate: 10, MinRatingStar: 4.5}

	below := &fakeMarketplace{}
	svc := NewSearchService(&fakeProducts{list: validProducts(9)}, below, settings)
	if _, err := svc.Search(context.Background(), "mug"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if below.calls != 1 {
		t.Fatalf("9 results under threshold 10 should query the marketplace, calls=%d", below.calls)
	}
	if below.last.CommissionRate != 10 || below.last.RatingStar != 4.5 || below.last.Page != 1 {
		t.Fatalf("unexpected marketplace query %+v", below.last)
	}

	enough := &fakeMarketplace{}
	svc = NewSearchService(&fakeProducts{list: validProducts(10)}, enough, settings)
	res, err := svc.Search(context.Background(), "mug")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if enough.calls != 0 {
		t.Fatalf("10 results should not query the marketplace, calls=%d", enough.calls)
	}
	if res.Source != SourceInternal || len(res.Products) != 10 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestSearchExternalWins(t *testing.T) {
	products := &fakeProducts{list: validProducts(3)}
	market := &fakeMarketplace{nodes: marketplaceNodes(2)}
	svc := NewSearchService(products, market, staticSettings{})
	res, err := svc.Search(context.Background(), "  mug ")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Source != SourceMarketplace || len(res.Products) != 2 {
		t.Fatalf("external results should replace internal ones: %+v", res)
	}
	for _, p := range res.Products {
		if !p.FromShopee {
			t.Fatalf("external product not flagged: %+v", p)
		}
	}
	if products.queries[0].Search != "mug" || products.queries[0].Limit != 50 {
		t.Fatalf("unexpected internal query %+v", products.queries[0])
	}
}

func TestSearchSwallowsMarketplaceErrors(t *testing.T) {
	market := &fakeMarketplace{err: errors.New("boom")}
	svc := NewSearchService(&fakeProducts{list: validProducts(2)}, market, staticSettings{})
	res, err := svc.Search(context.Background(), "mug")
	if err != nil {
		t.Fatalf("marketplace error must not fail the search: %v", err)
	}
	if res.Source != SourceInternal || len(res.Products) != 2 {
		t.Fatalf("expected internal fallback, got %+v", res)
	}
}

func TestSearchEmptyResult(t *testing.T) {
	svc := NewSearchService(&fakeProducts{}, &fakeMarketplace{}, staticSettings{})
	res, err := svc.Search(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Source != SourceNone || res.Products == nil || len(res.Products) != 0 {
		t.Fatalf("expected empty state, got %+v", res)
	}
}

func TestSearchRejectsBlankQuery(t *testing.T) {
	svc := NewSearchService(&fakeProducts{}, &fakeMarketplace{}, staticSettings{})
	if _, err := svc.Search(context.Background(), "   "); !errors.Is(err, utils.ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestSearchInternalFailureSurfaces(t *testing.T) {
	market := &fakeMarketplace{}
	svc := NewSearchService(&fakeProducts{err: errors.New("down")}, market, staticSettings{})
	if _, err := svc.Search(context.Background(), "mug"); err == nil {
		t.Fatal("internal failure should be returned")
	}
	if market.calls != 0 {
		t.Fatal("marketplace must not be queried after an internal failure")
	}
}

func TestFlashSaleRefreshAndSnapshot(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }
	countdown := storefront.NewCountdown(clock)

	end := gateway.Number(float64(now.Unix()+3600) * 1000)
	list := validProducts(2)
	list[0].PeriodEndTime = &end
	products := &fakeProducts{list: list}

	svc := NewFlashSaleService(products, countdown)
	for i := 0; i < 10; i++ {
		countdown.Tick()
	}
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	q := products.queries[0]
	if q.Limit != 20 || !q.FlashSale || q.Status != "active" {
		t.Fatalf("unexpected flash-sale query %+v", q)
	}

	snap := svc.Snapshot()
	if len(snap.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(snap.Items))
	}
	if snap.Items[0].RemainingSeconds != 3600 || snap.Items[0].UsesFallback {
		t.Fatalf("unexpected real countdown %+v", snap.Items[0])
	}
	if snap.Items[1].RemainingSeconds != storefront.FallbackSeconds || !snap.Items[1].UsesFallback {
		t.Fatalf("refresh should reset the fallback, got %+v", snap.Items[1])
	}
	if snap.Items[0].Countdown != "01:00:00" {
		t.Fatalf("unexpected formatted countdown %q", snap.Items[0].Countdown)
	}
}

func TestFlashSaleUnsuccessfulClears(t *testing.T) {
	products := &fakeProducts{list: validProducts(1)}
	svc := NewFlashSaleService(products, storefront.NewCountdown(nil))
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	products.err = errors.New("timeout")
	_ = svc.Refresh(context.Background())
	if len(svc.Products()) != 1 {
		t.Fatal("transport error should keep previous products")
	}

	products.err = gateway.ErrUnsuccessful
	_ = svc.Refresh(context.Background())
	if len(svc.Products()) != 0 {
		t.Fatal("unsuccessful answer should empty the strip")
	}
}

type fakeSaver struct {
	mu       sync.Mutex
	payloads []map[string]any
	err      error
}

func (f *fakeSaver) SaveFromFrontend(_ context.Context, payload map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	return f.err
}

func TestShopNow(t *testing.T) {
	saver := &fakeSaver{}
	svc := NewSaveService(saver, 1, time.Second)

	res, err := svc.ShopNow(models.Product{ItemID: "1", OfferLink: "https://s.shopee.co.th/x"})
	if err != nil || res.Saved || res.RedirectURL != "https://s.shopee.co.th/x" {
		t.Fatalf("internal product should navigate without saving: %+v %v", res, err)
	}

	ext := models.Product{ItemID: "2", OfferLink: "https://s.shopee.co.th/y", FromShopee: true, CommissionRate: 12}
	res, err = svc.ShopNow(ext)
	if err != nil || !res.Saved {
		t.Fatalf("external product should be queued: %+v %v", res, err)
	}

	// The queue holds one job; a second save is dropped but navigation proceeds.
	res, err = svc.ShopNow(ext)
	if err != nil || res.Saved || res.RedirectURL == "" {
		t.Fatalf("full queue must not block navigation: %+v %v", res, err)
	}

	job := <-svc.Jobs()
	if err := svc.Process(context.Background(), job); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(saver.payloads) != 1 || saver.payloads[0]["commissionRate"] != 0.12 {
		t.Fatalf("unexpected saved payload %v", saver.payloads)
	}

	if _, err := svc.ShopNow(models.Product{ItemID: "3"}); !errors.Is(err, utils.ErrMissingField) {
		t.Fatalf("missing offer link should fail, got %v", err)
	}
	if _, err := svc.ShopNow(models.Product{ItemID: "4", OfferLink: "https://evil.example/x", FromShopee: true}); !errors.Is(err, utils.ErrInvalidLink) {
		t.Fatalf("foreign offer link should fail, got %v", err)
	}
}

type fakeBanners struct {
	calls   int
	banners []gateway.Banner
}

func (f *fakeBanners) GetBanners(_ context.Context, _ string) ([]gateway.Banner, error) {
	f.calls++
	return f.banners, nil
}

func TestPopupSuppressedSkipsFetch(t *testing.T) {
	source := &fakeBanners{banners: []gateway.Banner{{ImageURL: "/a.png"}, {ImageURL: "b.png"}}}
	svc := NewBannerService(source, "http://backend")
	store := storefront.NewMemoryStore()

	view, err := svc.Popup(context.Background(), store)
	if err != nil {
		t.Fatalf("Popup: %v", err)
	}
	if !view.Show || len(view.Banners) != 2 || view.AutoAdvanceMs != 5000 {
		t.Fatalf("unexpected popup %+v", view)
	}
	if view.Banners[0].ImageURL != "http://backend/a.png" || view.Banners[1].AltText != "Banner Popup" {
		t.Fatalf("unexpected banners %+v", view.Banners)
	}

	svc.DismissPopup(store, true)
	view, err = svc.Popup(context.Background(), store)
	if err != nil {
		t.Fatalf("Popup: %v", err)
	}
	if view.Show || !view.Suppressed {
		t.Fatalf("popup should be suppressed: %+v", view)
	}
	if source.calls != 1 {
		t.Fatalf("suppressed popup must not fetch banners, calls=%d", source.calls)
	}
}

func TestFlashSaleBannerFirstOnly(t *testing.T) {
	source := &fakeBanners{banners: []gateway.Banner{{ImageURL: "https://cdn/a.png"}, {ImageURL: "https://cdn/b.png"}}}
	svc := NewBannerService(source, "http://backend")
	b, err := svc.FlashSaleBanner(context.Background())
	if err != nil {
		t.Fatalf("FlashSaleBanner: %v", err)
	}
	if b == nil || b.ImageURL != "https://cdn/a.png" || b.AltText != "Flash Sale Banner" {
		t.Fatalf("unexpected banner %+v", b)
	}
}

type fakeSettingsSource struct {
	settings *gateway.Settings
	err      error
}

func (f fakeSettingsSource) GetSettings(context.Context) (*gateway.Settings, error) {
	return f.settings, f.err
}

func TestSettingsDefaults(t *testing.T) {
	svc := NewSettingsService(fakeSettingsSource{settings: &gateway.Settings{MinSearchResults: 0, MinRatingStar: 4}}, time.Minute)
	s := svc.Get(context.Background())
	if s.Search.MinSearchResults != 10 || s.Search.MinCommissionRate != 10 || s.Search.MinRatingStar != 4 {
		t.Fatalf("unexpected search settings %+v", s.Search)
	}
	if s.WebsiteName != "SHONRA" {
		t.Fatalf("unexpected website name %q", s.WebsiteName)
	}
}

func TestSeoSiteURLFallsBack(t *testing.T) {
	settings := NewSettingsService(fakeSettingsSource{err: errors.New("down")}, time.Minute)
	svc := NewSeoService(fakeSettingsSource{err: errors.New("down")}, nil, settings, "https://shonra.com", time.Second, false)
	if got := svc.SiteURL(context.Background()); got != "https://shonra.com" {
		t.Fatalf("expected default site url, got %q", got)
	}

	svc = NewSeoService(fakeSettingsSource{settings: &gateway.Settings{SiteURL: "https://deals.example"}}, nil, settings, "https://shonra.com", time.Second, false)
	if got := svc.SiteURL(context.Background()); got != "https://deals.example" {
		t.Fatalf("expected gateway site url, got %q", got)
	}
}
