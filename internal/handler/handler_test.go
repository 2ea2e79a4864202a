package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shonra/storefront_api/internal/app"
	"github.com/shonra/storefront_api/internal/config"
	"github.com/shonra/storefront_api/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type gatewayCall struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

type cannedResponse struct {
	status int
	body   string
}

// fakeGateway records every call and answers from canned responses keyed by
// path. Unknown paths answer an empty success envelope.
type fakeGateway struct {
	mu        sync.Mutex
	calls     []gatewayCall
	responses map[string]cannedResponse
}

func newFakeGateway(t *testing.T, responses map[string]cannedResponse) (*fakeGateway, *httptest.Server) {
	t.Helper()
	fg := &fakeGateway{responses: responses}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := gatewayCall{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &call.Body)
		}
		fg.mu.Lock()
		fg.calls = append(fg.calls, call)
		fg.mu.Unlock()

		resp, ok := responses[r.URL.Path]
		if !ok {
			resp = cannedResponse{status: http.StatusOK, body: `{"success":true,"data":[]}`}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.status)
		_, _ = io.WriteString(w, resp.body)
	}))
	t.Cleanup(srv.Close)
	return fg, srv
}

func (f *fakeGateway) Calls() []gatewayCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]gatewayCall(nil), f.calls...)
}

func newTestApp(baseURL string) *app.App {
	return app.New(newTestConfig(baseURL))
}

func newTestConfig(baseURL string) *config.Config {
	return &config.Config{
		Env:  "test",
		Site: config.SiteConfig{URL: "https://shonra.com"},
		Backend: config.BackendConfig{
			URL:            baseURL,
			Timeout:        5 * time.Second,
			SaveTimeout:    5 * time.Second,
			SitemapTimeout: time.Second,
		},
		Worker: config.WorkerConfig{
			SettingsRefreshInterval: time.Minute,
			SaveQueueSize:           4,
		},
		RateLimit: config.RateLimitConfig{MarketplaceRPS: 100, MarketplaceBurst: 10},
	}
}

func newTestRouter(a *app.App) *gin.Engine {
	proxy := NewProxyHandler(a.Gateway, a.Cache, a.Config.Backend.SaveTimeout)
	store := NewStorefrontHandler(a.Search, a.Products, a.FlashSale, a.Banners, a.Home, a.Save)
	popup := NewPopupHandler(a.Banners, false)
	seo := NewSeoHandler(a.Seo)

	r := gin.New()
	r.GET("/sitemap.xml", seo.Sitemap)
	r.GET("/api/products", proxy.ListProducts)
	r.POST("/api/products/save-from-frontend", proxy.SaveFromFrontend)
	r.GET("/api/categories", proxy.GetCategories)
	r.PATCH("/api/shopee/saved-products", proxy.UpdateSavedProductStatus)
	r.DELETE("/api/shopee/saved-products", proxy.DeleteSavedProduct)
	r.GET("/api/storefront/home", store.Home)
	r.GET("/api/storefront/search", store.Search)
	r.POST("/api/storefront/shop-now", store.ShopNow)
	r.GET("/api/storefront/popup", popup.GetPopup)
	r.POST("/api/storefront/popup/dismiss", popup.Dismiss)
	return r
}

func serve(r http.Handler, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var env utils.Response
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid envelope %q: %v", w.Body.String(), err)
	}
	return env
}

func TestListProductsPreservesUpstreamError(t *testing.T) {
	fg, srv := newFakeGateway(t, map[string]cannedResponse{
		"/api/products": {status: http.StatusNotFound, body: `{"success":false,"message":"Category not found"}`},
	})
	r := newTestRouter(newTestApp(srv.URL))

	w := serve(r, http.MethodGet, "/api/products?category_id=all&limit=10&evil=1", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected upstream 404, got %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Message != "Category not found" {
		t.Fatalf("upstream message lost: %q", env.Message)
	}

	calls := fg.Calls()
	if len(calls) != 1 || calls[0].Query != "limit=10" {
		t.Fatalf("unexpected forwarded query %+v", calls)
	}
}

func TestListProductsRelaysBody(t *testing.T) {
	body := `{"success":true,"data":[{"id":1}]}`
	_, srv := newFakeGateway(t, map[string]cannedResponse{
		"/api/products": {status: http.StatusOK, body: body},
	})
	r := newTestRouter(newTestApp(srv.URL))

	w := serve(r, http.MethodGet, "/api/products", "")
	if w.Code != http.StatusOK || w.Body.String() != body {
		t.Fatalf("body not relayed: %d %q", w.Code, w.Body.String())
	}
}

func TestUpdateSavedProductStatusValidation(t *testing.T) {
	fg, srv := newFakeGateway(t, nil)
	r := newTestRouter(newTestApp(srv.URL))

	w := serve(r, http.MethodPatch, "/api/shopee/saved-products", `{"itemId":"123"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Message != "Item ID and status are required" {
		t.Fatalf("unexpected message %q", env.Message)
	}
	if n := len(fg.Calls()); n != 0 {
		t.Fatalf("gateway must not be called, got %d calls", n)
	}

	w = serve(r, http.MethodPatch, "/api/shopee/saved-products", `{"itemId":"123","status":"inactive"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	calls := fg.Calls()
	if len(calls) != 1 || calls[0].Method != http.MethodPatch || calls[0].Path != "/api/products/status" {
		t.Fatalf("unexpected call %+v", calls)
	}
	if calls[0].Body["status"] != "inactive" || calls[0].Body["itemId"] != "123" {
		t.Fatalf("unexpected body %v", calls[0].Body)
	}
}

func TestDeleteSavedProduct(t *testing.T) {
	fg, srv := newFakeGateway(t, nil)
	r := newTestRouter(newTestApp(srv.URL))

	w := serve(r, http.MethodDelete, "/api/shopee/saved-products", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Message != "Product ID is required" {
		t.Fatalf("unexpected message %q", env.Message)
	}

	w = serve(r, http.MethodDelete, "/api/shopee/saved-products", `{"itemId":"987"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	calls := fg.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected one gateway call, got %d", len(calls))
	}
	if calls[0].Method != http.MethodDelete || calls[0].Path != "/api/products/saved/delete" || calls[0].Body["id"] != "987" {
		t.Fatalf("unexpected call %+v", calls[0])
	}
}

func TestSaveFromFrontendTagsSource(t *testing.T) {
	fg, srv := newFakeGateway(t, map[string]cannedResponse{
		"/api/products/save-from-frontend": {status: http.StatusCreated, body: `{"success":true}`},
	})
	r := newTestRouter(newTestApp(srv.URL))

	w := serve(r, http.MethodPost, "/api/products/save-from-frontend", `{"itemId":"55","productName":"Lamp"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected upstream 201, got %d", w.Code)
	}
	calls := fg.Calls()
	if len(calls) != 1 || calls[0].Body["source"] != "frontend" || calls[0].Body["itemId"] != "55" {
		t.Fatalf("unexpected call %+v", calls)
	}
}

func TestCachedRouteSetsCacheControl(t *testing.T) {
	_, srv := newFakeGateway(t, map[string]cannedResponse{
		"/api/categories": {status: http.StatusOK, body: `{"success":true,"data":[]}`},
	})
	r := newTestRouter(newTestApp(srv.URL))

	w := serve(r, http.MethodGet, "/api/categories", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Cache-Control"); got != "public, s-maxage=300, stale-while-revalidate=600" {
		t.Fatalf("Cache-Control = %q", got)
	}
	if got := w.Header().Get("X-Cache"); got != "BYPASS" {
		t.Fatalf("X-Cache = %q", got)
	}
}

func TestCachedRouteUpstreamErrorNotCacheable(t *testing.T) {
	_, srv := newFakeGateway(t, map[string]cannedResponse{
		"/api/categories": {status: http.StatusServiceUnavailable, body: `{"error":"maintenance"}`},
	})
	r := newTestRouter(newTestApp(srv.URL))

	w := serve(r, http.MethodGet, "/api/categories", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if w.Header().Get("Cache-Control") != "" {
		t.Fatal("error responses must not carry a cache policy")
	}
	if env := decodeEnvelope(t, w); env.Message != "maintenance" {
		t.Fatalf("unexpected message %q", env.Message)
	}
}

func TestSearchRejectsBlankQuery(t *testing.T) {
	fg, srv := newFakeGateway(t, nil)
	r := newTestRouter(newTestApp(srv.URL))

	w := serve(r, http.MethodGet, "/api/storefront/search?q=%20%20", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if n := len(fg.Calls()); n != 0 {
		t.Fatalf("blank query must not reach the gateway, got %d calls", n)
	}
}

func TestShopNowRedirect(t *testing.T) {
	_, srv := newFakeGateway(t, nil)
	a := newTestApp(srv.URL)
	r := newTestRouter(a)

	product := `{"itemId":"77","productName":"Fan","price":199,"imageUrl":"i","offerLink":"https://s.shopee.co.th/abc","fromShopee":true}`
	w := serve(r, http.MethodPost, "/api/storefront/shop-now?redirect=1", product)
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if got := w.Header().Get("Location"); got != "https://s.shopee.co.th/abc" {
		t.Fatalf("Location = %q", got)
	}

	select {
	case job := <-a.Save.Jobs():
		if job.ItemID != "77" {
			t.Fatalf("unexpected job %+v", job)
		}
	default:
		t.Fatal("marketplace product save was not queued")
	}

	w = serve(r, http.MethodPost, "/api/storefront/shop-now", `{"itemId":"1"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing offer link should be rejected, got %d", w.Code)
	}
}

func TestShopNowRejectsForeignLinks(t *testing.T) {
	_, srv := newFakeGateway(t, nil)
	a := newTestApp(srv.URL)
	r := newTestRouter(a)

	for _, link := range []string{"https://evil.example/phish", "javascript:alert(1)", "https://shopee.co.th.evil.example/x"} {
		body, _ := json.Marshal(map[string]any{"itemId": "5", "offerLink": link, "fromShopee": true})
		w := serve(r, http.MethodPost, "/api/storefront/shop-now?redirect=1", string(body))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", link, w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "" {
			t.Fatalf("%s: must not redirect, Location=%q", link, loc)
		}
	}
	select {
	case job := <-a.Save.Jobs():
		t.Fatalf("rejected product must not be saved: %+v", job)
	default:
	}
}

// slowGateway answers every call after delay, or gives up when the caller
// goes away.
func slowGateway(t *testing.T, delay time.Duration, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSaveFromFrontendUsesSaveTimeout(t *testing.T) {
	srv := slowGateway(t, 200*time.Millisecond, `{"success":true}`)
	cfg := newTestConfig(srv.URL)
	cfg.Backend.Timeout = 50 * time.Millisecond
	cfg.Backend.SaveTimeout = 2 * time.Second
	r := newTestRouter(app.New(cfg))

	w := serve(r, http.MethodPost, "/api/products/save-from-frontend", `{"itemId":"55"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("save within SaveTimeout should succeed, got %d %s", w.Code, w.Body.String())
	}

	cfg.Backend.SaveTimeout = 50 * time.Millisecond
	r = newTestRouter(app.New(cfg))
	w = serve(r, http.MethodPost, "/api/products/save-from-frontend", `{"itemId":"55"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("save past SaveTimeout should fail, got %d", w.Code)
	}
}

func TestSitemapFallsBackWhenSettingsAreSlow(t *testing.T) {
	srv := slowGateway(t, 2*time.Second, `{"success":true,"data":{"site_url":"https://deals.example"}}`)
	cfg := newTestConfig(srv.URL)
	cfg.Backend.SitemapTimeout = 100 * time.Millisecond
	r := newTestRouter(app.New(cfg))

	start := time.Now()
	w := serve(r, http.MethodGet, "/sitemap.xml", "")
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("sitemap waited %s for settings", elapsed)
	}
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "<loc>https://shonra.com</loc>") {
		t.Fatalf("expected configured site URL:\n%s", w.Body.String())
	}
}

func TestSitemapUsesGatewaySiteURL(t *testing.T) {
	srv := slowGateway(t, 10*time.Millisecond, `{"success":true,"data":{"site_url":"https://deals.example"}}`)
	cfg := newTestConfig(srv.URL)
	cfg.Backend.SitemapTimeout = time.Second
	r := newTestRouter(app.New(cfg))

	w := serve(r, http.MethodGet, "/sitemap.xml", "")
	if !strings.Contains(w.Body.String(), "<loc>https://deals.example</loc>") {
		t.Fatalf("expected gateway site URL:\n%s", w.Body.String())
	}
}

func TestPopupSuppressionCookies(t *testing.T) {
	fg, srv := newFakeGateway(t, map[string]cannedResponse{
		"/api/banners/Banner Popup": {status: http.StatusOK, body: `{"success":true,"data":[{"image_url":"/a.png","target_url":"https://x"}]}`},
	})
	r := newTestRouter(newTestApp(srv.URL))

	w := serve(r, http.MethodGet, "/api/storefront/popup", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"show":true`) {
		t.Fatalf("popup should show: %s", w.Body.String())
	}
	if n := len(fg.Calls()); n != 1 {
		t.Fatalf("expected one banner fetch, got %d", n)
	}

	w = serve(r, http.MethodPost, "/api/storefront/popup/dismiss", `{"dontShowAgain":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	cookies := w.Result().Cookies()
	names := map[string]bool{}
	for _, c := range cookies {
		names[c.Name] = true
	}
	if !names["hide_popup_banner"] || !names["hide_popup_banner_time"] {
		t.Fatalf("suppression cookies not set: %v", cookies)
	}

	w = serve(r, http.MethodGet, "/api/storefront/popup", "", cookies...)
	if !strings.Contains(w.Body.String(), `"suppressed":true`) {
		t.Fatalf("popup should be suppressed: %s", w.Body.String())
	}
	if n := len(fg.Calls()); n != 1 {
		t.Fatalf("suppressed visitor must not hit the gateway, got %d calls", n)
	}
}

func TestPopupDismissWithoutSuppression(t *testing.T) {
	_, srv := newFakeGateway(t, nil)
	r := newTestRouter(newTestApp(srv.URL))

	w := serve(r, http.MethodPost, "/api/storefront/popup/dismiss", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Fatalf("plain close must not write cookies: %v", w.Result().Cookies())
	}
}

func TestHomeSurvivesFailingSection(t *testing.T) {
	_, srv := newFakeGateway(t, map[string]cannedResponse{
		"/api/categories": {status: http.StatusInternalServerError, body: `{"message":"db down"}`},
		"/api/products": {status: http.StatusOK, body: `{"success":true,"data":[` +
			`{"item_id":"9","product_name":"Kettle","price":"350.00","image_url":"k.jpg","offer_link":"https://s.shopee.co.th/k"}]}`},
	})
	r := newTestRouter(newTestApp(srv.URL))

	w := serve(r, http.MethodGet, "/api/storefront/home", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Data struct {
			Categories []json.RawMessage `json:"categories"`
			Products   []struct {
				ItemID string  `json:"itemId"`
				Price  float64 `json:"price"`
			} `json:"products"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Data.Categories == nil || len(body.Data.Categories) != 0 {
		t.Fatalf("failed section should render empty, got %v", body.Data.Categories)
	}
	if len(body.Data.Products) != 1 || body.Data.Products[0].ItemID != "9" || body.Data.Products[0].Price != 350 {
		t.Fatalf("unexpected products %+v", body.Data.Products)
	}
}
