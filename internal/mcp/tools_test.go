package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/shonra/storefront_api/internal/models"
	"github.com/shonra/storefront_api/internal/service"
	"github.com/shonra/storefront_api/internal/storefront"
	"github.com/shonra/storefront_api/pkg/gateway"
)

type fakeGateway struct {
	products []gateway.Product
}

func (f fakeGateway) ListProducts(context.Context, gateway.ProductQuery) ([]gateway.Product, error) {
	return f.products, nil
}

func (f fakeGateway) SearchMarketplace(context.Context, gateway.MarketplaceQuery) ([]gateway.MarketplaceNode, error) {
	return nil, nil
}

func (f fakeGateway) GetCategories(context.Context) ([]gateway.Category, error) {
	return []gateway.Category{{ID: 1, Name: "Electronic Gadgets"}, {ID: 2, Name: "Fashion"}}, nil
}

func (f fakeGateway) GetTags(context.Context) ([]gateway.Tag, error) {
	return nil, nil
}

type fixedSettings struct{}

func (fixedSettings) SearchSettings(context.Context) models.SearchSettings {
	return models.SearchSettings{MinSearchResults: 1}
}

func newHandlers() *handlers {
	gw := fakeGateway{products: []gateway.Product{{ItemID: "7", ProductName: "Mug", Price: 10, ImageURL: "i", OfferLink: "o"}}}
	return &handlers{svc: Services{
		Search:    service.NewSearchService(gw, gw, fixedSettings{}),
		Products:  service.NewProductService(gw, gw),
		FlashSale: service.NewFlashSaleService(gw, storefront.NewCountdown(nil)),
	}}
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("unexpected content %T", res.Content[0])
	return ""
}

func TestSearchProductsTool(t *testing.T) {
	h := newHandlers()
	res, err := h.searchProducts(context.Background(), call(map[string]any{"query": "mug"}))
	if err != nil || res.IsError {
		t.Fatalf("search tool failed: %v %+v", err, res)
	}
	var out service.SearchResult
	if err := json.Unmarshal([]byte(text(t, res)), &out); err != nil {
		t.Fatal(err)
	}
	if out.Source != service.SourceInternal || len(out.Products) != 1 || out.Products[0].ItemID != "7" {
		t.Fatalf("unexpected result %+v", out)
	}

	res, _ = h.searchProducts(context.Background(), call(map[string]any{}))
	if !res.IsError {
		t.Fatal("missing query should be a tool error")
	}
}

func TestListCategoriesTool(t *testing.T) {
	h := newHandlers()
	res, err := h.listCategories(context.Background(), call(map[string]any{"filter": "electro"}))
	if err != nil || res.IsError {
		t.Fatalf("categories tool failed: %v", err)
	}
	body := text(t, res)
	if !strings.Contains(body, "Electronic Gadgets") || strings.Contains(body, "Fashion") {
		t.Fatalf("unexpected categories %s", body)
	}
	if !strings.Contains(body, `"icon": "laptop"`) {
		t.Fatalf("category icon missing: %s", body)
	}
}

func TestFlashSaleTool(t *testing.T) {
	h := newHandlers()
	res, err := h.flashSale(context.Background(), call(nil))
	if err != nil || res.IsError {
		t.Fatalf("flash sale tool failed: %v", err)
	}
	if !strings.Contains(text(t, res), `"countdown": "01:00:00"`) {
		t.Fatalf("expected fallback countdown in %s", text(t, res))
	}
}
