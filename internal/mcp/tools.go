package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/shonra/storefront_api/internal/storefront"
)

type handlers struct {
	svc Services
}

func registerTools(s *server.MCPServer, svc Services) {
	h := &handlers{svc: svc}

	// search_products
	searchTool := mcp.NewTool("search_products",
		mcp.WithDescription("Search storefront products; falls back to Shopee offers when the catalog has too few results"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search keyword"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum products returned (default: 20)"),
		),
	)
	s.AddTool(searchTool, h.searchProducts)

	// flash_sale
	flashSaleTool := mcp.NewTool("flash_sale",
		mcp.WithDescription("List current flash-sale products with their remaining time"),
	)
	s.AddTool(flashSaleTool, h.flashSale)

	// list_categories
	categoriesTool := mcp.NewTool("list_categories",
		mcp.WithDescription("List product categories"),
		mcp.WithString("filter",
			mcp.Description("Fuzzy name filter"),
		),
	)
	s.AddTool(categoriesTool, h.listCategories)
}

func (h *handlers) searchProducts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}
	limit := request.GetInt("limit", 20)

	res, err := h.svc.Search.Search(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search error: %v", err)), nil
	}
	if limit > 0 && len(res.Products) > limit {
		res.Products = res.Products[:limit]
	}
	return jsonResult(res)
}

func (h *handlers) flashSale(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if len(h.svc.FlashSale.Products()) == 0 {
		if err := h.svc.FlashSale.Refresh(ctx); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("flash sale error: %v", err)), nil
		}
	}
	return jsonResult(h.svc.FlashSale.Snapshot())
}

func (h *handlers) listCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	categories, err := h.svc.Products.GetCategories(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("categories error: %v", err)), nil
	}
	return jsonResult(storefront.FilterCategories(request.GetString("filter", ""), categories))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
