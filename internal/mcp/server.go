package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/shonra/storefront_api/internal/service"
)

// Services are the storefront operations exposed as MCP tools.
type Services struct {
	Search    *service.SearchService
	Products  *service.ProductService
	FlashSale *service.FlashSaleService
}

// NewServer builds the MCP server with all tools registered.
func NewServer(svc Services, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"shonra-storefront",
		version,
		server.WithToolCapabilities(true),
	)
	registerTools(s, svc)
	return s
}

// Serve starts the MCP stdio server.
func Serve(svc Services, version string) error {
	return server.ServeStdio(NewServer(svc, version))
}
