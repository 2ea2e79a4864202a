package main

import (
	"fmt"

	"github.com/spf13/cobra"

	mcpserver "github.com/shonra/storefront_api/internal/mcp"
)

var serveMCPCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Start MCP stdio server",
	RunE:  runServeMCP,
}

func init() {
	rootCmd.AddCommand(serveMCPCmd)
}

func runServeMCP(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(cmd.ErrOrStderr(), "Starting SHONRA MCP server on stdio...")

	return mcpserver.Serve(mcpserver.Services{
		Search:    storefrontApp.Search,
		Products:  storefrontApp.Products,
		FlashSale: storefrontApp.FlashSale,
	}, version)
}
