package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search products, falling back to Shopee offers",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", 20, "Maximum products printed")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")

	res, err := storefrontApp.Search.Search(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if limit > 0 && len(res.Products) > limit {
		res.Products = res.Products[:limit]
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		return writeJSON(out, res)
	}
	fmt.Fprintf(out, "%q: %d internal, %d from Shopee (showing %s)\n\n", res.Query, res.InternalCount, res.ExternalCount, res.Source)
	printProducts(out, res.Products, 0)
	return nil
}
