package main

import (
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/shonra/storefront_api/internal/models"
	"github.com/shonra/storefront_api/internal/storefront"
)

var printer = message.NewPrinter(language.English)

// printProducts prints products in a card layout numbered from offset+1.
func printProducts(w io.Writer, products []models.Product, offset int) {
	for i, p := range products {
		if i > 0 || offset > 0 {
			fmt.Fprintln(w)
		}
		name := p.ProductName
		if p.IsMall {
			name = "[Mall] " + name
		}
		if p.FromShopee {
			name = "[Shopee] " + name
		}
		fmt.Fprintf(w, " %d. %s\n", offset+i+1, name)

		priceLine := "    Price: " + formatPrice(p.Price)
		if original := storefront.DisplayOriginalPrice(p); original > p.Price {
			priceLine += fmt.Sprintf("  (was %s)", formatPrice(original))
		}
		priceLine += "  |  Shop: " + p.ShopName
		fmt.Fprintln(w, priceLine)

		if p.RatingStar != nil || p.CommissionRate > 0 {
			var rating float64
			if p.RatingStar != nil {
				rating = *p.RatingStar
			}
			fmt.Fprintf(w, "    Rating: %.1f  |  Commission: %.1f%%  |  Sold: %d\n", rating, p.CommissionRate, p.SalesCount)
		}
		fmt.Fprintf(w, "    %s\n", p.OfferLink)
	}
}

// formatPrice formats a baht price with thousands separators.
func formatPrice(v float64) string {
	return printer.Sprintf("฿%.0f", v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
