package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shonra/storefront_api/internal/service"
	"github.com/shonra/storefront_api/internal/storefront"
)

var flashSaleCmd = &cobra.Command{
	Use:   "flash-sale",
	Short: "Show flash-sale products with their countdown",
	RunE:  runFlashSale,
}

func init() {
	flashSaleCmd.Flags().Bool("watch", false, "Keep ticking the countdown until interrupted")
	rootCmd.AddCommand(flashSaleCmd)
}

func runFlashSale(cmd *cobra.Command, args []string) error {
	watch, _ := cmd.Flags().GetBool("watch")
	format, _ := cmd.Flags().GetString("format")
	flashSale := storefrontApp.FlashSale

	if err := flashSale.Refresh(cmd.Context()); err != nil {
		return fmt.Errorf("flash sale failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		return writeJSON(out, flashSale.Snapshot())
	}
	printFlashSale(out, flashSale.Snapshot())
	if !watch {
		return nil
	}

	task := storefront.Every(time.Second, func() {
		clock := flashSale.Countdown().Tick()
		printFlashSale(out, flashSale.SnapshotAt(clock))
	})
	defer task.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	select {
	case <-quit:
	case <-cmd.Context().Done():
	}
	return nil
}

func printFlashSale(w io.Writer, snap service.FlashSaleSnapshot) {
	fmt.Fprintf(w, "\n-- Flash Sale (%d items) --\n", len(snap.Items))
	for i, item := range snap.Items {
		ends := "ends in"
		if item.UsesFallback {
			ends = "next round in"
		}
		sold := 0
		if item.SoldPercentage != nil {
			sold = *item.SoldPercentage
		}
		fmt.Fprintf(w, " %2d. %-40s %s  %s %s  sold %3d%%\n",
			i+1, truncate(item.ProductName, 40), formatPrice(item.Price), ends, item.Countdown, sold)
	}
}
