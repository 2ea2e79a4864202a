package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/shonra/storefront_api/internal/app"
	"github.com/shonra/storefront_api/internal/config"
)

const version = "1.0.0"

var storefrontApp *app.App

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "SHONRA storefront CLI & MCP server",
	Long:          "Search, browse and watch flash sales of the SHONRA storefront from the terminal.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp(cmd)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("backend", "", "Backend Gateway URL (default from BACKEND_URL)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Log gateway traffic to stderr")
	rootCmd.PersistentFlags().String("format", "table", "Output format: json, table")
}

func initApp(cmd *cobra.Command) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if v, _ := cmd.Flags().GetString("backend"); v != "" {
		cfg.Backend.URL = v
	}
	storefrontApp = app.New(cfg)
	return nil
}
