package main

import (
	"storefront/breadcrumbs/internal/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "breadcrumbs",
	Short: "Category breadcrumb trails for storefront products",
	Long: `breadcrumbs serves the category breadcrumb trails shown on product pages.

Product categories are fetched from the storefront GraphQL API, stored in
PostgreSQL and cached in Redis. Only the child-most categories of a product
get their own trail; products with several trails are rendered inside a
collapsible list.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml)",
	)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(trailCmd)
	rootCmd.AddCommand(refreshCmd)
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}
