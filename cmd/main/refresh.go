package main

import (
	"fmt"

	"storefront/breadcrumbs/internal/container"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh <sku>...",
	Short: "Queue products for a background category refresh",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		app, err := container.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		for _, sku := range args {
			msgID, err := app.Service.RefreshProduct(cmd.Context(), sku)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", sku, msgID)
		}
		return nil
	},
}
