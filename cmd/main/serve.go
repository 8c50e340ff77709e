package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"storefront/breadcrumbs/internal/container"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server and the refresh workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Info("Starting breadcrumbs service...")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log.Info("Configuration loaded successfully")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, err := container.New(ctx, cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Run(ctx); err != nil {
			return err
		}

		log.Info("Service stopped")
		return nil
	},
}
