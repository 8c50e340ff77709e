// Package server exposes breadcrumb trails over HTTP as JSON and as HTML
// fragments.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"storefront/breadcrumbs/internal/breadcrumbs"
	"storefront/breadcrumbs/internal/domain"
	"storefront/breadcrumbs/internal/render"

	log "github.com/sirupsen/logrus"
)

// BreadcrumbService is the part of the service layer the handlers use.
type BreadcrumbService interface {
	ProductBreadcrumbs(ctx context.Context, sku string) (breadcrumbs.Group, error)
	BuildTrail(entries []domain.CategoryBreadcrumb, currentCategory, currentPath string) breadcrumbs.Trail
	RefreshProduct(ctx context.Context, sku string) (string, error)
}

type Server struct {
	httpServer *http.Server
	service    BreadcrumbService
	renderer   *render.Renderer
}

func New(addr string, service BreadcrumbService, renderer *render.Renderer) *Server {
	s := &Server{
		service:  service,
		renderer: renderer,
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return withRequestLog(mux)
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Infof("🚀 Starting HTTP server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("🛑 Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	return nil
}
