package server

import "net/http"

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/products/{sku}/breadcrumbs", s.handleProductBreadcrumbs)
	mux.HandleFunc("POST /api/products/{sku}/refresh", s.handleRefresh)
	mux.HandleFunc("POST /api/trails", s.handleTrail)
	mux.HandleFunc("GET /products/{sku}/breadcrumbs", s.handleProductBreadcrumbsHTML)
}
