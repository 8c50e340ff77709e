package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"storefront/breadcrumbs/internal/breadcrumbs"
	"storefront/breadcrumbs/internal/client"
	"storefront/breadcrumbs/internal/domain"

	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error string `json:"error"`
}

type disclosureResponse struct {
	Expanded  bool             `json:"expanded"`
	Indicator breadcrumbs.Icon `json:"indicator"`
}

type groupResponse struct {
	SKU         string              `json:"sku"`
	Trails      []breadcrumbs.Trail `json:"trails"`
	Collapsible bool                `json:"collapsible"`
	Disclosure  *disclosureResponse `json:"disclosure,omitempty"`
}

type trailRequest struct {
	CurrentCategory string                      `json:"current_category"`
	CurrentPath     string                      `json:"current_path"`
	Breadcrumbs     []domain.CategoryBreadcrumb `json:"breadcrumbs"`
}

type refreshResponse struct {
	SKU       string `json:"sku"`
	MessageID string `json:"message_id"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProductBreadcrumbs(w http.ResponseWriter, r *http.Request) {
	sku := r.PathValue("sku")

	group, err := s.productGroup(r, sku)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := groupResponse{
		SKU:         sku,
		Trails:      group.Trails,
		Collapsible: group.Collapsible(),
	}
	if resp.Collapsible {
		resp.Disclosure = &disclosureResponse{
			Expanded:  group.Disclosure.Expanded,
			Indicator: group.Disclosure.Indicator(),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProductBreadcrumbsHTML(w http.ResponseWriter, r *http.Request) {
	group, err := s.productGroup(r, r.PathValue("sku"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := s.renderer.RenderGroup(&buf, group, r.URL.Path); err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	sku := r.PathValue("sku")

	msgID, err := s.service.RefreshProduct(r.Context(), sku)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, refreshResponse{SKU: sku, MessageID: msgID})
}

func (s *Server) handleTrail(w http.ResponseWriter, r *http.Request) {
	var req trailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	writeJSON(w, http.StatusOK, s.service.BuildTrail(req.Breadcrumbs, req.CurrentCategory, req.CurrentPath))
}

// productGroup loads the group for sku and applies the disclosure state
// carried in the expanded query parameter.
func (s *Server) productGroup(r *http.Request, sku string) (breadcrumbs.Group, error) {
	expanded := false
	if raw := r.URL.Query().Get("expanded"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return breadcrumbs.Group{}, fmt.Errorf("%w: expanded=%q", errBadRequest, raw)
		}
		expanded = v
	}

	group, err := s.service.ProductBreadcrumbs(r.Context(), sku)
	if err != nil {
		return breadcrumbs.Group{}, err
	}

	if expanded && group.Collapsible() {
		group.Disclosure.Toggle()
	}
	return group, nil
}

var errBadRequest = errors.New("bad request")

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, domain.ErrEmptySKU):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, client.ErrQuotaExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		requestLogger(r).Errorf("❌ %s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}
