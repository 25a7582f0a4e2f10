package httptransport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"prism/internal/report"
	"prism/pkg/runcontext"
)

// RegisterReports mounts the derived report endpoints. Reports are computed
// over the latest completed run and cached per run, so a new run invalidates
// by key rotation rather than eviction.
func (h *Handler) RegisterReports(r chi.Router) {
	r.Get("/v1/reports/customer-segments", h.HandleCustomerSegments)
	r.Get("/v1/reports/product-segments", h.HandleProductSegments)
	r.Get("/v1/reports/revenue", h.HandleRevenue)
}

// HandleCustomerSegments handles GET /v1/reports/customer-segments.
func (h *Handler) HandleCustomerSegments(w http.ResponseWriter, r *http.Request) {
	serveReport(h, w, r, "customer-segments", func(ctx context.Context) ([]report.CustomerSegment, error) {
		facts, err := h.gold.Facts(ctx)
		if err != nil {
			return nil, err
		}
		return report.SegmentCustomers(ctx, facts), nil
	})
}

// HandleProductSegments handles GET /v1/reports/product-segments.
func (h *Handler) HandleProductSegments(w http.ResponseWriter, r *http.Request) {
	serveReport(h, w, r, "product-segments", func(ctx context.Context) ([]report.ProductSegment, error) {
		products, err := h.gold.Products(ctx)
		if err != nil {
			return nil, err
		}
		return report.SegmentProducts(products), nil
	})
}

// HandleRevenue handles GET /v1/reports/revenue.
func (h *Handler) HandleRevenue(w http.ResponseWriter, r *http.Request) {
	serveReport(h, w, r, "revenue", func(ctx context.Context) (report.RevenueReport, error) {
		facts, err := h.gold.Facts(ctx)
		if err != nil {
			return report.RevenueReport{}, err
		}
		return report.Revenue(facts), nil
	})
}

// serveReport resolves the latest completed run, serves the cached payload
// when present and otherwise computes, caches and serves. The run's pinned
// reference time is restored on the context so recency-style measures stay
// stable for the lifetime of the run.
func serveReport[T any](h *Handler, w http.ResponseWriter, r *http.Request, name string, compute func(context.Context) (T, error)) {
	run, err := h.statuses.Latest()
	if err != nil {
		writeError(w, err)
		return
	}

	ctx := runcontext.WithTime(r.Context(), run.ReferenceTime)

	var cached T
	if err := h.reports.Get(ctx, run.RunID, name, &cached); err == nil {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	computed, err := compute(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.reports.Set(ctx, run.RunID, name, computed); err != nil {
		h.logger.WarnContext(ctx, "report cache write failed", "report", name, "error", err)
	}
	writeJSON(w, http.StatusOK, computed)
}
