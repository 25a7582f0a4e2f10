// Package httptransport is the thin HTTP layer over the pipeline. Handlers
// delegate to the runner and the stores without embedding pipeline logic.
package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"prism/internal/dimension"
	"prism/internal/pipeline"
	"prism/internal/report"
	"prism/pkg/platform/sentinel"
)

// Runner triggers pipeline passes.
type Runner interface {
	RunAt(ctx context.Context, referenceTime time.Time) (*pipeline.Result, error)
}

// GoldReader serves the assembled dimensional model.
type GoldReader interface {
	Customers(ctx context.Context) ([]dimension.DimCustomer, error)
	Products(ctx context.Context) ([]dimension.DimProduct, error)
	Facts(ctx context.Context) ([]dimension.FactSale, error)
}

// Handler wires pipeline endpoints to the runner and the gold store.
type Handler struct {
	runner   Runner
	statuses *pipeline.StatusRegistry
	gold     GoldReader
	reports  *report.Cache
	logger   *slog.Logger
}

// New constructs a handler with its dependencies.
func New(runner Runner, statuses *pipeline.StatusRegistry, gold GoldReader, reports *report.Cache, logger *slog.Logger) *Handler {
	return &Handler{
		runner:   runner,
		statuses: statuses,
		gold:     gold,
		reports:  reports,
		logger:   logger,
	}
}

// RegisterRuns mounts the run endpoints. The trigger endpoint is mounted
// behind auth by the router, the status read is public.
func (h *Handler) RegisterRuns(r chi.Router) {
	r.Post("/v1/runs", h.HandleTriggerRun)
}

// RegisterReads mounts the read-only endpoints.
func (h *Handler) RegisterReads(r chi.Router) {
	r.Get("/v1/runs/{runID}", h.HandleRunStatus)
	r.Get("/v1/customers", h.HandleCustomers)
	r.Get("/v1/products", h.HandleProducts)
	r.Get("/v1/sales", h.HandleSales)
}

type triggerRunRequest struct {
	// ReferenceTime optionally pins the run clock; defaults to now.
	ReferenceTime *time.Time `json:"reference_time"`
}

type triggerRunResponse struct {
	RunID         uuid.UUID      `json:"run_id"`
	ReferenceTime time.Time      `json:"reference_time"`
	Rows          map[string]int `json:"rows"`
}

// HandleTriggerRun handles POST /v1/runs. The run executes synchronously;
// callers get the full row summary in the response.
func (h *Handler) HandleTriggerRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	var req triggerRunRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErrorStatus(w, http.StatusBadRequest, "invalid_request", "malformed request body")
			return
		}
	}

	referenceTime := time.Now().UTC()
	if req.ReferenceTime != nil {
		referenceTime = req.ReferenceTime.UTC()
	}

	result, err := h.runner.RunAt(ctx, referenceTime)
	if err != nil {
		h.logger.ErrorContext(ctx, "pipeline trigger failed",
			"subject", Subject(ctx),
			"error", err,
		)
		writeError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "pipeline triggered",
		"subject", Subject(ctx),
		"run_id", result.RunID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	writeJSON(w, http.StatusOK, triggerRunResponse{
		RunID:         result.RunID,
		ReferenceTime: result.ReferenceTime,
		Rows:          result.Rows,
	})
}

// HandleRunStatus handles GET /v1/runs/{runID}.
func (h *Handler) HandleRunStatus(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "invalid_request", "run id must be a UUID")
		return
	}

	status, err := h.statuses.Get(runID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

type customerResponse struct {
	CustomerKey    int64      `json:"customer_key"`
	CustomerID     int64      `json:"customer_id"`
	CustomerNumber string     `json:"customer_number"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Gender         string     `json:"gender"`
	Birthdate      *time.Time `json:"birthdate,omitempty"`
	MaritalStatus  string     `json:"marital_status"`
	Country        string     `json:"country"`
	CreateDate     *time.Time `json:"create_date,omitempty"`
}

// HandleCustomers handles GET /v1/customers.
func (h *Handler) HandleCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.gold.Customers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, customerResponse{
			CustomerKey:    c.CustomerKey,
			CustomerID:     c.CustomerID,
			CustomerNumber: c.CustomerNumber,
			FirstName:      c.FirstName,
			LastName:       c.LastName,
			Gender:         c.Gender,
			Birthdate:      c.Birthdate,
			MaritalStatus:  c.MaritalStatus,
			Country:        c.Country,
			CreateDate:     c.CreateDate,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type productResponse struct {
	ProductKey      int64      `json:"product_key"`
	ProductID       int64      `json:"product_id"`
	ProductNumber   string     `json:"product_number"`
	ProductName     string     `json:"product_name"`
	CategoryID      string     `json:"category_id"`
	Category        string     `json:"category"`
	Subcategory     string     `json:"subcategory"`
	MaintenanceFlag string     `json:"maintenance_flag"`
	Cost            float64    `json:"cost"`
	Line            string     `json:"product_line"`
	StartDate       *time.Time `json:"start_date,omitempty"`
}

// HandleProducts handles GET /v1/products.
func (h *Handler) HandleProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.gold.Products(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productResponse{
			ProductKey:      p.ProductKey,
			ProductID:       p.ProductID,
			ProductNumber:   p.ProductNumber,
			ProductName:     p.ProductName,
			CategoryID:      p.CategoryID,
			Category:        p.Category,
			Subcategory:     p.Subcategory,
			MaintenanceFlag: p.MaintenanceFlag,
			Cost:            p.Cost,
			Line:            p.Line,
			StartDate:       p.StartDate,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type saleResponse struct {
	OrderNumber  string     `json:"order_number"`
	ProductKey   *int64     `json:"product_key"`
	CustomerKey  *int64     `json:"customer_key"`
	OrderDate    *time.Time `json:"order_date,omitempty"`
	ShippingDate *time.Time `json:"shipping_date,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	SalesAmount  float64    `json:"sales_amount"`
	Quantity     int64      `json:"quantity"`
	Price        *float64   `json:"price,omitempty"`
}

// HandleSales handles GET /v1/sales.
func (h *Handler) HandleSales(w http.ResponseWriter, r *http.Request) {
	facts, err := h.gold.Facts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]saleResponse, 0, len(facts))
	for _, f := range facts {
		out = append(out, saleResponse{
			OrderNumber:  f.OrderNumber,
			ProductKey:   f.ProductKey,
			CustomerKey:  f.CustomerKey,
			OrderDate:    f.OrderDate,
			ShippingDate: f.ShippingDate,
			DueDate:      f.DueDate,
			SalesAmount:  f.SalesAmount,
			Quantity:     f.Quantity,
			Price:        f.Price,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError translates sentinel errors into consistent JSON error envelopes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "internal"
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, sentinel.ErrConflict):
		status, code = http.StatusConflict, "conflict"
	case errors.Is(err, sentinel.ErrInvalidState):
		status, code = http.StatusUnprocessableEntity, "invalid_state"
	case errors.Is(err, sentinel.ErrUnavailable):
		status, code = http.StatusServiceUnavailable, "unavailable"
	}
	writeErrorStatus(w, status, code, "")
}

func writeErrorStatus(w http.ResponseWriter, status int, code, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]string{"error": code}
	if description != "" {
		body["error_description"] = description
	}
	_ = json.NewEncoder(w).Encode(body)
}
