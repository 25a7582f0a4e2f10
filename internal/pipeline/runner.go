// Package pipeline orchestrates the batch flow: staging snapshot, cleansing,
// deduplication, enrichment, silver replace, dimensional assembly, gold
// replace. Stages run in a hard dependency chain; within the cleansing stage
// the per-entity normalizers run in parallel because they write disjoint
// output. The run's reference time is pinned once before any stage starts.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"prism/internal/cleanse"
	"prism/internal/dedupe"
	"prism/internal/dimension"
	"prism/internal/enrich"
	"prism/internal/pipeline/events"
	"prism/internal/platform/metrics"
	"prism/internal/silver"
	"prism/internal/staging"
	"prism/pkg/runcontext"
)

// Runner executes full pipeline passes.
type Runner struct {
	staging   staging.Store
	silver    silver.Store
	gold      dimension.Store
	assembler *dimension.Assembler
	registry  *StatusRegistry

	logger  *slog.Logger
	events  events.Publisher
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// Option configures the Runner.
type Option func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithEvents sets the run lifecycle event publisher.
func WithEvents(publisher events.Publisher) Option {
	return func(r *Runner) { r.events = publisher }
}

// WithMetrics sets the Prometheus metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// New constructs a Runner over the three layer stores.
func New(stagingStore staging.Store, silverStore silver.Store, goldStore dimension.Store, assembler *dimension.Assembler, opts ...Option) (*Runner, error) {
	if stagingStore == nil || silverStore == nil || goldStore == nil {
		return nil, fmt.Errorf("staging, silver and gold stores are required")
	}
	if assembler == nil {
		return nil, fmt.Errorf("assembler is required")
	}

	r := &Runner{
		staging:   stagingStore,
		silver:    silverStore,
		gold:      goldStore,
		assembler: assembler,
		registry:  NewStatusRegistry(),
		logger:    slog.Default(),
		events:    events.NopPublisher{},
		tracer:    otel.Tracer("prism/pipeline"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Status exposes the run status registry.
func (r *Runner) Status() *StatusRegistry {
	return r.registry
}

// Result summarizes a completed run.
type Result struct {
	RunID         uuid.UUID
	ReferenceTime time.Time
	Rows          map[string]int
}

// Run executes one full pass with the reference time pinned to the current
// wall clock.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	return r.RunAt(ctx, time.Now().UTC())
}

// RunAt executes one full pass with the given pinned reference time. Running
// twice over unchanged staging input with the same reference time produces
// identical silver and gold output.
func (r *Runner) RunAt(ctx context.Context, referenceTime time.Time) (*Result, error) {
	runID := uuid.New()
	ctx = runcontext.WithRunID(ctx, runID)
	ctx = runcontext.WithTime(ctx, referenceTime)

	startedAt := time.Now()
	r.registry.start(RunStatus{
		RunID:         runID,
		State:         StateRunning,
		ReferenceTime: referenceTime,
		StartedAt:     startedAt,
	})
	r.events.Emit(ctx, events.RunEvent{RunID: runID, Status: events.StatusStarted, ReferenceTime: referenceTime})
	r.logger.InfoContext(ctx, "pipeline run started", "run_id", runID, "reference_time", referenceTime)

	rows, err := r.execute(ctx)
	finishedAt := time.Now()
	duration := finishedAt.Sub(startedAt)

	if err != nil {
		r.registry.finish(runID, StateFailed, finishedAt, rows, err)
		r.countRun("failure")
		r.events.Emit(ctx, events.RunEvent{
			RunID:         runID,
			Status:        events.StatusFailed,
			ReferenceTime: referenceTime,
			DurationMS:    duration.Milliseconds(),
			Error:         err.Error(),
		})
		r.logger.ErrorContext(ctx, "pipeline run failed", "run_id", runID, "error", err)
		return nil, err
	}

	r.registry.finish(runID, StateCompleted, finishedAt, rows, nil)
	r.countRun("success")
	r.events.Emit(ctx, events.RunEvent{
		RunID:         runID,
		Status:        events.StatusCompleted,
		ReferenceTime: referenceTime,
		DurationMS:    duration.Milliseconds(),
		Rows:          rows,
	})
	r.logger.InfoContext(ctx, "pipeline run completed",
		"run_id", runID,
		"duration_ms", duration.Milliseconds(),
		"fact_rows", rows["fact_sales"],
	)
	return &Result{RunID: runID, ReferenceTime: referenceTime, Rows: rows}, nil
}

func (r *Runner) execute(ctx context.Context) (map[string]int, error) {
	snap, err := stage(ctx, r, "staging.snapshot", func(ctx context.Context) (*staging.Snapshot, error) {
		return r.staging.Snapshot(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("read staging snapshot: %w", err)
	}
	r.countRead(snap)

	rep := r.reporter()

	// Per-entity cleansing writes disjoint outputs, so the six normalizers
	// run concurrently.
	var (
		customers    []cleanse.Customer
		products     []silver.Product
		sales        []cleanse.Sale
		demographics []silver.Demographic
		locations    []silver.Location
		categories   []silver.Category
	)
	if _, err = stage(ctx, r, "cleanse", func(ctx context.Context) (struct{}, error) {
		g, _ := errgroup.WithContext(ctx)
		g.Go(func() error { customers = cleanse.Customers(snap.Customers, rep); return nil })
		g.Go(func() error { products = cleanse.Products(snap.Products, rep); return nil })
		g.Go(func() error { sales = cleanse.Sales(snap.Sales, rep); return nil })
		g.Go(func() error { demographics = cleanse.Demographics(snap.Demographics, rep); return nil })
		g.Go(func() error { locations = cleanse.Locations(snap.Locations, rep); return nil })
		g.Go(func() error { categories = cleanse.Categories(snap.Categories, rep); return nil })
		return struct{}{}, g.Wait()
	}); err != nil {
		return nil, err
	}

	silverCustomers, err := stage(ctx, r, "dedupe", func(ctx context.Context) ([]silver.Customer, error) {
		unique := dedupe.Latest(customers,
			func(c cleanse.Customer) int64 { return c.CustomerID },
			func(c cleanse.Customer) *time.Time { return c.CreateDate },
			func(c cleanse.Customer) int64 { return c.Ordinal },
		)
		out := make([]silver.Customer, 0, len(unique))
		for _, c := range unique {
			out = append(out, c.Customer)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].CustomerID < out[j].CustomerID })
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	type enriched struct {
		products     []silver.Product
		sales        []silver.Sale
		demographics []silver.Demographic
	}
	enr, err := stage(ctx, r, "enrich", func(ctx context.Context) (enriched, error) {
		return enriched{
			products:     enrich.ProductValidity(products),
			sales:        enrich.Sales(sales, rep),
			demographics: enrich.Demographics(ctx, demographics, rep),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	if _, err = stage(ctx, r, "silver.replace", func(ctx context.Context) (struct{}, error) {
		if err := r.silver.ReplaceCustomers(ctx, silverCustomers); err != nil {
			return struct{}{}, err
		}
		if err := r.silver.ReplaceProducts(ctx, enr.products); err != nil {
			return struct{}{}, err
		}
		if err := r.silver.ReplaceSales(ctx, enr.sales); err != nil {
			return struct{}{}, err
		}
		if err := r.silver.ReplaceDemographics(ctx, enr.demographics); err != nil {
			return struct{}{}, err
		}
		if err := r.silver.ReplaceLocations(ctx, locations); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, r.silver.ReplaceCategories(ctx, categories)
	}); err != nil {
		return nil, fmt.Errorf("replace silver layer: %w", err)
	}

	type goldSet struct {
		customers []dimension.DimCustomer
		products  []dimension.DimProduct
		facts     []dimension.FactSale
	}
	assembled, err := stage(ctx, r, "assemble", func(ctx context.Context) (goldSet, error) {
		// Assembly reads the silver store it just replaced: the gold layer
		// is derived from the conformed contract, not from stage-local state.
		sc, err := r.silver.Customers(ctx)
		if err != nil {
			return goldSet{}, err
		}
		sp, err := r.silver.Products(ctx)
		if err != nil {
			return goldSet{}, err
		}
		ss, err := r.silver.Sales(ctx)
		if err != nil {
			return goldSet{}, err
		}
		sd, err := r.silver.Demographics(ctx)
		if err != nil {
			return goldSet{}, err
		}
		sl, err := r.silver.Locations(ctx)
		if err != nil {
			return goldSet{}, err
		}
		scat, err := r.silver.Categories(ctx)
		if err != nil {
			return goldSet{}, err
		}

		dimCustomers := r.assembler.Customers(sc, sd, sl)
		dimProducts := r.assembler.Products(sp, scat)
		facts := r.assembler.Facts(ss, dimCustomers, dimProducts)
		return goldSet{customers: dimCustomers, products: dimProducts, facts: facts}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("assemble dimensions: %w", err)
	}

	if _, err = stage(ctx, r, "gold.replace", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.gold.Replace(ctx, assembled.customers, assembled.products, assembled.facts)
	}); err != nil {
		return nil, fmt.Errorf("replace gold layer: %w", err)
	}

	rows := map[string]int{
		"silver_customers": len(silverCustomers),
		"silver_products":  len(enr.products),
		"silver_sales":     len(enr.sales),
		"dim_customers":    len(assembled.customers),
		"dim_products":     len(assembled.products),
		"fact_sales":       len(assembled.facts),
	}
	r.countWritten(rows)
	return rows, nil
}

// stage wraps one pipeline step in a trace span and a duration metric.
func stage[T any](ctx context.Context, r *Runner, name string, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := r.tracer.Start(ctx, name)
	defer span.End()

	start := time.Now()
	out, err := fn(ctx)
	if r.metrics != nil {
		r.metrics.StageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}
	return out, err
}

func (r *Runner) reporter() cleanse.Reporter {
	if r.metrics == nil {
		return cleanse.NopReporter{}
	}
	return metricsReporter{m: r.metrics}
}

func (r *Runner) countRun(outcome string) {
	if r.metrics != nil {
		r.metrics.RunsTotal.WithLabelValues(outcome).Inc()
	}
}

func (r *Runner) countRead(snap *staging.Snapshot) {
	if r.metrics == nil {
		return
	}
	r.metrics.RowsRead.WithLabelValues("customer").Add(float64(len(snap.Customers)))
	r.metrics.RowsRead.WithLabelValues("product").Add(float64(len(snap.Products)))
	r.metrics.RowsRead.WithLabelValues("sales").Add(float64(len(snap.Sales)))
	r.metrics.RowsRead.WithLabelValues("demographic").Add(float64(len(snap.Demographics)))
	r.metrics.RowsRead.WithLabelValues("location").Add(float64(len(snap.Locations)))
	r.metrics.RowsRead.WithLabelValues("category").Add(float64(len(snap.Categories)))
}

func (r *Runner) countWritten(rows map[string]int) {
	if r.metrics == nil {
		return
	}
	for table, n := range rows {
		r.metrics.RowsWritten.WithLabelValues(table).Add(float64(n))
	}
}

// metricsReporter surfaces cleansing and enrichment repair counts as
// Prometheus counters.
type metricsReporter struct {
	m *metrics.Metrics
}

func (r metricsReporter) Repaired(entity, reason string, n int) {
	r.m.ValuesRepaired.WithLabelValues(entity, reason).Add(float64(n))
}

func (r metricsReporter) Dropped(entity, reason string, n int) {
	r.m.RowsDropped.WithLabelValues(entity, reason).Add(float64(n))
}
