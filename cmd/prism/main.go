// Command prism runs the consolidation pipeline service: an HTTP API that
// triggers full staging-to-gold passes and serves the assembled model.
// With -once it executes a single pass and exits, for cron-style scheduling.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"

	"prism/internal/dimension"
	"prism/internal/pipeline"
	"prism/internal/pipeline/events"
	"prism/internal/platform/config"
	"prism/internal/platform/httpserver"
	"prism/internal/platform/logger"
	"prism/internal/platform/metrics"
	"prism/internal/platform/postgres"
	"prism/internal/platform/redis"
	"prism/internal/report"
	"prism/internal/silver"
	"prism/internal/staging"
	httptransport "prism/internal/transport/http"
)

func main() {
	once := flag.Bool("once", false, "run one pipeline pass and exit")
	flag.Parse()

	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("connect postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Error("ensure schema", "error", err)
		os.Exit(1)
	}

	cache, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if cache != nil {
		defer cache.Close()
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := events.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		defer kafka.Close()
		publisher = kafka
	}

	goldStore := dimension.NewPostgres(db)
	runner, err := pipeline.New(
		staging.NewPostgres(db),
		silver.NewPostgres(db),
		goldStore,
		dimension.NewAssembler(cfg.SourcePrecedence),
		pipeline.WithLogger(log),
		pipeline.WithEvents(publisher),
		pipeline.WithMetrics(metrics.New()),
	)
	if err != nil {
		log.Error("build pipeline", "error", err)
		os.Exit(1)
	}

	if *once {
		result, err := runner.Run(ctx)
		if err != nil {
			log.Error("pipeline pass failed", "error", err)
			os.Exit(1)
		}
		log.Info("pipeline pass completed", "run_id", result.RunID, "rows", result.Rows)
		return
	}

	var reportClient *goredis.Client
	if cache != nil {
		reportClient = cache.Client
	}
	handler := httptransport.New(runner, runner.Status(), goldStore, report.NewCache(reportClient), log)
	router := httptransport.NewRouter(handler, []byte(cfg.JWTSigningKey), log)
	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting prism", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("prism stopped")
}
