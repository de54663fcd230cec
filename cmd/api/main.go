package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"voter-guides/internal/identity"
	pgRepo "voter-guides/internal/infra/adapter/persistence/postgres"
	"voter-guides/internal/infra/db"
	"voter-guides/internal/observability/logging"
	"voter-guides/internal/timespan"
	appcfg "voter-guides/pkg/config"

	guideUC "voter-guides/internal/usecase/guide"
	guidelistUC "voter-guides/internal/usecase/guidelist"
	posUC "voter-guides/internal/usecase/possibility"

	hhttp "voter-guides/internal/handler/http"
	hguide "voter-guides/internal/handler/http/guide"
	hpos "voter-guides/internal/handler/http/possibility"
	"voter-guides/internal/handler/http/requestid"
)

func main() {
	_ = godotenv.Load()

	logger := logging.NewLogger()
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	version := getVersion()
	handler := setupServer(logger, database, version)

	runServer(logger, handler, version)
}

// initDatabase opens the database connection and runs migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database, err := db.Open()
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// setupServer wires the repositories and services into the HTTP handler with
// all routes and middleware.
func setupServer(logger *slog.Logger, database *sql.DB, version string) http.Handler {
	guides := pgRepo.NewVoterGuideRepo(database)
	orgs := pgRepo.NewOrganizationRepo(database)
	elections := pgRepo.NewElectionRepo(database)
	sequences := pgRepo.NewSequenceRepo(database)
	possibilities := pgRepo.NewPossibilityRepo(database)

	sitePrefix := appcfg.GetEnvString("WE_VOTE_SITE_PREFIX", "02")
	ids := identity.NewGenerator(sitePrefix, sequences)

	guideSvc := guideUC.NewService(guides, orgs, elections, timespan.DefaultCatalog(), ids, logger)
	listSvc := guidelistUC.NewService(guides, logger)
	posSvc := posUC.NewService(possibilities, logger)

	mux := http.NewServeMux()
	hguide.Register(mux, guideSvc, listSvc)
	hpos.Register(mux, posSvc)

	mux.Handle("/health", &hhttp.HealthHandler{DB: database, Version: version})
	mux.Handle("/ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("/live", &hhttp.LiveHandler{})
	mux.Handle("/metrics", hhttp.MetricsHandler())

	return applyMiddleware(logger, mux)
}

// applyMiddleware wraps the handler with the middleware chain. Order from
// outermost to innermost: Request ID, Rate Limit, Recovery, Logging, Body
// Limit, Metrics.
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	rps := appcfg.GetEnvInt("RATE_LIMIT_RPS", 50)
	burst := appcfg.GetEnvInt("RATE_LIMIT_BURST", 100)
	limiter := hhttp.NewRateLimiter(float64(rps), burst)
	logger.Info("rate limiting initialized",
		slog.Int("requests_per_second", rps),
		slog.Int("burst", burst))

	chain := handler
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.LimitRequestBody(1 << 20)(chain) // 1MB limit
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = limiter.Limit(chain)
	chain = requestid.Middleware(chain)

	return chain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, handler http.Handler, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := fmt.Sprintf(":%d", appcfg.GetEnvInt("PORT", 8080))

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
