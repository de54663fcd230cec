package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"voter-guides/internal/handler/http/respond"
	"voter-guides/internal/identity"
	pgRepo "voter-guides/internal/infra/adapter/persistence/postgres"
	"voter-guides/internal/infra/db"
	workerPkg "voter-guides/internal/infra/worker"
	"voter-guides/internal/observability/logging"
	"voter-guides/internal/observability/metrics"
	"voter-guides/internal/repository"
	"voter-guides/internal/resilience/circuitbreaker"
	"voter-guides/internal/timespan"
	guideUC "voter-guides/internal/usecase/guide"
	appcfg "voter-guides/pkg/config"
)

// waitForMigrations blocks until the voter_guides table is queryable. The API
// binary owns schema migrations; the worker only waits for them. Probing goes
// through the circuit breaker so a dead database trips it early instead of
// during the first sweep.
func waitForMigrations(logger *slog.Logger, breaker *circuitbreaker.DBCircuitBreaker) {
	const probe = "SELECT 1 FROM voter_guides LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := breaker.ExecContext(context.Background(), probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

func main() {
	_ = godotenv.Load()

	logger := logging.NewLogger()

	database, err := db.Open()
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	dbBreaker := circuitbreaker.NewDBCircuitBreaker(database)
	waitForMigrations(logger, dbBreaker)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	workerMetrics := workerPkg.NewWorkerMetrics()
	workerMetrics.MustRegister()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Int("sweep_max_concurrent", workerConfig.SweepMaxConcurrent),
		slog.Duration("sweep_timeout", workerConfig.SweepTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	startMetricsServer(ctx, logger)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	guides, svc := setupGuideService(logger, database)

	startCronWorker(ctx, logger, guides, svc, workerConfig, workerMetrics, healthServer)
}

// setupGuideService wires the postgres repositories into the guide service
// used by the sweep.
func setupGuideService(logger *slog.Logger, database *sql.DB) (repository.VoterGuideRepository, *guideUC.Service) {
	guides := pgRepo.NewVoterGuideRepo(database)
	orgs := pgRepo.NewOrganizationRepo(database)
	elections := pgRepo.NewElectionRepo(database)
	sequences := pgRepo.NewSequenceRepo(database)

	sitePrefix := appcfg.GetEnvString("WE_VOTE_SITE_PREFIX", "02")
	ids := identity.NewGenerator(sitePrefix, sequences)

	svc := guideUC.NewService(guides, orgs, elections, timespan.DefaultCatalog(), ids, logger)
	return guides, svc
}

// startCronWorker schedules the nightly maintenance sweep and blocks until
// the context is cancelled.
func startCronWorker(
	ctx context.Context,
	logger *slog.Logger,
	guides repository.VoterGuideRepository,
	svc *guideUC.Service,
	cfg *workerPkg.WorkerConfig,
	workerMetrics *workerPkg.WorkerMetrics,
	healthServer *workerPkg.HealthServer,
) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	sweepBreaker := circuitbreaker.New(circuitbreaker.SweepConfig())

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runSweep(logger, guides, svc, sweepBreaker, cfg, workerMetrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))

	<-ctx.Done()
	logger.Info("worker shutting down")
	<-c.Stop().Done()
}

// runSweep executes one maintenance sweep in two phases: every guide gets
// its cached owner fields backfilled, then each distinct owning organization
// gets its follower count pushed onto its most recent guide. A guide or
// organization that fails is logged and skipped; the sweep keeps going.
func runSweep(
	logger *slog.Logger,
	guides repository.VoterGuideRepository,
	svc *guideUC.Service,
	breaker *circuitbreaker.CircuitBreaker,
	cfg *workerPkg.WorkerConfig,
	workerMetrics *workerPkg.WorkerMetrics,
) {
	startTime := time.Now()
	workerMetrics.RecordSweepRun("started")
	logger.Info("maintenance sweep started")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.SweepTimeout)
	defer cancel()

	all, err := guides.ListAll(ctx, repository.OrderByFollowersDesc)
	if err != nil {
		logger.Error("sweep failed to list guides", slog.String("error", respond.SanitizeError(err)))
		workerMetrics.RecordSweepRun("failure")
		workerMetrics.RecordSweepDuration(time.Since(startTime).Seconds())
		return
	}

	var processed, refreshed, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.SweepMaxConcurrent)

	for _, guide := range all {
		g.Go(func() error {
			_, err := breaker.Execute(func() (interface{}, error) {
				refresh := svc.RefreshCachedFields(gctx, guide)
				if refresh.Status == guideUC.StatusStorageFailure {
					return nil, fmt.Errorf("refresh cached fields for %s", guide.WeVoteID)
				}
				if refresh.Status == guideUC.StatusSavedTwitterDetails {
					refreshed.Add(1)
					metrics.RecordGuideRefreshed("refreshed")
				} else {
					metrics.RecordGuideRefreshed("unchanged")
				}
				return nil, nil
			})
			if err != nil {
				failed.Add(1)
				metrics.RecordGuideRefreshed("failed")
				logger.Warn("sweep skipped guide",
					slog.String("voter_guide_we_vote_id", guide.WeVoteID),
					slog.String("error", respond.SanitizeError(err)))
			}
			processed.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	// Social statistics run once per organization; the most recent guide is
	// resolved inside the service, so touching it per guide would rewrite the
	// same row over and over.
	orgIDs := make(map[string]struct{})
	for _, guide := range all {
		if guide.OrganizationWeVoteID != "" {
			orgIDs[guide.OrganizationWeVoteID] = struct{}{}
		}
	}

	sg, sctx := errgroup.WithContext(ctx)
	sg.SetLimit(cfg.SweepMaxConcurrent)

	for orgID := range orgIDs {
		sg.Go(func() error {
			_, err := breaker.Execute(func() (interface{}, error) {
				social := svc.UpdateSocialStatistics(sctx, orgID)
				if social.Status == guideUC.StatusStorageFailure {
					return nil, fmt.Errorf("update social statistics for %s", orgID)
				}
				if social.Status == guideUC.StatusSavedTwitterDetails {
					refreshed.Add(1)
				}
				return nil, nil
			})
			if err != nil {
				failed.Add(1)
				logger.Warn("sweep skipped organization",
					slog.String("organization_we_vote_id", orgID),
					slog.String("error", respond.SanitizeError(err)))
			}
			return nil
		})
	}
	_ = sg.Wait()

	if total, err := guides.CountGuides(ctx); err == nil {
		metrics.UpdateVoterGuidesTotal(total)
	}

	duration := time.Since(startTime)
	workerMetrics.RecordSweepRun("success")
	workerMetrics.RecordSweepDuration(duration.Seconds())
	workerMetrics.RecordGuidesProcessed(int(processed.Load()))
	workerMetrics.RecordLastSuccess()
	metrics.RecordRefreshSweep(duration)

	logger.Info("maintenance sweep completed",
		slog.Int64("processed", processed.Load()),
		slog.Int64("refreshed", refreshed.Load()),
		slog.Int64("failed", failed.Load()),
		slog.Int("organizations", len(orgIDs)),
		slog.Duration("duration", duration))
}
