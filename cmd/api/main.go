package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/BruksfildServices01/agenda-engine/internal/audit"
	"github.com/BruksfildServices01/agenda-engine/internal/config"
	dbpkg "github.com/BruksfildServices01/agenda-engine/internal/db"
	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/appointment"
	infraRepo "github.com/BruksfildServices01/agenda-engine/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-engine/internal/jobs"
	"github.com/BruksfildServices01/agenda-engine/internal/logging"
	"github.com/BruksfildServices01/agenda-engine/internal/metrics"
	"github.com/BruksfildServices01/agenda-engine/internal/notify"
	"github.com/BruksfildServices01/agenda-engine/internal/ratelimit"
	"github.com/BruksfildServices01/agenda-engine/internal/routes"
	"github.com/BruksfildServices01/agenda-engine/internal/runlock"
	ucAppointment "github.com/BruksfildServices01/agenda-engine/internal/usecase/appointment"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New("error", "console")
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// 🔧 INFRA
	// ======================================================
	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return err
	}
	if err := dbpkg.Migrate(db, cfg.DefaultTimezone); err != nil {
		return err
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)
	defer auditDispatcher.Close()

	var sender notify.Sender = notify.NewLogSender(log)
	if cfg.NotifyWebhookURL != "" {
		sender = notify.NewHTTPSender(cfg.NotifyWebhookURL, cfg.NotifyTimeout)
	}
	notifier := notify.NewDispatcher(infraRepo.NewDeliveryLedger(db), sender, m, log, cfg.NotifyTimeout)
	defer notifier.Close()

	publicLimiter, inboundLimiter, closeLimiters, err := newLimiters(cfg, log)
	if err != nil {
		return err
	}
	defer closeLimiters()

	open, closing, err := cfg.DefaultHours()
	if err != nil {
		return err
	}
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	hours := domain.NewWorkingHoursResolver(appointmentRepo, &domain.DefaultWindow{Open: open, Close: closing})

	// ======================================================
	// ⏱️ ROTINAS
	// ======================================================
	runner := jobs.NewRunner(
		runlock.New(infraRepo.NewRunLockRepository(db), cfg.RunLockTTL, log),
		ucAppointment.NewDispatchReminders(appointmentRepo, notifier, cfg.ReminderLead, cfg.DefaultTimezone, log),
		ucAppointment.NewCompleteElapsed(appointmentRepo, cfg.CompletionGrace, m),
		m,
		log,
	)

	// ======================================================
	// 🌐 HTTP
	// ======================================================
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		DB:             db,
		Config:         cfg,
		Log:            log,
		Metrics:        m,
		Audit:          auditDispatcher,
		Notifier:       notifier,
		Hours:          hours,
		Jobs:           runner,
		PublicLimiter:  publicLimiter,
		InboundLimiter: inboundLimiter,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.SchedulerEnabled {
		g.Go(func() error {
			log.Info().Dur("interval", cfg.SchedulerInterval).Msg("in-process scheduler enabled")
			return runner.Loop(gctx, cfg.SchedulerInterval)
		})
	}

	err = g.Wait()
	log.Info().Msg("server stopped")
	return err
}

// newLimiters shares counters through Redis when REDIS_URL is set and falls back to
// per-process token buckets otherwise.
func newLimiters(cfg *config.Config, log zerolog.Logger) (public, inbound ratelimit.Limiter, closeFn func(), err error) {
	if cfg.RedisURL == "" {
		log.Warn().Msg("REDIS_URL not set, rate limits are per process")
		return ratelimit.NewMemoryLimiter(cfg.InboundRateLimit*3, cfg.InboundRateWindow),
			ratelimit.NewMemoryLimiter(cfg.InboundRateLimit, cfg.InboundRateWindow),
			func() {},
			nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, err
	}
	rdb := redis.NewClient(opts)

	return ratelimit.NewRedisLimiter(rdb, cfg.InboundRateLimit*3, cfg.InboundRateWindow, "rl:public:"),
		ratelimit.NewRedisLimiter(rdb, cfg.InboundRateLimit, cfg.InboundRateWindow, "rl:inbound:"),
		func() {
			if err := rdb.Close(); err != nil {
				log.Warn().Err(err).Msg("redis close failed")
			}
		},
		nil
}
