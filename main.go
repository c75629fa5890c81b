package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"

	"github.com/vgandi/cyber-portfolio/internal/config"
	"github.com/vgandi/cyber-portfolio/internal/content"
	"github.com/vgandi/cyber-portfolio/internal/motion"
	"github.com/vgandi/cyber-portfolio/internal/page"
	"github.com/vgandi/cyber-portfolio/internal/site"
	"github.com/vgandi/cyber-portfolio/internal/visitors"
	"github.com/vgandi/cyber-portfolio/pkg/logger"
	"github.com/vgandi/cyber-portfolio/pkg/metrics"
)

const (
	shutdownTimeout = 10 * time.Second
	cleanupInterval = 24 * time.Hour
	trackerQueue    = 256
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		_ = logger.Init()
		logger.Get().Error(ctx, "failed to load config", logger.Error(err))
		return err
	}
	if err := logger.InitWriter(os.Stdout, cfg.LogJSON); err != nil {
		return err
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "unknown log level, keeping info", logger.String("level", cfg.LogLevel))
	}
	gin.SetMode(cfg.GinMode)

	portfolio, err := content.Load(cfg.ContentPath)
	if err != nil {
		log.Error(ctx, "failed to load content", logger.String("path", cfg.ContentPath), logger.Error(err))
		return err
	}

	m := metrics.NewManager(metrics.WithRuntimeCollectors())

	store, err := visitors.Open(cfg.DBPath)
	if err != nil {
		log.Error(ctx, "failed to open visitor database", logger.String("path", cfg.DBPath), logger.Error(err))
		return err
	}
	defer store.Close()
	log.Info(ctx, "privacy: visitor tracking enabled with hashed IP addresses")

	tracker := visitors.NewTracker(store, trackerQueue, log.Named("visitors"), m)
	sessions := page.NewStore(portfolio, cfg.SessionTTL, page.Options{
		Clock: motion.SystemClock(),
		Loading: []motion.LoadingOption{
			motion.WithLoadingInterval(cfg.LoadingStepInterval),
			motion.WithLoadingStep(cfg.LoadingStep),
			motion.WithCompleteDelay(cfg.LoadingCompleteDelay),
			motion.WithMessageInterval(cfg.LoadingMessageInterval),
		},
		Typewriter: []motion.TypewriterOption{
			motion.WithTypeInterval(cfg.TypeInterval),
			motion.WithDeleteInterval(cfg.DeleteInterval),
			motion.WithTypePause(cfg.TypePause),
		},
		Counter: []motion.CounterOption{
			motion.WithCounterDuration(cfg.CounterDuration),
			motion.WithFrameInterval(cfg.FrameInterval),
		},
		Logger:         log.Named("page"),
		Metrics:        m,
		ReconnectGrace: cfg.SessionGrace,
		MaxSessions:    cfg.MaxSessions,
	})

	srv, err := site.New(site.Deps{
		Config:    cfg,
		Portfolio: portfolio,
		Sessions:  sessions,
		Visitors:  store,
		Tracker:   tracker,
		Metrics:   m,
		Logger:    log.Named("http"),
	})
	if err != nil {
		log.Error(ctx, "failed to build router", logger.Error(err))
		return err
	}
	if cfg.AdminPassword == "" {
		log.Warn(ctx, "admin login disabled, set PORTFOLIO_ADMIN_PASSWORD to enable /admin")
	} else {
		log.Info(ctx, "admin access available at /admin/login")
	}

	// Background workers stop after the HTTP server has drained.
	bgCtx, cancelBg := context.WithCancel(context.Background())
	background := make(chan struct{}, 3)
	go func() { sessions.Run(bgCtx); background <- struct{}{} }()
	go func() { tracker.Run(bgCtx); background <- struct{}{} }()
	go func() {
		visitors.Janitor(bgCtx, store, cfg.VisitorRetention, cleanupInterval, log.Named("visitors"))
		background <- struct{}{}
	}()

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "portfolio listening", logger.String("addr", cfg.Addr))
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info(ctx, "shutting down")
	case err = <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "server failed", logger.Error(err))
		}
	}

	// Closing the sessions ends the event streams, which Shutdown waits for.
	sessions.CloseAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "graceful shutdown failed", logger.Error(err))
	}

	cancelBg()
	for i := 0; i < 3; i++ {
		<-background
	}
	log.Info(context.Background(), "stopped")

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
