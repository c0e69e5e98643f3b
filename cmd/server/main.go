package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tazhibayda/gist-tracker/internal/config"
	api "github.com/tazhibayda/gist-tracker/internal/http"
	applog "github.com/tazhibayda/gist-tracker/internal/log"
	"github.com/tazhibayda/gist-tracker/internal/metrics"
	"github.com/tazhibayda/gist-tracker/internal/queue"
	"github.com/tazhibayda/gist-tracker/internal/repo"
)

// @title Gist Tracker API
// @version 0.1.0
// @description Session-authenticated CRUD API for code snippets.
// @schemes http https
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		// config errors predate the zap logger
		log.Fatalf("config: %v", err)
	}

	logger, err := applog.Init(cfg.Production)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer applog.Sync()

	metrics.MustRegister()

	mgr := repo.NewManager(cfg)
	defer mgr.Close(context.Background())

	// warm up the store and create indexes; later requests reuse the
	// cached connection through the manager
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	store, err := mgr.Connect(ctx)
	cancel()
	if err != nil {
		logger.Fatal("store connect", zap.Error(err))
	}
	if err := store.EnsureIndexes(context.Background()); err != nil {
		logger.Fatal("ensure indexes", zap.Error(err))
	}

	// limiter stays a nil interface unless redis is actually reachable
	var limiter api.Limiter
	if cfg.RedisAddr != "" {
		rds := repo.NewRedis(cfg.RedisAddr)
		defer rds.Close()
		if err := rds.Ping(context.Background()); err != nil {
			logger.Warn("redis unreachable, rate limiting disabled", zap.Error(err))
		} else {
			limiter = rds
		}
	}

	pub := queue.NewNoop()
	if cfg.RabbitURL != "" {
		p, err := queue.NewRabbit(cfg.RabbitURL, queue.Exchange)
		if err != nil {
			logger.Warn("rabbit unreachable, events disabled", zap.Error(err))
		} else {
			pub = p
		}
	}
	defer pub.Close()

	h := api.NewHandler(mgr, cfg.JWTSecret, cfg.Production, limiter, cfg.RateLimitPerMin, pub)
	r := api.NewRouter(h)

	srvErr := make(chan error, 1)
	go func() { srvErr <- r.Run(":" + cfg.Port) }()

	logger.Info("gist-tracker listening", zap.String("port", cfg.Port))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("shutting down", zap.String("signal", s.String()))
	case err := <-srvErr:
		logger.Error("server error", zap.Error(err))
	}
}
