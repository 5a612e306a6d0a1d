package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Cheertaboi/promo-code-service/internal/api"
	"github.com/Cheertaboi/promo-code-service/internal/config"
	"github.com/Cheertaboi/promo-code-service/internal/limiter"
	"github.com/Cheertaboi/promo-code-service/internal/logging"
	"github.com/Cheertaboi/promo-code-service/internal/metrics"
	"github.com/Cheertaboi/promo-code-service/internal/repository"
	"github.com/Cheertaboi/promo-code-service/internal/service"
	"github.com/Cheertaboi/promo-code-service/internal/sweeper"
	"github.com/Cheertaboi/promo-code-service/pkg/db"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config yaml")
	dev := flag.Bool("dev", false, "development mode (console logs)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.New("error", "json", *dev).Fatal().Err(err).Msg("load config")
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, *dev)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.NewPostgresConnection(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("db connect")
	}
	defer conn.Close()

	metrics.MustRegister()
	metrics.RegisterDBStats(conn)

	promoRepo := repository.NewPromoCodeRepo(conn)
	svc, err := service.NewPromoService(service.Config{
		Store:       promoRepo,
		SecurityLog: repository.NewSecurityLogRepo(conn),
		Redemptions: repository.NewRedemptionRepo(conn),
		Timeout:     cfg.Server.RequestTimeout,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("build promo service")
	}

	var lim limiter.Limiter = limiter.Unlimited{}
	switch {
	case cfg.Limiter.MaxAttempts <= 0:
		logger.Info().Msg("attempt limiter disabled")
	case cfg.Redis.Addr != "":
		rdb, err := limiter.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connect")
		}
		defer rdb.Close()
		lim = limiter.NewRedisLimiter(rdb, cfg.Limiter.MaxAttempts, cfg.Limiter.Window)
	default:
		lim = limiter.NewMemoryLimiter(cfg.Limiter.MaxAttempts, cfg.Limiter.Window)
	}

	if cfg.Sweeper.Interval > 0 {
		sw := sweeper.NewExpirySweeper(promoRepo, cfg.Sweeper.Interval, cfg.Sweeper.BatchSize, cfg.Sweeper.Workers, logger)
		go func() {
			if err := sw.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("expiry sweeper stopped")
			}
		}()
	}

	handler := api.NewRouter(api.Deps{
		Service:        svc,
		Limiter:        lim,
		Health:         promoRepo.Ping,
		Logger:         logger,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("HTTP server shutdown")
		}
		close(idleConnsClosed)
	}()

	logger.Info().Str("addr", cfg.Server.Addr).Msg("starting promo-service")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("listen")
	}

	<-idleConnsClosed
	logger.Info().Msg("server stopped")
}
