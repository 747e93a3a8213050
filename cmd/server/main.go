package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/trade-tally/config"
	"github.com/ErlanBelekov/trade-tally/internal/health"
	"github.com/ErlanBelekov/trade-tally/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/trade-tally/internal/log"
	"github.com/ErlanBelekov/trade-tally/internal/metrics"
	"github.com/ErlanBelekov/trade-tally/internal/notify"
	"github.com/ErlanBelekov/trade-tally/internal/password"
	"github.com/ErlanBelekov/trade-tally/internal/stats"
	"github.com/ErlanBelekov/trade-tally/internal/token"
	httptransport "github.com/ErlanBelekov/trade-tally/internal/transport/http"
	"github.com/ErlanBelekov/trade-tally/internal/transport/http/handler"
	"github.com/ErlanBelekov/trade-tally/internal/usecase"
	"github.com/ErlanBelekov/trade-tally/migrations"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err = migrations.Migrate(ctx, pool); err != nil {
		stop()
		pool.Close()
		log.Fatalf("migrate: %v", err)
	}

	tokens, err := token.NewService([]byte(cfg.JWTSecret), cfg.JWTExpiry.Std())
	if err != nil {
		stop()
		pool.Close()
		log.Fatalf("token service: %v", err)
	}

	// Users
	userRepo := postgres.NewUserRepository(pool)
	authUsecase := usecase.NewAuthUsecase(userRepo, password.NewHasher(cfg.BcryptCost), tokens)
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	// Trades
	tradeRepo := postgres.NewTradeRepository(pool, logger)
	tradeUsecase := usecase.NewTradeUsecase(tradeRepo)
	tradeHandler := handler.NewTradeHandler(tradeUsecase, logger)

	// Invites
	smsSender, emailSender := notify.NewSenders(notify.Config{
		Env:              cfg.Env,
		TwilioAccountSID: cfg.TwilioAccountSID,
		TwilioAuthToken:  cfg.TwilioAuthToken,
		TwilioFrom:       cfg.TwilioFrom,
		ResendAPIKey:     cfg.ResendAPIKey,
		ResendFrom:       cfg.ResendFrom,
	}, logger)
	inviteUsecase := usecase.NewInviteUsecase(smsSender, emailSender, cfg.InviteLink)
	inviteHandler := handler.NewInviteHandler(inviteUsecase, logger)

	metrics.Register(prometheus.DefaultRegisterer)
	checker := health.NewChecker(logger, prometheus.DefaultRegisterer)
	checker.Register("postgres", health.PingCheck(pool))
	checker.Register("schema", migrations.SchemaCheck(pool))

	collector, err := stats.NewCollector(userRepo, tradeRepo, cfg.StatsCron, logger)
	if err != nil {
		stop()
		pool.Close()
		log.Fatalf("stats: %v", err)
	}
	go collector.Start(ctx)

	srv := http.Server{
		Addr: ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, httptransport.Handlers{
			Auth:   authHandler,
			Trade:  tradeHandler,
			Invite: inviteHandler,
		}, tokens),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
