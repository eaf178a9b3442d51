package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	applicationSubscription "github.com/melodix/billing/internal/application/subscription"
	"github.com/melodix/billing/internal/bootstrap"
	"github.com/melodix/billing/internal/controller"
	"github.com/melodix/billing/internal/infrastructure/gateway"
	infraRedis "github.com/melodix/billing/internal/infrastructure/redis"
	"github.com/melodix/billing/internal/repository/postgres"
)

// redisLocker adapts the Redis lock service to the application Locker port.
type redisLocker struct {
	svc *infraRedis.LockService
}

func (l *redisLocker) Acquire(ctx context.Context, resource string, ttl time.Duration) (applicationSubscription.Lease, error) {
	lock, err := l.svc.Acquire(ctx, resource, ttl)
	if err != nil {
		return nil, err
	}
	return lock, nil
}

func main() {
	ctx := context.Background()

	app, err := bootstrap.New(ctx, "billing-api", "billing")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// --- Repositories ---
	planRepo := postgres.NewPlanRepository(app.Pool)
	subRepo := postgres.NewSubscriptionRepository(app.Pool)
	outboxRepo := postgres.NewOutboxRepository(app.Pool)
	txManager := postgres.NewTxManager(app.Pool)

	// --- Infrastructure ---
	locker := &redisLocker{svc: infraRedis.NewLockService(app.Redis)}
	gw := gateway.WithBreaker(gateway.NewMockGateway(), gateway.BreakerSettings{
		Threshold: app.Config.Gateway.CircuitBreakerThreshold,
		Timeout:   app.Config.Gateway.CircuitBreakerTimeout,
	})

	// --- Use cases ---
	subscribeUC := applicationSubscription.NewSubscribeUseCase(
		planRepo,
		subRepo,
		gw,
		app.Config.Gateway.SuccessPath,
		app.Config.Gateway.CancelPath,
	)
	verifyUC := applicationSubscription.NewVerifyPaymentUseCase(
		gw,
		subRepo,
		outboxRepo,
		txManager,
		locker,
		app.Config.Verification.LockTTL,
	)
	listPlansUC := applicationSubscription.NewListPlansUseCase(planRepo)

	// --- Build router ---
	router := controller.NewRouter(controller.RouterDeps{
		Pool:          app.Pool,
		RedisClient:   app.Redis,
		SubscribeUC:   subscribeUC,
		VerifyUC:      verifyUC,
		ListPlansUC:   listPlansUC,
		Metrics:       app.Metrics,
		CORSConfig:    app.Config.Server.CORS,
		PublicBaseURL: app.Config.Server.PublicBaseURL,
	})

	// --- HTTP server ---
	addr := fmt.Sprintf(":%d", app.Config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
	}

	go func() {
		app.Logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Logger.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	app.Logger.Info().Msg("Server exited")
}
