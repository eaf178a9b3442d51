package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	applicationOutbox "github.com/melodix/billing/internal/application/outbox"
	"github.com/melodix/billing/internal/bootstrap"
	"github.com/melodix/billing/internal/infrastructure/email"
	"github.com/melodix/billing/internal/infrastructure/kafka"
	"github.com/melodix/billing/internal/repository/postgres"

	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, "billing-worker", "billing_worker")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	outboxRepo := postgres.NewOutboxRepository(app.Pool)
	txManager := postgres.NewTxManager(app.Pool)

	publisher, err := kafka.NewPublisher(&app.Config.Kafka)
	if err != nil {
		app.Logger.Fatal().Err(err).Msg("Failed to connect to Kafka")
	}
	defer publisher.Close()

	mailer := email.NewSMTPSender(&app.Config.Email)

	processor := applicationOutbox.NewProcessor(
		outboxRepo,
		txManager,
		publisher,
		mailer,
		app.Metrics,
		app.Logger,
		applicationOutbox.Config{
			BatchSize:    app.Config.Worker.BatchSize,
			PollInterval: app.Config.Worker.PollInterval,
			MaxAttempts:  app.Config.Worker.MaxAttempts,
		},
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Logger.Info().
			Int("batch_size", app.Config.Worker.BatchSize).
			Dur("poll_interval", app.Config.Worker.PollInterval).
			Msg("Outbox processor started")
		return processor.Run(gCtx)
	})

	g.Go(func() error {
		select {
		case <-gCtx.Done():
			return gCtx.Err()
		case <-quit:
			app.Logger.Info().Msg("Shutting down worker...")
			cancel()
			return nil
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		app.Logger.Error().Err(err).Msg("Worker error")
	}
	app.Logger.Info().Msg("Worker exited")
}
