package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domainErrors "github.com/melodix/billing/internal/domain/errors"
	"github.com/melodix/billing/internal/domain/outbox"
	"github.com/melodix/billing/internal/infrastructure/observability"
	"github.com/rs/zerolog"
)

// EventPublisher delivers a domain event to the message broker.
type EventPublisher interface {
	Publish(routingKey string, payload []byte) error
}

// EmailSender delivers a single email.
type EmailSender interface {
	Send(to, subject, body string) error
}

// TransactionManager scopes a poll-and-dispatch pass to one transaction so
// FetchPending's row locks hold until the bookkeeping commits.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Config holds processor tuning.
type Config struct {
	BatchSize    int
	PollInterval time.Duration
	// MaxAttempts caps dispatch retries per message; 0 retries forever.
	// The unlimited default means a permanently failing message occupies a
	// batch slot on every tick.
	MaxAttempts int
}

// Processor drains pending outbox rows on a fixed interval and dispatches
// each by kind. Delivery is at-least-once: a crash between dispatch and
// MarkProcessed re-delivers on the next tick.
type Processor struct {
	repo      outbox.Repository
	txManager TransactionManager
	publisher EventPublisher
	mailer    EmailSender
	metrics   *observability.Metrics
	logger    zerolog.Logger
	cfg       Config
}

// NewProcessor creates a new outbox processor.
func NewProcessor(
	repo outbox.Repository,
	txManager TransactionManager,
	publisher EventPublisher,
	mailer EmailSender,
	metrics *observability.Metrics,
	logger zerolog.Logger,
	cfg Config,
) *Processor {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	return &Processor{
		repo:      repo,
		txManager: txManager,
		publisher: publisher,
		mailer:    mailer,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// Run polls until ctx is cancelled. The in-flight tick finishes before Run
// returns, so shutdown never abandons half-recorded bookkeeping.
func (p *Processor) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if err := p.Tick(context.WithoutCancel(ctx)); err != nil {
			p.logger.Error().Err(err).Msg("Outbox tick failed")
		}
	}
}

// Tick runs one poll-and-dispatch pass. A message's dispatch failure is
// recorded against that message and never aborts the rest of the batch.
func (p *Processor) Tick(ctx context.Context) error {
	return p.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		messages, err := p.repo.FetchPending(txCtx, p.cfg.BatchSize)
		if err != nil {
			return err
		}
		p.metrics.OutboxPendingBatch.Set(float64(len(messages)))

		for _, msg := range messages {
			if p.cfg.MaxAttempts > 0 && msg.AttemptCount >= p.cfg.MaxAttempts {
				p.logger.Warn().
					Str("outbox_id", msg.ID.String()).
					Str("type", msg.Type).
					Int("attempts", msg.AttemptCount).
					Msg("Skipping message past max attempts")
				continue
			}

			start := time.Now()
			err := p.dispatch(msg)
			p.metrics.OutboxDispatchDuration.WithLabelValues(string(msg.Kind)).Observe(time.Since(start).Seconds())

			if err != nil {
				p.logger.Error().Err(err).
					Str("outbox_id", msg.ID.String()).
					Str("type", msg.Type).
					Msg("Failed to dispatch outbox message")
				p.metrics.OutboxDispatchTotal.WithLabelValues(string(msg.Kind), "failure").Inc()
				if err := p.repo.RecordFailure(txCtx, msg.ID, err.Error()); err != nil {
					return err
				}
				continue
			}

			p.metrics.OutboxDispatchTotal.WithLabelValues(string(msg.Kind), "success").Inc()
			if err := p.repo.MarkProcessed(txCtx, msg.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *Processor) dispatch(msg *outbox.Message) error {
	switch msg.Kind {
	case outbox.KindEmail:
		var payload outbox.EmailPayload
		if err := json.Unmarshal(msg.Content, &payload); err != nil {
			return fmt.Errorf("decode email payload: %w", err)
		}
		return p.mailer.Send(payload.To, payload.Subject, payload.Body)
	case outbox.KindEvent:
		return p.publisher.Publish(msg.Name(), msg.Content)
	default:
		return fmt.Errorf("%w: %q", domainErrors.ErrUnknownMessageKind, msg.Kind)
	}
}
