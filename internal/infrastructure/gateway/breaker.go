package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainErrors "github.com/melodix/billing/internal/domain/errors"
	"github.com/sony/gobreaker/v2"
)

// BreakerSettings configures the circuit breaker around gateway calls.
type BreakerSettings struct {
	Threshold uint32
	Timeout   time.Duration
}

// WithBreaker wraps a Gateway in a circuit breaker. When the breaker is
// open, calls fail fast with ErrGatewayUnavailable instead of piling up
// against an unhealthy provider.
func WithBreaker(inner Gateway, settings BreakerSettings) Gateway {
	threshold := settings.Threshold
	if threshold == 0 {
		threshold = 10
	}

	cb := gobreaker.NewCircuitBreaker[*CheckoutSession](gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= threshold && failureRatio >= 0.6
		},
	})

	return &breakerGateway{inner: inner, cb: cb}
}

type breakerGateway struct {
	inner Gateway
	cb    *gobreaker.CircuitBreaker[*CheckoutSession]
}

func (g *breakerGateway) CreateSession(ctx context.Context, params CreateSessionParams) (*CheckoutSession, error) {
	return g.execute(func() (*CheckoutSession, error) {
		return g.inner.CreateSession(ctx, params)
	})
}

func (g *breakerGateway) GetSession(ctx context.Context, id string) (*CheckoutSession, error) {
	return g.execute(func() (*CheckoutSession, error) {
		return g.inner.GetSession(ctx, id)
	})
}

func (g *breakerGateway) execute(fn func() (*CheckoutSession, error)) (*CheckoutSession, error) {
	session, err := g.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: circuit breaker open", domainErrors.ErrGatewayUnavailable)
		}
		return nil, err
	}
	return session, nil
}
