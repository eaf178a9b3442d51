package gateway

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	domainErrors "github.com/melodix/billing/internal/domain/errors"
	"github.com/google/uuid"
)

// MockGateway is an in-memory gateway used in development and tests.
// Sessions start unpaid; MarkPaid simulates the customer completing
// checkout.
type MockGateway struct {
	mu          sync.Mutex
	sessions    map[string]*CheckoutSession
	failureRate float64
	latency     time.Duration
}

type MockGatewayOption func(*MockGateway)

func WithFailureRate(rate float64) MockGatewayOption {
	return func(g *MockGateway) { g.failureRate = rate }
}

func WithLatency(d time.Duration) MockGatewayOption {
	return func(g *MockGateway) { g.latency = d }
}

func NewMockGateway(opts ...MockGatewayOption) *MockGateway {
	g := &MockGateway{
		sessions: make(map[string]*CheckoutSession),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

func (g *MockGateway) CreateSession(ctx context.Context, params CreateSessionParams) (*CheckoutSession, error) {
	if err := g.simulate(ctx); err != nil {
		return nil, err
	}

	var total int64
	var currency string
	for _, item := range params.LineItems {
		total += item.AmountCents * int64(item.Quantity)
		currency = item.Currency
	}

	session := &CheckoutSession{
		ID:            fmt.Sprintf("sess_%s", uuid.New().String()[:8]),
		PaymentStatus: StatusUnpaid,
		CustomerEmail: params.CustomerEmail,
		AmountCents:   total,
		Currency:      currency,
	}
	session.URL = fmt.Sprintf("https://checkout.mock.melodix.app/%s", session.ID)

	g.mu.Lock()
	g.sessions[session.ID] = session
	g.mu.Unlock()

	return session, nil
}

func (g *MockGateway) GetSession(ctx context.Context, id string) (*CheckoutSession, error) {
	if err := g.simulate(ctx); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	session, ok := g.sessions[id]
	if !ok {
		return nil, domainErrors.ErrSessionNotFound
	}
	copy := *session
	return &copy, nil
}

// MarkPaid flips a session to paid, as the real gateway would after the
// customer completes checkout.
func (g *MockGateway) MarkPaid(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	session, ok := g.sessions[id]
	if !ok {
		return domainErrors.ErrSessionNotFound
	}
	session.PaymentStatus = StatusPaid
	return nil
}

func (g *MockGateway) simulate(ctx context.Context) error {
	if g.latency > 0 {
		select {
		case <-time.After(g.latency):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if g.failureRate > 0 && rand.Float64() < g.failureRate {
		return domainErrors.ErrGatewayUnavailable
	}
	return nil
}
