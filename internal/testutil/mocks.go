package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/melodix/billing/internal/domain/errors"
	"github.com/melodix/billing/internal/domain/outbox"
	"github.com/melodix/billing/internal/domain/subscription"
	"github.com/google/uuid"
)

// --- Plan Repository Mock ---

// MockPlanRepository is an in-memory implementation of subscription.PlanRepository.
type MockPlanRepository struct {
	mu    sync.Mutex
	plans map[uuid.UUID]*subscription.Plan

	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (*subscription.Plan, error)
	ListActiveFunc func(ctx context.Context) ([]*subscription.Plan, error)
}

func NewMockPlanRepository() *MockPlanRepository {
	return &MockPlanRepository{plans: make(map[uuid.UUID]*subscription.Plan)}
}

func (m *MockPlanRepository) AddPlan(p *subscription.Plan) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[p.ID] = p
}

func (m *MockPlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*subscription.Plan, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok {
		return nil, domainErrors.ErrPlanNotFound
	}
	return p, nil
}

func (m *MockPlanRepository) ListActive(ctx context.Context) ([]*subscription.Plan, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var plans []*subscription.Plan
	for _, p := range m.plans {
		if p.IsActive {
			plans = append(plans, p)
		}
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].PriceCents < plans[j].PriceCents })
	return plans, nil
}

// --- Subscription Repository Mock ---

// MockSubscriptionRepository is an in-memory implementation of subscription.Repository.
type MockSubscriptionRepository struct {
	mu          sync.Mutex
	byID        map[uuid.UUID]*subscription.UserSubscription
	byReference map[string]*subscription.UserSubscription

	CreateFunc                func(ctx context.Context, sub *subscription.UserSubscription) error
	GetByPaymentReferenceFunc func(ctx context.Context, reference string) (*subscription.UserSubscription, error)
	HasActiveSubscriptionFunc func(ctx context.Context, userID uuid.UUID) (bool, error)
	SetVerifiedFunc           func(ctx context.Context, id uuid.UUID) error
}

func NewMockSubscriptionRepository() *MockSubscriptionRepository {
	return &MockSubscriptionRepository{
		byID:        make(map[uuid.UUID]*subscription.UserSubscription),
		byReference: make(map[string]*subscription.UserSubscription),
	}
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, sub *subscription.UserSubscription) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, sub)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *sub
	m.byID[sub.ID] = &clone
	m.byReference[sub.PaymentReference] = &clone
	return nil
}

func (m *MockSubscriptionRepository) GetByPaymentReference(ctx context.Context, reference string) (*subscription.UserSubscription, error) {
	if m.GetByPaymentReferenceFunc != nil {
		return m.GetByPaymentReferenceFunc(ctx, reference)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.byReference[reference]
	if !ok {
		return nil, domainErrors.ErrSubscriptionNotFound
	}
	clone := *sub
	return &clone, nil
}

func (m *MockSubscriptionRepository) HasActiveSubscription(ctx context.Context, userID uuid.UUID) (bool, error) {
	if m.HasActiveSubscriptionFunc != nil {
		return m.HasActiveSubscriptionFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for _, sub := range m.byID {
		if sub.UserID == userID && sub.Active(now) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockSubscriptionRepository) SetVerified(ctx context.Context, id uuid.UUID) error {
	if m.SetVerifiedFunc != nil {
		return m.SetVerifiedFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.byID[id]
	if !ok {
		return domainErrors.ErrSubscriptionNotFound
	}
	sub.IsVerified = true
	return nil
}

// GetByID returns the stored subscription for assertions.
func (m *MockSubscriptionRepository) GetByID(id uuid.UUID) *subscription.UserSubscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id]
}

// --- Outbox Repository Mock ---

// MockOutboxRepository is an in-memory implementation of outbox.Repository.
type MockOutboxRepository struct {
	mu       sync.Mutex
	messages []*outbox.Message

	AppendFunc func(ctx context.Context, msg *outbox.Message) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Append(ctx context.Context, msg *outbox.Message) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *msg
	m.messages = append(m.messages, &clone)
	return nil
}

func (m *MockOutboxRepository) FetchPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var pending []*outbox.Message
	for _, msg := range m.messages {
		if msg.Pending() {
			pending = append(pending, msg)
		}
		if len(pending) == limit {
			break
		}
	}
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].OccurredAt.Before(pending[j].OccurredAt) })
	return pending, nil
}

func (m *MockOutboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if msg.ID == id && msg.ProcessedAt == nil {
			now := time.Now()
			msg.ProcessedAt = &now
		}
	}
	return nil
}

func (m *MockOutboxRepository) RecordFailure(ctx context.Context, id uuid.UUID, dispatchErr string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if msg.ID == id && msg.ProcessedAt == nil {
			msg.AttemptCount++
			msg.LastError = &dispatchErr
		}
	}
	return nil
}

// Messages returns a snapshot of everything appended, for assertions.
func (m *MockOutboxRepository) Messages() []*outbox.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*outbox.Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// --- Transaction Manager Mock ---

// MockTransactionManager executes the callback directly; the mock
// repositories have no transactional state to manage.
type MockTransactionManager struct {
	WithTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.WithTransactionFunc != nil {
		return m.WithTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

// --- Publisher / Mailer Mocks ---

// PublishedEvent records one broker publish.
type PublishedEvent struct {
	RoutingKey string
	Payload    []byte
}

// MockPublisher records published events.
type MockPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent

	PublishErr error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(routingKey string, payload []byte) error {
	if m.PublishErr != nil {
		return m.PublishErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, PublishedEvent{RoutingKey: routingKey, Payload: payload})
	return nil
}

func (m *MockPublisher) Events() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedEvent, len(m.events))
	copy(out, m.events)
	return out
}

// SentEmail records one email handoff.
type SentEmail struct {
	To      string
	Subject string
	Body    string
}

// MockMailer records sent emails.
type MockMailer struct {
	mu     sync.Mutex
	emails []SentEmail

	SendErr error
}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(to, subject, body string) error {
	if m.SendErr != nil {
		return m.SendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emails = append(m.emails, SentEmail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *MockMailer) Emails() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentEmail, len(m.emails))
	copy(out, m.emails)
	return out
}
