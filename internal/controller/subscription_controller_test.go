package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	applicationSubscription "github.com/melodix/billing/internal/application/subscription"
	"github.com/melodix/billing/internal/infrastructure/gateway"
	"github.com/melodix/billing/internal/infrastructure/observability"
	"github.com/melodix/billing/internal/testutil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLease struct{}

func (noopLease) Release(_ context.Context) error { return nil }

type noopLocker struct{}

func (noopLocker) Acquire(_ context.Context, _ string, _ time.Duration) (applicationSubscription.Lease, error) {
	return noopLease{}, nil
}

type controllerFixture struct {
	router   *chi.Mux
	gw       *gateway.MockGateway
	planRepo *testutil.MockPlanRepository
	subRepo  *testutil.MockSubscriptionRepository
	outbox   *testutil.MockOutboxRepository
}

func newControllerFixture(t *testing.T) *controllerFixture {
	t.Helper()

	planRepo := testutil.NewMockPlanRepository()
	subRepo := testutil.NewMockSubscriptionRepository()
	outboxRepo := testutil.NewMockOutboxRepository()
	gw := gateway.NewMockGateway()

	subscribeUC := applicationSubscription.NewSubscribeUseCase(
		planRepo, subRepo, gw, "/subscriptions/verify", "/subscriptions/cancelled",
	)
	verifyUC := applicationSubscription.NewVerifyPaymentUseCase(
		gw, subRepo, outboxRepo, testutil.NewMockTransactionManager(), noopLocker{}, 30*time.Second,
	)
	listPlansUC := applicationSubscription.NewListPlansUseCase(planRepo)

	metrics := observability.NewMetrics("billing_test", prometheus.NewRegistry())
	h := NewSubscriptionController(subscribeUC, verifyUC, listPlansUC, metrics, "http://localhost:8080")

	r := chi.NewRouter()
	r.Get("/api/v1/plans", h.ListPlans)
	r.Post("/api/v1/subscriptions/checkout", h.Checkout)
	r.Get("/api/v1/subscriptions/verify", h.Verify)

	return &controllerFixture{
		router:   r,
		gw:       gw,
		planRepo: planRepo,
		subRepo:  subRepo,
		outbox:   outboxRepo,
	}
}

func (f *controllerFixture) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestCheckout_Success(t *testing.T) {
	f := newControllerFixture(t)
	plan := testutil.NewTestPlan("Premium", 9_99)
	f.planRepo.AddPlan(plan)

	w := f.do(http.MethodPost, "/api/v1/subscriptions/checkout", CheckoutRequest{
		PlanID:        plan.ID.String(),
		UserID:        uuid.New().String(),
		CustomerEmail: "listener@example.com",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var resp CheckoutResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.NotEmpty(t, resp.CheckoutURL)
	assert.NotEmpty(t, resp.PaymentReference)
}

func TestCheckout_InvalidBody(t *testing.T) {
	f := newControllerFixture(t)

	w := f.do(http.MethodPost, "/api/v1/subscriptions/checkout", CheckoutRequest{
		PlanID: "not-a-uuid",
		UserID: uuid.New().String(),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")
}

func TestCheckout_PlanNotFound(t *testing.T) {
	f := newControllerFixture(t)

	w := f.do(http.MethodPost, "/api/v1/subscriptions/checkout", CheckoutRequest{
		PlanID: uuid.New().String(),
		UserID: uuid.New().String(),
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "plan_not_found")
}

func TestVerify_MissingSessionID(t *testing.T) {
	f := newControllerFixture(t)

	w := f.do(http.MethodGet, "/api/v1/subscriptions/verify", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerify_UnknownSession(t *testing.T) {
	f := newControllerFixture(t)

	w := f.do(http.MethodGet, "/api/v1/subscriptions/verify?session_id=cs_missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "session_not_found")
}

func TestVerify_PendingThenActive(t *testing.T) {
	f := newControllerFixture(t)
	plan := testutil.NewTestPlan("Premium", 9_99)
	f.planRepo.AddPlan(plan)

	checkout := f.do(http.MethodPost, "/api/v1/subscriptions/checkout", CheckoutRequest{
		PlanID: plan.ID.String(),
		UserID: uuid.New().String(),
	})
	require.Equal(t, http.StatusCreated, checkout.Code)

	var created CheckoutResponse
	require.NoError(t, json.NewDecoder(checkout.Body).Decode(&created))

	// Payment not completed yet.
	w := f.do(http.MethodGet, "/api/v1/subscriptions/verify?session_id="+created.PaymentReference, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp VerifyResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp.Verified)
	assert.Equal(t, "pending", resp.Status)

	// Completed payment flips the subscription on the next call.
	require.NoError(t, f.gw.MarkPaid(created.PaymentReference))

	w = f.do(http.MethodGet, "/api/v1/subscriptions/verify?session_id="+created.PaymentReference, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Verified)
	assert.Equal(t, "active", resp.Status)

	// Re-delivery is a no-op with the same answer.
	w = f.do(http.MethodGet, "/api/v1/subscriptions/verify?session_id="+created.PaymentReference, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Verified)
	assert.Len(t, f.outbox.Messages(), 1)
}

func TestListPlans(t *testing.T) {
	f := newControllerFixture(t)
	f.planRepo.AddPlan(testutil.NewTestPlan("Premium", 9_99))
	f.planRepo.AddPlan(testutil.NewTestPlan("Family", 14_99))

	w := f.do(http.MethodGet, "/api/v1/plans", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var plans []PlanResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&plans))
	assert.Len(t, plans, 2)
}
