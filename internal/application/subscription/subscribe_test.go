package subscription_test

import (
	"context"
	"testing"
	"time"

	subscriptionApp "github.com/melodix/billing/internal/application/subscription"
	domainErrors "github.com/melodix/billing/internal/domain/errors"
	"github.com/melodix/billing/internal/domain/subscription"
	"github.com/melodix/billing/internal/infrastructure/gateway"
	"github.com/melodix/billing/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSubscribe(t *testing.T) (*subscriptionApp.SubscribeUseCase, *testutil.MockPlanRepository, *testutil.MockSubscriptionRepository, *gateway.MockGateway) {
	t.Helper()
	planRepo := testutil.NewMockPlanRepository()
	subRepo := testutil.NewMockSubscriptionRepository()
	gw := gateway.NewMockGateway()
	uc := subscriptionApp.NewSubscribeUseCase(planRepo, subRepo, gw, "/subscriptions/verify", "/subscriptions/cancelled")
	return uc, planRepo, subRepo, gw
}

func TestSubscribe_Success(t *testing.T) {
	uc, planRepo, subRepo, _ := setupSubscribe(t)
	ctx := context.Background()

	plan := testutil.NewTestPlan("Premium", 999)
	planRepo.AddPlan(plan)
	userID := uuid.New()

	resp, err := uc.Execute(ctx, subscriptionApp.SubscribeRequest{
		PlanID:          plan.ID,
		UserID:          userID,
		CustomerEmail:   "user@example.com",
		CallbackBaseURL: "https://melodix.app/",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.CheckoutURL)
	assert.NotEmpty(t, resp.PaymentReference)

	// A pending, unverified row keyed by the session id exists.
	sub, err := subRepo.GetByPaymentReference(ctx, resp.PaymentReference)
	require.NoError(t, err)
	assert.Equal(t, userID, sub.UserID)
	assert.Equal(t, plan.ID, sub.PlanID)
	assert.False(t, sub.IsVerified)
	assert.WithinDuration(t, sub.StartDate.AddDate(0, 0, plan.DurationDays), sub.EndDate, time.Second)
}

func TestSubscribe_PlanNotFound(t *testing.T) {
	uc, _, _, _ := setupSubscribe(t)

	_, err := uc.Execute(context.Background(), subscriptionApp.SubscribeRequest{
		PlanID: uuid.New(),
		UserID: uuid.New(),
	})
	assert.ErrorIs(t, err, domainErrors.ErrPlanNotFound)
}

func TestSubscribe_InactivePlan(t *testing.T) {
	uc, planRepo, _, _ := setupSubscribe(t)

	plan := testutil.NewTestPlan("Legacy", 499)
	plan.IsActive = false
	planRepo.AddPlan(plan)

	_, err := uc.Execute(context.Background(), subscriptionApp.SubscribeRequest{
		PlanID: plan.ID,
		UserID: uuid.New(),
	})
	assert.ErrorIs(t, err, domainErrors.ErrPlanInactive)
}

func TestSubscribe_AlreadySubscribed(t *testing.T) {
	uc, planRepo, subRepo, _ := setupSubscribe(t)
	ctx := context.Background()

	plan := testutil.NewTestPlan("Premium", 999)
	planRepo.AddPlan(plan)
	userID := uuid.New()

	existing, err := subscription.NewPending(userID, plan, "sess_existing")
	require.NoError(t, err)
	existing.MarkVerified()
	require.NoError(t, subRepo.Create(ctx, existing))

	_, err = uc.Execute(ctx, subscriptionApp.SubscribeRequest{
		PlanID: plan.ID,
		UserID: userID,
	})
	assert.ErrorIs(t, err, domainErrors.ErrAlreadySubscribed)
}

func TestSubscribe_ExpiredSubscriptionDoesNotBlock(t *testing.T) {
	uc, planRepo, subRepo, _ := setupSubscribe(t)
	ctx := context.Background()

	plan := testutil.NewTestPlan("Premium", 999)
	planRepo.AddPlan(plan)
	userID := uuid.New()

	expired, err := subscription.NewPending(userID, plan, "sess_old")
	require.NoError(t, err)
	expired.MarkVerified()
	expired.EndDate = time.Now().Add(-24 * time.Hour)
	require.NoError(t, subRepo.Create(ctx, expired))

	resp, err := uc.Execute(ctx, subscriptionApp.SubscribeRequest{
		PlanID:          plan.ID,
		UserID:          userID,
		CallbackBaseURL: "https://melodix.app",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.CheckoutURL)
}

func TestSubscribe_GatewayFailure(t *testing.T) {
	planRepo := testutil.NewMockPlanRepository()
	subRepo := testutil.NewMockSubscriptionRepository()
	gw := gateway.NewMockGateway(gateway.WithFailureRate(1.0))
	uc := subscriptionApp.NewSubscribeUseCase(planRepo, subRepo, gw, "/verify", "/cancel")

	plan := testutil.NewTestPlan("Premium", 999)
	planRepo.AddPlan(plan)

	_, err := uc.Execute(context.Background(), subscriptionApp.SubscribeRequest{
		PlanID: plan.ID,
		UserID: uuid.New(),
	})
	assert.ErrorIs(t, err, domainErrors.ErrGatewayUnavailable)
}
