package subscription

import (
	"context"
	"strings"

	domainErrors "github.com/melodix/billing/internal/domain/errors"
	"github.com/melodix/billing/internal/domain/subscription"
	"github.com/melodix/billing/internal/infrastructure/gateway"
	"github.com/google/uuid"
)

// SubscribeRequest holds the input for starting a subscription purchase.
type SubscribeRequest struct {
	PlanID          uuid.UUID
	UserID          uuid.UUID
	CustomerEmail   string
	CallbackBaseURL string
}

// SubscribeResponse holds the checkout handoff for the caller to redirect to.
type SubscribeResponse struct {
	CheckoutURL      string
	PaymentReference string
}

// SubscribeUseCase starts a purchase: it validates the plan, rejects users
// who already hold an active subscription, opens a gateway checkout session
// and records a pending ledger row keyed by the session id.
type SubscribeUseCase struct {
	planRepo    subscription.PlanRepository
	subRepo     subscription.Repository
	gw          gateway.Gateway
	successPath string
	cancelPath  string
}

// NewSubscribeUseCase creates a new SubscribeUseCase. successPath and
// cancelPath are appended to the caller-supplied callback base URL.
func NewSubscribeUseCase(
	planRepo subscription.PlanRepository,
	subRepo subscription.Repository,
	gw gateway.Gateway,
	successPath, cancelPath string,
) *SubscribeUseCase {
	return &SubscribeUseCase{
		planRepo:    planRepo,
		subRepo:     subRepo,
		gw:          gw,
		successPath: successPath,
		cancelPath:  cancelPath,
	}
}

// Execute runs the purchase-initiation flow.
//
// The duplicate-subscription check is a pre-check, not a store constraint:
// two concurrent calls for the same user can both pass it and create two
// pending rows. Only one of them can ever be paid per reference, so the
// window is accepted.
func (uc *SubscribeUseCase) Execute(ctx context.Context, req SubscribeRequest) (*SubscribeResponse, error) {
	plan, err := uc.planRepo.GetByID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, domainErrors.ErrPlanInactive
	}

	active, err := uc.subRepo.HasActiveSubscription(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, domainErrors.ErrAlreadySubscribed
	}

	base := strings.TrimSuffix(req.CallbackBaseURL, "/")
	session, err := uc.gw.CreateSession(ctx, gateway.CreateSessionParams{
		LineItems: []gateway.LineItem{
			{
				Name:        plan.Name,
				Description: plan.Description,
				AmountCents: plan.PriceCents,
				Currency:    plan.Currency,
				Quantity:    1,
			},
		},
		CustomerEmail: req.CustomerEmail,
		SuccessURL:    base + uc.successPath,
		CancelURL:     base + uc.cancelPath,
	})
	if err != nil {
		return nil, err
	}

	pending, err := subscription.NewPending(req.UserID, plan, session.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.subRepo.Create(ctx, pending); err != nil {
		return nil, err
	}

	return &SubscribeResponse{
		CheckoutURL:      session.URL,
		PaymentReference: session.ID,
	}, nil
}
