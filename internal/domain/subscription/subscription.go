package subscription

import (
	"time"

	domainErrors "github.com/melodix/billing/internal/domain/errors"
	"github.com/google/uuid"
)

// UserSubscription is a ledger row tying a user to a plan. It starts
// unverified with the gateway's session id as PaymentReference; IsVerified
// flips to true exactly once, inside the lock-guarded verification flow.
// IsVerified is the single source of truth for entitlement.
type UserSubscription struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	PlanID           uuid.UUID
	StartDate        time.Time
	EndDate          time.Time
	PaymentReference string
	IsVerified       bool
	CreatedAt        time.Time
}

// NewPending creates an unverified subscription for the given plan. The
// entitlement window is fixed at creation; it only becomes effective once
// the payment is verified.
func NewPending(userID uuid.UUID, plan *Plan, paymentReference string) (*UserSubscription, error) {
	if paymentReference == "" {
		return nil, domainErrors.ErrInvalidInput
	}
	now := time.Now().UTC()
	return &UserSubscription{
		ID:               uuid.New(),
		UserID:           userID,
		PlanID:           plan.ID,
		StartDate:        now,
		EndDate:          now.AddDate(0, 0, plan.DurationDays),
		PaymentReference: paymentReference,
		IsVerified:       false,
		CreatedAt:        now,
	}, nil
}

// MarkVerified transitions the subscription to its terminal verified state.
// It reports whether the call performed the transition: false means the
// subscription was already verified and the caller should treat the request
// as a successful no-op.
func (s *UserSubscription) MarkVerified() bool {
	if s.IsVerified {
		return false
	}
	s.IsVerified = true
	return true
}

// Active reports whether the subscription currently grants entitlement.
func (s *UserSubscription) Active(now time.Time) bool {
	return s.IsVerified && s.EndDate.After(now)
}
