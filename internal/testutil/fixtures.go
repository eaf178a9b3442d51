package testutil

import (
	"github.com/melodix/billing/internal/domain/subscription"
	"github.com/google/uuid"
)

// NewTestPlan returns an active 30-day plan at the given price.
func NewTestPlan(name string, priceCents int64) *subscription.Plan {
	return &subscription.Plan{
		ID:           uuid.New(),
		Name:         name,
		Description:  name + " tier",
		DurationDays: 30,
		PriceCents:   priceCents,
		Currency:     "USD",
		IsActive:     true,
	}
}
