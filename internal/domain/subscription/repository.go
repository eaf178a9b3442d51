package subscription

import (
	"context"

	"github.com/google/uuid"
)

// PlanRepository is the read-only plan lookup.
type PlanRepository interface {
	// GetByID retrieves a plan by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*Plan, error)

	// ListActive returns all plans available for purchase.
	ListActive(ctx context.Context) ([]*Plan, error)
}

// Repository defines user-subscription persistence.
type Repository interface {
	// Create persists a new pending subscription.
	Create(ctx context.Context, sub *UserSubscription) error

	// GetByPaymentReference retrieves a subscription by its gateway reference.
	GetByPaymentReference(ctx context.Context, reference string) (*UserSubscription, error)

	// HasActiveSubscription reports whether the user holds a verified,
	// unexpired subscription.
	HasActiveSubscription(ctx context.Context, userID uuid.UUID) (bool, error)

	// SetVerified persists the verified flag for the given subscription
	// (typically inside a transaction with the outbox append).
	SetVerified(ctx context.Context, id uuid.UUID) error
}
