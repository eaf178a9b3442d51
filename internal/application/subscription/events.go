package subscription

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionPurchasedEvent is the outbox payload appended when a payment
// is verified. Consumers downstream (recommendation pipeline, analytics)
// own their own idempotency.
type SubscriptionPurchasedEvent struct {
	SubscriptionID uuid.UUID `json:"subscription_id"`
	UserID         uuid.UUID `json:"user_id"`
	PlanID         uuid.UUID `json:"plan_id"`
	PurchasedAt    time.Time `json:"purchased_at"`
}
