package subscription

import (
	"github.com/google/uuid"
)

// Plan is a purchasable subscription tier. Plans are read-only lookup data;
// only active plans can be subscribed to.
type Plan struct {
	ID           uuid.UUID
	Name         string
	Description  string
	DurationDays int
	PriceCents   int64
	Currency     string
	IsActive     bool
}
