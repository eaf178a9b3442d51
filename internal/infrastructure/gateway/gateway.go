package gateway

import (
	"context"
)

// PaymentStatus is the gateway's authoritative verdict on a session.
type PaymentStatus string

const (
	StatusPaid   PaymentStatus = "paid"
	StatusUnpaid PaymentStatus = "unpaid"
)

// CheckoutSession is the gateway's view of a checkout. ID doubles as the
// payment reference stored on the subscription ledger.
type CheckoutSession struct {
	ID            string
	URL           string
	PaymentStatus PaymentStatus
	CustomerEmail string
	AmountCents   int64
	Currency      string
}

// LineItem describes one purchasable item in a checkout session.
type LineItem struct {
	Name        string
	Description string
	AmountCents int64
	Currency    string
	Quantity    int
}

// CreateSessionParams carries the inputs for session creation.
type CreateSessionParams struct {
	LineItems     []LineItem
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

// Gateway is the payment provider port. Implementations talk to the
// external checkout API; the verification flow only ever reads
// PaymentStatus off the returned session.
type Gateway interface {
	// CreateSession opens a checkout session and returns its id and URL.
	CreateSession(ctx context.Context, params CreateSessionParams) (*CheckoutSession, error)

	// GetSession retrieves the current state of a session by id.
	GetSession(ctx context.Context, id string) (*CheckoutSession, error)
}
