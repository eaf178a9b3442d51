package controller

import "time"

// CheckoutRequest is the body for POST /api/v1/subscriptions/checkout.
type CheckoutRequest struct {
	PlanID        string `json:"plan_id" validate:"required,uuid"`
	UserID        string `json:"user_id" validate:"required,uuid"`
	CustomerEmail string `json:"customer_email" validate:"omitempty,email"`
}

// CheckoutResponse carries the gateway handoff back to the client.
type CheckoutResponse struct {
	CheckoutURL      string `json:"checkout_url"`
	PaymentReference string `json:"payment_reference"`
}

// VerifyResponse reports the verification outcome for a session.
type VerifyResponse struct {
	Verified bool   `json:"verified"`
	Status   string `json:"status"`
}

// PlanResponse is a purchasable plan as exposed over the API.
type PlanResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	DurationDays int    `json:"duration_days"`
	PriceCents   int64  `json:"price_cents"`
	Currency     string `json:"currency"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HealthResponse reports component readiness.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
	Time       time.Time         `json:"time"`
}
