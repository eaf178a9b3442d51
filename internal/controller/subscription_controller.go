package controller

import (
	"net/http"
	"time"

	applicationSubscription "github.com/melodix/billing/internal/application/subscription"
	domainErrors "github.com/melodix/billing/internal/domain/errors"
	"github.com/melodix/billing/internal/infrastructure/observability"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SubscriptionController exposes the purchase and verification endpoints.
type SubscriptionController struct {
	subscribe *applicationSubscription.SubscribeUseCase
	verify    *applicationSubscription.VerifyPaymentUseCase
	listPlans *applicationSubscription.ListPlansUseCase
	metrics   *observability.Metrics
	baseURL   string
}

func NewSubscriptionController(
	subscribe *applicationSubscription.SubscribeUseCase,
	verify *applicationSubscription.VerifyPaymentUseCase,
	listPlans *applicationSubscription.ListPlansUseCase,
	metrics *observability.Metrics,
	baseURL string,
) *SubscriptionController {
	return &SubscriptionController{
		subscribe: subscribe,
		verify:    verify,
		listPlans: listPlans,
		metrics:   metrics,
		baseURL:   baseURL,
	}
}

// Checkout handles POST /api/v1/subscriptions/checkout.
func (c *SubscriptionController) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		writeError(w, domainErrors.NewValidationError("plan_id", "must be a valid UUID"))
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, domainErrors.NewValidationError("user_id", "must be a valid UUID"))
		return
	}

	resp, err := c.subscribe.Execute(r.Context(), applicationSubscription.SubscribeRequest{
		PlanID:          planID,
		UserID:          userID,
		CustomerEmail:   req.CustomerEmail,
		CallbackBaseURL: c.baseURL,
	})
	if err != nil {
		c.metrics.CheckoutsTotal.WithLabelValues("error").Inc()
		log.Warn().Err(err).Str("plan_id", req.PlanID).Msg("checkout failed")
		writeError(w, err)
		return
	}

	c.metrics.CheckoutsTotal.WithLabelValues("created").Inc()
	writeJSON(w, http.StatusCreated, CheckoutResponse{
		CheckoutURL:      resp.CheckoutURL,
		PaymentReference: resp.PaymentReference,
	})
}

// Verify handles GET /api/v1/subscriptions/verify?session_id=...
//
// The endpoint is safe to call any number of times for the same session;
// re-delivery of an already verified payment returns the same response.
func (c *SubscriptionController) Verify(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, domainErrors.NewValidationError("session_id", "is required"))
		return
	}

	start := time.Now()
	verified, err := c.verify.Execute(r.Context(), sessionID)
	c.metrics.VerificationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if domainErrors.IsRetryable(err) {
			c.metrics.LockContention.Inc()
			c.metrics.VerificationsTotal.WithLabelValues("contended").Inc()
		} else {
			c.metrics.VerificationsTotal.WithLabelValues("error").Inc()
		}
		log.Warn().Err(err).Str("session_id", sessionID).Msg("verification failed")
		writeError(w, err)
		return
	}

	if !verified {
		c.metrics.VerificationsTotal.WithLabelValues("unpaid").Inc()
		writeJSON(w, http.StatusOK, VerifyResponse{Verified: false, Status: "pending"})
		return
	}

	c.metrics.VerificationsTotal.WithLabelValues("verified").Inc()
	writeJSON(w, http.StatusOK, VerifyResponse{Verified: true, Status: "active"})
}

// ListPlans handles GET /api/v1/plans.
func (c *SubscriptionController) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := c.listPlans.Execute(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]PlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, PlanResponse{
			ID:           p.ID.String(),
			Name:         p.Name,
			Description:  p.Description,
			DurationDays: p.DurationDays,
			PriceCents:   p.PriceCents,
			Currency:     p.Currency,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
