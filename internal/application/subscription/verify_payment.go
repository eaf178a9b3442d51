package subscription

import (
	"context"
	"time"

	"github.com/melodix/billing/internal/domain/outbox"
	"github.com/melodix/billing/internal/domain/subscription"
	"github.com/melodix/billing/internal/infrastructure/gateway"
)

// lockResource derives the lock name for a payment reference. All
// verification attempts for the same reference contend on one lease.
func lockResource(reference string) string {
	return "subscription_session_" + reference
}

// VerifyPaymentUseCase turns an at-least-once payment callback into an
// exactly-once ledger transition. The same reference arrives from the
// browser redirect and from webhook retries, possibly concurrently.
type VerifyPaymentUseCase struct {
	gw         gateway.Gateway
	subRepo    subscription.Repository
	outboxRepo outbox.Repository
	txManager  TransactionManager
	locks      Locker
	lockTTL    time.Duration
}

// NewVerifyPaymentUseCase creates a new VerifyPaymentUseCase.
func NewVerifyPaymentUseCase(
	gw gateway.Gateway,
	subRepo subscription.Repository,
	outboxRepo outbox.Repository,
	txManager TransactionManager,
	locks Locker,
	lockTTL time.Duration,
) *VerifyPaymentUseCase {
	return &VerifyPaymentUseCase{
		gw:         gw,
		subRepo:    subRepo,
		outboxRepo: outboxRepo,
		txManager:  txManager,
		locks:      locks,
		lockTTL:    lockTTL,
	}
}

// Execute verifies the payment behind reference. It returns true when the
// subscription is now (or was already) verified, and false when the
// gateway has not seen the payment complete. Concurrent calls for the same
// reference serialize on the lock; the IsVerified check inside the critical
// section makes re-entry after a successful first pass a no-op.
func (uc *VerifyPaymentUseCase) Execute(ctx context.Context, reference string) (bool, error) {
	// 1. Ask the gateway first, outside the lock. An unpaid session is the
	//    common webhook-race outcome and must stay cheap.
	session, err := uc.gw.GetSession(ctx, reference)
	if err != nil {
		return false, err
	}
	if session.PaymentStatus != gateway.StatusPaid {
		return false, nil
	}

	// 2. Serialize on the per-reference lease. Not acquiring means another
	//    attempt is mid-flight; surface it rather than proceed unguarded.
	lease, err := uc.locks.Acquire(ctx, lockResource(reference), uc.lockTTL)
	if err != nil {
		return false, err
	}
	defer lease.Release(ctx)

	// 3. Critical section.
	sub, err := uc.subRepo.GetByPaymentReference(ctx, reference)
	if err != nil {
		return false, err
	}
	if sub.IsVerified {
		// Re-delivery after a successful first pass.
		return true, nil
	}

	// 4. Ledger mutation and outbox append in one unit of work.
	err = uc.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		sub.MarkVerified()
		if err := uc.subRepo.SetVerified(txCtx, sub.ID); err != nil {
			return err
		}

		event, err := outbox.NewEventMessage("SubscriptionPurchased", SubscriptionPurchasedEvent{
			SubscriptionID: sub.ID,
			UserID:         sub.UserID,
			PlanID:         sub.PlanID,
			PurchasedAt:    time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		if err := uc.outboxRepo.Append(txCtx, event); err != nil {
			return err
		}

		if session.CustomerEmail != "" {
			receipt, err := outbox.NewEmailMessage("SubscriptionReceipt", outbox.EmailPayload{
				To:      session.CustomerEmail,
				Subject: "Your Melodix subscription is active",
				Body:    "Thanks for subscribing. Your plan is now active.",
			})
			if err != nil {
				return err
			}
			if err := uc.outboxRepo.Append(txCtx, receipt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	return true, nil
}
