package postgres

import (
	"context"
	"errors"
	"fmt"

	domainErrors "github.com/melodix/billing/internal/domain/errors"
	"github.com/melodix/billing/internal/domain/subscription"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriptionRepository struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{pool: pool}
}

func (r *SubscriptionRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *subscription.UserSubscription) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO user_subscriptions
		   (id, user_id, plan_id, start_date, end_date, payment_reference, is_verified, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sub.ID, sub.UserID, sub.PlanID, sub.StartDate, sub.EndDate,
		sub.PaymentReference, sub.IsVerified, sub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create user subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) GetByPaymentReference(ctx context.Context, reference string) (*subscription.UserSubscription, error) {
	s := &subscription.UserSubscription{}
	err := r.db(ctx).QueryRow(ctx,
		`SELECT id, user_id, plan_id, start_date, end_date, payment_reference, is_verified, created_at
		 FROM user_subscriptions WHERE payment_reference = $1`, reference,
	).Scan(&s.ID, &s.UserID, &s.PlanID, &s.StartDate, &s.EndDate, &s.PaymentReference, &s.IsVerified, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("get subscription by payment reference: %w", err)
	}
	return s, nil
}

func (r *SubscriptionRepository) HasActiveSubscription(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db(ctx).QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM user_subscriptions
		   WHERE user_id = $1 AND is_verified AND end_date > now()
		 )`, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check active subscription: %w", err)
	}
	return exists, nil
}

func (r *SubscriptionRepository) SetVerified(ctx context.Context, id uuid.UUID) error {
	_, err := r.db(ctx).Exec(ctx,
		`UPDATE user_subscriptions SET is_verified = true WHERE id = $1`, id,
	)
	if err != nil {
		return fmt.Errorf("set subscription verified: %w", err)
	}
	return nil
}
