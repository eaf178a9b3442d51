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

type PlanRepository struct {
	pool *pgxpool.Pool
}

func NewPlanRepository(pool *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{pool: pool}
}

func (r *PlanRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

func (r *PlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*subscription.Plan, error) {
	p := &subscription.Plan{}
	err := r.db(ctx).QueryRow(ctx,
		`SELECT id, name, description, duration_days, price_cents, currency, is_active
		 FROM subscription_plans WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.DurationDays, &p.PriceCents, &p.Currency, &p.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrPlanNotFound
		}
		return nil, fmt.Errorf("get plan by id: %w", err)
	}
	return p, nil
}

func (r *PlanRepository) ListActive(ctx context.Context) ([]*subscription.Plan, error) {
	rows, err := r.db(ctx).Query(ctx,
		`SELECT id, name, description, duration_days, price_cents, currency, is_active
		 FROM subscription_plans WHERE is_active ORDER BY price_cents ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list active plans: %w", err)
	}
	defer rows.Close()

	var plans []*subscription.Plan
	for rows.Next() {
		p := &subscription.Plan{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.DurationDays, &p.PriceCents, &p.Currency, &p.IsActive); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}
