package subscription

import (
	"context"

	"github.com/melodix/billing/internal/domain/subscription"
)

// ListPlansUseCase returns the plans available for purchase.
type ListPlansUseCase struct {
	planRepo subscription.PlanRepository
}

func NewListPlansUseCase(planRepo subscription.PlanRepository) *ListPlansUseCase {
	return &ListPlansUseCase{planRepo: planRepo}
}

func (uc *ListPlansUseCase) Execute(ctx context.Context) ([]*subscription.Plan, error) {
	return uc.planRepo.ListActive(ctx)
}
