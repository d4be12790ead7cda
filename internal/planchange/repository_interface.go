package planchange

import (
	"context"
	"time"
)

type Repository interface {
	CreateHistory(ctx context.Context, h *PlanChangeHistory) (*PlanChangeHistory, error)
	ListHistoryBySubscription(ctx context.Context, subscriptionID int) ([]PlanChangeHistory, error)

	CreateScheduled(ctx context.Context, s *ScheduledPlanChange) (*ScheduledPlanChange, error)
	GetScheduledByID(ctx context.Context, id int) (*ScheduledPlanChange, error)
	GetPendingBySubscription(ctx context.Context, subscriptionID int) (*ScheduledPlanChange, error)
	UpdateScheduled(ctx context.Context, s *ScheduledPlanChange) error
	ListDue(ctx context.Context, today time.Time) ([]ScheduledPlanChange, error)
}
