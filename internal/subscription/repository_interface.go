package subscription

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, s *Subscription) (*Subscription, error)
	GetByID(ctx context.Context, id int) (*Subscription, error)
	GetActiveByMember(ctx context.Context, memberID int) (*Subscription, error)
	ListByMember(ctx context.Context, memberID int) ([]Subscription, error)
	Update(ctx context.Context, s *Subscription) error
	UpdatePlan(ctx context.Context, id, newPlanID int) error
	AddFreezeDays(ctx context.Context, id, days int) error
	ListExpirable(ctx context.Context, clubID int, today time.Time) ([]Subscription, error)
}
