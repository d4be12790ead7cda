package contract

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, c *MembershipContract) (*MembershipContract, error)
	GetByID(ctx context.Context, id int) (*MembershipContract, error)
	GetBySubscription(ctx context.Context, subscriptionID int) (*MembershipContract, error)
	ListByMember(ctx context.Context, memberID int) ([]MembershipContract, error)
	Update(ctx context.Context, c *MembershipContract) error
	ListExpirable(ctx context.Context, clubID int, today time.Time) ([]MembershipContract, error)
}
