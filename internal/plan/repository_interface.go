package plan

import "context"

type Repository interface {
	Create(ctx context.Context, p *MembershipPlan) (*MembershipPlan, error)
	GetByID(ctx context.Context, id int) (*MembershipPlan, error)
	ListByClub(ctx context.Context, clubID int, activeOnly bool) ([]MembershipPlan, error)
	SetActive(ctx context.Context, id int, active bool) error

	CreateTier(ctx context.Context, t *ContractPricingTier) (*ContractPricingTier, error)
	GetTier(ctx context.Context, planID, termMonths int) (*ContractPricingTier, error)
	ListTiers(ctx context.Context, planID int) ([]ContractPricingTier, error)
}
