package plan

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/AminElhag/Liyaqa-sub011/internal/apperr"
	"github.com/AminElhag/Liyaqa-sub011/internal/money"
)

type Service interface {
	CreatePlan(ctx context.Context, clubID int, req CreatePlanRequest) (*MembershipPlan, error)
	GetPlan(ctx context.Context, id int) (*MembershipPlan, error)
	ListPlans(ctx context.Context, clubID int, activeOnly bool) ([]MembershipPlan, error)
	DeactivatePlan(ctx context.Context, id int) error

	CreateTier(ctx context.Context, planID int, req CreatePricingTierRequest) (*ContractPricingTier, error)
	ListTiers(ctx context.Context, planID int) ([]PricingTierView, error)

	// TierForTerm resolves the pricing path a new contract locks in: the
	// tier for the requested term, or nil when the plan has none and the
	// base fee applies.
	TierForTerm(ctx context.Context, planID, termMonths int) (*ContractPricingTier, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreatePlan(ctx context.Context, clubID int, req CreatePlanRequest) (*MembershipPlan, error) {
	membershipFee, err := parseFee(req.MembershipFee, "membership_fee")
	if err != nil {
		return nil, err
	}
	adminFee, err := parseOptionalFee(req.AdminFee, "admin_fee")
	if err != nil {
		return nil, err
	}
	joinFee, err := parseOptionalFee(req.JoinFee, "join_fee")
	if err != nil {
		return nil, err
	}
	taxRate, err := parseOptionalFee(req.TaxRate, "tax_rate")
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = money.DefaultCurrency
	}
	if req.Name.IsEmpty() {
		return nil, apperr.Validationf("plan name is required")
	}

	return s.repo.Create(ctx, &MembershipPlan{
		ClubID:              clubID,
		Name:                req.Name,
		Description:         req.Description,
		MembershipFee:       membershipFee,
		AdminFee:            adminFee,
		JoinFee:             joinFee,
		Currency:            currency,
		TaxRate:             taxRate,
		BillingPeriod:       req.BillingPeriod,
		DurationMonths:      req.DurationMonths,
		ClassAllowance:      req.ClassAllowance,
		GuestPassAllowance:  req.GuestPassAllowance,
		FreezeDayAllowance:  req.FreezeDayAllowance,
		HasPersonalTraining: req.HasPersonalTraining,
		HasGroupClasses:     req.HasGroupClasses,
		HasPoolAccess:       req.HasPoolAccess,
	})
}

func (s *service) GetPlan(ctx context.Context, id int) (*MembershipPlan, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFoundf("plan %d not found", id)
		}
		return nil, err
	}
	return p, nil
}

func (s *service) ListPlans(ctx context.Context, clubID int, activeOnly bool) ([]MembershipPlan, error) {
	return s.repo.ListByClub(ctx, clubID, activeOnly)
}

func (s *service) DeactivatePlan(ctx context.Context, id int) error {
	if _, err := s.GetPlan(ctx, id); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, id, false)
}

func (s *service) CreateTier(ctx context.Context, planID int, req CreatePricingTierRequest) (*ContractPricingTier, error) {
	if _, err := s.GetPlan(ctx, planID); err != nil {
		return nil, err
	}
	if req.DiscountPercentage == nil && req.OverrideMonthlyFee == nil {
		return nil, apperr.Validationf("pricing tier needs a discount_percentage or an override_monthly_fee")
	}

	tier := &ContractPricingTier{
		PlanID:             planID,
		ContractTermMonths: req.ContractTermMonths,
	}

	if req.DiscountPercentage != nil {
		pct, err := decimal.NewFromString(*req.DiscountPercentage)
		if err != nil || pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
			return nil, apperr.Validationf("discount_percentage must be between 0 and 100")
		}
		tier.DiscountPercentage = &pct
	}
	if req.OverrideMonthlyFee != nil {
		fee, err := decimal.NewFromString(*req.OverrideMonthlyFee)
		if err != nil || fee.IsNegative() {
			return nil, apperr.Validationf("override_monthly_fee must be a non-negative amount")
		}
		tier.OverrideMonthlyFee = &fee
	}

	return s.repo.CreateTier(ctx, tier)
}

func (s *service) ListTiers(ctx context.Context, planID int) ([]PricingTierView, error) {
	p, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	tiers, err := s.repo.ListTiers(ctx, planID)
	if err != nil {
		return nil, err
	}

	base := p.MembershipTaxableFee()
	views := make([]PricingTierView, 0, len(tiers))
	for _, t := range tiers {
		views = append(views, PricingTierView{
			ContractPricingTier: t,
			EffectiveMonthlyFee: t.EffectiveMonthlyFee(base),
			MonthlySavings:      t.MonthlySavings(base).Round2(),
		})
	}

	return views, nil
}

func (s *service) TierForTerm(ctx context.Context, planID, termMonths int) (*ContractPricingTier, error) {
	t, err := s.repo.GetTier(ctx, planID, termMonths)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

func parseFee(raw, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperr.Validationf("%s is not a valid amount: %q", field, raw)
	}
	if d.IsNegative() {
		return decimal.Zero, apperr.Validationf("%s must not be negative", field)
	}
	return d, nil
}

func parseOptionalFee(raw, field string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return parseFee(raw, field)
}
