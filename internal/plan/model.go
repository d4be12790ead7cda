package plan

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AminElhag/Liyaqa-sub011/internal/i18n"
	"github.com/AminElhag/Liyaqa-sub011/internal/money"
)

const (
	BillingMonthly   = "monthly"
	BillingQuarterly = "quarterly"
	BillingYearly    = "yearly"
)

// MembershipPlan is a club's catalog entry. Fee fields are the live
// catalog prices; contracts snapshot them (through a pricing tier) at
// signing, so editing a plan never touches existing contracts.
type MembershipPlan struct {
	ID          int       `db:"id" json:"id"`
	ClubID      int       `db:"club_id" json:"club_id"`
	Name        i18n.Text `db:"name" json:"name"`
	Description i18n.Text `db:"description" json:"description"`

	MembershipFee decimal.Decimal `db:"membership_fee" json:"membership_fee"`
	AdminFee      decimal.Decimal `db:"admin_fee" json:"admin_fee"`
	JoinFee       decimal.Decimal `db:"join_fee" json:"join_fee"`
	Currency      string          `db:"currency" json:"currency"`
	TaxRate       decimal.Decimal `db:"tax_rate" json:"tax_rate"`

	BillingPeriod  string `db:"billing_period" json:"billing_period"`
	DurationMonths int    `db:"duration_months" json:"duration_months"`

	// nil means unlimited classes.
	ClassAllowance     *int `db:"class_allowance" json:"class_allowance"`
	GuestPassAllowance int  `db:"guest_pass_allowance" json:"guest_pass_allowance"`
	FreezeDayAllowance int  `db:"freeze_day_allowance" json:"freeze_day_allowance"`

	HasPersonalTraining bool `db:"has_personal_training" json:"has_personal_training"`
	HasGroupClasses     bool `db:"has_group_classes" json:"has_group_classes"`
	HasPoolAccess       bool `db:"has_pool_access" json:"has_pool_access"`

	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (p *MembershipPlan) MembershipTaxableFee() money.TaxableFee {
	return money.NewTaxableFee(p.MembershipFee, p.Currency, p.TaxRate)
}

func (p *MembershipPlan) AdminTaxableFee() money.TaxableFee {
	return money.NewTaxableFee(p.AdminFee, p.Currency, p.TaxRate)
}

func (p *MembershipPlan) JoinTaxableFee() money.TaxableFee {
	return money.NewTaxableFee(p.JoinFee, p.Currency, p.TaxRate)
}

// BillingPeriodMonths maps the billing period onto whole months. The
// plan change engine compares plans on a per-period basis.
func (p *MembershipPlan) BillingPeriodMonths() int {
	switch p.BillingPeriod {
	case BillingQuarterly:
		return 3
	case BillingYearly:
		return 12
	default:
		return 1
	}
}

// MonthlyFee normalizes the recurring net fee to a single month.
func (p *MembershipPlan) MonthlyFee() money.Money {
	periodMonths := int64(p.BillingPeriodMonths())
	return money.Money{
		Amount:   p.MembershipFee.Div(decimal.NewFromInt(periodMonths)),
		Currency: p.Currency,
	}
}

// RecurringGross is the comparison basis for upgrade/downgrade
// classification: gross recurring fee normalized to one month.
func (p *MembershipPlan) RecurringGross() money.Money {
	gross := p.MembershipTaxableFee().Gross()
	periodMonths := int64(p.BillingPeriodMonths())
	return money.Money{
		Amount:   gross.Amount.Div(decimal.NewFromInt(periodMonths)),
		Currency: gross.Currency,
	}
}

// ContractPricingTier overrides a plan's recurring fee for one contract
// term. Exactly one path applies: a fee override beats a discount.
type ContractPricingTier struct {
	ID                 int              `db:"id" json:"id"`
	PlanID             int              `db:"plan_id" json:"plan_id"`
	ContractTermMonths int              `db:"contract_term_months" json:"contract_term_months"`
	DiscountPercentage *decimal.Decimal `db:"discount_percentage" json:"discount_percentage"`
	OverrideMonthlyFee *decimal.Decimal `db:"override_monthly_fee" json:"override_monthly_fee"`
	IsActive           bool             `db:"is_active" json:"is_active"`
	CreatedAt          time.Time        `db:"created_at" json:"created_at"`
}

// EffectiveMonthlyFee applies this tier to a base monthly fee. The
// result keeps the base fee's tax rate.
func (t *ContractPricingTier) EffectiveMonthlyFee(base money.TaxableFee) money.TaxableFee {
	if t.OverrideMonthlyFee != nil {
		return base.WithAmount(*t.OverrideMonthlyFee)
	}
	if t.DiscountPercentage != nil {
		factor := decimal.NewFromInt(1).Sub(t.DiscountPercentage.Div(decimal.NewFromInt(100)))
		return base.WithAmount(base.Amount.Mul(factor))
	}
	return base
}

// MonthlySavings is the net amount saved per month vs the base fee,
// floored at zero for tiers that cost more than base.
func (t *ContractPricingTier) MonthlySavings(base money.TaxableFee) money.Money {
	effective := t.EffectiveMonthlyFee(base)
	saved := base.Amount.Sub(effective.Amount)
	if saved.IsNegative() {
		saved = decimal.Zero
	}
	return money.Money{Amount: saved, Currency: base.Currency}
}

type CreatePlanRequest struct {
	Name        i18n.Text `json:"name" binding:"required"`
	Description i18n.Text `json:"description"`

	MembershipFee string `json:"membership_fee" binding:"required"`
	AdminFee      string `json:"admin_fee"`
	JoinFee       string `json:"join_fee"`
	TaxRate       string `json:"tax_rate"`
	Currency      string `json:"currency"`

	BillingPeriod  string `json:"billing_period" binding:"required,oneof=monthly quarterly yearly"`
	DurationMonths int    `json:"duration_months" binding:"required,min=1,max=36"`

	ClassAllowance     *int `json:"class_allowance" binding:"omitempty,min=0"`
	GuestPassAllowance int  `json:"guest_pass_allowance" binding:"min=0"`
	FreezeDayAllowance int  `json:"freeze_day_allowance" binding:"min=0"`

	HasPersonalTraining bool `json:"has_personal_training"`
	HasGroupClasses     bool `json:"has_group_classes"`
	HasPoolAccess       bool `json:"has_pool_access"`
}

type CreatePricingTierRequest struct {
	ContractTermMonths int     `json:"contract_term_months" binding:"required,min=1,max=36"`
	DiscountPercentage *string `json:"discount_percentage"`
	OverrideMonthlyFee *string `json:"override_monthly_fee"`
}

// PricingTierView is the member-facing projection of a tier with the
// computed effective fee and savings.
type PricingTierView struct {
	ContractPricingTier
	EffectiveMonthlyFee money.TaxableFee `json:"effective_monthly_fee"`
	MonthlySavings      money.Money      `json:"monthly_savings"`
}
