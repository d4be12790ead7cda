package plan

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const planColumns = `id, club_id, name, description, membership_fee, admin_fee, join_fee,
	currency, tax_rate, billing_period, duration_months, class_allowance,
	guest_pass_allowance, freeze_day_allowance, has_personal_training,
	has_group_classes, has_pool_access, is_active, created_at`

const tierColumns = `id, plan_id, contract_term_months, discount_percentage, override_monthly_fee, is_active, created_at`

func (r *repository) Create(ctx context.Context, p *MembershipPlan) (*MembershipPlan, error) {
	query := `
		INSERT INTO membership_plans (
			club_id, name, description, membership_fee, admin_fee, join_fee,
			currency, tax_rate, billing_period, duration_months, class_allowance,
			guest_pass_allowance, freeze_day_allowance, has_personal_training,
			has_group_classes, has_pool_access, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, TRUE)
		RETURNING ` + planColumns

	var created MembershipPlan
	err := r.db.GetContext(ctx, &created, query,
		p.ClubID, p.Name, p.Description, p.MembershipFee, p.AdminFee, p.JoinFee,
		p.Currency, p.TaxRate, p.BillingPeriod, p.DurationMonths, p.ClassAllowance,
		p.GuestPassAllowance, p.FreezeDayAllowance, p.HasPersonalTraining,
		p.HasGroupClasses, p.HasPoolAccess)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*MembershipPlan, error) {
	query := `SELECT ` + planColumns + ` FROM membership_plans WHERE id = $1`

	var p MembershipPlan
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) ListByClub(ctx context.Context, clubID int, activeOnly bool) ([]MembershipPlan, error) {
	query := `SELECT ` + planColumns + ` FROM membership_plans WHERE club_id = $1`
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY membership_fee ASC`

	var plans []MembershipPlan
	err := r.db.SelectContext(ctx, &plans, query, clubID)
	if err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *repository) SetActive(ctx context.Context, id int, active bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE membership_plans SET is_active = $2 WHERE id = $1`, id, active)
	return err
}

func (r *repository) CreateTier(ctx context.Context, t *ContractPricingTier) (*ContractPricingTier, error) {
	query := `
		INSERT INTO contract_pricing_tiers (plan_id, contract_term_months, discount_percentage, override_monthly_fee, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING ` + tierColumns

	var created ContractPricingTier
	err := r.db.GetContext(ctx, &created, query,
		t.PlanID, t.ContractTermMonths, t.DiscountPercentage, t.OverrideMonthlyFee)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetTier(ctx context.Context, planID, termMonths int) (*ContractPricingTier, error) {
	query := `
		SELECT ` + tierColumns + `
		FROM contract_pricing_tiers
		WHERE plan_id = $1 AND contract_term_months = $2 AND is_active
	`

	var t ContractPricingTier
	err := r.db.GetContext(ctx, &t, query, planID, termMonths)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *repository) ListTiers(ctx context.Context, planID int) ([]ContractPricingTier, error) {
	query := `
		SELECT ` + tierColumns + `
		FROM contract_pricing_tiers
		WHERE plan_id = $1 AND is_active
		ORDER BY contract_term_months ASC
	`

	var tiers []ContractPricingTier
	err := r.db.SelectContext(ctx, &tiers, query, planID)
	if err != nil {
		return nil, err
	}

	return tiers, nil
}
