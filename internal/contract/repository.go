package contract

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const contractColumns = `id, contract_number, member_id, club_id, plan_id, subscription_id,
	contract_type, contract_term_months, commitment_months, notice_period_days,
	start_date, commitment_end_date, cooling_off_days, cooling_off_end_date,
	locked_membership_fee, locked_admin_fee, locked_join_fee, currency, tax_rate,
	etf_type, etf_value, status, previous_status,
	signed_at, signature_data, approved_by_staff_id, approved_at,
	cancellation_reason, cancellation_requested_at, cancellation_effective_date, effective_end_date,
	created_at, updated_at`

func (r *repository) Create(ctx context.Context, c *MembershipContract) (*MembershipContract, error) {
	query := `
		INSERT INTO contracts (
			contract_number, member_id, club_id, plan_id, subscription_id,
			contract_type, contract_term_months, commitment_months, notice_period_days,
			start_date, commitment_end_date, cooling_off_days, cooling_off_end_date,
			locked_membership_fee, locked_admin_fee, locked_join_fee, currency, tax_rate,
			etf_type, etf_value, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING ` + contractColumns

	var created MembershipContract
	err := r.db.GetContext(ctx, &created, query,
		c.ContractNumber, c.MemberID, c.ClubID, c.PlanID, c.SubscriptionID,
		c.ContractType, c.ContractTermMonths, c.CommitmentMonths, c.NoticePeriodDays,
		c.StartDate, c.CommitmentEndDate, c.CoolingOffDays, c.CoolingOffEndDate,
		c.LockedMembershipFee, c.LockedAdminFee, c.LockedJoinFee, c.Currency, c.TaxRate,
		c.ETFType, c.ETFValue, c.Status)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*MembershipContract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1`

	var c MembershipContract
	err := r.db.GetContext(ctx, &c, query, id)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repository) GetBySubscription(ctx context.Context, subscriptionID int) (*MembershipContract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE subscription_id = $1`

	var c MembershipContract
	err := r.db.GetContext(ctx, &c, query, subscriptionID)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repository) ListByMember(ctx context.Context, memberID int) ([]MembershipContract, error) {
	query := `
		SELECT ` + contractColumns + `
		FROM contracts
		WHERE member_id = $1
		ORDER BY created_at DESC
	`

	var contracts []MembershipContract
	err := r.db.SelectContext(ctx, &contracts, query, memberID)
	if err != nil {
		return nil, err
	}

	return contracts, nil
}

// Update persists every field the state machine touches in one
// statement, so a transition is a single write. The locked fee
// snapshot and the identity columns are immutable after Create.
func (r *repository) Update(ctx context.Context, c *MembershipContract) error {
	query := `
		UPDATE contracts
		SET status = $2,
		    previous_status = $3,
		    signed_at = $4,
		    signature_data = $5,
		    approved_by_staff_id = $6,
		    approved_at = $7,
		    cancellation_reason = $8,
		    cancellation_requested_at = $9,
		    cancellation_effective_date = $10,
		    effective_end_date = $11,
		    updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Status, c.PreviousStatus, c.SignedAt, c.SignatureData,
		c.ApprovedByStaffID, c.ApprovedAt, c.CancellationReason,
		c.CancellationRequestedAt, c.CancellationEffectiveDate, c.EffectiveEndDate)
	return err
}

func (r *repository) ListExpirable(ctx context.Context, clubID int, today time.Time) ([]MembershipContract, error) {
	query := `
		SELECT ` + contractColumns + `
		FROM contracts
		WHERE club_id = $1 AND status = 'active' AND contract_type = 'fixed_term' AND commitment_end_date < $2
	`

	var contracts []MembershipContract
	err := r.db.SelectContext(ctx, &contracts, query, clubID, today)
	if err != nil {
		return nil, err
	}

	return contracts, nil
}
