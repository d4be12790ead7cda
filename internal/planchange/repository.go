package planchange

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

const historyColumns = `id, subscription_id, member_id, from_plan_id, to_plan_id,
	change_type, proration_mode, credit_amount, charge_amount, net_amount, currency,
	effective_date, created_at`

const scheduledColumns = `id, subscription_id, member_id, from_plan_id, to_plan_id,
	change_type, scheduled_for, status, processed_at, created_at`

func (r *repository) CreateHistory(ctx context.Context, h *PlanChangeHistory) (*PlanChangeHistory, error) {
	query := `
		INSERT INTO plan_change_history (
			subscription_id, member_id, from_plan_id, to_plan_id,
			change_type, proration_mode, credit_amount, charge_amount, net_amount,
			currency, effective_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + historyColumns

	var created PlanChangeHistory
	err := r.db.GetContext(ctx, &created, query,
		h.SubscriptionID, h.MemberID, h.FromPlanID, h.ToPlanID,
		h.ChangeType, h.ProrationMode, h.CreditAmount, h.ChargeAmount, h.NetAmount,
		h.Currency, h.EffectiveDate)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) ListHistoryBySubscription(ctx context.Context, subscriptionID int) ([]PlanChangeHistory, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM plan_change_history
		WHERE subscription_id = $1
		ORDER BY created_at DESC
	`

	var rows []PlanChangeHistory
	err := r.db.SelectContext(ctx, &rows, query, subscriptionID)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *repository) CreateScheduled(ctx context.Context, s *ScheduledPlanChange) (*ScheduledPlanChange, error) {
	query := `
		INSERT INTO scheduled_plan_changes (
			subscription_id, member_id, from_plan_id, to_plan_id, change_type, scheduled_for, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + scheduledColumns

	var created ScheduledPlanChange
	err := r.db.GetContext(ctx, &created, query,
		s.SubscriptionID, s.MemberID, s.FromPlanID, s.ToPlanID, s.ChangeType, s.ScheduledFor, s.Status)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetScheduledByID(ctx context.Context, id int) (*ScheduledPlanChange, error) {
	query := `SELECT ` + scheduledColumns + ` FROM scheduled_plan_changes WHERE id = $1`

	var s ScheduledPlanChange
	err := r.db.GetContext(ctx, &s, query, id)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *repository) GetPendingBySubscription(ctx context.Context, subscriptionID int) (*ScheduledPlanChange, error) {
	query := `
		SELECT ` + scheduledColumns + `
		FROM scheduled_plan_changes
		WHERE subscription_id = $1 AND status = 'pending'
		LIMIT 1
	`

	var s ScheduledPlanChange
	err := r.db.GetContext(ctx, &s, query, subscriptionID)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *repository) UpdateScheduled(ctx context.Context, s *ScheduledPlanChange) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE scheduled_plan_changes SET status = $2, processed_at = $3 WHERE id = $1`,
		s.ID, s.Status, s.ProcessedAt)
	return err
}

func (r *repository) ListDue(ctx context.Context, today time.Time) ([]ScheduledPlanChange, error) {
	query := `
		SELECT ` + scheduledColumns + `
		FROM scheduled_plan_changes
		WHERE status = 'pending' AND scheduled_for <= $1
	`

	var rows []ScheduledPlanChange
	err := r.db.SelectContext(ctx, &rows, query, today)
	if err != nil {
		return nil, err
	}

	return rows, nil
}
