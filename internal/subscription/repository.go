package subscription

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

const subscriptionColumns = `id, member_id, club_id, plan_id, status, start_date, end_date,
	freeze_days_remaining, frozen_at, classes_remaining, guest_passes_remaining,
	paid_amount, created_at, updated_at`

func (r *repository) Create(ctx context.Context, s *Subscription) (*Subscription, error) {
	query := `
		INSERT INTO subscriptions (
			member_id, club_id, plan_id, status, start_date, end_date,
			freeze_days_remaining, classes_remaining, guest_passes_remaining
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + subscriptionColumns

	var created Subscription
	err := r.db.GetContext(ctx, &created, query,
		s.MemberID, s.ClubID, s.PlanID, s.Status, s.StartDate, s.EndDate,
		s.FreezeDaysRemaining, s.ClassesRemaining, s.GuestPassesRemaining)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`

	var s Subscription
	err := r.db.GetContext(ctx, &s, query, id)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *repository) GetActiveByMember(ctx context.Context, memberID int) (*Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE member_id = $1 AND status IN ('active', 'frozen')
		ORDER BY created_at DESC
		LIMIT 1
	`

	var s Subscription
	err := r.db.GetContext(ctx, &s, query, memberID)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *repository) ListByMember(ctx context.Context, memberID int) ([]Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE member_id = $1
		ORDER BY created_at DESC
	`

	var subs []Subscription
	err := r.db.SelectContext(ctx, &subs, query, memberID)
	if err != nil {
		return nil, err
	}

	return subs, nil
}

// Update persists every mutable field the state machine touches in one
// statement, so a transition is a single write.
func (r *repository) Update(ctx context.Context, s *Subscription) error {
	query := `
		UPDATE subscriptions
		SET status = $2,
		    end_date = $3,
		    freeze_days_remaining = $4,
		    frozen_at = $5,
		    classes_remaining = $6,
		    guest_passes_remaining = $7,
		    paid_amount = $8,
		    updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Status, s.EndDate, s.FreezeDaysRemaining, s.FrozenAt,
		s.ClassesRemaining, s.GuestPassesRemaining, s.PaidAmount)
	return err
}

func (r *repository) UpdatePlan(ctx context.Context, id, newPlanID int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions SET plan_id = $2, updated_at = NOW() WHERE id = $1`,
		id, newPlanID)
	return err
}

func (r *repository) AddFreezeDays(ctx context.Context, id, days int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions SET freeze_days_remaining = freeze_days_remaining + $2, updated_at = NOW() WHERE id = $1`,
		id, days)
	return err
}

func (r *repository) ListExpirable(ctx context.Context, clubID int, today time.Time) ([]Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE club_id = $1 AND status = 'active' AND end_date < $2
	`

	var subs []Subscription
	err := r.db.SelectContext(ctx, &subs, query, clubID, today)
	if err != nil {
		return nil, err
	}

	return subs, nil
}
