package subscription

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AminElhag/Liyaqa-sub011/internal/apperr"
	"github.com/AminElhag/Liyaqa-sub011/internal/clock"
)

type Status string

const (
	StatusPendingPayment Status = "pending_payment"
	StatusActive         Status = "active"
	StatusFrozen         Status = "frozen"
	StatusExpired        Status = "expired"
	StatusCancelled      Status = "cancelled"
)

// Subscription is the billable enrollment of a member under a plan.
// The transition methods mutate in memory only; the service persists
// the result. They take `today` so date-boundary behavior is a pure
// function of the injected clock.
type Subscription struct {
	ID       int    `db:"id" json:"id"`
	MemberID int    `db:"member_id" json:"member_id"`
	ClubID   int    `db:"club_id" json:"club_id"`
	PlanID   int    `db:"plan_id" json:"plan_id"`
	Status   Status `db:"status" json:"status"`

	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`

	FreezeDaysRemaining int        `db:"freeze_days_remaining" json:"freeze_days_remaining"`
	FrozenAt            *time.Time `db:"frozen_at" json:"frozen_at,omitempty"`

	// nil means unlimited classes.
	ClassesRemaining     *int `db:"classes_remaining" json:"classes_remaining"`
	GuestPassesRemaining int  `db:"guest_passes_remaining" json:"guest_passes_remaining"`

	PaidAmount *decimal.Decimal `db:"paid_amount" json:"paid_amount,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (s *Subscription) IsActive() bool { return s.Status == StatusActive }

func (s *Subscription) Freeze(today time.Time) error {
	if s.Status != StatusActive {
		return apperr.InvalidTransitionf("cannot freeze subscription in status %s", s.Status)
	}
	if s.FreezeDaysRemaining <= 0 {
		return apperr.Insufficientf("no freeze days remaining")
	}

	day := clock.Midnight(today)
	s.Status = StatusFrozen
	s.FrozenAt = &day
	return nil
}

// Unfreeze returns the subscription to active and extends the end date
// by exactly the number of frozen days, so the member never loses paid
// time to a freeze.
func (s *Subscription) Unfreeze(today time.Time) error {
	if s.Status != StatusFrozen || s.FrozenAt == nil {
		return apperr.InvalidTransitionf("cannot unfreeze subscription in status %s", s.Status)
	}

	frozenDays := clock.DaysBetween(*s.FrozenAt, today)
	if frozenDays < 0 {
		frozenDays = 0
	}

	s.FreezeDaysRemaining -= frozenDays
	if s.FreezeDaysRemaining < 0 {
		s.FreezeDaysRemaining = 0
	}
	s.EndDate = s.EndDate.AddDate(0, 0, frozenDays)
	s.Status = StatusActive
	s.FrozenAt = nil
	return nil
}

// Cancel is terminal and legal from any non-cancelled status.
func (s *Subscription) Cancel() error {
	if s.Status == StatusCancelled {
		return apperr.InvalidTransitionf("subscription already cancelled")
	}
	s.Status = StatusCancelled
	return nil
}

// Expire flips ACTIVE to EXPIRED once the end date has passed. It is an
// idempotent no-op otherwise and reports whether anything changed, so
// sweeps can run it blindly.
func (s *Subscription) Expire(today time.Time) bool {
	if s.Status != StatusActive {
		return false
	}
	if !clock.Midnight(today).After(clock.Midnight(s.EndDate)) {
		return false
	}
	s.Status = StatusExpired
	return true
}

func (s *Subscription) Renew(newEndDate time.Time) error {
	if s.Status != StatusActive && s.Status != StatusExpired {
		return apperr.InvalidTransitionf("cannot renew subscription in status %s", s.Status)
	}
	if !newEndDate.After(s.EndDate) {
		return apperr.Validationf("renewal end date must be after current end date")
	}
	s.Status = StatusActive
	s.EndDate = newEndDate
	return nil
}

func (s *Subscription) UseClass() error {
	if s.Status != StatusActive {
		return apperr.InvalidTransitionf("cannot use a class on subscription in status %s", s.Status)
	}
	if s.ClassesRemaining == nil {
		return nil
	}
	if *s.ClassesRemaining <= 0 {
		return apperr.Insufficientf("no classes remaining")
	}
	remaining := *s.ClassesRemaining - 1
	s.ClassesRemaining = &remaining
	return nil
}

func (s *Subscription) UseGuestPass() error {
	if s.Status != StatusActive {
		return apperr.InvalidTransitionf("cannot use a guest pass on subscription in status %s", s.Status)
	}
	if s.GuestPassesRemaining <= 0 {
		return apperr.Insufficientf("no guest passes remaining")
	}
	s.GuestPassesRemaining--
	return nil
}

func (s *Subscription) ConfirmPayment(amount decimal.Decimal) error {
	if s.Status != StatusPendingPayment {
		return apperr.InvalidTransitionf("cannot confirm payment on subscription in status %s", s.Status)
	}
	if !amount.IsPositive() {
		return apperr.Validationf("paid amount must be positive")
	}
	s.Status = StatusActive
	s.PaidAmount = &amount
	return nil
}

// Reactivate restores a subscription a retention save brought back from
// a cancellation that had already cancelled it.
func (s *Subscription) Reactivate() error {
	if s.Status != StatusCancelled {
		return apperr.InvalidTransitionf("cannot reactivate subscription in status %s", s.Status)
	}
	s.Status = StatusActive
	return nil
}

type CreateSubscriptionRequest struct {
	PlanID         int  `json:"plan_id" binding:"required"`
	StartImmediate bool `json:"start_immediate"`
}

type RenewRequest struct {
	NewEndDate string `json:"new_end_date" binding:"required"`
}

type ConfirmPaymentRequest struct {
	Amount string `json:"amount" binding:"required"`
}
