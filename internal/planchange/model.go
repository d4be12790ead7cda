package planchange

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AminElhag/Liyaqa-sub011/internal/apperr"
	"github.com/AminElhag/Liyaqa-sub011/internal/clock"
	"github.com/AminElhag/Liyaqa-sub011/internal/money"
	"github.com/AminElhag/Liyaqa-sub011/internal/plan"
)

type ChangeType string

const (
	ChangeUpgrade   ChangeType = "upgrade"
	ChangeDowngrade ChangeType = "downgrade"
	ChangeLateral   ChangeType = "lateral"
)

type ProrationMode string

const (
	ModeProrateImmediately ProrationMode = "prorate_immediately"
	ModeEndOfPeriod        ProrationMode = "end_of_period"
	ModeFullPeriodCredit   ProrationMode = "full_period_credit"
	ModeNoProration        ProrationMode = "no_proration"
)

// Classify compares the plans on recurring gross normalized to one
// month. Equal gross is a lateral move and carries no money.
func Classify(oldPlan, newPlan *plan.MembershipPlan) (ChangeType, error) {
	oldGross := oldPlan.RecurringGross()
	newGross := newPlan.RecurringGross()

	cmp, err := newGross.Cmp(oldGross)
	if err != nil {
		return "", apperr.Validationf("plans are priced in different currencies (%s vs %s)", oldPlan.Currency, newPlan.Currency)
	}

	switch {
	case cmp > 0:
		return ChangeUpgrade, nil
	case cmp < 0:
		return ChangeDowngrade, nil
	default:
		return ChangeLateral, nil
	}
}

// CurrentPeriod locates the billing period containing today, stepping
// from the subscription start in period-sized increments. The end is
// exclusive: it is the first day of the next period.
func CurrentPeriod(subStart time.Time, periodMonths int, today time.Time) (time.Time, time.Time) {
	if periodMonths < 1 {
		periodMonths = 1
	}
	start := clock.Midnight(subStart)
	today = clock.Midnight(today)
	for !start.AddDate(0, periodMonths, 0).After(today) {
		start = start.AddDate(0, periodMonths, 0)
	}
	return start, start.AddDate(0, periodMonths, 0)
}

// Proration is the money side of an immediate plan change. The net is
// what the member owes: positive debits the wallet, negative credits
// it. Net always equals charge minus credit after rounding.
type Proration struct {
	Credit money.Money `json:"credit"`
	Charge money.Money `json:"charge"`
	Net    money.Money `json:"net"`
}

// Prorate splits the current period at today: the member is credited
// the unused share of the old fee and charged the same share of the
// new fee. Ratios stay exact; only the three final amounts round.
func Prorate(oldFee, newFee decimal.Decimal, currency string, periodStart, periodEnd, today time.Time) Proration {
	totalDays := clock.DaysBetween(periodStart, periodEnd)
	remainingDays := clock.DaysBetween(today, periodEnd)
	if remainingDays < 0 {
		remainingDays = 0
	}
	if remainingDays > totalDays {
		remainingDays = totalDays
	}

	ratio := decimal.NewFromInt(int64(remainingDays)).Div(decimal.NewFromInt(int64(totalDays)))
	credit := money.New(oldFee.Mul(ratio), currency).Round2()
	charge := money.New(newFee.Mul(ratio), currency).Round2()
	net, _ := charge.Sub(credit)

	return Proration{Credit: credit, Charge: charge, Net: net}
}

// FullPeriodCredit refunds the whole old period fee and charges the
// whole new one, regardless of how far into the period the member is.
func FullPeriodCredit(oldFee, newFee decimal.Decimal, currency string) Proration {
	credit := money.New(oldFee, currency).Round2()
	charge := money.New(newFee, currency).Round2()
	net, _ := charge.Sub(credit)
	return Proration{Credit: credit, Charge: charge, Net: net}
}

// PlanChangeHistory is the immutable audit row every executed change
// writes. Amounts are null when no money moved.
type PlanChangeHistory struct {
	ID             int             `db:"id" json:"id"`
	SubscriptionID int             `db:"subscription_id" json:"subscription_id"`
	MemberID       int             `db:"member_id" json:"member_id"`
	FromPlanID     int             `db:"from_plan_id" json:"from_plan_id"`
	ToPlanID       int             `db:"to_plan_id" json:"to_plan_id"`
	ChangeType     ChangeType      `db:"change_type" json:"change_type"`
	ProrationMode  ProrationMode   `db:"proration_mode" json:"proration_mode"`
	CreditAmount   *decimal.Decimal `db:"credit_amount" json:"credit_amount,omitempty"`
	ChargeAmount   *decimal.Decimal `db:"charge_amount" json:"charge_amount,omitempty"`
	NetAmount      *decimal.Decimal `db:"net_amount" json:"net_amount,omitempty"`
	Currency       string          `db:"currency" json:"currency"`
	EffectiveDate  time.Time       `db:"effective_date" json:"effective_date"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

type ScheduledStatus string

const (
	ScheduledPending   ScheduledStatus = "pending"
	ScheduledProcessed ScheduledStatus = "processed"
	ScheduledCancelled ScheduledStatus = "cancelled"
)

// ScheduledPlanChange defers the swap to the first day after the
// current billing period. At most one pending row per subscription.
type ScheduledPlanChange struct {
	ID             int             `db:"id" json:"id"`
	SubscriptionID int             `db:"subscription_id" json:"subscription_id"`
	MemberID       int             `db:"member_id" json:"member_id"`
	FromPlanID     int             `db:"from_plan_id" json:"from_plan_id"`
	ToPlanID       int             `db:"to_plan_id" json:"to_plan_id"`
	ChangeType     ChangeType      `db:"change_type" json:"change_type"`
	ScheduledFor   time.Time       `db:"scheduled_for" json:"scheduled_for"`
	Status         ScheduledStatus `db:"status" json:"status"`
	ProcessedAt    *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

func (s *ScheduledPlanChange) MarkProcessed(now time.Time) error {
	if s.Status != ScheduledPending {
		return apperr.InvalidTransitionf("scheduled change %d already %s", s.ID, s.Status)
	}
	s.Status = ScheduledProcessed
	s.ProcessedAt = &now
	return nil
}

func (s *ScheduledPlanChange) Cancel() error {
	if s.Status != ScheduledPending {
		return apperr.InvalidTransitionf("scheduled change %d already %s", s.ID, s.Status)
	}
	s.Status = ScheduledCancelled
	return nil
}

type ChangePlanRequest struct {
	NewPlanID     int    `json:"new_plan_id" binding:"required"`
	ProrationMode string `json:"proration_mode" binding:"omitempty,oneof=prorate_immediately end_of_period full_period_credit no_proration"`
}

// ChangePreview is the dry-run response: the classification and the
// money that would move, with nothing persisted.
type ChangePreview struct {
	ChangeType    ChangeType    `json:"change_type"`
	ProrationMode ProrationMode `json:"proration_mode"`
	Proration     *Proration    `json:"proration,omitempty"`
	EffectiveDate time.Time     `json:"effective_date"`
}

// ChangeResult reports what an execution did: either an immediate
// history row or a scheduled change for later.
type ChangeResult struct {
	History   *PlanChangeHistory   `json:"history,omitempty"`
	Scheduled *ScheduledPlanChange `json:"scheduled,omitempty"`
}
