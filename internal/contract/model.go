package contract

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AminElhag/Liyaqa-sub011/internal/apperr"
	"github.com/AminElhag/Liyaqa-sub011/internal/clock"
	"github.com/AminElhag/Liyaqa-sub011/internal/money"
)

type Status string

const (
	StatusPendingSignature Status = "pending_signature"
	StatusActive           Status = "active"
	StatusInNoticePeriod   Status = "in_notice_period"
	StatusSuspended        Status = "suspended"
	StatusVoided           Status = "voided"
	StatusExpired          Status = "expired"
	StatusCancelled        Status = "cancelled"
)

type Type string

const (
	TypeMonthToMonth Type = "month_to_month"
	TypeFixedTerm    Type = "fixed_term"
)

type ETFType string

const (
	ETFNone            ETFType = "none"
	ETFFlatFee         ETFType = "flat_fee"
	ETFRemainingMonths ETFType = "remaining_months"
	ETFPercentage      ETFType = "percentage"
)

// MembershipContract is the commitment wrapper around a subscription.
// Fee fields are snapshots locked at creation through the plan's
// pricing tier; plan edits after signing never reprice a contract.
type MembershipContract struct {
	ID             int    `db:"id" json:"id"`
	ContractNumber string `db:"contract_number" json:"contract_number"`
	MemberID       int    `db:"member_id" json:"member_id"`
	ClubID         int    `db:"club_id" json:"club_id"`
	PlanID         int    `db:"plan_id" json:"plan_id"`
	SubscriptionID int    `db:"subscription_id" json:"subscription_id"`

	ContractType       Type `db:"contract_type" json:"contract_type"`
	ContractTermMonths int  `db:"contract_term_months" json:"contract_term_months"`
	CommitmentMonths   int  `db:"commitment_months" json:"commitment_months"`
	NoticePeriodDays   int  `db:"notice_period_days" json:"notice_period_days"`

	StartDate         time.Time `db:"start_date" json:"start_date"`
	CommitmentEndDate time.Time `db:"commitment_end_date" json:"commitment_end_date"`
	CoolingOffDays    int       `db:"cooling_off_days" json:"cooling_off_days"`
	CoolingOffEndDate time.Time `db:"cooling_off_end_date" json:"cooling_off_end_date"`

	LockedMembershipFee decimal.Decimal `db:"locked_membership_fee" json:"locked_membership_fee"`
	LockedAdminFee      decimal.Decimal `db:"locked_admin_fee" json:"locked_admin_fee"`
	LockedJoinFee       decimal.Decimal `db:"locked_join_fee" json:"locked_join_fee"`
	Currency            string          `db:"currency" json:"currency"`
	TaxRate             decimal.Decimal `db:"tax_rate" json:"tax_rate"`

	ETFType  ETFType         `db:"etf_type" json:"etf_type"`
	ETFValue decimal.Decimal `db:"etf_value" json:"etf_value"`

	Status         Status  `db:"status" json:"status"`
	PreviousStatus *Status `db:"previous_status" json:"-"`

	SignedAt          *time.Time `db:"signed_at" json:"signed_at,omitempty"`
	SignatureData     *string    `db:"signature_data" json:"-"`
	ApprovedByStaffID *int       `db:"approved_by_staff_id" json:"approved_by_staff_id,omitempty"`
	ApprovedAt        *time.Time `db:"approved_at" json:"approved_at,omitempty"`

	CancellationReason        *string    `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
	CancellationRequestedAt   *time.Time `db:"cancellation_requested_at" json:"cancellation_requested_at,omitempty"`
	CancellationEffectiveDate *time.Time `db:"cancellation_effective_date" json:"cancellation_effective_date,omitempty"`
	EffectiveEndDate          *time.Time `db:"effective_end_date" json:"effective_end_date,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (c *MembershipContract) LockedMembershipTaxableFee() money.TaxableFee {
	return money.NewTaxableFee(c.LockedMembershipFee, c.Currency, c.TaxRate)
}

func (c *MembershipContract) LockedAdminTaxableFee() money.TaxableFee {
	return money.NewTaxableFee(c.LockedAdminFee, c.Currency, c.TaxRate)
}

func (c *MembershipContract) LockedJoinTaxableFee() money.TaxableFee {
	return money.NewTaxableFee(c.LockedJoinFee, c.Currency, c.TaxRate)
}

// IsWithinCoolingOff is inclusive of the end date: a cancellation on
// the last cooling-off day is still free.
func (c *MembershipContract) IsWithinCoolingOff(today time.Time) bool {
	return !clock.Midnight(today).After(clock.Midnight(c.CoolingOffEndDate))
}

func (c *MembershipContract) IsWithinCommitment(today time.Time) bool {
	if c.ContractType != TypeFixedTerm || c.CommitmentMonths == 0 {
		return false
	}
	return clock.Midnight(today).Before(clock.Midnight(c.CommitmentEndDate))
}

// RemainingCommitmentMonths counts complete months between today and
// the commitment end, floored, never negative.
func (c *MembershipContract) RemainingCommitmentMonths(today time.Time) int {
	return clock.MonthsBetween(today, c.CommitmentEndDate)
}

// EarlyTerminationFee is the fee owed for breaking the commitment as
// of today, computed on the locked gross monthly fee (tax included).
// Zero inside cooling-off no matter what the fee type says; the
// regulatory carve-out always wins.
func (c *MembershipContract) EarlyTerminationFee(today time.Time) money.Money {
	zero := money.Zero(c.Currency)

	if c.IsWithinCoolingOff(today) {
		return zero
	}
	if !c.IsWithinCommitment(today) {
		return zero
	}

	monthly := c.LockedMembershipTaxableFee().Gross()

	switch c.ETFType {
	case ETFFlatFee:
		return money.New(c.ETFValue, c.Currency).Round2()
	case ETFRemainingMonths:
		return monthly.MulInt(int64(c.RemainingCommitmentMonths(today))).Round2()
	case ETFPercentage:
		base := monthly.MulInt(int64(c.RemainingCommitmentMonths(today)))
		return base.Mul(c.ETFValue.Div(decimal.NewFromInt(100))).Round2()
	default:
		return zero
	}
}

func (c *MembershipContract) SignByMember(now time.Time, signatureData string) error {
	if c.Status != StatusPendingSignature {
		return apperr.InvalidTransitionf("cannot sign contract in status %s", c.Status)
	}
	c.Status = StatusActive
	c.SignedAt = &now
	if signatureData != "" {
		c.SignatureData = &signatureData
	}
	return nil
}

func (c *MembershipContract) ApproveByStaff(staffID int, now time.Time) error {
	if c.Status != StatusActive && c.Status != StatusPendingSignature {
		return apperr.InvalidTransitionf("cannot approve contract in status %s", c.Status)
	}
	if c.ApprovedByStaffID != nil {
		return apperr.Conflictf("contract already approved")
	}
	c.ApprovedByStaffID = &staffID
	c.ApprovedAt = &now
	return nil
}

// CancelWithinCoolingOff voids the contract with no fee. Only legal
// while the cooling-off window is open; outside it the notice-period
// path applies instead.
func (c *MembershipContract) CancelWithinCoolingOff(today time.Time, reason string) error {
	if c.Status != StatusActive && c.Status != StatusPendingSignature {
		return apperr.InvalidTransitionf("cannot void contract in status %s", c.Status)
	}
	if !c.IsWithinCoolingOff(today) {
		return apperr.InvalidTransitionf("cooling-off period ended on %s", c.CoolingOffEndDate.Format("2006-01-02"))
	}
	c.Status = StatusVoided
	c.CancellationReason = &reason
	now := today
	c.EffectiveEndDate = &now
	return nil
}

func (c *MembershipContract) RequestCancellation(today time.Time, reason string) error {
	if c.Status != StatusActive {
		return apperr.InvalidTransitionf("cannot request cancellation on contract in status %s", c.Status)
	}
	effective := clock.Midnight(today).AddDate(0, 0, c.NoticePeriodDays)
	requestedAt := today

	c.Status = StatusInNoticePeriod
	c.CancellationReason = &reason
	c.CancellationRequestedAt = &requestedAt
	c.CancellationEffectiveDate = &effective
	return nil
}

func (c *MembershipContract) CompleteCancellation(today time.Time) error {
	if c.Status != StatusInNoticePeriod {
		return apperr.InvalidTransitionf("cannot complete cancellation on contract in status %s", c.Status)
	}
	end := clock.Midnight(today)
	if c.CancellationEffectiveDate != nil {
		end = *c.CancellationEffectiveDate
	}
	c.Status = StatusCancelled
	c.EffectiveEndDate = &end
	return nil
}

func (c *MembershipContract) WithdrawCancellationRequest() error {
	if c.Status != StatusInNoticePeriod {
		return apperr.InvalidTransitionf("cannot withdraw cancellation on contract in status %s", c.Status)
	}
	c.Status = StatusActive
	c.CancellationReason = nil
	c.CancellationRequestedAt = nil
	c.CancellationEffectiveDate = nil
	return nil
}

func (c *MembershipContract) Suspend() error {
	if c.Status != StatusActive && c.Status != StatusInNoticePeriod {
		return apperr.InvalidTransitionf("cannot suspend contract in status %s", c.Status)
	}
	prev := c.Status
	c.PreviousStatus = &prev
	c.Status = StatusSuspended
	return nil
}

// Reactivate restores the status held before suspension, so a contract
// suspended mid-notice resumes its notice period rather than becoming
// active again.
func (c *MembershipContract) Reactivate() error {
	if c.Status != StatusSuspended {
		return apperr.InvalidTransitionf("cannot reactivate contract in status %s", c.Status)
	}
	restored := StatusActive
	if c.PreviousStatus != nil {
		restored = *c.PreviousStatus
	}
	c.Status = restored
	c.PreviousStatus = nil
	return nil
}

// Expire flips a fixed-term contract past its commitment end to
// expired. Idempotent no-op otherwise.
func (c *MembershipContract) Expire(today time.Time) bool {
	if c.Status != StatusActive || c.ContractType != TypeFixedTerm {
		return false
	}
	if !clock.Midnight(today).After(clock.Midnight(c.CommitmentEndDate)) {
		return false
	}
	c.Status = StatusExpired
	return true
}

type CreateContractRequest struct {
	MemberID       int    `json:"member_id" binding:"required"`
	PlanID         int    `json:"plan_id" binding:"required"`
	SubscriptionID int    `json:"subscription_id" binding:"required"`
	ContractType   string `json:"contract_type" binding:"required,oneof=month_to_month fixed_term"`
	TermMonths     int    `json:"term_months" binding:"omitempty,min=1,max=36"`

	// Zero values fall back to the club policy defaults.
	NoticePeriodDays int `json:"notice_period_days" binding:"omitempty,min=0,max=90"`
	CoolingOffDays   int `json:"cooling_off_days" binding:"omitempty,min=0,max=30"`

	ETFType  string `json:"etf_type" binding:"omitempty,oneof=none flat_fee remaining_months percentage"`
	ETFValue string `json:"etf_value"`
}

type SignRequest struct {
	SignatureData string `json:"signature_data"`
}

type CoolingOffCancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type RequestCancellationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// FeePreview is the response of the termination-fee preview endpoint.
type FeePreview struct {
	WithinCoolingOff          bool        `json:"within_cooling_off"`
	WithinCommitment          bool        `json:"within_commitment"`
	RemainingCommitmentMonths int         `json:"remaining_commitment_months"`
	EarlyTerminationFee       money.Money `json:"early_termination_fee"`
}
