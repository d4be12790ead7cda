package cancellation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AminElhag/Liyaqa-sub011/internal/apperr"
	"github.com/AminElhag/Liyaqa-sub011/internal/clock"
	"github.com/AminElhag/Liyaqa-sub011/internal/money"
)

type Status string

const (
	StatusPendingNotice Status = "pending_notice"
	StatusInNotice      Status = "in_notice"
	StatusSaved         Status = "saved"
	StatusCompleted     Status = "completed"
	StatusWithdrawn     Status = "withdrawn"
)

const (
	ReasonTooExpensive   = "too_expensive"
	ReasonRelocation     = "relocation"
	ReasonServiceQuality = "service_quality"
	ReasonHealth         = "health"
	ReasonNotUsing       = "not_using"
	ReasonOther          = "other"
)

// reactivationWindowDays is how long a member can come back without
// rejoining as new after their cancellation completes.
const reactivationWindowDays = 90

// CancellationRequest is the member-facing workflow record. Policy
// values (notice days, fee, commitment flags) are snapshots taken at
// creation; later contract or club edits never change an open request.
type CancellationRequest struct {
	ID             int  `db:"id" json:"id"`
	MemberID       int  `db:"member_id" json:"member_id"`
	ClubID         int  `db:"club_id" json:"club_id"`
	SubscriptionID int  `db:"subscription_id" json:"subscription_id"`
	ContractID     *int `db:"contract_id" json:"contract_id,omitempty"`

	Reason     string  `db:"reason" json:"reason"`
	ReasonText *string `db:"reason_text" json:"reason_text,omitempty"`

	NoticePeriodDays    int       `db:"notice_period_days" json:"notice_period_days"`
	RequestedAt         time.Time `db:"requested_at" json:"requested_at"`
	NoticePeriodEndDate time.Time `db:"notice_period_end_date" json:"notice_period_end_date"`
	EffectiveDate       time.Time `db:"effective_date" json:"effective_date"`

	IsWithinCommitment bool            `db:"is_within_commitment" json:"is_within_commitment"`
	IsWithinCoolingOff bool            `db:"is_within_cooling_off" json:"is_within_cooling_off"`
	TerminationFee     decimal.Decimal `db:"termination_fee" json:"termination_fee"`
	Currency           string          `db:"currency" json:"currency"`

	FeeWaived         bool    `db:"fee_waived" json:"fee_waived"`
	FeeWaivedByStaff  *int    `db:"fee_waived_by_staff" json:"fee_waived_by_staff,omitempty"`
	FeeWaiverReason   *string `db:"fee_waiver_reason" json:"fee_waiver_reason,omitempty"`

	Status               Status     `db:"status" json:"status"`
	SavedByOfferID       *int       `db:"saved_by_offer_id" json:"saved_by_offer_id,omitempty"`
	CompletedAt          *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	ReactivationDeadline *time.Time `db:"reactivation_deadline" json:"reactivation_deadline,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (r *CancellationRequest) isOpen() bool {
	return r.Status == StatusPendingNotice || r.Status == StatusInNotice
}

// GetEffectiveFee is what the member actually owes: the snapshot,
// unless the request fell in cooling-off or staff waived it.
func (r *CancellationRequest) GetEffectiveFee() money.Money {
	if r.IsWithinCoolingOff || r.FeeWaived {
		return money.Zero(r.Currency)
	}
	return money.New(r.TerminationFee, r.Currency)
}

// WaiveFee needs something to waive: an open request with a non-zero
// effective fee.
func (r *CancellationRequest) WaiveFee(staffID int, reason string) error {
	if !r.isOpen() {
		return apperr.InvalidTransitionf("cannot waive fee on a %s request", r.Status)
	}
	if r.GetEffectiveFee().IsZero() {
		return apperr.Validationf("request %d has no fee to waive", r.ID)
	}
	r.FeeWaived = true
	r.FeeWaivedByStaff = &staffID
	r.FeeWaiverReason = &reason
	return nil
}

// MarkInNotice moves a fresh request into its notice period, after
// retention offers have been presented.
func (r *CancellationRequest) MarkInNotice() error {
	if r.Status != StatusPendingNotice {
		return apperr.InvalidTransitionf("cannot enter notice from %s", r.Status)
	}
	r.Status = StatusInNotice
	return nil
}

// MarkSaved records the retention win and which offer did it.
func (r *CancellationRequest) MarkSaved(offerID int) error {
	if !r.isOpen() {
		return apperr.InvalidTransitionf("cannot save a %s request", r.Status)
	}
	r.Status = StatusSaved
	r.SavedByOfferID = &offerID
	return nil
}

// IsDue reports whether the notice period has run out and the request
// should complete.
func (r *CancellationRequest) IsDue(today time.Time) bool {
	return r.isOpen() && !clock.Midnight(today).Before(clock.Midnight(r.EffectiveDate))
}

// Complete closes the request and opens the reactivation window.
func (r *CancellationRequest) Complete(now time.Time) error {
	if !r.isOpen() {
		return apperr.InvalidTransitionf("cannot complete a %s request", r.Status)
	}
	deadline := clock.Midnight(r.EffectiveDate).AddDate(0, 0, reactivationWindowDays)
	r.Status = StatusCompleted
	r.CompletedAt = &now
	r.ReactivationDeadline = &deadline
	return nil
}

func (r *CancellationRequest) Withdraw() error {
	if !r.isOpen() {
		return apperr.InvalidTransitionf("cannot withdraw a %s request", r.Status)
	}
	r.Status = StatusWithdrawn
	return nil
}

type CreateCancellationRequest struct {
	SubscriptionID int     `json:"subscription_id" binding:"required"`
	Reason         string  `json:"reason" binding:"required,oneof=too_expensive relocation service_quality health not_using other"`
	ReasonText     *string `json:"reason_text"`
}

type WaiveFeeRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CancellationPreview shows the member what cancelling today would
// mean before they commit to anything.
type CancellationPreview struct {
	NoticePeriodDays    int         `json:"notice_period_days"`
	NoticePeriodEndDate time.Time   `json:"notice_period_end_date"`
	EffectiveDate       time.Time   `json:"effective_date"`
	IsWithinCommitment  bool        `json:"is_within_commitment"`
	IsWithinCoolingOff  bool        `json:"is_within_cooling_off"`
	TerminationFee      money.Money `json:"termination_fee"`
}

// CancellationView is the creation response: the request plus the
// retention offers generated alongside it.
type CancellationView struct {
	Request *CancellationRequest `json:"request"`
	Offers  []RetentionOffer     `json:"offers,omitempty"`
}
