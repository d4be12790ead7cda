package cancellation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AminElhag/Liyaqa-sub011/internal/apperr"
	"github.com/AminElhag/Liyaqa-sub011/internal/i18n"
	"github.com/AminElhag/Liyaqa-sub011/internal/money"
)

type OfferType string

const (
	OfferFreeFreeze      OfferType = "free_freeze"
	OfferLoyaltyDiscount OfferType = "loyalty_discount"
	OfferPlanDowngrade   OfferType = "plan_downgrade"
)

type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferDeclined OfferStatus = "declined"
	OfferExpired  OfferStatus = "expired"
)

const (
	offerValidityHours = 72

	freeFreezeDays = 30

	loyaltyDiscountPercent = 25
	loyaltyDiscountMonths  = 3
	loyaltyMinTenureDays   = 90
)

// RetentionOffer is a counter-proposal attached to a cancellation
// request. Benefit parameters are snapshots so the offer stays honest
// even if plans or policies change while it sits pending.
type RetentionOffer struct {
	ID                    int         `db:"id" json:"id"`
	CancellationRequestID int         `db:"cancellation_request_id" json:"cancellation_request_id"`
	OfferType             OfferType   `db:"offer_type" json:"offer_type"`
	Title                 i18n.Text   `db:"title" json:"title"`
	Description           i18n.Text   `db:"description" json:"description"`
	Status                OfferStatus `db:"status" json:"status"`

	FreezeDays      *int             `db:"freeze_days" json:"freeze_days,omitempty"`
	DiscountPercent *decimal.Decimal `db:"discount_percent" json:"discount_percent,omitempty"`
	DiscountMonths  *int             `db:"discount_months" json:"discount_months,omitempty"`
	CreditAmount    *decimal.Decimal `db:"credit_amount" json:"credit_amount,omitempty"`
	DowngradePlanID *int             `db:"downgrade_plan_id" json:"downgrade_plan_id,omitempty"`
	Currency        string           `db:"currency" json:"currency"`

	ExpiresAt   time.Time  `db:"expires_at" json:"expires_at"`
	RespondedAt *time.Time `db:"responded_at" json:"responded_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// CanBeAccepted checks expiry lazily: a pending offer whose window has
// passed is unusable even if the expiry sweep has not touched it yet.
func (o *RetentionOffer) CanBeAccepted(now time.Time) bool {
	return o.Status == OfferPending && !now.After(o.ExpiresAt)
}

func (o *RetentionOffer) Accept(now time.Time) error {
	if !o.CanBeAccepted(now) {
		return apperr.InvalidTransitionf("offer %d cannot be accepted (status %s)", o.ID, o.Status)
	}
	o.Status = OfferAccepted
	o.RespondedAt = &now
	return nil
}

func (o *RetentionOffer) Decline(now time.Time) error {
	if o.Status != OfferPending {
		return apperr.InvalidTransitionf("offer %d cannot be declined (status %s)", o.ID, o.Status)
	}
	o.Status = OfferDeclined
	o.RespondedAt = &now
	return nil
}

func (o *RetentionOffer) Expire(now time.Time) bool {
	if o.Status != OfferPending || now.Before(o.ExpiresAt) {
		return false
	}
	o.Status = OfferExpired
	return true
}

// NewFreeFreezeOffer pauses the subscription for a month at no cost.
// Offered to everyone.
func NewFreeFreezeOffer(requestID int, currency string, now time.Time) *RetentionOffer {
	days := freeFreezeDays
	return &RetentionOffer{
		CancellationRequestID: requestID,
		OfferType:             OfferFreeFreeze,
		Title: i18n.NewText(
			"Take a break instead",
			"خذ استراحة بدلاً من ذلك",
		),
		Description: i18n.NewText(
			fmt.Sprintf("Freeze your membership for %d days free of charge.", days),
			fmt.Sprintf("جمّد عضويتك لمدة %d يوماً مجاناً.", days),
		),
		Status:     OfferPending,
		FreezeDays: &days,
		Currency:   currency,
		ExpiresAt:  now.Add(offerValidityHours * time.Hour),
	}
}

// NewLoyaltyDiscountOffer credits back part of the next few months up
// front. Only members past the tenure threshold qualify.
func NewLoyaltyDiscountOffer(requestID int, monthlyFee money.Money, now time.Time) *RetentionOffer {
	percent := decimal.NewFromInt(loyaltyDiscountPercent)
	months := loyaltyDiscountMonths
	credit := monthlyFee.Amount.
		Mul(percent).
		Div(decimal.NewFromInt(100)).
		Mul(decimal.NewFromInt(int64(months)))
	credit = money.New(credit, monthlyFee.Currency).Round2().Amount

	return &RetentionOffer{
		CancellationRequestID: requestID,
		OfferType:             OfferLoyaltyDiscount,
		Title: i18n.NewText(
			"Loyalty discount",
			"خصم الولاء",
		),
		Description: i18n.NewText(
			fmt.Sprintf("Stay with us and get %d%% off your next %d months, credited to your wallet.", loyaltyDiscountPercent, months),
			fmt.Sprintf("ابقَ معنا واحصل على خصم %d%% على الأشهر الـ%d القادمة، يُضاف إلى محفظتك.", loyaltyDiscountPercent, months),
		),
		Status:          OfferPending,
		DiscountPercent: &percent,
		DiscountMonths:  &months,
		CreditAmount:    &credit,
		Currency:        monthlyFee.Currency,
		ExpiresAt:       now.Add(offerValidityHours * time.Hour),
	}
}

// NewDowngradeOffer proposes switching to a cheaper plan at the end of
// the current billing period.
func NewDowngradeOffer(requestID int, planID int, planNameEN, planNameAR, currency string, now time.Time) *RetentionOffer {
	return &RetentionOffer{
		CancellationRequestID: requestID,
		OfferType:             OfferPlanDowngrade,
		Title: i18n.NewText(
			"Switch to a lighter plan",
			"انتقل إلى خطة أخف",
		),
		Description: i18n.NewText(
			fmt.Sprintf("Move to %s at the end of your current billing period instead of cancelling.", planNameEN),
			fmt.Sprintf("انتقل إلى %s في نهاية فترة الفوترة الحالية بدلاً من الإلغاء.", planNameAR),
		),
		Status:          OfferPending,
		DowngradePlanID: &planID,
		Currency:        currency,
		ExpiresAt:       now.Add(offerValidityHours * time.Hour),
	}
}
