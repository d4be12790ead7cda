package cancellation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AminElhag/Liyaqa-sub011/internal/apperr"
	"github.com/AminElhag/Liyaqa-sub011/internal/money"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func openRequest() *CancellationRequest {
	return &CancellationRequest{
		ID:                  1,
		MemberID:            5,
		ClubID:              1,
		SubscriptionID:      9,
		Reason:              ReasonTooExpensive,
		NoticePeriodDays:    30,
		RequestedAt:         day(2026, 6, 1),
		NoticePeriodEndDate: day(2026, 7, 1),
		EffectiveDate:       day(2026, 7, 2),
		IsWithinCommitment:  true,
		TerminationFee:      dec("2000"),
		Currency:            "SAR",
		Status:              StatusInNotice,
	}
}

func TestCancellationRequest_GetEffectiveFee(t *testing.T) {
	t.Run("snapshot fee by default", func(t *testing.T) {
		assert.Equal(t, "2000.00 SAR", openRequest().GetEffectiveFee().String())
	})

	t.Run("zero within cooling-off", func(t *testing.T) {
		r := openRequest()
		r.IsWithinCoolingOff = true
		assert.True(t, r.GetEffectiveFee().IsZero())
	})

	t.Run("zero when waived", func(t *testing.T) {
		r := openRequest()
		require.NoError(t, r.WaiveFee(3, "hardship"))
		assert.True(t, r.GetEffectiveFee().IsZero())
	})
}

func TestCancellationRequest_WaiveFee(t *testing.T) {
	t.Run("records staff and reason", func(t *testing.T) {
		r := openRequest()

		require.NoError(t, r.WaiveFee(3, "relocation with proof"))

		assert.True(t, r.FeeWaived)
		require.NotNil(t, r.FeeWaivedByStaff)
		assert.Equal(t, 3, *r.FeeWaivedByStaff)
	})

	t.Run("nothing to waive without a fee", func(t *testing.T) {
		r := openRequest()
		r.TerminationFee = decimal.Zero

		err := r.WaiveFee(3, "goodwill")

		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("closed request rejected", func(t *testing.T) {
		r := openRequest()
		r.Status = StatusCompleted

		err := r.WaiveFee(3, "too late")

		assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))
	})
}

func TestCancellationRequest_Lifecycle(t *testing.T) {
	t.Run("pending to in notice", func(t *testing.T) {
		r := openRequest()
		r.Status = StatusPendingNotice

		require.NoError(t, r.MarkInNotice())
		assert.Equal(t, StatusInNotice, r.Status)

		assert.True(t, apperr.IsKind(r.MarkInNotice(), apperr.KindInvalidTransition))
	})

	t.Run("saved records the winning offer", func(t *testing.T) {
		r := openRequest()

		require.NoError(t, r.MarkSaved(42))

		assert.Equal(t, StatusSaved, r.Status)
		require.NotNil(t, r.SavedByOfferID)
		assert.Equal(t, 42, *r.SavedByOfferID)
	})

	t.Run("complete opens the reactivation window", func(t *testing.T) {
		r := openRequest()

		require.NoError(t, r.Complete(day(2026, 7, 2)))

		assert.Equal(t, StatusCompleted, r.Status)
		require.NotNil(t, r.ReactivationDeadline)
		assert.Equal(t, day(2026, 9, 30), *r.ReactivationDeadline)
	})

	t.Run("withdraw only while open", func(t *testing.T) {
		r := openRequest()
		require.NoError(t, r.Withdraw())
		assert.Equal(t, StatusWithdrawn, r.Status)

		assert.True(t, apperr.IsKind(r.Withdraw(), apperr.KindInvalidTransition))
	})

	t.Run("due on and after the effective date", func(t *testing.T) {
		r := openRequest()

		assert.False(t, r.IsDue(day(2026, 7, 1)))
		assert.True(t, r.IsDue(day(2026, 7, 2)))
		assert.True(t, r.IsDue(day(2026, 7, 10)))
	})
}

func TestExitSurvey(t *testing.T) {
	t.Run("score bounds", func(t *testing.T) {
		_, err := NewExitSurvey(1, 5, 11, 3, true, nil, nil)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))

		_, err = NewExitSurvey(1, 5, 8, 0, true, nil, nil)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("nps categories", func(t *testing.T) {
		cases := []struct {
			score int
			want  string
		}{
			{0, NPSDetractor},
			{6, NPSDetractor},
			{7, NPSPassive},
			{8, NPSPassive},
			{9, NPSPromoter},
			{10, NPSPromoter},
		}

		for _, tc := range cases {
			s, err := NewExitSurvey(1, 5, tc.score, 3, false, nil, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, s.Category(), "score %d", tc.score)
		}
	})
}

func TestRetentionOffer(t *testing.T) {
	now := day(2026, 6, 1)

	t.Run("free freeze carries thirty days", func(t *testing.T) {
		o := NewFreeFreezeOffer(1, "SAR", now)

		require.NotNil(t, o.FreezeDays)
		assert.Equal(t, 30, *o.FreezeDays)
		assert.Equal(t, now.Add(72*time.Hour), o.ExpiresAt)
		assert.NotEmpty(t, o.Title.AR)
	})

	t.Run("loyalty credit is a quarter of three months", func(t *testing.T) {
		o := NewLoyaltyDiscountOffer(1, money.MustFromString("500", "SAR"), now)

		require.NotNil(t, o.CreditAmount)
		assert.True(t, o.CreditAmount.Equal(dec("375.00")), "got %s", o.CreditAmount)
		assert.Equal(t, "SAR", o.Currency)
	})

	t.Run("downgrade names the target plan", func(t *testing.T) {
		o := NewDowngradeOffer(1, 4, "Basic", "أساسي", "SAR", now)

		require.NotNil(t, o.DowngradePlanID)
		assert.Equal(t, 4, *o.DowngradePlanID)
		assert.Contains(t, o.Description.EN, "Basic")
	})

	t.Run("accept honors the expiry lazily", func(t *testing.T) {
		o := NewFreeFreezeOffer(1, "SAR", now)

		assert.True(t, o.CanBeAccepted(now.Add(71*time.Hour)))
		assert.False(t, o.CanBeAccepted(now.Add(73*time.Hour)))

		err := o.Accept(now.Add(73 * time.Hour))
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))

		require.NoError(t, o.Accept(now.Add(time.Hour)))
		assert.Equal(t, OfferAccepted, o.Status)
	})

	t.Run("decline once", func(t *testing.T) {
		o := NewFreeFreezeOffer(1, "SAR", now)

		require.NoError(t, o.Decline(now))
		assert.True(t, apperr.IsKind(o.Decline(now), apperr.KindInvalidTransition))
	})

	t.Run("expire is a sweep no-op before the deadline", func(t *testing.T) {
		o := NewFreeFreezeOffer(1, "SAR", now)

		assert.False(t, o.Expire(now.Add(time.Hour)))
		assert.True(t, o.Expire(now.Add(72*time.Hour)))
		assert.Equal(t, OfferExpired, o.Status)
		assert.False(t, o.Expire(now.Add(80*time.Hour)))
	})
}
