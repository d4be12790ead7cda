package planchange

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AminElhag/Liyaqa-sub011/internal/apperr"
	"github.com/AminElhag/Liyaqa-sub011/internal/plan"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func monthlyPlan(id int, fee string) *plan.MembershipPlan {
	return &plan.MembershipPlan{
		ID:            id,
		ClubID:        1,
		MembershipFee: dec(fee),
		Currency:      "SAR",
		TaxRate:       dec("0.15"),
		BillingPeriod: plan.BillingMonthly,
		IsActive:      true,
	}
}

func TestClassify(t *testing.T) {
	t.Run("by recurring gross", func(t *testing.T) {
		cases := []struct {
			name     string
			old, new *plan.MembershipPlan
			want     ChangeType
		}{
			{"upgrade", monthlyPlan(1, "300"), monthlyPlan(2, "600"), ChangeUpgrade},
			{"downgrade", monthlyPlan(1, "600"), monthlyPlan(2, "300"), ChangeDowngrade},
			{"lateral", monthlyPlan(1, "300"), monthlyPlan(2, "300"), ChangeLateral},
		}

		for _, tc := range cases {
			got, err := Classify(tc.old, tc.new)
			require.NoError(t, err, tc.name)
			assert.Equal(t, tc.want, got, tc.name)
		}
	})

	t.Run("yearly billing is normalized to a month", func(t *testing.T) {
		yearly := monthlyPlan(2, "3600")
		yearly.BillingPeriod = plan.BillingYearly

		// 3600/year is 300/month, same as the old plan.
		got, err := Classify(monthlyPlan(1, "300"), yearly)

		require.NoError(t, err)
		assert.Equal(t, ChangeLateral, got)
	})

	t.Run("currency mismatch rejected", func(t *testing.T) {
		other := monthlyPlan(2, "300")
		other.Currency = "AED"

		_, err := Classify(monthlyPlan(1, "300"), other)

		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestCurrentPeriod(t *testing.T) {
	start := day(2026, 1, 15)

	t.Run("first period", func(t *testing.T) {
		ps, pe := CurrentPeriod(start, 1, day(2026, 1, 20))
		assert.Equal(t, day(2026, 1, 15), ps)
		assert.Equal(t, day(2026, 2, 15), pe)
	})

	t.Run("later period", func(t *testing.T) {
		ps, pe := CurrentPeriod(start, 1, day(2026, 4, 1))
		assert.Equal(t, day(2026, 3, 15), ps)
		assert.Equal(t, day(2026, 4, 15), pe)
	})

	t.Run("period boundary starts the next period", func(t *testing.T) {
		ps, _ := CurrentPeriod(start, 1, day(2026, 2, 15))
		assert.Equal(t, day(2026, 2, 15), ps)
	})

	t.Run("quarterly", func(t *testing.T) {
		ps, pe := CurrentPeriod(start, 3, day(2026, 5, 1))
		assert.Equal(t, day(2026, 4, 15), ps)
		assert.Equal(t, day(2026, 7, 15), pe)
	})
}

func TestProrate(t *testing.T) {
	periodStart := day(2026, 6, 1)
	periodEnd := day(2026, 7, 1)

	t.Run("ten of thirty days remaining", func(t *testing.T) {
		p := Prorate(dec("300"), dec("600"), "SAR", periodStart, periodEnd, day(2026, 6, 21))

		assert.Equal(t, "100.00 SAR", p.Credit.String())
		assert.Equal(t, "200.00 SAR", p.Charge.String())
		assert.Equal(t, "100.00 SAR", p.Net.String())
	})

	t.Run("net equals charge minus credit", func(t *testing.T) {
		p := Prorate(dec("299.99"), dec("459.50"), "SAR", periodStart, periodEnd, day(2026, 6, 11))

		want, err := p.Charge.Sub(p.Credit)
		require.NoError(t, err)
		assert.True(t, p.Net.Amount.Equal(want.Amount))
	})

	t.Run("downgrade nets negative", func(t *testing.T) {
		p := Prorate(dec("600"), dec("300"), "SAR", periodStart, periodEnd, day(2026, 6, 21))

		assert.True(t, p.Net.IsNegative())
		assert.Equal(t, "-100.00 SAR", p.Net.String())
	})

	t.Run("full period remaining on day one", func(t *testing.T) {
		p := Prorate(dec("300"), dec("600"), "SAR", periodStart, periodEnd, periodStart)

		assert.Equal(t, "300.00 SAR", p.Credit.String())
		assert.Equal(t, "600.00 SAR", p.Charge.String())
	})

	t.Run("nothing remaining past period end", func(t *testing.T) {
		p := Prorate(dec("300"), dec("600"), "SAR", periodStart, periodEnd, day(2026, 7, 5))

		assert.True(t, p.Credit.IsZero())
		assert.True(t, p.Charge.IsZero())
		assert.True(t, p.Net.IsZero())
	})
}

func TestFullPeriodCredit(t *testing.T) {
	p := FullPeriodCredit(dec("300"), dec("600"), "SAR")

	assert.Equal(t, "300.00 SAR", p.Credit.String())
	assert.Equal(t, "600.00 SAR", p.Charge.String())
	assert.Equal(t, "300.00 SAR", p.Net.String())
}

func TestScheduledPlanChange(t *testing.T) {
	t.Run("mark processed once", func(t *testing.T) {
		sc := &ScheduledPlanChange{ID: 1, Status: ScheduledPending}

		require.NoError(t, sc.MarkProcessed(day(2026, 7, 1)))
		assert.Equal(t, ScheduledProcessed, sc.Status)
		require.NotNil(t, sc.ProcessedAt)

		err := sc.MarkProcessed(day(2026, 7, 2))
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))
	})

	t.Run("cancel only while pending", func(t *testing.T) {
		sc := &ScheduledPlanChange{ID: 1, Status: ScheduledPending}
		require.NoError(t, sc.Cancel())

		assert.True(t, apperr.IsKind(sc.Cancel(), apperr.KindInvalidTransition))
	})
}
