package planchange

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AminElhag/Liyaqa-sub011/internal/apperr"
	"github.com/AminElhag/Liyaqa-sub011/internal/clock"
	"github.com/AminElhag/Liyaqa-sub011/internal/logger"
	"github.com/AminElhag/Liyaqa-sub011/internal/member"
	"github.com/AminElhag/Liyaqa-sub011/internal/plan"
	"github.com/AminElhag/Liyaqa-sub011/internal/subscription"
	"github.com/AminElhag/Liyaqa-sub011/internal/wallet"
)

func TestMain(m *testing.M) {
	logger.Init("error")
	os.Exit(m.Run())
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateHistory(ctx context.Context, h *PlanChangeHistory) (*PlanChangeHistory, error) {
	args := m.Called(ctx, h)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PlanChangeHistory), args.Error(1)
}

func (m *MockRepository) ListHistoryBySubscription(ctx context.Context, subscriptionID int) ([]PlanChangeHistory, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PlanChangeHistory), args.Error(1)
}

func (m *MockRepository) CreateScheduled(ctx context.Context, s *ScheduledPlanChange) (*ScheduledPlanChange, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ScheduledPlanChange), args.Error(1)
}

func (m *MockRepository) GetScheduledByID(ctx context.Context, id int) (*ScheduledPlanChange, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ScheduledPlanChange), args.Error(1)
}

func (m *MockRepository) GetPendingBySubscription(ctx context.Context, subscriptionID int) (*ScheduledPlanChange, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ScheduledPlanChange), args.Error(1)
}

func (m *MockRepository) UpdateScheduled(ctx context.Context, s *ScheduledPlanChange) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockRepository) ListDue(ctx context.Context, today time.Time) ([]ScheduledPlanChange, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ScheduledPlanChange), args.Error(1)
}

type MockPlanService struct {
	mock.Mock
}

func (m *MockPlanService) CreatePlan(ctx context.Context, clubID int, req plan.CreatePlanRequest) (*plan.MembershipPlan, error) {
	args := m.Called(ctx, clubID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.MembershipPlan), args.Error(1)
}

func (m *MockPlanService) GetPlan(ctx context.Context, id int) (*plan.MembershipPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.MembershipPlan), args.Error(1)
}

func (m *MockPlanService) ListPlans(ctx context.Context, clubID int, activeOnly bool) ([]plan.MembershipPlan, error) {
	args := m.Called(ctx, clubID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]plan.MembershipPlan), args.Error(1)
}

func (m *MockPlanService) DeactivatePlan(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPlanService) CreateTier(ctx context.Context, planID int, req plan.CreatePricingTierRequest) (*plan.ContractPricingTier, error) {
	args := m.Called(ctx, planID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.ContractPricingTier), args.Error(1)
}

func (m *MockPlanService) ListTiers(ctx context.Context, planID int) ([]plan.PricingTierView, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]plan.PricingTierView), args.Error(1)
}

func (m *MockPlanService) TierForTerm(ctx context.Context, planID, termMonths int) (*plan.ContractPricingTier, error) {
	args := m.Called(ctx, planID, termMonths)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.ContractPricingTier), args.Error(1)
}

type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) Create(ctx context.Context, memberID, clubID int, req subscription.CreateSubscriptionRequest) (*subscription.Subscription, error) {
	args := m.Called(ctx, memberID, clubID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) GetByID(ctx context.Context, id int) (*subscription.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) GetOwned(ctx context.Context, id, memberID int) (*subscription.Subscription, error) {
	args := m.Called(ctx, id, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) ListByMember(ctx context.Context, memberID int) ([]subscription.Subscription, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) Freeze(ctx context.Context, id, memberID int) (*subscription.Subscription, error) {
	args := m.Called(ctx, id, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) Unfreeze(ctx context.Context, id, memberID int) (*subscription.Subscription, error) {
	args := m.Called(ctx, id, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) UseClass(ctx context.Context, id, memberID int) (*subscription.Subscription, error) {
	args := m.Called(ctx, id, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) UseGuestPass(ctx context.Context, id, memberID int) (*subscription.Subscription, error) {
	args := m.Called(ctx, id, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) Renew(ctx context.Context, id int, newEndDate time.Time) (*subscription.Subscription, error) {
	args := m.Called(ctx, id, newEndDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) ConfirmPayment(ctx context.Context, id int, amount decimal.Decimal) (*subscription.Subscription, error) {
	args := m.Called(ctx, id, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) Cancel(ctx context.Context, id int) (*subscription.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) Reactivate(ctx context.Context, id int) (*subscription.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) AddFreezeDays(ctx context.Context, id, days int) error {
	args := m.Called(ctx, id, days)
	return args.Error(0)
}

func (m *MockSubscriptionService) ChangePlan(ctx context.Context, id, newPlanID int) error {
	args := m.Called(ctx, id, newPlanID)
	return args.Error(0)
}

func (m *MockSubscriptionService) ExpireDue(ctx context.Context, clubID int) (int, error) {
	args := m.Called(ctx, clubID)
	return args.Int(0), args.Error(1)
}

type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) GetBalance(ctx context.Context, memberID int) (*wallet.Wallet, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletService) HasSufficientBalance(ctx context.Context, memberID int, amount decimal.Decimal) (bool, error) {
	args := m.Called(ctx, memberID, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockWalletService) ListTransactions(ctx context.Context, memberID, limit, offset int) ([]wallet.Transaction, error) {
	args := m.Called(ctx, memberID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]wallet.Transaction), args.Error(1)
}

func (m *MockWalletService) Credit(ctx context.Context, memberID int, amount decimal.Decimal, description string) (*wallet.Wallet, error) {
	args := m.Called(ctx, memberID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletService) Debit(ctx context.Context, memberID int, amount decimal.Decimal, description string) (*wallet.Wallet, error) {
	args := m.Called(ctx, memberID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletService) ChargeSubscription(ctx context.Context, memberID, subscriptionID int, amount decimal.Decimal, description string) (*wallet.Wallet, error) {
	args := m.Called(ctx, memberID, subscriptionID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletService) Refund(ctx context.Context, memberID int, amount decimal.Decimal, description string, ref *wallet.Reference) (*wallet.Wallet, error) {
	args := m.Called(ctx, memberID, amount, description, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletService) Adjust(ctx context.Context, memberID int, net decimal.Decimal, description string, ref *wallet.Reference) (*wallet.Wallet, error) {
	args := m.Called(ctx, memberID, net, description, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

type MockMemberService struct {
	mock.Mock
}

func (m *MockMemberService) Register(ctx context.Context, req member.RegisterRequest) (*member.Member, string, string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*member.Member), args.String(1), args.String(2), args.Error(3)
}

func (m *MockMemberService) Login(ctx context.Context, req member.LoginRequest) (*member.Member, string, string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*member.Member), args.String(1), args.String(2), args.Error(3)
}

func (m *MockMemberService) GetByID(ctx context.Context, memberID int) (*member.Member, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberService) ListByClub(ctx context.Context, clubID, limit, offset int) ([]member.Member, error) {
	args := m.Called(ctx, clubID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]member.Member), args.Error(1)
}

func (m *MockMemberService) RefreshToken(ctx context.Context, refreshToken string) (string, *member.Member, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*member.Member), args.Error(2)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SubscriptionFrozen(ctx context.Context, email, name, endDate string) {
	m.Called(ctx, email, name, endDate)
}

func (m *MockNotifier) SubscriptionUnfrozen(ctx context.Context, email, name, newEndDate string) {
	m.Called(ctx, email, name, newEndDate)
}

func (m *MockNotifier) PaymentConfirmed(ctx context.Context, email, name, amount string) {
	m.Called(ctx, email, name, amount)
}

func (m *MockNotifier) CancellationRequested(ctx context.Context, email, name, effectiveDate, fee string) {
	m.Called(ctx, email, name, effectiveDate, fee)
}

func (m *MockNotifier) CancellationCompleted(ctx context.Context, email, name, effectiveDate string) {
	m.Called(ctx, email, name, effectiveDate)
}

func (m *MockNotifier) CancellationWithdrawn(ctx context.Context, email, name string) {
	m.Called(ctx, email, name)
}

func (m *MockNotifier) OfferPresented(ctx context.Context, email, name, title, expiresAt string) {
	m.Called(ctx, email, name, title, expiresAt)
}

func (m *MockNotifier) OfferAccepted(ctx context.Context, email, name, title string) {
	m.Called(ctx, email, name, title)
}

func (m *MockNotifier) PlanChanged(ctx context.Context, email, name, changeType, netAmount string) {
	m.Called(ctx, email, name, changeType, netAmount)
}

type serviceMocks struct {
	repo     *MockRepository
	plans    *MockPlanService
	subs     *MockSubscriptionService
	wallets  *MockWalletService
	members  *MockMemberService
	notifier *MockNotifier
}

func newTestService(clk clock.Clock) (Service, serviceMocks) {
	m := serviceMocks{
		repo:     new(MockRepository),
		plans:    new(MockPlanService),
		subs:     new(MockSubscriptionService),
		wallets:  new(MockWalletService),
		members:  new(MockMemberService),
		notifier: new(MockNotifier),
	}
	svc := NewService(m.repo, m.plans, m.subs, m.wallets, m.members, m.notifier, clk)
	return svc, m
}

func activeSub() *subscription.Subscription {
	return &subscription.Subscription{
		ID:        9,
		MemberID:  5,
		ClubID:    1,
		PlanID:    1,
		Status:    subscription.StatusActive,
		StartDate: day(2026, 6, 1),
		EndDate:   day(2027, 6, 1),
	}
}

func TestService_ExecuteProrateImmediately(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(clock.OnDay(2026, 6, 21))

	m.subs.On("GetOwned", ctx, 9, 5).Return(activeSub(), nil)
	m.plans.On("GetPlan", ctx, 1).Return(monthlyPlan(1, "300"), nil)
	m.plans.On("GetPlan", ctx, 2).Return(monthlyPlan(2, "600"), nil)

	// Member owes 100; a positive net debits the wallet.
	m.wallets.On("Adjust", ctx, 5, dec("-100.00"), "plan change proration",
		&wallet.Reference{Type: "subscription", ID: 9}).
		Return(&wallet.Wallet{ID: 7, Balance: dec("-100")}, nil)
	m.subs.On("ChangePlan", ctx, 9, 2).Return(nil)
	m.repo.On("CreateHistory", ctx, mock.MatchedBy(func(h *PlanChangeHistory) bool {
		return h.ChangeType == ChangeUpgrade &&
			h.ProrationMode == ModeProrateImmediately &&
			h.NetAmount != nil && h.NetAmount.Equal(dec("100"))
	})).Return(&PlanChangeHistory{ID: 1, ChangeType: ChangeUpgrade}, nil)
	m.members.On("GetByID", ctx, 5).Return(&member.Member{ID: 5, Email: "a@b.c", Name: "Sara"}, nil)
	m.notifier.On("PlanChanged", ctx, "a@b.c", "Sara", "upgrade", "100.00").Return()

	result, err := svc.Execute(ctx, 5, 9, ChangePlanRequest{NewPlanID: 2, ProrationMode: "prorate_immediately"})

	require.NoError(t, err)
	require.NotNil(t, result.History)
	m.wallets.AssertExpectations(t)
	m.repo.AssertExpectations(t)
}

func TestService_LateralForcesNoProration(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(clock.OnDay(2026, 6, 21))

	m.subs.On("GetOwned", ctx, 9, 5).Return(activeSub(), nil)
	m.plans.On("GetPlan", ctx, 1).Return(monthlyPlan(1, "300"), nil)
	m.plans.On("GetPlan", ctx, 2).Return(monthlyPlan(2, "300"), nil)
	m.subs.On("ChangePlan", ctx, 9, 2).Return(nil)
	m.repo.On("CreateHistory", ctx, mock.MatchedBy(func(h *PlanChangeHistory) bool {
		return h.ChangeType == ChangeLateral &&
			h.ProrationMode == ModeNoProration &&
			h.CreditAmount == nil && h.ChargeAmount == nil && h.NetAmount == nil
	})).Return(&PlanChangeHistory{ID: 2}, nil)
	m.members.On("GetByID", ctx, 5).Return(&member.Member{ID: 5, Email: "a@b.c", Name: "Sara"}, nil)
	m.notifier.On("PlanChanged", ctx, "a@b.c", "Sara", "lateral", "0.00").Return()

	_, err := svc.Execute(ctx, 5, 9, ChangePlanRequest{NewPlanID: 2, ProrationMode: "prorate_immediately"})

	require.NoError(t, err)
	m.wallets.AssertNotCalled(t, "Adjust")
	m.repo.AssertExpectations(t)
}

func TestService_EndOfPeriodSchedules(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending change for the next period start", func(t *testing.T) {
		svc, m := newTestService(clock.OnDay(2026, 6, 21))

		m.subs.On("GetOwned", ctx, 9, 5).Return(activeSub(), nil)
		m.plans.On("GetPlan", ctx, 1).Return(monthlyPlan(1, "600"), nil)
		m.plans.On("GetPlan", ctx, 2).Return(monthlyPlan(2, "300"), nil)
		m.repo.On("GetPendingBySubscription", ctx, 9).Return(nil, sql.ErrNoRows)
		m.repo.On("CreateScheduled", ctx, mock.MatchedBy(func(sc *ScheduledPlanChange) bool {
			return sc.ChangeType == ChangeDowngrade && sc.ScheduledFor.Equal(day(2026, 7, 1))
		})).Return(&ScheduledPlanChange{ID: 3, Status: ScheduledPending}, nil)

		result, err := svc.Execute(ctx, 5, 9, ChangePlanRequest{NewPlanID: 2, ProrationMode: "end_of_period"})

		require.NoError(t, err)
		require.NotNil(t, result.Scheduled)
		m.subs.AssertNotCalled(t, "ChangePlan")
	})

	t.Run("one pending change per subscription", func(t *testing.T) {
		svc, m := newTestService(clock.OnDay(2026, 6, 21))

		m.subs.On("GetOwned", ctx, 9, 5).Return(activeSub(), nil)
		m.plans.On("GetPlan", ctx, 1).Return(monthlyPlan(1, "600"), nil)
		m.plans.On("GetPlan", ctx, 2).Return(monthlyPlan(2, "300"), nil)
		m.repo.On("GetPendingBySubscription", ctx, 9).Return(&ScheduledPlanChange{ID: 3, Status: ScheduledPending}, nil)

		_, err := svc.Execute(ctx, 5, 9, ChangePlanRequest{NewPlanID: 2, ProrationMode: "end_of_period"})

		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})
}

func TestService_ExecuteGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("frozen subscription rejected", func(t *testing.T) {
		svc, m := newTestService(clock.OnDay(2026, 6, 21))

		frozen := activeSub()
		frozen.Status = subscription.StatusFrozen
		m.subs.On("GetOwned", ctx, 9, 5).Return(frozen, nil)

		_, err := svc.Execute(ctx, 5, 9, ChangePlanRequest{NewPlanID: 2})

		assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))
	})

	t.Run("same plan rejected", func(t *testing.T) {
		svc, m := newTestService(clock.OnDay(2026, 6, 21))

		m.subs.On("GetOwned", ctx, 9, 5).Return(activeSub(), nil)
		m.plans.On("GetPlan", ctx, 1).Return(monthlyPlan(1, "300"), nil)

		_, err := svc.Execute(ctx, 5, 9, ChangePlanRequest{NewPlanID: 1})

		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestService_Preview(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(clock.OnDay(2026, 6, 21))

	m.subs.On("GetOwned", ctx, 9, 5).Return(activeSub(), nil)
	m.plans.On("GetPlan", ctx, 1).Return(monthlyPlan(1, "300"), nil)
	m.plans.On("GetPlan", ctx, 2).Return(monthlyPlan(2, "600"), nil)

	preview, err := svc.Preview(ctx, 5, 9, ChangePlanRequest{NewPlanID: 2, ProrationMode: "prorate_immediately"})

	require.NoError(t, err)
	assert.Equal(t, ChangeUpgrade, preview.ChangeType)
	require.NotNil(t, preview.Proration)
	assert.Equal(t, "100.00 SAR", preview.Proration.Net.String())
	m.repo.AssertNotCalled(t, "CreateHistory")
	m.wallets.AssertNotCalled(t, "Adjust")
}

func TestService_ProcessDue(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService(clock.OnDay(2026, 7, 1))

	due := ScheduledPlanChange{
		ID: 3, SubscriptionID: 9, MemberID: 5,
		FromPlanID: 1, ToPlanID: 2, ChangeType: ChangeDowngrade,
		ScheduledFor: day(2026, 7, 1), Status: ScheduledPending,
	}
	m.repo.On("ListDue", ctx, day(2026, 7, 1)).Return([]ScheduledPlanChange{due}, nil)
	m.subs.On("ChangePlan", ctx, 9, 2).Return(nil)
	m.repo.On("CreateHistory", ctx, mock.MatchedBy(func(h *PlanChangeHistory) bool {
		return h.ProrationMode == ModeEndOfPeriod && h.NetAmount == nil
	})).Return(&PlanChangeHistory{ID: 4}, nil)
	m.repo.On("UpdateScheduled", ctx, mock.MatchedBy(func(sc *ScheduledPlanChange) bool {
		return sc.Status == ScheduledProcessed
	})).Return(nil)

	n, err := svc.ProcessDue(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	m.repo.AssertExpectations(t)
}
