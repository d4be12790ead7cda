package subscription

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AminElhag/Liyaqa-sub011/internal/apperr"
	"github.com/AminElhag/Liyaqa-sub011/internal/clock"
	"github.com/AminElhag/Liyaqa-sub011/internal/logger"
	"github.com/AminElhag/Liyaqa-sub011/internal/member"
	"github.com/AminElhag/Liyaqa-sub011/internal/metrics"
	"github.com/AminElhag/Liyaqa-sub011/internal/notification"
	"github.com/AminElhag/Liyaqa-sub011/internal/plan"
)

type Service interface {
	Create(ctx context.Context, memberID, clubID int, req CreateSubscriptionRequest) (*Subscription, error)
	GetByID(ctx context.Context, id int) (*Subscription, error)
	GetOwned(ctx context.Context, id, memberID int) (*Subscription, error)
	ListByMember(ctx context.Context, memberID int) ([]Subscription, error)

	Freeze(ctx context.Context, id, memberID int) (*Subscription, error)
	Unfreeze(ctx context.Context, id, memberID int) (*Subscription, error)
	UseClass(ctx context.Context, id, memberID int) (*Subscription, error)
	UseGuestPass(ctx context.Context, id, memberID int) (*Subscription, error)
	Renew(ctx context.Context, id int, newEndDate time.Time) (*Subscription, error)
	ConfirmPayment(ctx context.Context, id int, amount decimal.Decimal) (*Subscription, error)

	// Cancel ends a subscription immediately. Contract and cancellation
	// workflows call this once their own state has committed.
	Cancel(ctx context.Context, id int) (*Subscription, error)
	Reactivate(ctx context.Context, id int) (*Subscription, error)
	AddFreezeDays(ctx context.Context, id, days int) error
	ChangePlan(ctx context.Context, id, newPlanID int) error

	// ExpireDue is the periodic sweep flipping past-end-date actives to
	// expired. Idempotent, safe to rerun.
	ExpireDue(ctx context.Context, clubID int) (int, error)
}

type service struct {
	repo     Repository
	plans    plan.Service
	members  member.Service
	notifier notification.Notifier
	clk      clock.Clock
	log      logger.Component
}

func NewService(repo Repository, plans plan.Service, members member.Service, notifier notification.Notifier, clk clock.Clock) Service {
	return &service{
		repo:     repo,
		plans:    plans,
		members:  members,
		notifier: notifier,
		clk:      clk,
		log:      logger.With("subscription"),
	}
}

func (s *service) Create(ctx context.Context, memberID, clubID int, req CreateSubscriptionRequest) (*Subscription, error) {
	p, err := s.plans.GetPlan(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if p.ClubID != clubID {
		return nil, apperr.NotFoundf("plan %d not found", req.PlanID)
	}
	if !p.IsActive {
		return nil, apperr.Validationf("plan %d is not open for signup", req.PlanID)
	}

	status := StatusPendingPayment
	if req.StartImmediate {
		status = StatusActive
	}

	start := clock.Midnight(s.clk.Today())
	sub := &Subscription{
		MemberID:             memberID,
		ClubID:               clubID,
		PlanID:               p.ID,
		Status:               status,
		StartDate:            start,
		EndDate:              start.AddDate(0, p.DurationMonths, 0),
		FreezeDaysRemaining:  p.FreezeDayAllowance,
		ClassesRemaining:     p.ClassAllowance,
		GuestPassesRemaining: p.GuestPassAllowance,
	}

	created, err := s.repo.Create(ctx, sub)
	if err != nil {
		return nil, err
	}

	metrics.SubscriptionsCreatedTotal.Inc()
	s.log.Infof("subscription %d created for member %d on plan %d (%s)", created.ID, memberID, p.ID, status)
	return created, nil
}

func (s *service) GetByID(ctx context.Context, id int) (*Subscription, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFoundf("subscription %d not found", id)
		}
		return nil, err
	}
	return sub, nil
}

// GetOwned loads a subscription and hides it behind NotFound when the
// requesting member does not own it.
func (s *service) GetOwned(ctx context.Context, id, memberID int) (*Subscription, error) {
	sub, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if memberID != 0 && sub.MemberID != memberID {
		return nil, apperr.NotFoundf("subscription %d not found", id)
	}
	return sub, nil
}

func (s *service) ListByMember(ctx context.Context, memberID int) ([]Subscription, error) {
	return s.repo.ListByMember(ctx, memberID)
}

func (s *service) Freeze(ctx context.Context, id, memberID int) (*Subscription, error) {
	sub, err := s.GetOwned(ctx, id, memberID)
	if err != nil {
		return nil, err
	}

	if err := sub.Freeze(s.clk.Today()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}

	metrics.RecordSubscriptionFreeze("freeze")
	s.notifyMember(ctx, sub.MemberID, func(m *member.Member) {
		s.notifier.SubscriptionFrozen(ctx, m.Email, m.Name, sub.EndDate.Format("2006-01-02"))
	})
	return sub, nil
}

func (s *service) Unfreeze(ctx context.Context, id, memberID int) (*Subscription, error) {
	sub, err := s.GetOwned(ctx, id, memberID)
	if err != nil {
		return nil, err
	}

	if err := sub.Unfreeze(s.clk.Today()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}

	metrics.RecordSubscriptionFreeze("unfreeze")
	s.notifyMember(ctx, sub.MemberID, func(m *member.Member) {
		s.notifier.SubscriptionUnfrozen(ctx, m.Email, m.Name, sub.EndDate.Format("2006-01-02"))
	})
	return sub, nil
}

func (s *service) UseClass(ctx context.Context, id, memberID int) (*Subscription, error) {
	sub, err := s.GetOwned(ctx, id, memberID)
	if err != nil {
		return nil, err
	}

	if err := sub.UseClass(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *service) UseGuestPass(ctx context.Context, id, memberID int) (*Subscription, error) {
	sub, err := s.GetOwned(ctx, id, memberID)
	if err != nil {
		return nil, err
	}

	if err := sub.UseGuestPass(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *service) Renew(ctx context.Context, id int, newEndDate time.Time) (*Subscription, error) {
	sub, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := sub.Renew(clock.Midnight(newEndDate)); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *service) ConfirmPayment(ctx context.Context, id int, amount decimal.Decimal) (*Subscription, error) {
	sub, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := sub.ConfirmPayment(amount); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.notifyMember(ctx, sub.MemberID, func(m *member.Member) {
		s.notifier.PaymentConfirmed(ctx, m.Email, m.Name, amount.StringFixed(2))
	})
	return sub, nil
}

func (s *service) Cancel(ctx context.Context, id int) (*Subscription, error) {
	sub, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := sub.Cancel(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.log.Infof("subscription %d cancelled", id)
	return sub, nil
}

func (s *service) Reactivate(ctx context.Context, id int) (*Subscription, error) {
	sub, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := sub.Reactivate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.log.Infof("subscription %d reactivated", id)
	return sub, nil
}

func (s *service) AddFreezeDays(ctx context.Context, id, days int) error {
	if days <= 0 {
		return apperr.Validationf("freeze days to add must be positive")
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.AddFreezeDays(ctx, id, days)
}

func (s *service) ChangePlan(ctx context.Context, id, newPlanID int) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.UpdatePlan(ctx, id, newPlanID)
}

func (s *service) ExpireDue(ctx context.Context, clubID int) (int, error) {
	due, err := s.repo.ListExpirable(ctx, clubID, clock.Midnight(s.clk.Today()))
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range due {
		sub := &due[i]
		if !sub.Expire(s.clk.Today()) {
			continue
		}
		if err := s.repo.Update(ctx, sub); err != nil {
			s.log.Errorf("expire subscription %d: %v", sub.ID, err)
			continue
		}
		expired++
	}

	return expired, nil
}

func (s *service) notifyMember(ctx context.Context, memberID int, send func(*member.Member)) {
	m, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		s.log.Errorf("notify member %d: %v", memberID, err)
		return
	}
	send(m)
}
