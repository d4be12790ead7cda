package planchange

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/AminElhag/Liyaqa-sub011/internal/apperr"
	"github.com/AminElhag/Liyaqa-sub011/internal/clock"
	"github.com/AminElhag/Liyaqa-sub011/internal/logger"
	"github.com/AminElhag/Liyaqa-sub011/internal/member"
	"github.com/AminElhag/Liyaqa-sub011/internal/metrics"
	"github.com/AminElhag/Liyaqa-sub011/internal/notification"
	"github.com/AminElhag/Liyaqa-sub011/internal/plan"
	"github.com/AminElhag/Liyaqa-sub011/internal/subscription"
	"github.com/AminElhag/Liyaqa-sub011/internal/wallet"
)

type Service interface {
	// Preview runs the classification and proration math without
	// persisting anything.
	Preview(ctx context.Context, memberID, subscriptionID int, req ChangePlanRequest) (*ChangePreview, error)
	Execute(ctx context.Context, memberID, subscriptionID int, req ChangePlanRequest) (*ChangeResult, error)

	GetPendingScheduled(ctx context.Context, memberID, subscriptionID int) (*ScheduledPlanChange, error)
	CancelScheduled(ctx context.Context, id, memberID int) (*ScheduledPlanChange, error)
	ListHistory(ctx context.Context, memberID, subscriptionID int) ([]PlanChangeHistory, error)

	// ProcessDue materializes scheduled changes whose date has arrived.
	// Idempotent, safe to rerun.
	ProcessDue(ctx context.Context) (int, error)
}

type service struct {
	repo     Repository
	plans    plan.Service
	subs     subscription.Service
	wallets  wallet.Service
	members  member.Service
	notifier notification.Notifier
	clk      clock.Clock
	log      logger.Component
}

func NewService(repo Repository, plans plan.Service, subs subscription.Service, wallets wallet.Service, members member.Service, notifier notification.Notifier, clk clock.Clock) Service {
	return &service{
		repo:     repo,
		plans:    plans,
		subs:     subs,
		wallets:  wallets,
		members:  members,
		notifier: notifier,
		clk:      clk,
		log:      logger.With("planchange"),
	}
}

// resolved bundles everything both Preview and Execute need.
type resolved struct {
	sub        *subscription.Subscription
	oldPlan    *plan.MembershipPlan
	newPlan    *plan.MembershipPlan
	changeType ChangeType
	mode       ProrationMode
}

func (s *service) resolve(ctx context.Context, memberID, subscriptionID int, req ChangePlanRequest) (*resolved, error) {
	sub, err := s.subs.GetOwned(ctx, subscriptionID, memberID)
	if err != nil {
		return nil, err
	}
	if sub.Status != subscription.StatusActive {
		return nil, apperr.InvalidTransitionf("cannot change plan on a %s subscription", sub.Status)
	}

	oldPlan, err := s.plans.GetPlan(ctx, sub.PlanID)
	if err != nil {
		return nil, err
	}
	newPlan, err := s.plans.GetPlan(ctx, req.NewPlanID)
	if err != nil {
		return nil, err
	}
	if newPlan.ClubID != sub.ClubID {
		return nil, apperr.NotFoundf("plan %d not found", req.NewPlanID)
	}
	if !newPlan.IsActive {
		return nil, apperr.Validationf("plan %d is not open for signup", req.NewPlanID)
	}
	if newPlan.ID == oldPlan.ID {
		return nil, apperr.Validationf("subscription %d is already on plan %d", subscriptionID, newPlan.ID)
	}

	changeType, err := Classify(oldPlan, newPlan)
	if err != nil {
		return nil, err
	}

	mode := ProrationMode(req.ProrationMode)
	if mode == "" {
		mode = ModeProrateImmediately
	}
	// A lateral move carries no money whatever mode was asked for.
	if changeType == ChangeLateral {
		mode = ModeNoProration
	}

	return &resolved{sub: sub, oldPlan: oldPlan, newPlan: newPlan, changeType: changeType, mode: mode}, nil
}

func (s *service) Preview(ctx context.Context, memberID, subscriptionID int, req ChangePlanRequest) (*ChangePreview, error) {
	r, err := s.resolve(ctx, memberID, subscriptionID, req)
	if err != nil {
		return nil, err
	}

	today := s.clk.Today()
	_, periodEnd := CurrentPeriod(r.sub.StartDate, r.oldPlan.BillingPeriodMonths(), today)

	preview := &ChangePreview{
		ChangeType:    r.changeType,
		ProrationMode: r.mode,
		EffectiveDate: clock.Midnight(today),
	}

	switch r.mode {
	case ModeProrateImmediately:
		p := s.prorateNow(r, today)
		preview.Proration = &p
	case ModeFullPeriodCredit:
		p := FullPeriodCredit(r.oldPlan.MembershipFee, r.newPlan.MembershipFee, r.oldPlan.Currency)
		preview.Proration = &p
	case ModeEndOfPeriod:
		preview.EffectiveDate = periodEnd
	}

	return preview, nil
}

func (s *service) Execute(ctx context.Context, memberID, subscriptionID int, req ChangePlanRequest) (*ChangeResult, error) {
	r, err := s.resolve(ctx, memberID, subscriptionID, req)
	if err != nil {
		return nil, err
	}

	if r.mode == ModeEndOfPeriod {
		return s.schedule(ctx, r)
	}

	today := s.clk.Today()
	var proration *Proration
	switch r.mode {
	case ModeProrateImmediately:
		p := s.prorateNow(r, today)
		proration = &p
	case ModeFullPeriodCredit:
		p := FullPeriodCredit(r.oldPlan.MembershipFee, r.newPlan.MembershipFee, r.oldPlan.Currency)
		proration = &p
	}

	// One signed wallet movement for the whole change. A positive net
	// is owed by the member, so it debits the wallet.
	if proration != nil && !proration.Net.IsZero() {
		ref := &wallet.Reference{Type: "subscription", ID: r.sub.ID}
		_, err = s.wallets.Adjust(ctx, memberID, proration.Net.Amount.Neg(), "plan change proration", ref)
		if err != nil {
			return nil, err
		}
	}

	if err := s.subs.ChangePlan(ctx, r.sub.ID, r.newPlan.ID); err != nil {
		return nil, err
	}

	h := &PlanChangeHistory{
		SubscriptionID: r.sub.ID,
		MemberID:       r.sub.MemberID,
		FromPlanID:     r.oldPlan.ID,
		ToPlanID:       r.newPlan.ID,
		ChangeType:     r.changeType,
		ProrationMode:  r.mode,
		Currency:       r.oldPlan.Currency,
		EffectiveDate:  clock.Midnight(today),
	}
	if proration != nil {
		h.CreditAmount = &proration.Credit.Amount
		h.ChargeAmount = &proration.Charge.Amount
		h.NetAmount = &proration.Net.Amount
	}

	created, err := s.repo.CreateHistory(ctx, h)
	if err != nil {
		return nil, err
	}

	metrics.RecordPlanChange(string(r.changeType), string(r.mode))
	s.notifyChanged(ctx, r, proration)
	s.log.Infof("subscription %d %s from plan %d to %d (%s)", r.sub.ID, r.changeType, r.oldPlan.ID, r.newPlan.ID, r.mode)
	return &ChangeResult{History: created}, nil
}

func (s *service) schedule(ctx context.Context, r *resolved) (*ChangeResult, error) {
	if existing, err := s.repo.GetPendingBySubscription(ctx, r.sub.ID); err == nil && existing != nil {
		return nil, apperr.Conflictf("subscription %d already has a pending plan change", r.sub.ID)
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	_, periodEnd := CurrentPeriod(r.sub.StartDate, r.oldPlan.BillingPeriodMonths(), s.clk.Today())

	created, err := s.repo.CreateScheduled(ctx, &ScheduledPlanChange{
		SubscriptionID: r.sub.ID,
		MemberID:       r.sub.MemberID,
		FromPlanID:     r.oldPlan.ID,
		ToPlanID:       r.newPlan.ID,
		ChangeType:     r.changeType,
		ScheduledFor:   periodEnd,
		Status:         ScheduledPending,
	})
	if err != nil {
		return nil, err
	}

	s.log.Infof("subscription %d scheduled %s to plan %d for %s", r.sub.ID, r.changeType, r.newPlan.ID, periodEnd.Format("2006-01-02"))
	return &ChangeResult{Scheduled: created}, nil
}

func (s *service) GetPendingScheduled(ctx context.Context, memberID, subscriptionID int) (*ScheduledPlanChange, error) {
	if _, err := s.subs.GetOwned(ctx, subscriptionID, memberID); err != nil {
		return nil, err
	}

	sc, err := s.repo.GetPendingBySubscription(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFoundf("no pending plan change for subscription %d", subscriptionID)
		}
		return nil, err
	}
	return sc, nil
}

func (s *service) CancelScheduled(ctx context.Context, id, memberID int) (*ScheduledPlanChange, error) {
	sc, err := s.repo.GetScheduledByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFoundf("scheduled change %d not found", id)
		}
		return nil, err
	}
	if memberID != 0 && sc.MemberID != memberID {
		return nil, apperr.NotFoundf("scheduled change %d not found", id)
	}

	if err := sc.Cancel(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateScheduled(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *service) ListHistory(ctx context.Context, memberID, subscriptionID int) ([]PlanChangeHistory, error) {
	if _, err := s.subs.GetOwned(ctx, subscriptionID, memberID); err != nil {
		return nil, err
	}
	return s.repo.ListHistoryBySubscription(ctx, subscriptionID)
}

func (s *service) ProcessDue(ctx context.Context) (int, error) {
	due, err := s.repo.ListDue(ctx, clock.Midnight(s.clk.Today()))
	if err != nil {
		return 0, err
	}

	processed := 0
	for i := range due {
		sc := &due[i]
		if err := s.materialize(ctx, sc); err != nil {
			s.log.Errorf("materialize scheduled change %d: %v", sc.ID, err)
			continue
		}
		processed++
	}

	return processed, nil
}

func (s *service) materialize(ctx context.Context, sc *ScheduledPlanChange) error {
	if err := sc.MarkProcessed(s.clk.Now()); err != nil {
		return err
	}

	if err := s.subs.ChangePlan(ctx, sc.SubscriptionID, sc.ToPlanID); err != nil {
		return err
	}

	_, err := s.repo.CreateHistory(ctx, &PlanChangeHistory{
		SubscriptionID: sc.SubscriptionID,
		MemberID:       sc.MemberID,
		FromPlanID:     sc.FromPlanID,
		ToPlanID:       sc.ToPlanID,
		ChangeType:     sc.ChangeType,
		ProrationMode:  ModeEndOfPeriod,
		EffectiveDate:  clock.Midnight(sc.ScheduledFor),
	})
	if err != nil {
		return err
	}

	if err := s.repo.UpdateScheduled(ctx, sc); err != nil {
		return err
	}

	metrics.RecordPlanChange(string(sc.ChangeType), string(ModeEndOfPeriod))
	return nil
}

func (s *service) prorateNow(r *resolved, today time.Time) Proration {
	periodStart, periodEnd := CurrentPeriod(r.sub.StartDate, r.oldPlan.BillingPeriodMonths(), today)
	return Prorate(r.oldPlan.MembershipFee, r.newPlan.MembershipFee, r.oldPlan.Currency, periodStart, periodEnd, today)
}

func (s *service) notifyChanged(ctx context.Context, r *resolved, proration *Proration) {
	m, err := s.members.GetByID(ctx, r.sub.MemberID)
	if err != nil {
		s.log.Errorf("notify member %d: %v", r.sub.MemberID, err)
		return
	}
	net := "0.00"
	if proration != nil {
		net = proration.Net.Amount.StringFixed(2)
	}
	s.notifier.PlanChanged(ctx, m.Email, m.Name, string(r.changeType), net)
}
