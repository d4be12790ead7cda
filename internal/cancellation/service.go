package cancellation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/AminElhag/Liyaqa-sub011/internal/apperr"
	"github.com/AminElhag/Liyaqa-sub011/internal/clock"
	"github.com/AminElhag/Liyaqa-sub011/internal/club"
	"github.com/AminElhag/Liyaqa-sub011/internal/contract"
	"github.com/AminElhag/Liyaqa-sub011/internal/logger"
	"github.com/AminElhag/Liyaqa-sub011/internal/member"
	"github.com/AminElhag/Liyaqa-sub011/internal/metrics"
	"github.com/AminElhag/Liyaqa-sub011/internal/money"
	"github.com/AminElhag/Liyaqa-sub011/internal/notification"
	"github.com/AminElhag/Liyaqa-sub011/internal/plan"
	"github.com/AminElhag/Liyaqa-sub011/internal/planchange"
	"github.com/AminElhag/Liyaqa-sub011/internal/subscription"
	"github.com/AminElhag/Liyaqa-sub011/internal/wallet"
)

type Service interface {
	// Preview computes the notice window and any termination fee without
	// creating anything.
	Preview(ctx context.Context, memberID, subscriptionID int) (*CancellationPreview, error)
	Create(ctx context.Context, memberID int, req CreateCancellationRequest) (*CancellationView, error)
	GetByID(ctx context.Context, id, memberID int) (*CancellationRequest, error)
	ListByMember(ctx context.Context, memberID int) ([]CancellationRequest, error)
	Withdraw(ctx context.Context, id, memberID int) (*CancellationRequest, error)
	WaiveFee(ctx context.Context, id, staffID int, reason string) (*CancellationRequest, error)

	ListOffers(ctx context.Context, requestID, memberID int) ([]RetentionOffer, error)
	AcceptOffer(ctx context.Context, offerID, memberID int) (*RetentionOffer, error)
	DeclineOffer(ctx context.Context, offerID, memberID int) (*RetentionOffer, error)

	SubmitSurvey(ctx context.Context, requestID, memberID int, req SubmitSurveyRequest) (*ExitSurvey, error)
	Analytics(ctx context.Context, clubID int, since time.Time) (*AnalyticsReport, error)

	// CompleteDue finalizes requests whose notice period has run out.
	// Idempotent, safe to rerun.
	CompleteDue(ctx context.Context, clubID int) (int, error)
	// ExpireOffers closes pending offers past their validity window.
	ExpireOffers(ctx context.Context) (int, error)
}

type AnalyticsReport struct {
	Since           time.Time      `json:"since"`
	ReasonCounts    map[string]int `json:"reason_counts"`
	OutcomeCounts   map[Status]int `json:"outcome_counts"`
	SavedCount      int            `json:"saved_count"`
	CompletedCount  int            `json:"completed_count"`
	RetentionRate   float64        `json:"retention_rate"`
	NPSAverage      float64        `json:"nps_average"`
	NPSDistribution map[int]int    `json:"nps_distribution"`
}

type service struct {
	repo        Repository
	clubs       club.Service
	subs        subscription.Service
	contracts   contract.Service
	plans       plan.Service
	members     member.Service
	wallets     wallet.Service
	planchanges planchange.Service
	notifier    notification.Notifier
	clk         clock.Clock
	log         logger.Component
}

func NewService(repo Repository, clubs club.Service, subs subscription.Service, contracts contract.Service, plans plan.Service, members member.Service, wallets wallet.Service, planchanges planchange.Service, notifier notification.Notifier, clk clock.Clock) Service {
	return &service{
		repo:        repo,
		clubs:       clubs,
		subs:        subs,
		contracts:   contracts,
		plans:       plans,
		members:     members,
		wallets:     wallets,
		planchanges: planchanges,
		notifier:    notifier,
		clk:         clk,
		log:         logger.With("cancellation"),
	}
}

// policy is the snapshot taken at request time: notice window, fee and
// commitment flags resolved from the contract, falling back to club
// policy for subscriptions without one.
type policy struct {
	sub      *subscription.Subscription
	contract *contract.MembershipContract

	noticeDays          int
	noticePeriodEndDate time.Time
	effectiveDate       time.Time
	withinCommitment    bool
	withinCoolingOff    bool
	fee                 money.Money
}

func (s *service) resolvePolicy(ctx context.Context, memberID, subscriptionID int) (*policy, error) {
	sub, err := s.subs.GetOwned(ctx, subscriptionID, memberID)
	if err != nil {
		return nil, err
	}
	if sub.Status != subscription.StatusActive && sub.Status != subscription.StatusFrozen {
		return nil, apperr.InvalidTransitionf("cannot cancel a %s subscription", sub.Status)
	}

	p := &policy{sub: sub}

	ct, err := s.contracts.GetBySubscription(ctx, subscriptionID)
	switch {
	case err == nil:
		p.contract = ct
	case errors.Is(err, sql.ErrNoRows) || apperr.IsKind(err, apperr.KindNotFound):
		// No contract means club policy alone governs the cancellation.
	default:
		return nil, err
	}

	today := clock.Midnight(s.clk.Today())
	if p.contract != nil {
		p.noticeDays = p.contract.NoticePeriodDays
		p.withinCoolingOff = p.contract.IsWithinCoolingOff(today)
		p.withinCommitment = p.contract.IsWithinCommitment(today)
		p.fee = p.contract.EarlyTerminationFee(today)
	} else {
		c, err := s.clubs.GetClubByID(ctx, sub.ClubID)
		if err != nil {
			return nil, err
		}
		p.noticeDays = c.NoticePeriodDays
		p.fee = money.Zero(c.Currency)
	}

	p.noticePeriodEndDate = today.AddDate(0, 0, p.noticeDays)
	p.effectiveDate = p.noticePeriodEndDate.AddDate(0, 0, 1)
	if p.withinCoolingOff {
		// Cooling-off cancellations skip the notice period entirely.
		p.noticePeriodEndDate = today
		p.effectiveDate = today
	}

	return p, nil
}

func (s *service) Preview(ctx context.Context, memberID, subscriptionID int) (*CancellationPreview, error) {
	p, err := s.resolvePolicy(ctx, memberID, subscriptionID)
	if err != nil {
		return nil, err
	}

	return &CancellationPreview{
		NoticePeriodDays:    p.noticeDays,
		NoticePeriodEndDate: p.noticePeriodEndDate,
		EffectiveDate:       p.effectiveDate,
		IsWithinCommitment:  p.withinCommitment,
		IsWithinCoolingOff:  p.withinCoolingOff,
		TerminationFee:      p.fee,
	}, nil
}

func (s *service) Create(ctx context.Context, memberID int, req CreateCancellationRequest) (*CancellationView, error) {
	p, err := s.resolvePolicy(ctx, memberID, req.SubscriptionID)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetOpenBySubscription(ctx, req.SubscriptionID); err == nil && existing != nil {
		return nil, apperr.Conflictf("subscription %d already has an open cancellation request", req.SubscriptionID)
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	now := s.clk.Now()
	cr := &CancellationRequest{
		MemberID:            p.sub.MemberID,
		ClubID:              p.sub.ClubID,
		SubscriptionID:      p.sub.ID,
		Reason:              req.Reason,
		ReasonText:          req.ReasonText,
		NoticePeriodDays:    p.noticeDays,
		RequestedAt:         now,
		NoticePeriodEndDate: p.noticePeriodEndDate,
		EffectiveDate:       p.effectiveDate,
		IsWithinCommitment:  p.withinCommitment,
		IsWithinCoolingOff:  p.withinCoolingOff,
		TerminationFee:      p.fee.Amount,
		Currency:            p.fee.Currency,
		Status:              StatusPendingNotice,
	}
	if p.contract != nil {
		cr.ContractID = &p.contract.ID
	}

	created, err := s.repo.CreateRequest(ctx, cr)
	if err != nil {
		return nil, err
	}
	metrics.RecordCancellationRequest(req.Reason)

	if p.withinCoolingOff {
		if err := s.finalize(ctx, created); err != nil {
			return nil, err
		}
		s.log.Infof("cancellation %d completed immediately within cooling-off (subscription %d)", created.ID, p.sub.ID)
		return &CancellationView{Request: created}, nil
	}

	offers := s.generateOffers(ctx, created, p)

	if err := created.MarkInNotice(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRequest(ctx, created); err != nil {
		return nil, err
	}

	if p.contract != nil {
		if _, err := s.contracts.RequestCancellation(ctx, p.contract.ID, req.Reason); err != nil {
			s.log.Errorf("move contract %d into notice: %v", p.contract.ID, err)
		}
	}

	s.notifyRequested(ctx, created, offers)
	s.log.Infof("cancellation %d created for subscription %d, effective %s", created.ID, p.sub.ID, created.EffectiveDate.Format("2006-01-02"))
	return &CancellationView{Request: created, Offers: offers}, nil
}

// generateOffers builds the retention counter-proposals. Offer failures
// are logged, never surfaced: a cancellation request must not fail
// because an offer could not be stored.
func (s *service) generateOffers(ctx context.Context, cr *CancellationRequest, p *policy) []RetentionOffer {
	now := s.clk.Now()
	currency := cr.Currency
	if currency == "" {
		currency = money.DefaultCurrency
	}

	candidates := []*RetentionOffer{NewFreeFreezeOffer(cr.ID, currency, now)}

	if pl, err := s.plans.GetPlan(ctx, p.sub.PlanID); err == nil {
		if m, err := s.members.GetByID(ctx, cr.MemberID); err == nil && m.TenureDays(now) >= loyaltyMinTenureDays {
			candidates = append(candidates, NewLoyaltyDiscountOffer(cr.ID, pl.MonthlyFee(), now))
		}
		if cheaper := s.cheapestDowngrade(ctx, pl); cheaper != nil {
			candidates = append(candidates, NewDowngradeOffer(cr.ID, cheaper.ID, cheaper.Name.EN, cheaper.Name.AR, currency, now))
		}
	} else {
		s.log.Errorf("load plan %d for offers: %v", p.sub.PlanID, err)
	}

	offers := make([]RetentionOffer, 0, len(candidates))
	for _, o := range candidates {
		created, err := s.repo.CreateOffer(ctx, o)
		if err != nil {
			s.log.Errorf("store %s offer for request %d: %v", o.OfferType, cr.ID, err)
			continue
		}
		metrics.RecordRetentionOffer(string(created.OfferType), "presented")
		offers = append(offers, *created)
	}
	return offers
}

// cheapestDowngrade picks the most expensive active plan that is still
// cheaper than the current one, so the offer is the smallest step down.
func (s *service) cheapestDowngrade(ctx context.Context, current *plan.MembershipPlan) *plan.MembershipPlan {
	plans, err := s.plans.ListPlans(ctx, current.ClubID, true)
	if err != nil {
		s.log.Errorf("list plans for downgrade offer: %v", err)
		return nil
	}

	currentGross := current.RecurringGross()
	var best *plan.MembershipPlan
	for i := range plans {
		candidate := &plans[i]
		if candidate.ID == current.ID {
			continue
		}
		cmp, err := candidate.RecurringGross().Cmp(currentGross)
		if err != nil || cmp >= 0 {
			continue
		}
		if best == nil {
			best = candidate
			continue
		}
		if c, err := candidate.RecurringGross().Cmp(best.RecurringGross()); err == nil && c > 0 {
			best = candidate
		}
	}
	return best
}

func (s *service) GetByID(ctx context.Context, id, memberID int) (*CancellationRequest, error) {
	cr, err := s.repo.GetRequestByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFoundf("cancellation request %d not found", id)
		}
		return nil, err
	}
	if memberID != 0 && cr.MemberID != memberID {
		return nil, apperr.NotFoundf("cancellation request %d not found", id)
	}
	return cr, nil
}

func (s *service) ListByMember(ctx context.Context, memberID int) ([]CancellationRequest, error) {
	return s.repo.ListRequestsByMember(ctx, memberID)
}

func (s *service) Withdraw(ctx context.Context, id, memberID int) (*CancellationRequest, error) {
	cr, err := s.GetByID(ctx, id, memberID)
	if err != nil {
		return nil, err
	}

	if err := cr.Withdraw(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRequest(ctx, cr); err != nil {
		return nil, err
	}

	if cr.ContractID != nil {
		if _, err := s.contracts.WithdrawCancellation(ctx, *cr.ContractID); err != nil {
			s.log.Errorf("withdraw contract %d cancellation: %v", *cr.ContractID, err)
		}
	}

	metrics.RecordCancellationOutcome("withdrawn")
	s.notifyWithdrawn(ctx, cr)
	s.log.Infof("cancellation %d withdrawn", cr.ID)
	return cr, nil
}

func (s *service) WaiveFee(ctx context.Context, id, staffID int, reason string) (*CancellationRequest, error) {
	cr, err := s.GetByID(ctx, id, 0)
	if err != nil {
		return nil, err
	}

	if err := cr.WaiveFee(staffID, reason); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRequest(ctx, cr); err != nil {
		return nil, err
	}

	s.log.Infof("cancellation %d fee waived by staff %d", cr.ID, staffID)
	return cr, nil
}

func (s *service) ListOffers(ctx context.Context, requestID, memberID int) ([]RetentionOffer, error) {
	if _, err := s.GetByID(ctx, requestID, memberID); err != nil {
		return nil, err
	}
	return s.repo.ListOffersByRequest(ctx, requestID)
}

func (s *service) getOwnedOffer(ctx context.Context, offerID, memberID int) (*RetentionOffer, *CancellationRequest, error) {
	o, err := s.repo.GetOfferByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, apperr.NotFoundf("offer %d not found", offerID)
		}
		return nil, nil, err
	}

	cr, err := s.GetByID(ctx, o.CancellationRequestID, memberID)
	if err != nil {
		// Ownership is checked on the request; a foreign offer looks
		// like a missing one.
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, nil, apperr.NotFoundf("offer %d not found", offerID)
		}
		return nil, nil, err
	}
	return o, cr, nil
}

func (s *service) AcceptOffer(ctx context.Context, offerID, memberID int) (*RetentionOffer, error) {
	o, cr, err := s.getOwnedOffer(ctx, offerID, memberID)
	if err != nil {
		return nil, err
	}
	if !cr.isOpen() {
		return nil, apperr.InvalidTransitionf("cancellation request %d is already %s", cr.ID, cr.Status)
	}

	now := s.clk.Now()
	if err := o.Accept(now); err != nil {
		return nil, err
	}
	// The acceptance must be on record before the benefit lands; a
	// benefit applied against a still-pending offer can be delivered
	// twice on retry.
	if err := s.repo.UpdateOffer(ctx, o); err != nil {
		return nil, err
	}

	if err := s.applyBenefit(ctx, o, cr); err != nil {
		// The benefit never landed, so the offer goes back to pending
		// and the member can try again.
		o.Status = OfferPending
		o.RespondedAt = nil
		if uerr := s.repo.UpdateOffer(ctx, o); uerr != nil {
			s.log.Errorf("reopen offer %d after failed benefit: %v", o.ID, uerr)
		}
		return nil, err
	}

	s.declineSiblings(ctx, o)

	if err := cr.MarkSaved(o.ID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRequest(ctx, cr); err != nil {
		return nil, err
	}

	if cr.ContractID != nil {
		if _, err := s.contracts.WithdrawCancellation(ctx, *cr.ContractID); err != nil {
			s.log.Errorf("withdraw contract %d cancellation: %v", *cr.ContractID, err)
		}
	}
	if sub, err := s.subs.GetByID(ctx, cr.SubscriptionID); err == nil && sub.Status == subscription.StatusCancelled {
		if _, err := s.subs.Reactivate(ctx, sub.ID); err != nil {
			s.log.Errorf("reactivate subscription %d: %v", sub.ID, err)
		}
	}

	metrics.RecordRetentionOffer(string(o.OfferType), "accepted")
	metrics.RecordCancellationOutcome("saved")
	s.notifyOfferAccepted(ctx, cr, o)
	s.log.Infof("offer %d (%s) accepted, cancellation %d saved", o.ID, o.OfferType, cr.ID)
	return o, nil
}

// applyBenefit delivers what the offer promised. It runs only after
// the acceptance has been persisted; on failure the caller reopens
// the offer.
func (s *service) applyBenefit(ctx context.Context, o *RetentionOffer, cr *CancellationRequest) error {
	switch o.OfferType {
	case OfferFreeFreeze:
		if o.FreezeDays == nil {
			return apperr.Validationf("offer %d has no freeze days", o.ID)
		}
		return s.subs.AddFreezeDays(ctx, cr.SubscriptionID, *o.FreezeDays)

	case OfferLoyaltyDiscount:
		if o.CreditAmount == nil {
			return apperr.Validationf("offer %d has no credit amount", o.ID)
		}
		_, err := s.wallets.Credit(ctx, cr.MemberID, *o.CreditAmount, "loyalty retention credit")
		return err

	case OfferPlanDowngrade:
		if o.DowngradePlanID == nil {
			return apperr.Validationf("offer %d has no downgrade plan", o.ID)
		}
		_, err := s.planchanges.Execute(ctx, cr.MemberID, cr.SubscriptionID, planchange.ChangePlanRequest{
			NewPlanID:     *o.DowngradePlanID,
			ProrationMode: string(planchange.ModeEndOfPeriod),
		})
		return err

	default:
		return apperr.Validationf("unknown offer type %s", o.OfferType)
	}
}

func (s *service) declineSiblings(ctx context.Context, accepted *RetentionOffer) {
	siblings, err := s.repo.ListOffersByRequest(ctx, accepted.CancellationRequestID)
	if err != nil {
		s.log.Errorf("list sibling offers for request %d: %v", accepted.CancellationRequestID, err)
		return
	}

	now := s.clk.Now()
	for i := range siblings {
		sib := &siblings[i]
		if sib.ID == accepted.ID || sib.Status != OfferPending {
			continue
		}
		if err := sib.Decline(now); err != nil {
			continue
		}
		if err := s.repo.UpdateOffer(ctx, sib); err != nil {
			s.log.Errorf("decline sibling offer %d: %v", sib.ID, err)
		}
	}
}

func (s *service) DeclineOffer(ctx context.Context, offerID, memberID int) (*RetentionOffer, error) {
	o, _, err := s.getOwnedOffer(ctx, offerID, memberID)
	if err != nil {
		return nil, err
	}

	if err := o.Decline(s.clk.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateOffer(ctx, o); err != nil {
		return nil, err
	}

	metrics.RecordRetentionOffer(string(o.OfferType), "declined")
	return o, nil
}

func (s *service) SubmitSurvey(ctx context.Context, requestID, memberID int, req SubmitSurveyRequest) (*ExitSurvey, error) {
	cr, err := s.GetByID(ctx, requestID, memberID)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetSurveyByRequest(ctx, requestID); err == nil && existing != nil {
		return nil, apperr.Conflictf("cancellation request %d already has an exit survey", requestID)
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	survey, err := NewExitSurvey(cr.ID, cr.MemberID, *req.NPSScore, req.SatisfactionScore, req.WouldRecommend, req.CompetitorName, req.Comments)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateSurvey(ctx, survey)
	if err != nil {
		return nil, err
	}

	s.log.Infof("exit survey for cancellation %d: nps %d (%s)", cr.ID, created.NPSScore, created.Category())
	return created, nil
}

func (s *service) Analytics(ctx context.Context, clubID int, since time.Time) (*AnalyticsReport, error) {
	reasons, err := s.repo.CountReasons(ctx, clubID, since)
	if err != nil {
		return nil, err
	}
	outcomes, err := s.repo.CountOutcomes(ctx, clubID, since)
	if err != nil {
		return nil, err
	}
	avg, distribution, err := s.repo.NPSStats(ctx, clubID, since)
	if err != nil {
		return nil, err
	}

	saved := outcomes[StatusSaved]
	completed := outcomes[StatusCompleted]
	rate := 0.0
	if saved+completed > 0 {
		rate = float64(saved) / float64(saved+completed)
	}

	return &AnalyticsReport{
		Since:           since,
		ReasonCounts:    reasons,
		OutcomeCounts:   outcomes,
		SavedCount:      saved,
		CompletedCount:  completed,
		RetentionRate:   rate,
		NPSAverage:      avg,
		NPSDistribution: distribution,
	}, nil
}

func (s *service) CompleteDue(ctx context.Context, clubID int) (int, error) {
	due, err := s.repo.ListDue(ctx, clubID, clock.Midnight(s.clk.Today()))
	if err != nil {
		return 0, err
	}

	completed := 0
	for i := range due {
		cr := &due[i]
		if err := s.finalize(ctx, cr); err != nil {
			s.log.Errorf("complete cancellation %d: %v", cr.ID, err)
			continue
		}
		completed++
	}

	return completed, nil
}

// finalize closes a request: the subscription ends, the contract (if
// any) closes out, and the reactivation window opens.
func (s *service) finalize(ctx context.Context, cr *CancellationRequest) error {
	if err := cr.Complete(s.clk.Now()); err != nil {
		return err
	}
	if err := s.repo.UpdateRequest(ctx, cr); err != nil {
		return err
	}

	if _, err := s.subs.Cancel(ctx, cr.SubscriptionID); err != nil && !apperr.IsKind(err, apperr.KindInvalidTransition) {
		s.log.Errorf("cancel subscription %d: %v", cr.SubscriptionID, err)
	}

	if cr.ContractID != nil {
		var err error
		if cr.IsWithinCoolingOff {
			_, err = s.contracts.CancelWithinCoolingOff(ctx, *cr.ContractID, cr.MemberID, cr.Reason)
		} else {
			_, err = s.contracts.CompleteCancellation(ctx, *cr.ContractID)
		}
		if err != nil {
			s.log.Errorf("close contract %d: %v", *cr.ContractID, err)
		}
	}

	metrics.RecordCancellationOutcome("completed")
	s.notifyCompleted(ctx, cr)
	return nil
}

func (s *service) ExpireOffers(ctx context.Context) (int, error) {
	now := s.clk.Now()
	pending, err := s.repo.ListExpiredPendingOffers(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range pending {
		o := &pending[i]
		if !o.Expire(now) {
			continue
		}
		if err := s.repo.UpdateOffer(ctx, o); err != nil {
			s.log.Errorf("expire offer %d: %v", o.ID, err)
			continue
		}
		metrics.RecordRetentionOffer(string(o.OfferType), "expired")
		expired++
	}

	return expired, nil
}

func (s *service) notifyRequested(ctx context.Context, cr *CancellationRequest, offers []RetentionOffer) {
	m, err := s.members.GetByID(ctx, cr.MemberID)
	if err != nil {
		s.log.Errorf("notify member %d: %v", cr.MemberID, err)
		return
	}
	s.notifier.CancellationRequested(ctx, m.Email, m.Name, cr.EffectiveDate.Format("2006-01-02"), cr.GetEffectiveFee().String())
	for i := range offers {
		o := &offers[i]
		s.notifier.OfferPresented(ctx, m.Email, m.Name, o.Title.EN, o.ExpiresAt.Format("2006-01-02 15:04"))
	}
}

func (s *service) notifyCompleted(ctx context.Context, cr *CancellationRequest) {
	m, err := s.members.GetByID(ctx, cr.MemberID)
	if err != nil {
		s.log.Errorf("notify member %d: %v", cr.MemberID, err)
		return
	}
	s.notifier.CancellationCompleted(ctx, m.Email, m.Name, cr.EffectiveDate.Format("2006-01-02"))
}

func (s *service) notifyWithdrawn(ctx context.Context, cr *CancellationRequest) {
	m, err := s.members.GetByID(ctx, cr.MemberID)
	if err != nil {
		s.log.Errorf("notify member %d: %v", cr.MemberID, err)
		return
	}
	s.notifier.CancellationWithdrawn(ctx, m.Email, m.Name)
}

func (s *service) notifyOfferAccepted(ctx context.Context, cr *CancellationRequest, o *RetentionOffer) {
	m, err := s.members.GetByID(ctx, cr.MemberID)
	if err != nil {
		s.log.Errorf("notify member %d: %v", cr.MemberID, err)
		return
	}
	s.notifier.OfferAccepted(ctx, m.Email, m.Name, o.Title.EN)
}
