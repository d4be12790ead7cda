package contract

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/AminElhag/Liyaqa-sub011/internal/apperr"
	"github.com/AminElhag/Liyaqa-sub011/internal/clock"
	"github.com/AminElhag/Liyaqa-sub011/internal/club"
	"github.com/AminElhag/Liyaqa-sub011/internal/logger"
	"github.com/AminElhag/Liyaqa-sub011/internal/member"
	"github.com/AminElhag/Liyaqa-sub011/internal/metrics"
	"github.com/AminElhag/Liyaqa-sub011/internal/plan"
	"github.com/AminElhag/Liyaqa-sub011/internal/subscription"
)

type Service interface {
	Create(ctx context.Context, clubID int, req CreateContractRequest) (*MembershipContract, error)
	GetByID(ctx context.Context, id int) (*MembershipContract, error)
	GetOwned(ctx context.Context, id, memberID int) (*MembershipContract, error)
	GetBySubscription(ctx context.Context, subscriptionID int) (*MembershipContract, error)
	ListByMember(ctx context.Context, memberID int) ([]MembershipContract, error)

	Sign(ctx context.Context, id, memberID int, signatureData string) (*MembershipContract, error)
	Approve(ctx context.Context, id, staffID int) (*MembershipContract, error)
	CancelWithinCoolingOff(ctx context.Context, id, memberID int, reason string) (*MembershipContract, error)
	PreviewTerminationFee(ctx context.Context, id, memberID int) (*FeePreview, error)

	// Notice-period transitions. The cancellation workflow drives these;
	// they only move the contract state machine and never touch the
	// cancellation request rows.
	RequestCancellation(ctx context.Context, id int, reason string) (*MembershipContract, error)
	CompleteCancellation(ctx context.Context, id int) (*MembershipContract, error)
	WithdrawCancellation(ctx context.Context, id int) (*MembershipContract, error)

	Suspend(ctx context.Context, id int) (*MembershipContract, error)
	Reactivate(ctx context.Context, id int) (*MembershipContract, error)

	// ExpireDue is the periodic sweep flipping fixed-term contracts past
	// their commitment end to expired. Idempotent, safe to rerun.
	ExpireDue(ctx context.Context, clubID int) (int, error)
}

type service struct {
	repo    Repository
	clubs   club.Service
	plans   plan.Service
	subs    subscription.Service
	members member.Service
	clk     clock.Clock
	log     logger.Component
}

func NewService(repo Repository, clubs club.Service, plans plan.Service, subs subscription.Service, members member.Service, clk clock.Clock) Service {
	return &service{
		repo:    repo,
		clubs:   clubs,
		plans:   plans,
		subs:    subs,
		members: members,
		clk:     clk,
		log:     logger.With("contract"),
	}
}

// Create locks in the contract terms: the fee snapshot goes through the
// plan's pricing tier for the requested term, and the cooling-off and
// notice windows come from the club policy unless the request overrides
// them.
func (s *service) Create(ctx context.Context, clubID int, req CreateContractRequest) (*MembershipContract, error) {
	m, err := s.members.GetByID(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}
	if m.ClubID != clubID {
		return nil, apperr.NotFoundf("member %d not found", req.MemberID)
	}

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

	sub, err := s.subs.GetByID(ctx, req.SubscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.MemberID != req.MemberID {
		return nil, apperr.Validationf("subscription %d does not belong to member %d", req.SubscriptionID, req.MemberID)
	}
	if existing, err := s.repo.GetBySubscription(ctx, req.SubscriptionID); err == nil && existing != nil {
		return nil, apperr.Conflictf("subscription %d already has contract %s", req.SubscriptionID, existing.ContractNumber)
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	cl, err := s.clubs.GetClubByID(ctx, clubID)
	if err != nil {
		return nil, err
	}

	contractType := Type(req.ContractType)
	termMonths := req.TermMonths
	commitmentMonths := 0
	switch contractType {
	case TypeFixedTerm:
		if termMonths < 1 {
			return nil, apperr.Validationf("fixed_term contract needs term_months")
		}
		commitmentMonths = termMonths
	case TypeMonthToMonth:
		termMonths = 1
	}

	etfType, etfValue, err := parseETF(req.ETFType, req.ETFValue)
	if err != nil {
		return nil, err
	}
	if contractType == TypeMonthToMonth && etfType != ETFNone {
		return nil, apperr.Validationf("month_to_month contracts cannot carry an early termination fee")
	}

	monthlyFee := p.MembershipTaxableFee()
	tier, err := s.plans.TierForTerm(ctx, p.ID, termMonths)
	if err != nil {
		return nil, err
	}
	if tier != nil {
		monthlyFee = tier.EffectiveMonthlyFee(monthlyFee)
	}

	noticeDays := req.NoticePeriodDays
	if noticeDays == 0 {
		noticeDays = cl.NoticePeriodDays
	}
	coolingOffDays := req.CoolingOffDays
	if coolingOffDays == 0 {
		coolingOffDays = cl.CoolingOffDays
	}

	start := clock.Midnight(s.clk.Today())
	number, err := s.clubs.NextContractNumber(ctx, clubID, start.Year())
	if err != nil {
		return nil, err
	}

	c := &MembershipContract{
		ContractNumber:     number,
		MemberID:           req.MemberID,
		ClubID:             clubID,
		PlanID:             p.ID,
		SubscriptionID:     sub.ID,
		ContractType:       contractType,
		ContractTermMonths: termMonths,
		CommitmentMonths:   commitmentMonths,
		NoticePeriodDays:   noticeDays,
		StartDate:          start,
		CommitmentEndDate:  start.AddDate(0, commitmentMonths, 0),
		CoolingOffDays:     coolingOffDays,
		CoolingOffEndDate:  start.AddDate(0, 0, coolingOffDays),
		LockedMembershipFee: monthlyFee.Amount,
		LockedAdminFee:      p.AdminFee,
		LockedJoinFee:       p.JoinFee,
		Currency:            p.Currency,
		TaxRate:             p.TaxRate,
		ETFType:             etfType,
		ETFValue:            etfValue,
		Status:              StatusPendingSignature,
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}

	metrics.RecordContractCreated(string(contractType))
	s.log.Infof("contract %s created for member %d (plan %d, %d months)", created.ContractNumber, req.MemberID, p.ID, termMonths)
	return created, nil
}

func (s *service) GetByID(ctx context.Context, id int) (*MembershipContract, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFoundf("contract %d not found", id)
		}
		return nil, err
	}
	return c, nil
}

// GetOwned loads a contract and hides it behind NotFound when the
// requesting member does not own it.
func (s *service) GetOwned(ctx context.Context, id, memberID int) (*MembershipContract, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if memberID != 0 && c.MemberID != memberID {
		return nil, apperr.NotFoundf("contract %d not found", id)
	}
	return c, nil
}

func (s *service) GetBySubscription(ctx context.Context, subscriptionID int) (*MembershipContract, error) {
	c, err := s.repo.GetBySubscription(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFoundf("no contract for subscription %d", subscriptionID)
		}
		return nil, err
	}
	return c, nil
}

func (s *service) ListByMember(ctx context.Context, memberID int) ([]MembershipContract, error) {
	return s.repo.ListByMember(ctx, memberID)
}

func (s *service) Sign(ctx context.Context, id, memberID int, signatureData string) (*MembershipContract, error) {
	c, err := s.GetOwned(ctx, id, memberID)
	if err != nil {
		return nil, err
	}

	if err := c.SignByMember(s.clk.Now(), signatureData); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	metrics.ContractsSignedTotal.Inc()
	s.log.Infof("contract %s signed by member %d", c.ContractNumber, memberID)
	return c, nil
}

func (s *service) Approve(ctx context.Context, id, staffID int) (*MembershipContract, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.ApproveByStaff(staffID, s.clk.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// CancelWithinCoolingOff voids the contract and cancels the linked
// subscription. Always free; the fee preview endpoint will confirm a
// zero fee for the same window.
func (s *service) CancelWithinCoolingOff(ctx context.Context, id, memberID int, reason string) (*MembershipContract, error) {
	c, err := s.GetOwned(ctx, id, memberID)
	if err != nil {
		return nil, err
	}

	if err := c.CancelWithinCoolingOff(s.clk.Today(), reason); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	if err := s.cancelSubscription(ctx, c.SubscriptionID); err != nil {
		s.log.Errorf("cancel subscription %d after void of %s: %v", c.SubscriptionID, c.ContractNumber, err)
	}

	metrics.RecordCancellationOutcome("voided")
	s.log.Infof("contract %s voided within cooling-off", c.ContractNumber)
	return c, nil
}

func (s *service) PreviewTerminationFee(ctx context.Context, id, memberID int) (*FeePreview, error) {
	c, err := s.GetOwned(ctx, id, memberID)
	if err != nil {
		return nil, err
	}

	today := s.clk.Today()
	return &FeePreview{
		WithinCoolingOff:          c.IsWithinCoolingOff(today),
		WithinCommitment:          c.IsWithinCommitment(today),
		RemainingCommitmentMonths: c.RemainingCommitmentMonths(today),
		EarlyTerminationFee:       c.EarlyTerminationFee(today),
	}, nil
}

func (s *service) RequestCancellation(ctx context.Context, id int, reason string) (*MembershipContract, error) {
	return s.transition(ctx, id, func(c *MembershipContract) error {
		return c.RequestCancellation(s.clk.Today(), reason)
	})
}

func (s *service) CompleteCancellation(ctx context.Context, id int) (*MembershipContract, error) {
	c, err := s.transition(ctx, id, func(c *MembershipContract) error {
		return c.CompleteCancellation(s.clk.Today())
	})
	if err != nil {
		return nil, err
	}

	if err := s.cancelSubscription(ctx, c.SubscriptionID); err != nil {
		s.log.Errorf("cancel subscription %d after contract %s completed: %v", c.SubscriptionID, c.ContractNumber, err)
	}
	return c, nil
}

func (s *service) WithdrawCancellation(ctx context.Context, id int) (*MembershipContract, error) {
	return s.transition(ctx, id, func(c *MembershipContract) error {
		return c.WithdrawCancellationRequest()
	})
}

func (s *service) Suspend(ctx context.Context, id int) (*MembershipContract, error) {
	return s.transition(ctx, id, func(c *MembershipContract) error {
		return c.Suspend()
	})
}

func (s *service) Reactivate(ctx context.Context, id int) (*MembershipContract, error) {
	return s.transition(ctx, id, func(c *MembershipContract) error {
		return c.Reactivate()
	})
}

func (s *service) ExpireDue(ctx context.Context, clubID int) (int, error) {
	due, err := s.repo.ListExpirable(ctx, clubID, clock.Midnight(s.clk.Today()))
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range due {
		c := &due[i]
		if !c.Expire(s.clk.Today()) {
			continue
		}
		if err := s.repo.Update(ctx, c); err != nil {
			s.log.Errorf("expire contract %s: %v", c.ContractNumber, err)
			continue
		}
		expired++
	}

	return expired, nil
}

func (s *service) transition(ctx context.Context, id int, apply func(*MembershipContract) error) (*MembershipContract, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(c); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// cancelSubscription tolerates a subscription already in a terminal
// state; the contract transition has committed either way.
func (s *service) cancelSubscription(ctx context.Context, subscriptionID int) error {
	sub, err := s.subs.GetByID(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if sub.Status == subscription.StatusCancelled {
		return nil
	}
	_, err = s.subs.Cancel(ctx, subscriptionID)
	return err
}

func parseETF(rawType, rawValue string) (ETFType, decimal.Decimal, error) {
	t := ETFType(rawType)
	if rawType == "" {
		t = ETFNone
	}

	switch t {
	case ETFNone:
		return ETFNone, decimal.Zero, nil
	case ETFFlatFee, ETFRemainingMonths, ETFPercentage:
	default:
		return "", decimal.Zero, apperr.Validationf("unknown etf_type %q", rawType)
	}

	if t == ETFRemainingMonths {
		return t, decimal.Zero, nil
	}

	v, err := decimal.NewFromString(rawValue)
	if err != nil {
		return "", decimal.Zero, apperr.Validationf("etf_value is not a valid amount: %q", rawValue)
	}
	if v.IsNegative() {
		return "", decimal.Zero, apperr.Validationf("etf_value must not be negative")
	}
	if t == ETFPercentage && v.GreaterThan(decimal.NewFromInt(100)) {
		return "", decimal.Zero, apperr.Validationf("percentage etf_value must be between 0 and 100")
	}

	return t, v, nil
}
