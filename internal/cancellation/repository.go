package cancellation

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const requestColumns = `id, member_id, club_id, subscription_id, contract_id,
	reason, reason_text,
	notice_period_days, requested_at, notice_period_end_date, effective_date,
	is_within_commitment, is_within_cooling_off, termination_fee, currency,
	fee_waived, fee_waived_by_staff, fee_waiver_reason,
	status, saved_by_offer_id, completed_at, reactivation_deadline,
	created_at, updated_at`

const offerColumns = `id, cancellation_request_id, offer_type, title, description, status,
	freeze_days, discount_percent, discount_months, credit_amount, downgrade_plan_id, currency,
	expires_at, responded_at, created_at`

const surveyColumns = `id, cancellation_request_id, member_id,
	nps_score, satisfaction_score, would_recommend, competitor_name, comments, created_at`

func (r *repository) CreateRequest(ctx context.Context, cr *CancellationRequest) (*CancellationRequest, error) {
	query := `
		INSERT INTO cancellation_requests (
			member_id, club_id, subscription_id, contract_id,
			reason, reason_text,
			notice_period_days, requested_at, notice_period_end_date, effective_date,
			is_within_commitment, is_within_cooling_off, termination_fee, currency,
			status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + requestColumns

	var created CancellationRequest
	err := r.db.GetContext(ctx, &created, query,
		cr.MemberID, cr.ClubID, cr.SubscriptionID, cr.ContractID,
		cr.Reason, cr.ReasonText,
		cr.NoticePeriodDays, cr.RequestedAt, cr.NoticePeriodEndDate, cr.EffectiveDate,
		cr.IsWithinCommitment, cr.IsWithinCoolingOff, cr.TerminationFee, cr.Currency,
		cr.Status)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetRequestByID(ctx context.Context, id int) (*CancellationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM cancellation_requests WHERE id = $1`

	var cr CancellationRequest
	err := r.db.GetContext(ctx, &cr, query, id)
	if err != nil {
		return nil, err
	}

	return &cr, nil
}

// GetOpenBySubscription guards the one-open-request-per-subscription
// rule at creation time.
func (r *repository) GetOpenBySubscription(ctx context.Context, subscriptionID int) (*CancellationRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM cancellation_requests
		WHERE subscription_id = $1 AND status IN ('pending_notice', 'in_notice')
		LIMIT 1
	`

	var cr CancellationRequest
	err := r.db.GetContext(ctx, &cr, query, subscriptionID)
	if err != nil {
		return nil, err
	}

	return &cr, nil
}

func (r *repository) ListRequestsByMember(ctx context.Context, memberID int) ([]CancellationRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM cancellation_requests
		WHERE member_id = $1
		ORDER BY created_at DESC
	`

	var requests []CancellationRequest
	err := r.db.SelectContext(ctx, &requests, query, memberID)
	if err != nil {
		return nil, err
	}

	return requests, nil
}

// UpdateRequest persists every field the workflow touches in one
// statement. The policy snapshot columns are immutable after Create.
func (r *repository) UpdateRequest(ctx context.Context, cr *CancellationRequest) error {
	query := `
		UPDATE cancellation_requests
		SET status = $2,
		    fee_waived = $3,
		    fee_waived_by_staff = $4,
		    fee_waiver_reason = $5,
		    saved_by_offer_id = $6,
		    completed_at = $7,
		    reactivation_deadline = $8,
		    updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		cr.ID, cr.Status, cr.FeeWaived, cr.FeeWaivedByStaff, cr.FeeWaiverReason,
		cr.SavedByOfferID, cr.CompletedAt, cr.ReactivationDeadline)
	return err
}

func (r *repository) ListDue(ctx context.Context, clubID int, today time.Time) ([]CancellationRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM cancellation_requests
		WHERE club_id = $1 AND status IN ('pending_notice', 'in_notice') AND effective_date <= $2
	`

	var requests []CancellationRequest
	err := r.db.SelectContext(ctx, &requests, query, clubID, today)
	if err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *repository) CreateOffer(ctx context.Context, o *RetentionOffer) (*RetentionOffer, error) {
	query := `
		INSERT INTO retention_offers (
			cancellation_request_id, offer_type, title, description, status,
			freeze_days, discount_percent, discount_months, credit_amount, downgrade_plan_id, currency,
			expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + offerColumns

	var created RetentionOffer
	err := r.db.GetContext(ctx, &created, query,
		o.CancellationRequestID, o.OfferType, o.Title, o.Description, o.Status,
		o.FreezeDays, o.DiscountPercent, o.DiscountMonths, o.CreditAmount, o.DowngradePlanID, o.Currency,
		o.ExpiresAt)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetOfferByID(ctx context.Context, id int) (*RetentionOffer, error) {
	query := `SELECT ` + offerColumns + ` FROM retention_offers WHERE id = $1`

	var o RetentionOffer
	err := r.db.GetContext(ctx, &o, query, id)
	if err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *repository) ListOffersByRequest(ctx context.Context, requestID int) ([]RetentionOffer, error) {
	query := `
		SELECT ` + offerColumns + `
		FROM retention_offers
		WHERE cancellation_request_id = $1
		ORDER BY id
	`

	var offers []RetentionOffer
	err := r.db.SelectContext(ctx, &offers, query, requestID)
	if err != nil {
		return nil, err
	}

	return offers, nil
}

func (r *repository) UpdateOffer(ctx context.Context, o *RetentionOffer) error {
	query := `
		UPDATE retention_offers
		SET status = $2,
		    responded_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, o.ID, o.Status, o.RespondedAt)
	return err
}

func (r *repository) ListExpiredPendingOffers(ctx context.Context, now time.Time) ([]RetentionOffer, error) {
	query := `
		SELECT ` + offerColumns + `
		FROM retention_offers
		WHERE status = 'pending' AND expires_at <= $1
	`

	var offers []RetentionOffer
	err := r.db.SelectContext(ctx, &offers, query, now)
	if err != nil {
		return nil, err
	}

	return offers, nil
}

func (r *repository) CreateSurvey(ctx context.Context, s *ExitSurvey) (*ExitSurvey, error) {
	query := `
		INSERT INTO exit_surveys (
			cancellation_request_id, member_id,
			nps_score, satisfaction_score, would_recommend, competitor_name, comments
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + surveyColumns

	var created ExitSurvey
	err := r.db.GetContext(ctx, &created, query,
		s.CancellationRequestID, s.MemberID,
		s.NPSScore, s.SatisfactionScore, s.WouldRecommend, s.CompetitorName, s.Comments)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetSurveyByRequest(ctx context.Context, requestID int) (*ExitSurvey, error) {
	query := `SELECT ` + surveyColumns + ` FROM exit_surveys WHERE cancellation_request_id = $1`

	var s ExitSurvey
	err := r.db.GetContext(ctx, &s, query, requestID)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *repository) CountReasons(ctx context.Context, clubID int, since time.Time) (map[string]int, error) {
	query := `
		SELECT reason, COUNT(*) AS count
		FROM cancellation_requests
		WHERE club_id = $1 AND requested_at >= $2
		GROUP BY reason
	`

	rows := []struct {
		Reason string `db:"reason"`
		Count  int    `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, clubID, since); err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Reason] = row.Count
	}
	return counts, nil
}

func (r *repository) CountOutcomes(ctx context.Context, clubID int, since time.Time) (map[Status]int, error) {
	query := `
		SELECT status, COUNT(*) AS count
		FROM cancellation_requests
		WHERE club_id = $1 AND requested_at >= $2
		GROUP BY status
	`

	rows := []struct {
		Status Status `db:"status"`
		Count  int    `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, clubID, since); err != nil {
		return nil, err
	}

	counts := make(map[Status]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *repository) NPSStats(ctx context.Context, clubID int, since time.Time) (float64, map[int]int, error) {
	query := `
		SELECT s.nps_score, COUNT(*) AS count
		FROM exit_surveys s
		JOIN cancellation_requests cr ON cr.id = s.cancellation_request_id
		WHERE cr.club_id = $1 AND s.created_at >= $2
		GROUP BY s.nps_score
	`

	rows := []struct {
		Score int `db:"nps_score"`
		Count int `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, clubID, since); err != nil {
		return 0, nil, err
	}

	distribution := make(map[int]int, len(rows))
	total, sum := 0, 0
	for _, row := range rows {
		distribution[row.Score] = row.Count
		total += row.Count
		sum += row.Score * row.Count
	}

	avg := 0.0
	if total > 0 {
		avg = float64(sum) / float64(total)
	}
	return avg, distribution, nil
}
