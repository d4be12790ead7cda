package cancellation

import (
	"time"

	"github.com/AminElhag/Liyaqa-sub011/internal/apperr"
)

const (
	NPSDetractor = "detractor"
	NPSPassive   = "passive"
	NPSPromoter  = "promoter"
)

// ExitSurvey is immutable once submitted. One survey per cancellation
// request; the member fills it in at any point after requesting.
type ExitSurvey struct {
	ID                    int       `db:"id" json:"id"`
	CancellationRequestID int       `db:"cancellation_request_id" json:"cancellation_request_id"`
	MemberID              int       `db:"member_id" json:"member_id"`
	NPSScore              int       `db:"nps_score" json:"nps_score"`
	SatisfactionScore     int       `db:"satisfaction_score" json:"satisfaction_score"`
	WouldRecommend        bool      `db:"would_recommend" json:"would_recommend"`
	CompetitorName        *string   `db:"competitor_name" json:"competitor_name,omitempty"`
	Comments              *string   `db:"comments" json:"comments,omitempty"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
}

func NewExitSurvey(requestID, memberID, nps, satisfaction int, wouldRecommend bool, competitor, comments *string) (*ExitSurvey, error) {
	if nps < 0 || nps > 10 {
		return nil, apperr.Validationf("nps score must be between 0 and 10")
	}
	if satisfaction < 1 || satisfaction > 5 {
		return nil, apperr.Validationf("satisfaction score must be between 1 and 5")
	}
	return &ExitSurvey{
		CancellationRequestID: requestID,
		MemberID:              memberID,
		NPSScore:              nps,
		SatisfactionScore:     satisfaction,
		WouldRecommend:        wouldRecommend,
		CompetitorName:        competitor,
		Comments:              comments,
	}, nil
}

// Category buckets the NPS score. Derived, never stored, so the
// standard thresholds can change without a data migration.
func (s *ExitSurvey) Category() string {
	switch {
	case s.NPSScore <= 6:
		return NPSDetractor
	case s.NPSScore <= 8:
		return NPSPassive
	default:
		return NPSPromoter
	}
}

type SubmitSurveyRequest struct {
	NPSScore          *int    `json:"nps_score" binding:"required,min=0,max=10"`
	SatisfactionScore int     `json:"satisfaction_score" binding:"required,min=1,max=5"`
	WouldRecommend    bool    `json:"would_recommend"`
	CompetitorName    *string `json:"competitor_name"`
	Comments          *string `json:"comments"`
}
