package cancellation

import (
	"context"
	"time"
)

type Repository interface {
	CreateRequest(ctx context.Context, r *CancellationRequest) (*CancellationRequest, error)
	GetRequestByID(ctx context.Context, id int) (*CancellationRequest, error)
	GetOpenBySubscription(ctx context.Context, subscriptionID int) (*CancellationRequest, error)
	ListRequestsByMember(ctx context.Context, memberID int) ([]CancellationRequest, error)
	UpdateRequest(ctx context.Context, r *CancellationRequest) error
	ListDue(ctx context.Context, clubID int, today time.Time) ([]CancellationRequest, error)

	CreateOffer(ctx context.Context, o *RetentionOffer) (*RetentionOffer, error)
	GetOfferByID(ctx context.Context, id int) (*RetentionOffer, error)
	ListOffersByRequest(ctx context.Context, requestID int) ([]RetentionOffer, error)
	UpdateOffer(ctx context.Context, o *RetentionOffer) error
	ListExpiredPendingOffers(ctx context.Context, now time.Time) ([]RetentionOffer, error)

	CreateSurvey(ctx context.Context, s *ExitSurvey) (*ExitSurvey, error)
	GetSurveyByRequest(ctx context.Context, requestID int) (*ExitSurvey, error)

	CountReasons(ctx context.Context, clubID int, since time.Time) (map[string]int, error)
	CountOutcomes(ctx context.Context, clubID int, since time.Time) (map[Status]int, error)
	NPSStats(ctx context.Context, clubID int, since time.Time) (avg float64, distribution map[int]int, err error)
}
