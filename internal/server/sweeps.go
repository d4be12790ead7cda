package server

import (
	"context"
	"time"

	"github.com/AminElhag/Liyaqa-sub011/internal/logger"
	"github.com/AminElhag/Liyaqa-sub011/internal/metrics"
)

// RunSweeps drives the time-based lifecycle transitions: expiring
// subscriptions and contracts, completing due cancellations, applying
// scheduled plan changes and expiring stale retention offers. One pass
// runs immediately, then every interval until ctx is cancelled.
func (s *Server) RunSweeps(ctx context.Context, interval time.Duration) {
	log := logger.With("sweep")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.sweepOnce(ctx, log)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce(ctx, log)
		}
	}
}

func (s *Server) sweepOnce(ctx context.Context, log logger.Component) {
	clubs, err := s.clubs.GetAllClubs(ctx)
	if err != nil {
		log.Errorf("listing clubs: %v", err)
		metrics.RecordSweepRun("list_clubs", "error")
		return
	}

	for _, c := range clubs {
		runJob(log, "expire_subscriptions", c.ID, func() (int, error) {
			return s.subscriptions.ExpireDue(ctx, c.ID)
		})
		runJob(log, "expire_contracts", c.ID, func() (int, error) {
			return s.contracts.ExpireDue(ctx, c.ID)
		})
		runJob(log, "complete_cancellations", c.ID, func() (int, error) {
			return s.cancellations.CompleteDue(ctx, c.ID)
		})
	}

	runJob(log, "apply_plan_changes", 0, func() (int, error) {
		return s.planChanges.ProcessDue(ctx)
	})
	runJob(log, "expire_offers", 0, func() (int, error) {
		return s.cancellations.ExpireOffers(ctx)
	})
}

func runJob(log logger.Component, job string, clubID int, fn func() (int, error)) {
	n, err := fn()
	if err != nil {
		log.Errorf("%s club=%d: %v", job, clubID, err)
		metrics.RecordSweepRun(job, "error")
		return
	}
	if n > 0 {
		log.Infof("%s club=%d processed=%d", job, clubID, n)
	}
	metrics.RecordSweepRun(job, "ok")
}
