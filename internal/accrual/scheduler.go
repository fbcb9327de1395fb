package accrual

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultRunLocation is the station timezone; the monthly job fires
// at 02:00 on the 1st in this zone.
const DefaultRunLocation = "Asia/Manila"

type Scheduler struct {
	service Service
	loc     *time.Location
	logger  *zap.Logger
}

func NewScheduler(service Service, loc *time.Location, logger ...*zap.Logger) *Scheduler {
	l := zap.L().Named("accrual.scheduler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("accrual.scheduler")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{service: service, loc: loc, logger: l}
}

// Start blocks until ctx is canceled, firing the monthly run at each
// 1st-of-month 02:00 boundary. A failed run is logged and the loop
// keeps going; the unique run cells make the next attempt safe.
func (s *Scheduler) Start(ctx context.Context) {
	for {
		next := nextRun(time.Now().In(s.loc))
		s.logger.Info("accrual scheduler sleeping",
			zap.Time("next_run", next),
		)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("accrual scheduler stopped")
			return
		case <-timer.C:
		}

		if _, err := s.service.Run(ctx, time.Now()); err != nil {
			s.logger.Error("scheduled accrual run failed", zap.Error(err))
		}
	}
}

// nextRun is the first 1st-of-month 02:00 strictly after now, in
// now's location.
func nextRun(now time.Time) time.Time {
	loc := now.Location()
	candidate := time.Date(now.Year(), now.Month(), 1, 2, 0, 0, 0, loc)
	if !candidate.After(now) {
		candidate = time.Date(now.Year(), now.Month()+1, 1, 2, 0, 0, 0, loc)
	}
	return candidate
}
