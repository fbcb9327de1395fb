package accrual

import (
	"context"
	"database/sql"
	"time"

	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/leavebalance"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/leavecalc"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/personnel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Monthly earning rates per CSC leave credit rules.
var (
	MonthlyVacationCredit = decimal.NewFromFloat(1.25)
	MonthlySickCredit     = decimal.NewFromFloat(1.25)
)

type FailedAccrual struct {
	PersonnelID string `json:"personnel_id"`
	Error       string `json:"error"`
}

// RunReport summarizes one monthly run. Skipped counts personnel whose
// period cell was already claimed by an earlier run.
type RunReport struct {
	Year      int             `json:"year"`
	Month     int             `json:"month"`
	Processed int             `json:"processed"`
	Skipped   int             `json:"skipped"`
	Failed    []FailedAccrual `json:"failed,omitempty"`
}

//go:generate mockgen -source=accrual_service.go -destination=mock/accrual_service_mock.go -package=mock
type Service interface {
	// Run credits the monthly leave accrual for every eligible active
	// personnel. now anchors the period; the scheduler passes the
	// wall clock and tests pass fixed dates.
	Run(ctx context.Context, now time.Time) (RunReport, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	personnel personnel.Repository
	balances  leavebalance.Repository
	loc       *time.Location
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	personnelRepo personnel.Repository,
	balances leavebalance.Repository,
	loc *time.Location,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("accrual.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("accrual.service")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		db:        db,
		repo:      repo,
		personnel: personnelRepo,
		balances:  balances,
		loc:       loc,
		logger:    l,
	}
}

func (s *service) Run(ctx context.Context, now time.Time) (RunReport, error) {
	local := now.In(s.loc)
	year, month := local.Year(), int(local.Month())
	periodStart := time.Date(year, local.Month(), 1, 0, 0, 0, 0, time.UTC)

	report := RunReport{Year: year, Month: month}

	s.logger.Info("monthly accrual run started",
		zap.Int("year", year),
		zap.Int("month", month),
	)

	active, err := s.personnel.FindActive(ctx)
	if err != nil {
		s.logger.Error("monthly accrual personnel list failed", zap.Error(err))
		return report, err
	}

	for i := range active {
		p := &active[i]
		if !s.eligible(p, periodStart) {
			report.Skipped++
			continue
		}

		// each person gets their own transaction so one bad record
		// cannot roll back the whole month
		credited, err := s.creditOne(ctx, p, year, month)
		if err != nil {
			s.logger.Error("monthly accrual failed for personnel",
				zap.String("personnel_id", p.ID.String()),
				zap.Error(err),
			)
			report.Failed = append(report.Failed, FailedAccrual{
				PersonnelID: p.ID.String(),
				Error:       err.Error(),
			})
			continue
		}
		if !credited {
			report.Skipped++
			continue
		}
		report.Processed++
	}

	s.logger.Info("monthly accrual run finished",
		zap.Int("year", year),
		zap.Int("month", month),
		zap.Int("processed", report.Processed),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", len(report.Failed)),
	)
	return report, nil
}

// eligible requires service through the end of the previous month. A
// hire on the last day of a month earns their first credit on the 1st
// of the next month.
func (s *service) eligible(p *personnel.Personnel, periodStart time.Time) bool {
	hired := time.Date(p.DateHired.Year(), p.DateHired.Month(), p.DateHired.Day(), 0, 0, 0, 0, time.UTC)
	return hired.Before(periodStart)
}

func (s *service) creditOne(ctx context.Context, p *personnel.Personnel, year, month int) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	qRuns := s.repo.WithTx(tx)
	qBalances := s.balances.WithTx(tx)

	claimed, err := qRuns.RecordRun(ctx, p.ID, year, month)
	if err != nil {
		return false, err
	}
	if !claimed {
		return false, tx.Commit()
	}

	if err := qBalances.Upsert(ctx, &leavebalance.LeaveBalance{
		ID:               uuid.New(),
		PersonnelID:      p.ID,
		Year:             year,
		VacationBalance:  decimal.Zero,
		SickBalance:      decimal.Zero,
		EmergencyBalance: decimal.Zero,
	}); err != nil {
		return false, err
	}
	if err := qBalances.Credit(ctx, p.ID.String(), year, leavecalc.BucketVacation, MonthlyVacationCredit); err != nil {
		return false, err
	}
	if err := qBalances.Credit(ctx, p.ID.String(), year, leavecalc.BucketSick, MonthlySickCredit); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}
