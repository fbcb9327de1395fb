package leavebalance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	leavebalanceerrors "github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/leavebalance/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_balance_service.go -destination=mock/leave_balance_service_mock.go -package=mock
type Service interface {
	GetForPersonnel(ctx context.Context, personnelID string, year int) (LeaveBalanceResponse, error)
	// EnsureForYear creates the zero-credit (personnel, year) row if it
	// does not exist. Safe to call repeatedly; the consumer invokes it
	// for every PersonnelCreated event it sees.
	EnsureForYear(ctx context.Context, personnelID string, year int) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavebalance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) GetForPersonnel(ctx context.Context, personnelID string, year int) (LeaveBalanceResponse, error) {
	if _, err := uuid.Parse(personnelID); err != nil {
		return LeaveBalanceResponse{}, leavebalanceerrors.ErrInvalidPersonnelID
	}
	if year == 0 {
		year = time.Now().UTC().Year()
	}

	b, err := s.repo.FindByPersonnelAndYear(ctx, personnelID, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveBalanceResponse{}, leavebalanceerrors.ErrBalanceNotFound
		}
		return LeaveBalanceResponse{}, err
	}
	return mapToResponse(*b), nil
}

func (s *service) EnsureForYear(ctx context.Context, personnelID string, year int) error {
	pid, err := uuid.Parse(personnelID)
	if err != nil {
		return leavebalanceerrors.ErrInvalidPersonnelID
	}

	b := &LeaveBalance{
		ID:               uuid.New(),
		PersonnelID:      pid,
		Year:             year,
		VacationBalance:  decimal.Zero,
		SickBalance:      decimal.Zero,
		EmergencyBalance: decimal.Zero,
	}
	if err := s.repo.Upsert(ctx, b); err != nil {
		s.logger.Error("ensure leave balance failed",
			zap.String("personnel_id", personnelID),
			zap.Int("year", year),
			zap.Error(err),
		)
		return err
	}

	s.logger.Debug("leave balance ensured",
		zap.String("personnel_id", personnelID),
		zap.Int("year", year),
	)
	return nil
}
