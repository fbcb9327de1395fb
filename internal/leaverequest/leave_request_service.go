package leaverequest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/document"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/events"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/holiday"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/leavebalance"
	leavebalanceerrors "github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/leavebalance/errors"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/leavecalc"
	leaverequesterrors "github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/leaverequest/errors"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/messaging/kafka"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/personnel"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_request_service.go -destination=mock/leave_request_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveRequestResponse, error)
	GetAll(ctx context.Context, status string) ([]LeaveRequestResponse, error)
	GetByID(ctx context.Context, id string) (LeaveRequestResponse, error)
	GetAllByPersonnel(ctx context.Context, personnelID string) ([]LeaveRequestResponse, error)
	// Preview computes the payment breakdown for a pending request
	// without touching any state; the admin UI calls it on every
	// option change.
	Preview(ctx context.Context, id string, opts DecisionOptions) (Breakdown, error)
	// Approve re-runs the same computation authoritatively and
	// persists it. actorID is the admin making the decision.
	Approve(ctx context.Context, actorID, id string, opts DecisionOptions) (LeaveRequestResponse, error)
	Reject(ctx context.Context, actorID, id, reason string) (LeaveRequestResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	balances leavebalance.Repository
	holidays holiday.Source
	outbox   kafka.OutboxRepository
	docs     document.Store
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	balances leavebalance.Repository,
	holidays holiday.Source,
	outbox kafka.OutboxRepository,
	docs document.Store,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leaverequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		balances: balances,
		holidays: holidays,
		outbox:   outbox,
		docs:     docs,
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveRequestResponse, error) {
	s.logger.Debug("create leave request",
		zap.String("actor_id", actorID),
		zap.String("personnel_id", req.PersonnelID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	personnelID, err := uuid.Parse(req.PersonnelID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidPersonnelID
	}
	createdBy, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidActorID
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if startDate.After(endDate) {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidDateRange
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave request begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	status, err := qtx.PersonnelStatus(ctx, req.PersonnelID)
	if err != nil {
		s.logger.Error("create leave request personnel lookup failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if status != personnel.StatusActive {
		return LeaveRequestResponse{}, leaverequesterrors.ErrPersonnelNotActive
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, req.PersonnelID, startDate, endDate, nil)
	if err != nil {
		s.logger.Error("create leave request overlap check failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if overlap {
		return LeaveRequestResponse{}, leaverequesterrors.ErrLeaveOverlap
	}

	l := &LeaveRequest{
		ID:          uuid.New(),
		PersonnelID: personnelID,
		LeaveType:   req.LeaveType,
		StartDate:   startDate,
		EndDate:     endDate,
		NumDays:     leavecalc.CalendarDays(startDate, endDate),
		Reason:      req.Reason,
		Status:      StatusPending,
		PaidDays:    decimal.Zero,
		UnpaidDays:  decimal.Zero,
		CreatedBy:   createdBy,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave request persist failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave request commit failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("create leave request success",
		zap.String("request_id", l.ID.String()),
		zap.String("personnel_id", req.PersonnelID),
		zap.Int("num_days", l.NumDays),
	)
	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, status string) ([]LeaveRequestResponse, error) {
	requests, err := s.repo.FindAll(ctx, status)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveRequestResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) GetAllByPersonnel(ctx context.Context, personnelID string) ([]LeaveRequestResponse, error) {
	if _, err := uuid.Parse(personnelID); err != nil {
		return nil, leaverequesterrors.ErrInvalidPersonnelID
	}
	requests, err := s.repo.FindAllByPersonnel(ctx, personnelID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) Preview(ctx context.Context, id string, opts DecisionOptions) (Breakdown, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Breakdown{}, leaverequesterrors.ErrRequestNotFound
		}
		return Breakdown{}, err
	}
	if l.Status != StatusPending {
		return Breakdown{}, leaverequesterrors.ErrAlreadyProcessed
	}

	available, _, balanceUnavailable := s.fetchBalance(ctx, s.balances, l)
	breakdown, err := s.compute(ctx, l, opts, available)
	if err != nil {
		return Breakdown{}, err
	}

	out := toBreakdownDTO(breakdown)
	out.BalanceUnavailable = balanceUnavailable
	return out, nil
}

func (s *service) Approve(ctx context.Context, actorID, id string, opts DecisionOptions) (LeaveRequestResponse, error) {
	s.logger.Debug("approve leave request",
		zap.String("request_id", id),
		zap.String("actor_id", actorID),
		zap.String("approve_for", opts.ApproveFor),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve leave request begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qBalances := s.balances.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	if l.Status != StatusPending {
		s.logger.Warn("approve leave request already processed",
			zap.String("request_id", id),
			zap.String("status", l.Status),
		)
		return LeaveRequestResponse{}, leaverequesterrors.ErrAlreadyProcessed
	}

	available, balanceRow, balanceUnavailable := s.fetchBalance(ctx, qBalances, l)
	breakdown, err := s.compute(ctx, l, opts, available)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	now := time.Now().UTC()
	approveFor := string(breakdown.ApproveFor)
	l.Status = StatusApproved
	l.ApproveFor = &approveFor
	l.PaidDays = breakdown.PaidDays
	l.UnpaidDays = breakdown.UnpaidDays
	l.WorkingDays = breakdown.WorkingDays
	l.HolidayDays = breakdown.HolidayDays
	l.DecidedBy = &actorUUID
	l.DecidedAt = &now
	l.RejectionReason = nil
	if breakdown.RequiresCredits {
		before := breakdown.BalanceBefore
		after := breakdown.BalanceAfter
		l.BalanceBefore = &before
		l.BalanceAfter = &after
	}
	if balanceRow != nil {
		l.LeaveBalanceID = &balanceRow.ID
	}

	updated, err := qtx.MarkDecided(ctx, l, StatusPending)
	if err != nil {
		s.logger.Error("approve leave request persist failed", zap.String("request_id", id), zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if !updated {
		return LeaveRequestResponse{}, leaverequesterrors.ErrAlreadyProcessed
	}

	if breakdown.RequiresCredits && breakdown.TotalDeducted.IsPositive() {
		cls := leavecalc.Classify(l.LeaveType)
		field := leavecalc.BalanceField(l.LeaveType)
		err := qBalances.Debit(ctx, l.PersonnelID.String(), balanceYear(l), field, breakdown.TotalDeducted, cls.MinimumBalance)
		if err != nil {
			if errors.Is(err, leavebalanceerrors.ErrInsufficientBalance) {
				s.logger.Warn("approve leave request stale balance",
					zap.String("request_id", id),
					zap.String("deducted", breakdown.TotalDeducted.String()),
				)
				return LeaveRequestResponse{}, leaverequesterrors.ErrStaleBalance
			}
			s.logger.Error("approve leave request debit failed", zap.String("request_id", id), zap.Error(err))
			return LeaveRequestResponse{}, err
		}
	}

	if err := s.enqueueDecisionEvent(ctx, tx, l, actorID); err != nil {
		s.logger.Error("approve leave request outbox insert failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("approve leave request commit failed", zap.String("request_id", id), zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("approve leave request success",
		zap.String("request_id", id),
		zap.String("approve_for", approveFor),
		zap.String("paid_days", l.PaidDays.String()),
		zap.String("unpaid_days", l.UnpaidDays.String()),
		zap.Bool("auto_split", breakdown.AutoSplit),
	)

	// form generation is best-effort after commit; the approval stands
	// even if the document store is down
	s.generateForm(ctx, l)

	resp := mapToResponse(*l)
	bd := toBreakdownDTO(breakdown)
	bd.BalanceUnavailable = balanceUnavailable
	resp.Breakdown = &bd
	return resp, nil
}

func (s *service) Reject(ctx context.Context, actorID, id, reason string) (LeaveRequestResponse, error) {
	s.logger.Debug("reject leave request",
		zap.String("request_id", id),
		zap.String("actor_id", actorID),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidActorID
	}
	if reason == "" {
		return LeaveRequestResponse{}, leaverequesterrors.ErrRejectionReasonRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("reject leave request begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qBalances := s.balances.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	if l.Status == StatusRejected {
		return LeaveRequestResponse{}, leaverequesterrors.ErrAlreadyProcessed
	}

	observedStatus := l.Status
	refund := refundAmount(l)

	now := time.Now().UTC()
	l.Status = StatusRejected
	l.DecidedBy = &actorUUID
	l.DecidedAt = &now
	l.RejectionReason = &reason

	updated, err := qtx.MarkDecided(ctx, l, observedStatus)
	if err != nil {
		s.logger.Error("reject leave request persist failed", zap.String("request_id", id), zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if !updated {
		return LeaveRequestResponse{}, leaverequesterrors.ErrAlreadyProcessed
	}

	if refund.IsPositive() {
		// return the deducted amount to the same bucket it came from
		field := leavecalc.BalanceField(l.LeaveType)
		if err := qBalances.Credit(ctx, l.PersonnelID.String(), balanceYear(l), field, refund); err != nil {
			s.logger.Error("reject leave request refund failed",
				zap.String("request_id", id),
				zap.String("refund", refund.String()),
				zap.Error(err),
			)
			return LeaveRequestResponse{}, err
		}
		s.logger.Info("reject leave request refunded balance",
			zap.String("request_id", id),
			zap.String("field", field),
			zap.String("refund", refund.String()),
		)
	}

	if err := s.enqueueDecisionEvent(ctx, tx, l, actorID); err != nil {
		s.logger.Error("reject leave request outbox insert failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("reject leave request commit failed", zap.String("request_id", id), zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("reject leave request success",
		zap.String("request_id", id),
		zap.String("was_status", observedStatus),
	)
	return mapToResponse(*l), nil
}

// refundAmount is what a rejection must credit back: the recorded
// debit when a previously approved request carries balance snapshots,
// the full calendar-day count when it does not, and nothing for a
// still-pending request or a non-credit leave type.
func refundAmount(l *LeaveRequest) decimal.Decimal {
	if l.Status != StatusApproved {
		return decimal.Zero
	}
	if !leavecalc.Classify(l.LeaveType).RequiresCredits {
		return decimal.Zero
	}
	if l.BalanceBefore != nil && l.BalanceAfter != nil {
		return l.BalanceBefore.Sub(*l.BalanceAfter)
	}
	return decimal.NewFromInt(int64(l.NumDays))
}

// fetchBalance reads the available credits for a request's leave type.
// A missing row is simply zero credits; a failed read is also treated
// as zero but flagged so the admin is told the figure is degraded
// instead of silently approving with pay.
func (s *service) fetchBalance(ctx context.Context, balances leavebalance.Repository, l *LeaveRequest) (decimal.Decimal, *leavebalance.LeaveBalance, bool) {
	if !leavecalc.Classify(l.LeaveType).RequiresCredits {
		return decimal.Zero, nil, false
	}

	row, err := balances.FindByPersonnelAndYear(ctx, l.PersonnelID.String(), balanceYear(l))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil, false
		}
		s.logger.Error("leave balance fetch failed, treating as zero",
			zap.String("request_id", l.ID.String()),
			zap.Error(err),
		)
		return decimal.Zero, nil, true
	}

	switch leavecalc.BalanceField(l.LeaveType) {
	case leavecalc.BucketSick:
		return row.SickBalance, row, false
	case leavecalc.BucketEmergency:
		return row.EmergencyBalance, row, false
	default:
		return row.VacationBalance, row, false
	}
}

func (s *service) compute(ctx context.Context, l *LeaveRequest, opts DecisionOptions, available decimal.Decimal) (leavecalc.Breakdown, error) {
	years := []int{l.StartDate.Year()}
	if l.EndDate.Year() != l.StartDate.Year() {
		years = append(years, l.EndDate.Year())
	}

	breakdown, err := leavecalc.Compute(leavecalc.Input{
		LeaveType:        l.LeaveType,
		StartDate:        l.StartDate,
		EndDate:          l.EndDate,
		AvailableBalance: available,
		ApproveFor:       leavecalc.ApproveFor(opts.ApproveFor),
		WithPayDays:      opts.WithPayDays,
		Holidays:         s.holidays.ForYears(ctx, years...),
	})
	if err != nil {
		switch {
		case errors.Is(err, leavecalc.ErrNoDisposition):
			return leavecalc.Breakdown{}, leaverequesterrors.ErrNoDisposition
		case errors.Is(err, leavecalc.ErrInvalidRange):
			return leavecalc.Breakdown{}, leaverequesterrors.ErrInvalidDateRange
		case errors.Is(err, leavecalc.ErrMissingLeaveType):
			return leavecalc.Breakdown{}, leaverequesterrors.ErrMissingLeaveType
		}
		return leavecalc.Breakdown{}, err
	}
	return breakdown, nil
}

func (s *service) enqueueDecisionEvent(ctx context.Context, tx *sql.Tx, l *LeaveRequest, actorID string) error {
	if s.outbox == nil {
		return nil
	}

	event := events.LeaveDecidedEvent{
		EventType:   "leave_decided",
		RequestID:   l.ID.String(),
		PersonnelID: l.PersonnelID.String(),
		LeaveType:   l.LeaveType,
		Status:      l.Status,
		PaidDays:    l.PaidDays.String(),
		UnpaidDays:  l.UnpaidDays.String(),
		DecidedBy:   actorID,
		OccurredAt:  time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     event.EventType,
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) generateForm(ctx context.Context, l *LeaveRequest) {
	if s.docs == nil {
		return
	}

	pdf, err := buildLeaveFormPDF(l)
	if err != nil {
		s.logger.Error("leave form build failed", zap.String("request_id", l.ID.String()), zap.Error(err))
		return
	}

	path := fmt.Sprintf("leave-forms/%s.pdf", l.ID)
	url, err := s.docs.Put(ctx, path, pdf, "application/pdf")
	if err != nil {
		s.logger.Error("leave form store failed", zap.String("request_id", l.ID.String()), zap.Error(err))
		return
	}

	if err := s.repo.UpdateFormURL(ctx, l.ID.String(), url); err != nil {
		s.logger.Error("leave form url persist failed", zap.String("request_id", l.ID.String()), zap.Error(err))
		return
	}
	l.FormURL = &url
}

func balanceYear(l *LeaveRequest) int {
	return l.StartDate.Year()
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaverequesterrors.ErrInvalidDateFormat
	}
	return t, nil
}

func toBreakdownDTO(b leavecalc.Breakdown) Breakdown {
	out := Breakdown{
		ApproveFor:    string(b.ApproveFor),
		PaidDays:      b.PaidDays.String(),
		UnpaidDays:    b.UnpaidDays.String(),
		TotalDeducted: b.TotalDeducted.String(),
		CalendarDays:  b.CalendarDays,
		WorkingDays:   b.WorkingDays,
		HolidayDays:   b.HolidayDays,
		AutoSplit:     b.AutoSplit,
		Adjusted:      b.Adjusted,
	}
	if b.RequiresCredits {
		out.BalanceBefore = b.BalanceBefore.String()
		out.BalanceAfter = b.BalanceAfter.String()
	}
	return out
}
