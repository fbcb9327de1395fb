package personnel

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/document"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/events"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/messaging/kafka"
	personnelerrors "github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/personnel/errors"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/shared/contextutil"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=personnel_service.go -destination=mock/personnel_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreatePersonnelRequest) (PersonnelResponse, error)
	GetAll(ctx context.Context, status string) ([]PersonnelResponse, error)
	GetByID(ctx context.Context, id string) (PersonnelResponse, error)
	Update(ctx context.Context, id string, req UpdatePersonnelRequest) (PersonnelResponse, error)
	ChangeStatus(ctx context.Context, actorID, id, targetStatus string) (PersonnelResponse, error)
	UploadPhoto(ctx context.Context, id string, content []byte, contentType string) (PersonnelResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	docs    document.Store
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	docs document.Store,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("personnel.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("personnel.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counterRepo,
		outbox:  outboxRepo,
		docs:    docs,
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, req CreatePersonnelRequest) (PersonnelResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create personnel requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
		zap.String("date_hired", req.DateHired),
	)

	dateHired, err := time.Parse("2006-01-02", req.DateHired)
	if err != nil {
		s.logger.Warn("create personnel invalid date_hired",
			zap.String("date_hired", req.DateHired),
			zap.Error(err),
		)
		return PersonnelResponse{}, personnelerrors.ErrInvalidHireDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create personnel begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return PersonnelResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	taken, err := qtx.EmailExists(ctx, req.Email, nil)
	if err != nil {
		s.logger.Error("create personnel email check failed", zap.Error(err))
		return PersonnelResponse{}, err
	}
	if taken {
		return PersonnelResponse{}, personnelerrors.ErrEmailTaken
	}

	if req.BadgeNumber == "" {
		nextVal, err := s.counter.GetNextValue(ctx, "badge_number")
		if err != nil {
			s.logger.Error("create personnel generate badge number failed", zap.Error(err))
			return PersonnelResponse{}, err
		}
		req.BadgeNumber = fmt.Sprintf("FO-%06d", nextVal)
	}

	p := &Personnel{
		ID:          uuid.New(),
		BadgeNumber: req.BadgeNumber,
		FullName:    req.FullName,
		Rank:        req.Rank,
		Email:       req.Email,
		DateHired:   dateHired,
		Status:      StatusActive,
	}

	if err := qtx.Create(ctx, p); err != nil {
		// the EmailExists pre-check races with concurrent creates; the
		// unique index has the final word
		if isUniqueEmailViolation(err) {
			return PersonnelResponse{}, personnelerrors.ErrEmailTaken
		}
		s.logger.Error("create personnel persist failed", zap.Error(err))
		return PersonnelResponse{}, err
	}

	if s.outbox != nil {
		event := events.PersonnelCreatedEvent{
			EventType:   "personnel_created",
			PersonnelID: p.ID.String(),
			DateHired:   p.DateHired.Format("2006-01-02"),
			OccurredAt:  time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return PersonnelResponse{}, err
		}
		outboxEvent := kafka.OutboxEvent{
			ID:            uuid.New().String(),
			RequestID:     rid,
			AggregateType: "personnel",
			AggregateID:   p.ID.String(),
			EventType:     event.EventType,
			Topic:         events.PersonnelCreatedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}
		if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
			s.logger.Error("create personnel outbox insert failed", zap.Error(err))
			return PersonnelResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create personnel commit failed", zap.Error(err))
		return PersonnelResponse{}, err
	}

	s.logger.Info("create personnel success",
		zap.String("personnel_id", p.ID.String()),
		zap.String("badge_number", p.BadgeNumber),
	)
	return mapToResponse(*p), nil
}

func (s *service) GetAll(ctx context.Context, status string) ([]PersonnelResponse, error) {
	people, err := s.repo.FindAll(ctx, status)
	if err != nil {
		return nil, err
	}

	resp := make([]PersonnelResponse, len(people))
	for i, p := range people {
		resp[i] = mapToResponse(p)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (PersonnelResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PersonnelResponse{}, personnelerrors.ErrInvalidPersonnelID
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PersonnelResponse{}, personnelerrors.ErrPersonnelNotFound
		}
		return PersonnelResponse{}, err
	}
	return mapToResponse(*p), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdatePersonnelRequest) (PersonnelResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PersonnelResponse{}, personnelerrors.ErrInvalidPersonnelID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PersonnelResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PersonnelResponse{}, personnelerrors.ErrPersonnelNotFound
		}
		return PersonnelResponse{}, err
	}

	taken, err := qtx.EmailExists(ctx, req.Email, &id)
	if err != nil {
		return PersonnelResponse{}, err
	}
	if taken {
		return PersonnelResponse{}, personnelerrors.ErrEmailTaken
	}

	p.FullName = req.FullName
	p.Rank = req.Rank
	p.Email = req.Email

	if err := qtx.Update(ctx, p); err != nil {
		s.logger.Error("update personnel persist failed", zap.String("personnel_id", id), zap.Error(err))
		return PersonnelResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PersonnelResponse{}, err
	}
	return mapToResponse(*p), nil
}

func isUniqueEmailViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_personnel_email"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_personnel_email")
}

// isAllowedStatusTransition keeps retired, resigned, and transferred
// terminal except for an explicit reactivation back to active.
func isAllowedStatusTransition(currentStatus, targetStatus string) bool {
	if currentStatus == targetStatus {
		return false
	}

	switch currentStatus {
	case StatusActive:
		return targetStatus == StatusRetired ||
			targetStatus == StatusResigned ||
			targetStatus == StatusTransferred
	case StatusRetired, StatusResigned, StatusTransferred:
		return targetStatus == StatusActive
	default:
		return false
	}
}

func (s *service) ChangeStatus(ctx context.Context, actorID, id, targetStatus string) (PersonnelResponse, error) {
	s.logger.Debug("change personnel status requested",
		zap.String("personnel_id", id),
		zap.String("actor_id", actorID),
		zap.String("target_status", targetStatus),
	)

	if _, err := uuid.Parse(id); err != nil {
		return PersonnelResponse{}, personnelerrors.ErrInvalidPersonnelID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PersonnelResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PersonnelResponse{}, personnelerrors.ErrPersonnelNotFound
		}
		return PersonnelResponse{}, err
	}

	if !isAllowedStatusTransition(p.Status, targetStatus) {
		s.logger.Warn("change personnel status invalid",
			zap.String("personnel_id", id),
			zap.String("from_status", p.Status),
			zap.String("to_status", targetStatus),
		)
		return PersonnelResponse{}, personnelerrors.ErrInvalidStatusTransition
	}

	p.Status = targetStatus
	if err := qtx.Update(ctx, p); err != nil {
		s.logger.Error("change personnel status persist failed",
			zap.String("personnel_id", id),
			zap.Error(err),
		)
		return PersonnelResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PersonnelResponse{}, err
	}

	s.logger.Info("change personnel status success",
		zap.String("personnel_id", id),
		zap.String("status", targetStatus),
		zap.String("actor_id", actorID),
	)
	return mapToResponse(*p), nil
}

func (s *service) UploadPhoto(ctx context.Context, id string, content []byte, contentType string) (PersonnelResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PersonnelResponse{}, personnelerrors.ErrInvalidPersonnelID
	}
	if len(content) == 0 {
		return PersonnelResponse{}, personnelerrors.ErrEmptyPhoto
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PersonnelResponse{}, personnelerrors.ErrPersonnelNotFound
		}
		return PersonnelResponse{}, err
	}

	url, err := s.docs.Put(ctx, fmt.Sprintf("photos/%s.jpg", p.ID), content, contentType)
	if err != nil {
		s.logger.Error("upload personnel photo store failed",
			zap.String("personnel_id", id),
			zap.Error(err),
		)
		return PersonnelResponse{}, err
	}

	p.PhotoURL = &url
	if err := s.repo.Update(ctx, p); err != nil {
		return PersonnelResponse{}, err
	}

	s.logger.Info("upload personnel photo success",
		zap.String("personnel_id", id),
		zap.String("url", url),
	)
	return mapToResponse(*p), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return personnelerrors.ErrInvalidPersonnelID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func mapToResponse(p Personnel) PersonnelResponse {
	return PersonnelResponse{
		ID:          p.ID.String(),
		BadgeNumber: p.BadgeNumber,
		FullName:    p.FullName,
		Rank:        p.Rank,
		Email:       p.Email,
		DateHired:   p.DateHired.Format("2006-01-02"),
		Status:      p.Status,
		PhotoURL:    p.PhotoURL,
	}
}
