package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/events"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/leavebalance"

	"github.com/jackc/pgx/v5/pgconn"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumePersonnelLifecycle provisions the current-year leave balance
// row for every newly created personnel, so the first leave request
// and the first accrual both find a row to work against.
func ConsumePersonnelLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	balanceService leavebalance.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.personnel_lifecycle")
	log.Info("personnel lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("personnel lifecycle consumer stopped")
				return
			}
			log.Error("fetch personnel lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.PersonnelCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode personnel_created event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		year := time.Now().UTC().Year()
		if err := balanceService.EnsureForYear(ctx, event.PersonnelID, year); err != nil {
			if isUniqueBalanceViolation(err) {
				log.Warn("leave balance already exists for event, skipping",
					zap.String("personnel_id", event.PersonnelID),
					zap.Int("year", year),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("provision leave balance failed",
				zap.String("personnel_id", event.PersonnelID),
				zap.Int("year", year),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit personnel lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("leave balance provisioned from personnel_created event",
			zap.String("personnel_id", event.PersonnelID),
			zap.Int("year", year),
		)
	}
}

func isUniqueBalanceViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_leave_balances_personnel_year"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_leave_balances_personnel_year")
}
