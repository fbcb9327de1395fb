package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/accrual"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/leavebalance"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/messaging/kafka"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/messaging/kafka/producer"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/personnel"
	"github.com/Credo-Linfel-S/Villanueva-BFP1-main-sub002/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker hosts the background side of the system: the outbox
// publisher and the monthly accrual scheduler.
func RunWorker() error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(kafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	manila, err := time.LoadLocation(accrual.DefaultRunLocation)
	if err != nil {
		return err
	}
	accrualService := accrual.NewService(
		sqlDB,
		accrual.NewRepository(gormDB),
		personnel.NewRepository(gormDB),
		leavebalance.NewRepository(gormDB),
		manila,
	)
	scheduler := accrual.NewScheduler(accrualService, manila)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)
	go scheduler.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}
