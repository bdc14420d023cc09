package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-farmops/internal/advance"
	"go-farmops/internal/employeesalary"
	"go-farmops/internal/messaging/kafka"
	"go-farmops/internal/messaging/kafka/consumer"
	"go-farmops/internal/payroll"
	"go-farmops/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const advanceConsumerGroup = "go-farmops-payroll-advances"

func RunConsumer(cfg Config) error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Postgres, 5)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	advanceRepo := advance.NewRepository(gormDB)
	payrollService := payroll.NewService(
		sqlDB,
		payroll.NewRepository(gormDB),
		employeesalary.NewRepository(gormDB),
		advanceRepo,
		kafka.NewOutboxRepository(sqlDB),
		logger,
	)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		GroupTopics:    consumer.AdvanceTopics,
		GroupID:        advanceConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := consumer.NewAdvanceHandler(advanceRepo, payrollService, logger)
	go consumer.ConsumeAdvanceEvents(ctx, reader, handler, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
