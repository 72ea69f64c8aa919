package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"go-payday/internal/audit"
	"go-payday/internal/employee"
	"go-payday/internal/events"
	"go-payday/internal/messaging/kafka"
	"go-payday/internal/messaging/kafka/consumer"
	"go-payday/internal/payrollrun"
	"go-payday/internal/refund"
	"go-payday/internal/ruleset"
	"go-payday/internal/shared/connection"
)

// RunConsumer renders payslip PDF batches for locked payroll runs.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

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

	auditRepo := audit.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	rulesetRepo := ruleset.NewRepository(gormDB)
	refundRepo := refund.NewRepository(gormDB)
	runRepo := payrollrun.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	resolver := ruleset.NewResolver(rulesetRepo)
	employeeService := employee.NewService(employeeRepo)
	refundService := refund.NewService(sqlDB, refundRepo, auditRepo)
	runService := payrollrun.NewService(sqlDB, runRepo, resolver, employeeService, refundService, auditRepo, outboxRepo)

	renderer := payrollrun.NewPayslipRenderer(os.Getenv("PAYSLIP_DIR"))

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.PayrollRunLockedTopic,
		GroupID:        "go-payday-payslip-render",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumePayrollRunLocked(ctx, reader, runService, renderer, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
