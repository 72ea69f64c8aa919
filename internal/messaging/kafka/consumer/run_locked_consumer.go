package consumer

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"go-payday/internal/events"
	"go-payday/internal/payrollrun"
)

// ConsumePayrollRunLocked renders payslip PDFs for every run that reaches
// the locked state. Rendering is idempotent: re-delivery overwrites the
// same files, so the message is only committed after a full render.
func ConsumePayrollRunLocked(
	ctx context.Context,
	reader *kafkago.Reader,
	runService payrollrun.Service,
	renderer *payrollrun.PayslipRenderer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.run_locked")
	log.Info("payroll run locked consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payroll run locked consumer stopped")
				return
			}
			log.Error("fetch run locked message failed", zap.Error(err))
			continue
		}

		var event events.PayrollRunLockedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode run locked event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		run, err := runService.GetByID(ctx, event.CompanyID, event.PayrollRunID)
		if err != nil {
			log.Error("load locked run failed",
				zap.String("payroll_run_id", event.PayrollRunID),
				zap.String("company_id", event.CompanyID),
				zap.Error(err),
			)
			continue
		}

		paths, err := renderer.RenderRun(&run)
		if err != nil {
			log.Error("render payslip batch failed",
				zap.String("payroll_run_id", event.PayrollRunID),
				zap.Int("rendered", len(paths)),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit run locked message failed", zap.Error(err))
			continue
		}

		log.Info("payslip batch rendered",
			zap.String("payroll_run_id", event.PayrollRunID),
			zap.String("company_id", event.CompanyID),
			zap.String("period", event.Period),
			zap.Int("payslips", len(paths)),
		)
	}
}
