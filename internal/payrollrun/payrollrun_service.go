package payrollrun

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-payday/internal/audit"
	"go-payday/internal/employee"
	"go-payday/internal/events"
	"go-payday/internal/messaging/kafka"
	"go-payday/internal/paycalc"
	payrollrunerrors "go-payday/internal/payrollrun/errors"
	"go-payday/internal/rbac"
	"go-payday/internal/refund"
	"go-payday/internal/ruleset"
	"go-payday/internal/shared/contextutil"
)

// Budget for one round-trip to the configuration and employee stores while
// building a run. A slow collaborator fails the request instead of holding
// the connection open indefinitely.
const collaboratorTimeout = 15 * time.Second

type Service interface {
	Initiate(ctx context.Context, companyID, actorID string, req InitiateRunRequest) (RunDetailResponse, error)
	GetAll(ctx context.Context, companyID string, f ListFilter) ([]RunSummaryResponse, int64, error)
	GetByID(ctx context.Context, companyID, id string) (RunDetailResponse, error)
	GetPayslip(ctx context.Context, companyID, runID, employeeID string) (PayslipResponse, error)
	GetBreakdown(ctx context.Context, companyID, runID, employeeID string) (BreakdownResponse, error)

	Recalculate(ctx context.Context, companyID, runID string) (RunDetailResponse, error)
	CorrectPayslip(ctx context.Context, companyID, runID, employeeID string, req CorrectPayslipRequest) (PayslipResponse, error)

	// Transition drives one edge of the approval pipeline. The reason is
	// required on reject and unfreeze edges and recorded in the audit
	// trail.
	Transition(ctx context.Context, companyID, actorID, role, runID, action string, reason *string) (RunDetailResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	resolver  ruleset.Resolver
	facts     employee.FactsProvider
	refunds   refund.Applier
	auditRepo audit.Repository
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	resolver ruleset.Resolver,
	facts employee.FactsProvider,
	refunds refund.Applier,
	auditRepo audit.Repository,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payrollrun.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payrollrun.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		resolver:  resolver,
		facts:     facts,
		refunds:   refunds,
		auditRepo: auditRepo,
		outbox:    outbox,
		logger:    l,
	}
}

func (s *service) Initiate(ctx context.Context, companyID, actorID string, req InitiateRunRequest) (RunDetailResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return RunDetailResponse{}, payrollrunerrors.ErrRunNotFound
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return RunDetailResponse{}, payrollrunerrors.ErrRunNotFound
	}
	if _, err := ruleset.ParsePeriod(req.Period); err != nil {
		return RunDetailResponse{}, err
	}

	existing, err := s.repo.FindByPeriod(ctx, companyID, req.Period)
	if err != nil {
		return RunDetailResponse{}, err
	}
	if existing != nil {
		return RunDetailResponse{}, payrollrunerrors.ErrDuplicatePeriod
	}

	run := &PayrollRun{
		ID:          uuid.New(),
		CompanyID:   companyUUID,
		PeriodID:    req.Period,
		Status:      StatusDraft,
		InitiatedBy: actorUUID,
		Version:     1,
	}

	payslips, gross, net, err := s.buildPayslips(ctx, companyID, req.Period, run.ID)
	if err != nil {
		return RunDetailResponse{}, err
	}
	run.TotalGrossPay = gross
	run.TotalNetPay = net

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunDetailResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, run); err != nil {
		return RunDetailResponse{}, err
	}
	if err := qtx.ReplacePayslips(ctx, run, payslips); err != nil {
		return RunDetailResponse{}, err
	}
	if err := s.auditRepo.WithTx(tx).Append(ctx, &audit.Entry{
		CompanyID:   companyUUID,
		SubjectType: audit.SubjectPayrollRun,
		SubjectID:   run.ID,
		Status:      StatusDraft,
		ActorID:     actorUUID,
		Role:        rbac.RoleSpecialist,
	}); err != nil {
		return RunDetailResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return RunDetailResponse{}, err
	}

	s.logger.Info("payroll run initiated",
		zap.String("run_id", run.ID.String()),
		zap.String("period", req.Period),
		zap.Int("payslips", len(payslips)),
	)

	run.Payslips = payslips
	return toRunDetailResponse(run), nil
}

// buildPayslips resolves the frozen rule set, collects every active
// employee's facts and computes one payslip per employee. A context
// cancellation between employees aborts the whole build.
func (s *service) buildPayslips(ctx context.Context, companyID, period string, runID uuid.UUID) ([]Payslip, int64, int64, error) {
	collabCtx, cancel := context.WithTimeout(ctx, collaboratorTimeout)
	defer cancel()

	rs, err := s.resolver.Resolve(collabCtx, companyID, period)
	if err != nil {
		return nil, 0, 0, err
	}
	inputs, err := s.facts.CollectFacts(collabCtx, companyID, period)
	if err != nil {
		return nil, 0, 0, err
	}
	if len(inputs) == 0 {
		return nil, 0, 0, payrollrunerrors.ErrNoEmployeesInScope
	}

	priorGross, err := s.priorGrossByEmployee(collabCtx, companyID, period)
	if err != nil {
		return nil, 0, 0, err
	}

	companyUUID, _ := uuid.Parse(companyID)
	payslips := make([]Payslip, 0, len(inputs))
	var totalGross, totalNet int64
	for i := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, 0, 0, err
		}
		in := inputs[i]
		if prior, ok := priorGross[in.EmployeeID]; ok {
			in.PriorGross = &prior
		}
		computed := paycalc.Compute(in, rs)
		slip := toPayslipEntity(&computed, companyUUID, runID)
		totalGross += slip.TotalGross
		totalNet += slip.NetPay
		payslips = append(payslips, slip)
	}
	return payslips, totalGross, totalNet, nil
}

func (s *service) priorGrossByEmployee(ctx context.Context, companyID, period string) (map[uuid.UUID]int64, error) {
	prevPeriod, err := previousPeriod(period)
	if err != nil {
		return nil, err
	}
	prevRun, err := s.repo.FindByPeriod(ctx, companyID, prevPeriod)
	if err != nil {
		return nil, err
	}
	if prevRun == nil {
		return nil, nil
	}
	full, err := s.repo.FindByIDAndCompany(ctx, companyID, prevRun.ID.String())
	if err != nil {
		return nil, err
	}
	grossByEmployee := make(map[uuid.UUID]int64, len(full.Payslips))
	for _, slip := range full.Payslips {
		grossByEmployee[slip.EmployeeID] = slip.TotalGross
	}
	return grossByEmployee, nil
}

func previousPeriod(period string) (string, error) {
	start, err := ruleset.ParsePeriod(period)
	if err != nil {
		return "", err
	}
	return start.AddDate(0, -1, 0).Format("2006-01"), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, f ListFilter) ([]RunSummaryResponse, int64, error) {
	runs, total, err := s.repo.FindAllByCompany(ctx, companyID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]RunSummaryResponse, 0, len(runs))
	for i := range runs {
		out = append(out, toRunSummaryResponse(&runs[i]))
	}
	return out, total, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (RunDetailResponse, error) {
	run, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return RunDetailResponse{}, err
	}
	return toRunDetailResponse(run), nil
}

func (s *service) GetPayslip(ctx context.Context, companyID, runID, employeeID string) (PayslipResponse, error) {
	runUUID, err := uuid.Parse(runID)
	if err != nil {
		return PayslipResponse{}, payrollrunerrors.ErrRunNotFound
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return PayslipResponse{}, payrollrunerrors.ErrPayslipNotFound
	}
	slip, err := s.repo.FindPayslip(ctx, companyID, runUUID, employeeUUID)
	if err != nil {
		return PayslipResponse{}, err
	}
	return toPayslipResponse(slip), nil
}

func (s *service) GetBreakdown(ctx context.Context, companyID, runID, employeeID string) (BreakdownResponse, error) {
	runUUID, err := uuid.Parse(runID)
	if err != nil {
		return BreakdownResponse{}, payrollrunerrors.ErrRunNotFound
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return BreakdownResponse{}, payrollrunerrors.ErrPayslipNotFound
	}
	slip, err := s.repo.FindPayslip(ctx, companyID, runUUID, employeeUUID)
	if err != nil {
		return BreakdownResponse{}, err
	}
	return BreakdownResponse{
		EmployeeID:        slip.EmployeeID.String(),
		BaseSalary:        slip.BaseSalary,
		TotalAllowances:   slip.TotalAllowances,
		TotalBonuses:      slip.TotalBonuses,
		TotalBenefits:     slip.TotalBenefits,
		TotalRefunds:      slip.TotalRefunds,
		Tax:               slip.Tax,
		InsuranceEmployee: slip.InsuranceEmployee,
		InsuranceEmployer: slip.InsuranceEmployer,
		TotalPenalties:    slip.TotalPenalties,
		TotalGross:        slip.TotalGross,
		TotalDeductions:   slip.TotalDeductions,
		NetPay:            slip.NetPay,
	}, nil
}

func (s *service) Recalculate(ctx context.Context, companyID, runID string) (RunDetailResponse, error) {
	run, err := s.repo.FindByIDAndCompany(ctx, companyID, runID)
	if err != nil {
		return RunDetailResponse{}, err
	}
	if run.Status != StatusDraft {
		return RunDetailResponse{}, payrollrunerrors.ErrRunNotEditable
	}

	payslips, gross, net, err := s.buildPayslips(ctx, companyID, run.PeriodID, run.ID)
	if err != nil {
		return RunDetailResponse{}, err
	}

	run.TotalGrossPay = gross
	run.TotalNetPay = net

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunDetailResponse{}, err
	}
	defer tx.Rollback()

	// The version check goes first: a recalculation that lost to a
	// concurrent transition must not touch the payslips.
	qtx := s.repo.WithTx(tx)
	if err := qtx.UpdateRunCAS(ctx, run, run.Version); err != nil {
		return RunDetailResponse{}, err
	}
	if err := qtx.ReplacePayslips(ctx, run, payslips); err != nil {
		return RunDetailResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return RunDetailResponse{}, err
	}

	run.Payslips = payslips
	return toRunDetailResponse(run), nil
}

func (s *service) CorrectPayslip(ctx context.Context, companyID, runID, employeeID string, req CorrectPayslipRequest) (PayslipResponse, error) {
	run, err := s.repo.FindByIDAndCompany(ctx, companyID, runID)
	if err != nil {
		return PayslipResponse{}, err
	}
	if run.Status != StatusDraft {
		return PayslipResponse{}, payrollrunerrors.ErrRunNotEditable
	}

	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return PayslipResponse{}, payrollrunerrors.ErrPayslipNotFound
	}
	slip, err := s.repo.FindPayslip(ctx, companyID, run.ID, employeeUUID)
	if err != nil {
		return PayslipResponse{}, err
	}

	oldGross, oldNet := slip.TotalGross, slip.NetPay
	if err := applyPatch(slip, req); err != nil {
		return PayslipResponse{}, err
	}

	run.TotalGrossPay += slip.TotalGross - oldGross
	run.TotalNetPay += slip.NetPay - oldNet

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayslipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.UpdateRunCAS(ctx, run, run.Version); err != nil {
		return PayslipResponse{}, err
	}
	if err := qtx.UpdatePayslip(ctx, slip); err != nil {
		return PayslipResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PayslipResponse{}, err
	}

	s.logger.Info("payslip corrected",
		zap.String("run_id", run.ID.String()),
		zap.String("employee_id", employeeID),
		zap.Int64("net_pay", slip.NetPay),
	)
	return toPayslipResponse(slip), nil
}

// applyPatch replaces the payslip's components and re-derives every total
// from them. A supplied net pay is cross-checked, never trusted.
func applyPatch(slip *Payslip, req CorrectPayslipRequest) error {
	components := make([]PayslipComponent, 0, len(req.Components))
	var gross, deductions int64
	var base, allowances, bonuses, benefits, refunds, tax, insurance, penalties int64

	for i, patch := range req.Components {
		components = append(components, PayslipComponent{
			ID:        uuid.New(),
			PayslipID: slip.ID,
			Kind:      patch.Kind,
			Category:  patch.Category,
			Name:      patch.Name,
			Amount:    patch.Amount,
			Position:  i,
		})
		switch patch.Kind {
		case paycalc.KindEarning:
			gross += patch.Amount
		case paycalc.KindDeduction:
			deductions += patch.Amount
		}
		switch patch.Category {
		case paycalc.CategoryBaseSalary:
			base += patch.Amount
		case paycalc.CategoryAllowance:
			allowances += patch.Amount
		case paycalc.CategoryBonus:
			bonuses += patch.Amount
		case paycalc.CategoryBenefit:
			benefits += patch.Amount
		case paycalc.CategoryRefund:
			refunds += patch.Amount
		case paycalc.CategoryTax:
			tax += patch.Amount
		case paycalc.CategoryInsurance:
			insurance += patch.Amount
		case paycalc.CategoryPenalty:
			penalties += patch.Amount
		}
	}

	netPay := gross - deductions
	if req.NetPay != nil && *req.NetPay != netPay {
		return payrollrunerrors.ErrNetPayMismatch
	}

	slip.Components = components
	slip.BaseSalary = base
	slip.TotalAllowances = allowances
	slip.TotalBonuses = bonuses
	slip.TotalBenefits = benefits
	slip.TotalRefunds = refunds
	slip.Tax = tax
	slip.InsuranceEmployee = insurance
	slip.TotalPenalties = penalties
	slip.TotalGross = gross
	slip.TotalDeductions = deductions
	slip.NetPay = netPay

	// Re-derive the value checks; data-driven anomalies stay as computed.
	anomalies := make([]string, 0, len(slip.Anomalies))
	for _, a := range slip.Anomalies {
		if a != paycalc.AnomalyNegativeNetPay {
			anomalies = append(anomalies, a)
		}
	}
	if netPay < 0 {
		anomalies = append(anomalies, paycalc.AnomalyNegativeNetPay)
	}
	slip.Anomalies = anomalies
	slip.AnomaliesOverridden = req.OverrideAnomalies

	return nil
}

func (s *service) Transition(ctx context.Context, companyID, actorID, role, runID, action string, reason *string) (RunDetailResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		actorUUID = uuid.Nil
	}

	run, err := s.repo.FindByIDAndCompany(ctx, companyID, runID)
	if err != nil {
		return RunDetailResponse{}, err
	}

	target, terr := resolveTransition(action, run.Status, role)
	if terr != nil {
		if replay, ok := s.isRetriedRequest(ctx, run, action, actorID, terr); ok {
			return replay, nil
		}
		return RunDetailResponse{}, terr
	}

	switch action {
	case ActionManagerReject, ActionFinanceReject:
		if reason == nil || *reason == "" {
			return RunDetailResponse{}, payrollrunerrors.ErrRejectionReasonRequired
		}
	case ActionUnfreeze:
		if reason == nil || *reason == "" {
			return RunDetailResponse{}, payrollrunerrors.ErrUnfreezeReasonRequired
		}
	case ActionPublish:
		if err := checkBlockingAnomalies(run.Payslips); err != nil {
			return RunDetailResponse{}, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunDetailResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	refundsApplied := 0

	switch action {
	case ActionSubmit:
		run.RejectionReason = nil
	case ActionManagerReject, ActionFinanceReject:
		run.RejectionReason = reason
	case ActionFinanceApprove:
		now := time.Now().UTC()
		run.LockDate = &now
		refundsApplied, err = s.applyRefunds(ctx, tx, qtx, run)
		if err != nil {
			return RunDetailResponse{}, err
		}
		if err := s.enqueueLockedEvent(ctx, tx, run, actorID, refundsApplied); err != nil {
			return RunDetailResponse{}, err
		}
	case ActionMarkPaid:
		if err := qtx.MarkPayslipsPaid(ctx, run.ID); err != nil {
			return RunDetailResponse{}, err
		}
		if err := s.enqueuePaidEvent(ctx, tx, run, actorID); err != nil {
			return RunDetailResponse{}, err
		}
	case ActionUnfreeze:
		run.LockDate = nil
		if err := qtx.MarkPayslipsPending(ctx, run.ID); err != nil {
			return RunDetailResponse{}, err
		}
	}

	run.Status = target
	if err := qtx.UpdateRunCAS(ctx, run, run.Version); err != nil {
		return RunDetailResponse{}, err
	}

	if err := s.auditRepo.WithTx(tx).Append(ctx, &audit.Entry{
		CompanyID:   run.CompanyID,
		SubjectType: audit.SubjectPayrollRun,
		SubjectID:   run.ID,
		Status:      target,
		ActorID:     actorUUID,
		Role:        role,
		Note:        reason,
	}); err != nil {
		return RunDetailResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return RunDetailResponse{}, err
	}

	s.logger.Info("payroll run transitioned",
		zap.String("run_id", run.ID.String()),
		zap.String("action", action),
		zap.String("status", target),
		zap.String("request_id", contextutil.GetRequestID(ctx)),
	)

	// Re-read so payslip-level changes made inside the transaction are
	// reflected in the response.
	fresh, err := s.repo.FindByIDAndCompany(ctx, companyID, runID)
	if err != nil {
		return RunDetailResponse{}, err
	}
	return toRunDetailResponse(fresh), nil
}

// isRetriedRequest tolerates client retries: a repeat of the transition
// that already moved the run, by the same actor, is answered with the
// current state instead of InvalidTransition.
func (s *service) isRetriedRequest(ctx context.Context, run *PayrollRun, action, actorID string, terr error) (RunDetailResponse, bool) {
	if !errors.Is(terr, payrollrunerrors.ErrInvalidTransition) {
		return RunDetailResponse{}, false
	}
	tr, ok := transitions[action]
	if !ok || run.Status != tr.to {
		return RunDetailResponse{}, false
	}
	latest, err := s.auditRepo.LatestBySubject(ctx, run.CompanyID.String(), audit.SubjectPayrollRun, run.ID)
	if err != nil || latest == nil {
		return RunDetailResponse{}, false
	}
	if latest.Status == tr.to && latest.ActorID.String() == actorID {
		return toRunDetailResponse(run), true
	}
	return RunDetailResponse{}, false
}

// checkBlockingAnomalies gates the publish edge. Negative net pay, missing
// bank accounts and unmatched insurance brackets always block; the
// variance check can be accepted per payslip by a specialist.
func checkBlockingAnomalies(payslips []Payslip) error {
	for i := range payslips {
		slip := &payslips[i]
		for _, a := range slip.Anomalies {
			switch a {
			case paycalc.AnomalyNegativeNetPay,
				paycalc.AnomalyMissingBankAccount,
				paycalc.AnomalyNoInsuranceBracket:
				return payrollrunerrors.ErrBlockingAnomalies
			default:
				if !slip.AnomaliesOverridden {
					return payrollrunerrors.ErrBlockingAnomalies
				}
			}
		}
	}
	return nil
}

// applyRefunds flips this company's pending refunds inside the lock
// transaction and folds each applied amount into the owning payslip and
// the run totals. Refunds for employees outside the run stay pending.
func (s *service) applyRefunds(ctx context.Context, tx *sql.Tx, qtx Repository, run *PayrollRun) (int, error) {
	slipByEmployee := make(map[uuid.UUID]*Payslip, len(run.Payslips))
	for i := range run.Payslips {
		slipByEmployee[run.Payslips[i].EmployeeID] = &run.Payslips[i]
	}

	applied, err := s.refunds.ApplyPending(ctx, tx, run.CompanyID.String(), run.ID, func(employeeID uuid.UUID) bool {
		_, ok := slipByEmployee[employeeID]
		return ok
	})
	if err != nil {
		return 0, err
	}

	for _, a := range applied {
		slip := slipByEmployee[a.EmployeeID]
		comp := PayslipComponent{
			ID:        uuid.New(),
			PayslipID: slip.ID,
			Kind:      paycalc.KindEarning,
			Category:  paycalc.CategoryRefund,
			Name:      "Refund",
			Amount:    a.Amount,
			Position:  len(slip.Components),
		}
		if err := qtx.AppendComponents(ctx, slip.ID, []PayslipComponent{comp}); err != nil {
			return 0, err
		}
		if err := qtx.ApplyRefundToPayslip(ctx, slip.ID, a.Amount); err != nil {
			return 0, err
		}
		slip.Components = append(slip.Components, comp)
		slip.TotalRefunds += a.Amount
		slip.TotalGross += a.Amount
		slip.NetPay += a.Amount

		run.TotalGrossPay += a.Amount
		run.TotalNetPay += a.Amount
	}
	return len(applied), nil
}

func (s *service) enqueueLockedEvent(ctx context.Context, tx *sql.Tx, run *PayrollRun, actorID string, refundsApplied int) error {
	if s.outbox == nil {
		return nil
	}
	payload, err := json.Marshal(events.PayrollRunLockedEvent{
		EventType:      "payroll.run.locked",
		PayrollRunID:   run.ID.String(),
		CompanyID:      run.CompanyID.String(),
		Period:         run.PeriodID,
		TotalNetPay:    run.TotalNetPay,
		RefundsApplied: refundsApplied,
		LockedBy:       actorID,
		OccurredAt:     time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payroll_run",
		AggregateID:   run.ID.String(),
		EventType:     "payroll.run.locked",
		Topic:         events.PayrollRunLockedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) enqueuePaidEvent(ctx context.Context, tx *sql.Tx, run *PayrollRun, actorID string) error {
	if s.outbox == nil {
		return nil
	}
	payload, err := json.Marshal(events.PayrollRunPaidEvent{
		EventType:    "payroll.run.paid",
		PayrollRunID: run.ID.String(),
		CompanyID:    run.CompanyID.String(),
		Period:       run.PeriodID,
		PaidBy:       actorID,
		OccurredAt:   time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payroll_run",
		AggregateID:   run.ID.String(),
		EventType:     "payroll.run.paid",
		Topic:         events.PayrollRunPaidTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func toPayslipEntity(computed *paycalc.Payslip, companyID, runID uuid.UUID) Payslip {
	slip := Payslip{
		ID:                uuid.New(),
		PayrollRunID:      runID,
		CompanyID:         companyID,
		EmployeeID:        computed.EmployeeID,
		BaseSalary:        computed.BaseSalary,
		TotalAllowances:   computed.TotalAllowances,
		TotalBonuses:      computed.TotalBonuses,
		TotalBenefits:     computed.TotalBenefits,
		TotalRefunds:      computed.TotalRefunds,
		Tax:               computed.Tax,
		InsuranceEmployee: computed.InsuranceEmployee,
		InsuranceEmployer: computed.InsuranceEmployer,
		TotalPenalties:    computed.TotalPenalties,
		TotalGross:        computed.TotalGross,
		TotalDeductions:   computed.TotalDeductions,
		NetPay:            computed.NetPay,
		Anomalies:         computed.Anomalies,
		PaymentStatus:     PaymentStatusPending,
	}
	slip.Components = make([]PayslipComponent, 0, len(computed.Components))
	for i, c := range computed.Components {
		slip.Components = append(slip.Components, PayslipComponent{
			ID:        uuid.New(),
			PayslipID: slip.ID,
			Kind:      c.Kind,
			Category:  c.Category,
			Name:      c.Name,
			Amount:    c.Amount,
			Position:  i,
		})
	}
	return slip
}

func toRunSummaryResponse(run *PayrollRun) RunSummaryResponse {
	return RunSummaryResponse{
		ID:              run.ID.String(),
		Period:          run.PeriodID,
		Status:          run.Status,
		TotalGrossPay:   run.TotalGrossPay,
		TotalNetPay:     run.TotalNetPay,
		PayslipCount:    len(run.Payslips),
		InitiatedBy:     run.InitiatedBy.String(),
		LockDate:        run.LockDate,
		RejectionReason: run.RejectionReason,
	}
}

func toRunDetailResponse(run *PayrollRun) RunDetailResponse {
	resp := RunDetailResponse{RunSummaryResponse: toRunSummaryResponse(run)}
	resp.Payslips = make([]PayslipResponse, 0, len(run.Payslips))
	for i := range run.Payslips {
		resp.Payslips = append(resp.Payslips, toPayslipResponse(&run.Payslips[i]))
	}
	return resp
}

func toPayslipResponse(slip *Payslip) PayslipResponse {
	resp := PayslipResponse{
		ID:                  slip.ID.String(),
		EmployeeID:          slip.EmployeeID.String(),
		TotalGross:          slip.TotalGross,
		TotalDeductions:     slip.TotalDeductions,
		NetPay:              slip.NetPay,
		PaymentStatus:       slip.PaymentStatus,
		Anomalies:           slip.Anomalies,
		AnomaliesOverridden: slip.AnomaliesOverridden,
	}
	resp.Components = make([]ComponentResponse, 0, len(slip.Components))
	for _, c := range slip.Components {
		resp.Components = append(resp.Components, ComponentResponse{
			Kind:     c.Kind,
			Category: c.Category,
			Name:     c.Name,
			Amount:   c.Amount,
		})
	}
	return resp
}
