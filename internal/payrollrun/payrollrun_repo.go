package payrollrun

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	payrollrunerrors "go-payday/internal/payrollrun/errors"
	"go-payday/internal/tenant"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository

	Create(ctx context.Context, run *PayrollRun) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollRun, error)
	FindByPeriod(ctx context.Context, companyID, periodID string) (*PayrollRun, error)
	FindAllByCompany(ctx context.Context, companyID string, f ListFilter) ([]PayrollRun, int64, error)

	// UpdateRunCAS persists status, totals, lock date and rejection reason
	// guarded by the run's version. Returns ErrConcurrentUpdate when the
	// version moved underneath the caller.
	UpdateRunCAS(ctx context.Context, run *PayrollRun, expectedVersion int) error

	ReplacePayslips(ctx context.Context, run *PayrollRun, payslips []Payslip) error
	FindPayslip(ctx context.Context, companyID string, runID, employeeID uuid.UUID) (*Payslip, error)
	UpdatePayslip(ctx context.Context, slip *Payslip) error
	MarkPayslipsPaid(ctx context.Context, runID uuid.UUID) error

	// MarkPayslipsPending reverses MarkPayslipsPaid when a paid run is
	// unfrozen, so payment state follows the run back into review.
	MarkPayslipsPending(ctx context.Context, runID uuid.UUID) error
	AppendComponents(ctx context.Context, payslipID uuid.UUID, components []PayslipComponent) error

	// ApplyRefundToPayslip bumps the refund, gross and net columns of one
	// payslip by the refund amount. Deductions are untouched: refunds were
	// already taxed at the source.
	ApplyRefundToPayslip(ctx context.Context, payslipID uuid.UUID, amount int64) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, run *PayrollRun) error {
	if r.tx != nil {
		query := `
INSERT INTO payroll_runs (
	id, company_id, period_id, status,
	total_gross_pay, total_net_pay,
	initiated_by, lock_date, rejection_reason, version,
	created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
`
		_, err := r.tx.ExecContext(ctx, query,
			run.ID, run.CompanyID, run.PeriodID, run.Status,
			run.TotalGrossPay, run.TotalNetPay,
			run.InitiatedBy, run.LockDate, run.RejectionReason, run.Version,
		)
		return err
	}
	return r.db.WithContext(ctx).Omit("Payslips").Create(run).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollRun, error) {
	var run PayrollRun
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Payslips", func(db *gorm.DB) *gorm.DB {
			return db.Order("payslips.employee_id ASC")
		}).
		Preload("Payslips.Components", func(db *gorm.DB) *gorm.DB {
			return db.Order("payslip_components.position ASC")
		}).
		First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, payrollrunerrors.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *repository) FindByPeriod(ctx context.Context, companyID, periodID string) (*PayrollRun, error) {
	var run PayrollRun
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&run, "period_id = ?", periodID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListFilter narrows and pages the run listing. Zero values mean "all" for
// the filters and the default page size for the paging knobs.
type ListFilter struct {
	Status string
	Period string
	Page   int
	Limit  int
}

func (f ListFilter) normalized() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	return f
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, f ListFilter) ([]PayrollRun, int64, error) {
	f = f.normalized()

	q := r.db.WithContext(ctx).
		Model(&PayrollRun{}).
		Scopes(tenant.Scope(companyID))
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Period != "" {
		q = q.Where("period_id = ?", f.Period)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var runs []PayrollRun
	err := q.
		Order("period_id DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&runs).Error
	return runs, total, err
}

func (r *repository) UpdateRunCAS(ctx context.Context, run *PayrollRun, expectedVersion int) error {
	query := `
UPDATE payroll_runs
SET
	status = $1,
	total_gross_pay = $2,
	total_net_pay = $3,
	lock_date = $4,
	rejection_reason = $5,
	version = version + 1,
	updated_at = NOW()
WHERE id = $6 AND version = $7
`
	var affected int64
	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, query,
			run.Status, run.TotalGrossPay, run.TotalNetPay,
			run.LockDate, run.RejectionReason, run.ID, expectedVersion,
		)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		if err != nil {
			return err
		}
	} else {
		res := r.db.WithContext(ctx).Exec(query,
			run.Status, run.TotalGrossPay, run.TotalNetPay,
			run.LockDate, run.RejectionReason, run.ID, expectedVersion,
		)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
	}
	if affected != 1 {
		return payrollrunerrors.ErrConcurrentUpdate
	}
	run.Version = expectedVersion + 1
	return nil
}

func (r *repository) ReplacePayslips(ctx context.Context, run *PayrollRun, payslips []Payslip) error {
	if r.tx != nil {
		if _, err := r.tx.ExecContext(ctx, `
DELETE FROM payslip_components
WHERE payslip_id IN (SELECT id FROM payslips WHERE payroll_run_id = $1)
`, run.ID); err != nil {
			return err
		}
		if _, err := r.tx.ExecContext(ctx,
			`DELETE FROM payslips WHERE payroll_run_id = $1`, run.ID,
		); err != nil {
			return err
		}
		for i := range payslips {
			if err := r.insertPayslipTx(ctx, &payslips[i]); err != nil {
				return err
			}
		}
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var oldIDs []uuid.UUID
		if err := tx.Model(&Payslip{}).
			Where("payroll_run_id = ?", run.ID).
			Pluck("id", &oldIDs).Error; err != nil {
			return err
		}
		if len(oldIDs) > 0 {
			if err := tx.Where("payslip_id IN ?", oldIDs).Delete(&PayslipComponent{}).Error; err != nil {
				return err
			}
			if err := tx.Where("payroll_run_id = ?", run.ID).Delete(&Payslip{}).Error; err != nil {
				return err
			}
		}
		for i := range payslips {
			if err := tx.Create(&payslips[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) insertPayslipTx(ctx context.Context, slip *Payslip) error {
	anomalies, err := json.Marshal(slip.Anomalies)
	if err != nil {
		return err
	}
	query := `
INSERT INTO payslips (
	id, payroll_run_id, company_id, employee_id,
	base_salary, total_allowances, total_bonuses, total_benefits, total_refunds,
	tax, insurance_employee, insurance_employer, total_penalties,
	total_gross, total_deductions, net_pay,
	anomalies, anomalies_overridden, payment_status,
	created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, NOW(), NOW())
`
	if _, err := r.tx.ExecContext(ctx, query,
		slip.ID, slip.PayrollRunID, slip.CompanyID, slip.EmployeeID,
		slip.BaseSalary, slip.TotalAllowances, slip.TotalBonuses, slip.TotalBenefits, slip.TotalRefunds,
		slip.Tax, slip.InsuranceEmployee, slip.InsuranceEmployer, slip.TotalPenalties,
		slip.TotalGross, slip.TotalDeductions, slip.NetPay,
		anomalies, slip.AnomaliesOverridden, slip.PaymentStatus,
	); err != nil {
		return err
	}
	return r.AppendComponents(ctx, slip.ID, slip.Components)
}

func (r *repository) FindPayslip(ctx context.Context, companyID string, runID, employeeID uuid.UUID) (*Payslip, error) {
	var slip Payslip
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Components", func(db *gorm.DB) *gorm.DB {
			return db.Order("payslip_components.position ASC")
		}).
		First(&slip, "payroll_run_id = ? AND employee_id = ?", runID, employeeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, payrollrunerrors.ErrPayslipNotFound
	}
	if err != nil {
		return nil, err
	}
	return &slip, nil
}

func (r *repository) UpdatePayslip(ctx context.Context, slip *Payslip) error {
	if r.tx != nil {
		anomalies, err := json.Marshal(slip.Anomalies)
		if err != nil {
			return err
		}
		if _, err := r.tx.ExecContext(ctx,
			`DELETE FROM payslip_components WHERE payslip_id = $1`, slip.ID,
		); err != nil {
			return err
		}
		query := `
UPDATE payslips
SET
	base_salary = $1,
	total_allowances = $2,
	total_bonuses = $3,
	total_benefits = $4,
	total_refunds = $5,
	tax = $6,
	insurance_employee = $7,
	insurance_employer = $8,
	total_penalties = $9,
	total_gross = $10,
	total_deductions = $11,
	net_pay = $12,
	anomalies = $13,
	anomalies_overridden = $14,
	updated_at = NOW()
WHERE id = $15
`
		if _, err := r.tx.ExecContext(ctx, query,
			slip.BaseSalary, slip.TotalAllowances, slip.TotalBonuses, slip.TotalBenefits, slip.TotalRefunds,
			slip.Tax, slip.InsuranceEmployee, slip.InsuranceEmployer, slip.TotalPenalties,
			slip.TotalGross, slip.TotalDeductions, slip.NetPay,
			anomalies, slip.AnomaliesOverridden, slip.ID,
		); err != nil {
			return err
		}
		return r.AppendComponents(ctx, slip.ID, slip.Components)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("payslip_id = ?", slip.ID).Delete(&PayslipComponent{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(slip).Error
	})
}

func (r *repository) MarkPayslipsPaid(ctx context.Context, runID uuid.UUID) error {
	query := `
UPDATE payslips
SET payment_status = $1, updated_at = NOW()
WHERE payroll_run_id = $2 AND payment_status = $3
`
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, query, PaymentStatusPaid, runID, PaymentStatusPending)
		return err
	}
	return r.db.WithContext(ctx).Exec(query, PaymentStatusPaid, runID, PaymentStatusPending).Error
}

func (r *repository) MarkPayslipsPending(ctx context.Context, runID uuid.UUID) error {
	query := `
UPDATE payslips
SET payment_status = $1, updated_at = NOW()
WHERE payroll_run_id = $2 AND payment_status = $3
`
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, query, PaymentStatusPending, runID, PaymentStatusPaid)
		return err
	}
	return r.db.WithContext(ctx).Exec(query, PaymentStatusPending, runID, PaymentStatusPaid).Error
}

func (r *repository) AppendComponents(ctx context.Context, payslipID uuid.UUID, components []PayslipComponent) error {
	query := `
INSERT INTO payslip_components (id, payslip_id, kind, category, name, amount, position)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	for _, comp := range components {
		if r.tx != nil {
			if _, err := r.tx.ExecContext(ctx, query,
				comp.ID, payslipID, comp.Kind, comp.Category, comp.Name, comp.Amount, comp.Position,
			); err != nil {
				return err
			}
			continue
		}
		if err := r.db.WithContext(ctx).Exec(query,
			comp.ID, payslipID, comp.Kind, comp.Category, comp.Name, comp.Amount, comp.Position,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) ApplyRefundToPayslip(ctx context.Context, payslipID uuid.UUID, amount int64) error {
	query := `
UPDATE payslips
SET
	total_refunds = total_refunds + $1,
	total_gross = total_gross + $1,
	net_pay = net_pay + $1,
	updated_at = NOW()
WHERE id = $2
`
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, query, amount, payslipID)
		return err
	}
	return r.db.WithContext(ctx).Exec(query, amount, payslipID).Error
}
