package app

import (
	"gorm.io/gorm"

	"go-payday/internal/audit"
	"go-payday/internal/auth"
	"go-payday/internal/employee"
	"go-payday/internal/payrollrun"
	"go-payday/internal/refund"
	"go-payday/internal/ruleset"
)

// migrate brings the schema up to date. The outbox and RBAC tables are
// plain DDL because no gorm entity owns them: the outbox repository works
// on database/sql and the RBAC policy tables are written by seed tooling.
func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&auth.User{},
		&employee.Employee{},
		&employee.AllowanceAssignment{},
		&employee.BonusAward{},
		&employee.UnpaidLeave{},
		&employee.PenaltyEvent{},
		&ruleset.TaxPolicy{},
		&ruleset.TaxPolicyBracket{},
		&ruleset.InsurancePolicy{},
		&ruleset.InsurancePolicyBracket{},
		&ruleset.AllowanceRecord{},
		&ruleset.PenaltyRuleRecord{},
		&payrollrun.PayrollRun{},
		&payrollrun.Payslip{},
		&payrollrun.PayslipComponent{},
		&refund.Claim{},
		&refund.Dispute{},
		&refund.Refund{},
		&audit.Entry{},
	); err != nil {
		return err
	}

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS outbox_events (
			id UUID PRIMARY KEY,
			request_id VARCHAR(64),
			aggregate_type VARCHAR(60) NOT NULL,
			aggregate_id UUID NOT NULL,
			event_type VARCHAR(120) NOT NULL,
			topic VARCHAR(120) NOT NULL,
			payload JSONB NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			retry_count INT NOT NULL DEFAULT 0,
			error_message VARCHAR(500),
			next_retry_at TIMESTAMPTZ,
			processed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outbox_events_status_created
			ON outbox_events (status, created_at)`,
		`CREATE TABLE IF NOT EXISTS employee_roles (
			company_id UUID NOT NULL,
			employee_id UUID NOT NULL,
			role VARCHAR(50) NOT NULL,
			PRIMARY KEY (company_id, employee_id, role)
		)`,
		`CREATE TABLE IF NOT EXISTS role_permissions (
			company_id UUID NOT NULL,
			role VARCHAR(50) NOT NULL,
			resource VARCHAR(60) NOT NULL,
			action VARCHAR(60) NOT NULL,
			PRIMARY KEY (company_id, role, resource, action)
		)`,
	}

	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}
