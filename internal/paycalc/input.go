package paycalc

import "github.com/google/uuid"

// EmployeeInput carries the per-employee facts for one period. It is owned
// by the caller for the duration of one Compute call and never persisted
// here; the employee profile store is a separate concern.
type EmployeeInput struct {
	EmployeeID   uuid.UUID
	BaseSalary   int64
	ContractType string
	DepartmentID uuid.UUID

	// Codes of pay-grade allowances that apply to this employee. Each must
	// resolve against the RuleSet's approved allowance definitions.
	AllowanceCodes []string

	Bonuses  []NamedAmount
	Benefits []NamedAmount

	UnpaidLeaveDays int
	Penalties       []PenaltyInput

	// Finance-approved refunds to be itemized on the payslip. During draft
	// calculation this is empty; the refund ledger is consulted only at the
	// lock transition.
	PendingRefunds []RefundInput

	HasBankAccount bool

	// Gross of the previous period, when known. Drives the variance check.
	PriorGross *int64
}

type NamedAmount struct {
	Name   string
	Amount int64
}

type PenaltyInput struct {
	Code   string
	Amount int64
}

type RefundInput struct {
	RefundID uuid.UUID
	Amount   int64
}
