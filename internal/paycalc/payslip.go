package paycalc

import "github.com/google/uuid"

// Component kinds and categories for itemized payslip lines.
const (
	KindEarning   = "EARNING"
	KindDeduction = "DEDUCTION"

	CategoryBaseSalary = "base_salary"
	CategoryAllowance  = "allowance"
	CategoryBonus      = "bonus"
	CategoryBenefit    = "benefit"
	CategoryRefund     = "refund"
	CategoryTax        = "tax"
	CategoryInsurance  = "insurance"
	CategoryPenalty    = "penalty"
)

type Component struct {
	Kind     string
	Category string
	Name     string
	Amount   int64
}

// Payslip is the computed pay breakdown for one employee in one period.
// Invariants:
//
//	TotalGross = BaseSalary + allowances + bonuses + benefits + refunds
//	NetPay     = TotalGross - TotalDeductions
//
// The employer insurance share is recorded for reporting only and is not
// part of TotalDeductions.
type Payslip struct {
	EmployeeID uuid.UUID

	Components []Component

	BaseSalary        int64
	TotalAllowances   int64
	TotalBonuses      int64
	TotalBenefits     int64
	TotalRefunds      int64
	Tax               int64
	InsuranceEmployee int64
	InsuranceEmployer int64
	TotalPenalties    int64

	TotalGross      int64
	TotalDeductions int64
	NetPay          int64

	Anomalies []string
}
