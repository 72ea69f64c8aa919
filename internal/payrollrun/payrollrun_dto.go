package payrollrun

import "time"

type InitiateRunRequest struct {
	Period string `json:"period" binding:"required"`
}

type ReviewRunRequest struct {
	Approved bool    `json:"approved"`
	Reason   *string `json:"reason"`
}

type UnfreezeRunRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CorrectPayslipRequest replaces the patched payslip's component list. Net
// pay is re-derived server side; a client-supplied net pay that does not
// reconcile is rejected.
type CorrectPayslipRequest struct {
	Components []ComponentPatch `json:"components" binding:"required,min=1,dive"`
	NetPay     *int64           `json:"net_pay"`
	// Accept the advisory anomalies left on this payslip after the patch.
	OverrideAnomalies bool `json:"override_anomalies"`
}

type ComponentPatch struct {
	Kind     string `json:"kind" binding:"required,oneof=EARNING DEDUCTION"`
	Category string `json:"category" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Amount   int64  `json:"amount" binding:"required"`
}

type RunSummaryResponse struct {
	ID              string     `json:"id"`
	Period          string     `json:"period"`
	Status          string     `json:"status"`
	TotalGrossPay   int64      `json:"total_gross_pay"`
	TotalNetPay     int64      `json:"total_net_pay"`
	PayslipCount    int        `json:"payslip_count"`
	InitiatedBy     string     `json:"initiated_by"`
	LockDate        *time.Time `json:"lock_date,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
}

type RunDetailResponse struct {
	RunSummaryResponse
	Payslips []PayslipResponse `json:"payslips"`
}

type PayslipResponse struct {
	ID                  string              `json:"id"`
	EmployeeID          string              `json:"employee_id"`
	TotalGross          int64               `json:"total_gross"`
	TotalDeductions     int64               `json:"total_deductions"`
	NetPay              int64               `json:"net_pay"`
	PaymentStatus       string              `json:"payment_status"`
	Anomalies           []string            `json:"anomalies"`
	AnomaliesOverridden bool                `json:"anomalies_overridden"`
	Components          []ComponentResponse `json:"components"`
}

type ComponentResponse struct {
	Kind     string `json:"kind"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Amount   int64  `json:"amount"`
}

type BreakdownResponse struct {
	EmployeeID        string `json:"employee_id"`
	BaseSalary        int64  `json:"base_salary"`
	TotalAllowances   int64  `json:"total_allowances"`
	TotalBonuses      int64  `json:"total_bonuses"`
	TotalBenefits     int64  `json:"total_benefits"`
	TotalRefunds      int64  `json:"total_refunds"`
	Tax               int64  `json:"tax"`
	InsuranceEmployee int64  `json:"insurance_employee"`
	InsuranceEmployer int64  `json:"insurance_employer"`
	TotalPenalties    int64  `json:"total_penalties"`
	TotalGross        int64  `json:"total_gross"`
	TotalDeductions   int64  `json:"total_deductions"`
	NetPay            int64  `json:"net_pay"`
}
