package refund

type CreateClaimRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required,uuid"`
	Description string `json:"description" binding:"required"`
	Amount      int64  `json:"amount" binding:"required"`
}

type CreateDisputeRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required,uuid"`
	Description string `json:"description" binding:"required"`
}

type ReviewRequest struct {
	Approved bool    `json:"approved"`
	Reason   *string `json:"reason"`
}

type ReviewDisputeRequest struct {
	Approved bool    `json:"approved"`
	Reason   *string `json:"reason"`
	// Required when finance approves; the dispute's payout amount.
	Amount *int64 `json:"amount"`
}

type ClaimResponse struct {
	ID              string  `json:"id"`
	CompanyID       string  `json:"company_id"`
	EmployeeID      string  `json:"employee_id"`
	Description     string  `json:"description"`
	Amount          int64   `json:"amount"`
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	RefundID        *string `json:"refund_id,omitempty"`
}

type DisputeResponse struct {
	ID              string  `json:"id"`
	CompanyID       string  `json:"company_id"`
	EmployeeID      string  `json:"employee_id"`
	Description     string  `json:"description"`
	Status          string  `json:"status"`
	ResolvedAmount  *int64  `json:"resolved_amount,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	RefundID        *string `json:"refund_id,omitempty"`
}

type RefundResponse struct {
	ID                 string  `json:"id"`
	EmployeeID         string  `json:"employee_id"`
	SourceType         string  `json:"source_type"`
	SourceID           string  `json:"source_id"`
	Amount             int64   `json:"amount"`
	Status             string  `json:"status"`
	PaidInPayrollRunID *string `json:"paid_in_payroll_run_id,omitempty"`
}
