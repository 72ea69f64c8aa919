package events

import "time"

const PayrollRunLockedTopic = "payroll.run.locked.v1"

// PayrollRunLockedEvent is emitted through the outbox when finance approval
// freezes a run. Downstream consumers render payslip documents from it.
type PayrollRunLockedEvent struct {
	EventType      string    `json:"event_type"`
	PayrollRunID   string    `json:"payroll_run_id"`
	CompanyID      string    `json:"company_id"`
	Period         string    `json:"period"`
	TotalNetPay    int64     `json:"total_net_pay"`
	RefundsApplied int       `json:"refunds_applied"`
	LockedBy       string    `json:"locked_by"`
	OccurredAt     time.Time `json:"occurred_at"`
}
