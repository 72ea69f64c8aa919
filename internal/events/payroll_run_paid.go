package events

import "time"

const PayrollRunPaidTopic = "payroll.run.paid.v1"

type PayrollRunPaidEvent struct {
	EventType    string    `json:"event_type"`
	PayrollRunID string    `json:"payroll_run_id"`
	CompanyID    string    `json:"company_id"`
	Period       string    `json:"period"`
	PaidBy       string    `json:"paid_by"`
	OccurredAt   time.Time `json:"occurred_at"`
}
