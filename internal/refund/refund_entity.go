package refund

import (
	"time"

	"github.com/google/uuid"
)

// Claim and dispute records move through their own role-gated approval
// chain. Reaching APPROVED by finance spawns exactly one pending refund.
const (
	TrackStatusUnderReview    = "UNDER_REVIEW"
	TrackStatusPendingManager = "PENDING_MANAGER_APPROVAL"
	TrackStatusPendingFinance = "PENDING_FINANCE_APPROVAL"
	TrackStatusApproved       = "APPROVED"
	TrackStatusRejected       = "REJECTED"

	RefundStatusPending = "PENDING"
	RefundStatusPaid    = "PAID"

	SourceClaim   = "CLAIM"
	SourceDispute = "DISPUTE"
)

type Claim struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID       uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Description     string    `gorm:"type:text;not null"`
	Amount          int64     `gorm:"type:bigint;not null"`
	Status          string    `gorm:"type:varchar(40);not null;default:'UNDER_REVIEW'"`
	RejectionReason *string   `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Dispute struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID       uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Description     string    `gorm:"type:text;not null"`
	Status          string    `gorm:"type:varchar(40);not null;default:'UNDER_REVIEW'"`
	RejectionReason *string   `gorm:"type:text"`
	// Set by finance at approval; disputes carry no amount until resolved.
	ResolvedAmount *int64 `gorm:"type:bigint"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Refund struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_refund_company_status"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`
	SourceType string    `gorm:"type:varchar(20);not null;index:idx_refund_source,unique"`
	SourceID   uuid.UUID `gorm:"type:uuid;not null;index:idx_refund_source,unique"`
	Amount     int64     `gorm:"type:bigint;not null"`
	Status     string    `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_refund_company_status"`

	PaidInPayrollRunID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Applied reports one refund flipped PENDING -> PAID during a run lock.
type Applied struct {
	RefundID   uuid.UUID
	EmployeeID uuid.UUID
	Amount     int64
}
