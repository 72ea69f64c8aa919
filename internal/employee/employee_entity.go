package employee

import (
	"time"

	"github.com/google/uuid"
)

const (
	ContractFullTime   = "FULL_TIME"
	ContractPartTime   = "PART_TIME"
	ContractContractor = "CONTRACTOR"
)

type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID    uuid.UUID  `gorm:"type:uuid;index"`
	DepartmentID *uuid.UUID `gorm:"type:uuid"`
	FullName     string
	Email        string `gorm:"uniqueIndex:uq_employee_email"`
	ContractType string `gorm:"type:varchar(20);not null;default:'FULL_TIME'"`
	BaseSalary   int64  `gorm:"type:bigint;not null"`

	// Missing bank details do not block hiring, only payout. The payroll
	// calculation raises an anomaly instead.
	BankAccountNumber *string `gorm:"type:varchar(40)"`

	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AllowanceAssignment links an employee to an approved allowance code.
type AllowanceAssignment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_employee_allowance"`
	AllowanceCode string    `gorm:"type:varchar(60);not null;uniqueIndex:uq_employee_allowance"`
	CreatedAt     time.Time
}

func (AllowanceAssignment) TableName() string {
	return "employee_allowances"
}

// BonusAward is a one-off period-scoped earning entered by HR.
type BonusAward struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_bonus_period"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null"`
	Period     string    `gorm:"type:varchar(7);not null;index:idx_bonus_period"`
	Name       string    `gorm:"type:varchar(100);not null"`
	Amount     int64     `gorm:"type:bigint;not null"`
	// Benefits are taxable earnings too; the flag only changes the payslip
	// category.
	IsBenefit bool `gorm:"not null;default:false"`
	CreatedAt time.Time
}

func (BonusAward) TableName() string {
	return "bonus_awards"
}

// UnpaidLeave records the unpaid days taken in one period.
type UnpaidLeave struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_unpaid_period"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_unpaid_leave"`
	Period     string    `gorm:"type:varchar(7);not null;index:idx_unpaid_period;uniqueIndex:uq_unpaid_leave"`
	Days       int       `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (UnpaidLeave) TableName() string {
	return "unpaid_leaves"
}

// PenaltyEvent is a period-scoped disciplinary deduction referencing a
// penalty rule by code. Amount overrides the rule's fixed amount when set.
type PenaltyEvent struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_penalty_period"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null"`
	Period     string    `gorm:"type:varchar(7);not null;index:idx_penalty_period"`
	Code       string    `gorm:"type:varchar(60);not null"`
	Amount     *int64    `gorm:"type:bigint"`
	CreatedAt  time.Time
}

func (PenaltyEvent) TableName() string {
	return "penalty_events"
}
