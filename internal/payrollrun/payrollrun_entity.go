package payrollrun

import (
	"time"

	"github.com/google/uuid"
)

// Run statuses. Draft doubles as the rejected state: a reject edge returns
// the run to DRAFT with RejectionReason set, and the next submit clears it.
const (
	StatusDraft                  = "DRAFT"
	StatusUnderReview            = "UNDER_REVIEW"
	StatusWaitingManagerApproval = "WAITING_MANAGER_APPROVAL"
	StatusWaitingFinanceApproval = "WAITING_FINANCE_APPROVAL"
	StatusLocked                 = "LOCKED"
	StatusPaid                   = "PAID"

	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
)

type PayrollRun struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_run_period"`
	// Payroll period in YYYY-MM form, one run per company and period.
	PeriodID string `gorm:"type:varchar(7);not null;uniqueIndex:uq_run_period"`
	Status   string `gorm:"type:varchar(30);not null;default:'DRAFT'"`

	TotalGrossPay int64 `gorm:"type:bigint;not null"`
	TotalNetPay   int64 `gorm:"type:bigint;not null"`

	InitiatedBy     uuid.UUID  `gorm:"type:uuid;not null"`
	LockDate        *time.Time `gorm:"type:timestamptz"`
	RejectionReason *string    `gorm:"type:text"`

	// Bumped on every state or totals change; transitions are written with
	// a compare-and-set on this column.
	Version int `gorm:"not null;default:1"`

	Payslips []Payslip `gorm:"foreignKey:PayrollRunID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PayrollRun) TableName() string {
	return "payroll_runs"
}

type Payslip struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	PayrollRunID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payslip_employee"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payslip_employee"`

	BaseSalary        int64 `gorm:"type:bigint;not null"`
	TotalAllowances   int64 `gorm:"type:bigint;not null"`
	TotalBonuses      int64 `gorm:"type:bigint;not null"`
	TotalBenefits     int64 `gorm:"type:bigint;not null"`
	TotalRefunds      int64 `gorm:"type:bigint;not null"`
	Tax               int64 `gorm:"type:bigint;not null"`
	InsuranceEmployee int64 `gorm:"type:bigint;not null"`
	InsuranceEmployer int64 `gorm:"type:bigint;not null"`
	TotalPenalties    int64 `gorm:"type:bigint;not null"`

	TotalGross      int64 `gorm:"type:bigint;not null"`
	TotalDeductions int64 `gorm:"type:bigint;not null"`
	NetPay          int64 `gorm:"type:bigint;not null"`

	Anomalies []string `gorm:"type:jsonb;serializer:json"`
	// Set when a specialist explicitly accepts the advisory anomalies on
	// this payslip. Blocking anomalies are never overridable.
	AnomaliesOverridden bool `gorm:"not null;default:false"`

	PaymentStatus string `gorm:"type:varchar(20);not null;default:'PENDING'"`

	Components []PayslipComponent `gorm:"foreignKey:PayslipID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Payslip) TableName() string {
	return "payslips"
}

type PayslipComponent struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PayslipID uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind      string    `gorm:"type:varchar(10);not null"`
	Category  string    `gorm:"type:varchar(30);not null"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Amount    int64     `gorm:"type:bigint;not null"`
	Position  int       `gorm:"not null"`
}

func (PayslipComponent) TableName() string {
	return "payslip_components"
}
