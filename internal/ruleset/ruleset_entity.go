package ruleset

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Configuration record statuses. Only APPROVED records ever reach a RuleSet.
const (
	RecordStatusDraft    = "DRAFT"
	RecordStatusApproved = "APPROVED"
	RecordStatusArchived = "ARCHIVED"
)

type TaxPolicy struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;index:idx_tax_policy_company_status"`
	Name          string    `gorm:"type:varchar(120);not null"`
	Mode          string    `gorm:"type:varchar(20);not null;default:'FLAT'"`
	Status        string    `gorm:"type:varchar(20);not null;default:'DRAFT';index:idx_tax_policy_company_status"`
	EffectiveDate time.Time `gorm:"type:date;not null;index"`
	ApprovedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Brackets []TaxPolicyBracket `gorm:"foreignKey:PolicyID"`
}

type TaxPolicyBracket struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PolicyID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	MinIncome int64           `gorm:"type:bigint;not null"`
	MaxIncome *int64          `gorm:"type:bigint"` // NULL = unbounded
	Rate      decimal.Decimal `gorm:"type:decimal(10,4);not null"`
}

type InsurancePolicy struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;index:idx_ins_policy_company_status"`
	Name          string    `gorm:"type:varchar(120);not null"`
	Status        string    `gorm:"type:varchar(20);not null;default:'DRAFT';index:idx_ins_policy_company_status"`
	EffectiveDate time.Time `gorm:"type:date;not null;index"`
	ApprovedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Brackets []InsurancePolicyBracket `gorm:"foreignKey:PolicyID"`
}

type InsurancePolicyBracket struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PolicyID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	MinSalary    int64           `gorm:"type:bigint;not null"`
	MaxSalary    int64           `gorm:"type:bigint;not null"`
	EmployeeRate decimal.Decimal `gorm:"type:decimal(10,4);not null"`
	EmployerRate decimal.Decimal `gorm:"type:decimal(10,4);not null"`
}

type AllowanceRecord struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Code          string          `gorm:"type:varchar(60);not null"`
	Kind          string          `gorm:"type:varchar(20);not null"`
	Amount        int64           `gorm:"type:bigint;not null;default:0"`
	Rate          decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0"`
	Taxable       bool            `gorm:"not null;default:true"`
	Status        string          `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	EffectiveDate time.Time       `gorm:"type:date;not null"`
	ApprovedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type PenaltyRuleRecord struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Code          string          `gorm:"type:varchar(60);not null"`
	Kind          string          `gorm:"type:varchar(20);not null"`
	Amount        int64           `gorm:"type:bigint;not null;default:0"`
	Rate          decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0"`
	AppliesTo     string          `gorm:"type:varchar(60)"`
	Status        string          `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	EffectiveDate time.Time       `gorm:"type:date;not null"`
	ApprovedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
