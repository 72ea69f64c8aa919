package ruleset

import (
	"time"

	"github.com/shopspring/decimal"

	ruleseterrors "go-payday/internal/ruleset/errors"
)

// TaxMode selects how tax brackets are interpreted. Source policies express
// brackets as discrete ranges; FLAT applies the single matching bracket's
// rate to the whole gross, PROGRESSIVE taxes each slice at its own rate.
type TaxMode string

const (
	TaxModeFlat        TaxMode = "FLAT"
	TaxModeProgressive TaxMode = "PROGRESSIVE"
)

type TaxBracket struct {
	MinIncome int64
	MaxIncome *int64 // nil = unbounded
	Rate      decimal.Decimal
}

type InsuranceBracket struct {
	MinSalary    int64
	MaxSalary    int64
	EmployeeRate decimal.Decimal
	EmployerRate decimal.Decimal
}

type AllowanceKind string

const (
	AllowanceFixedAmount   AllowanceKind = "FIXED_AMOUNT"
	AllowancePercentOfBase AllowanceKind = "PERCENT_OF_BASE"
)

type AllowanceDefinition struct {
	Code    string
	Kind    AllowanceKind
	Amount  int64           // FIXED_AMOUNT
	Rate    decimal.Decimal // PERCENT_OF_BASE
	Taxable bool
}

type PenaltyKind string

const (
	PenaltyFixedAmount   PenaltyKind = "FIXED_AMOUNT"
	PenaltyPercentOfBase PenaltyKind = "PERCENT_OF_BASE"
	PenaltyUnpaidDayRate PenaltyKind = "UNPAID_DAY_RATE"
)

type PenaltyRule struct {
	Code      string
	Kind      PenaltyKind
	Amount    int64
	Rate      decimal.Decimal
	AppliesTo string
}

// RuleSet is the frozen snapshot of approved configuration for one payroll
// period. Built once per calculation pass, never mutated afterwards.
type RuleSet struct {
	EffectiveDate     time.Time
	DaysInPeriod      int
	TaxMode           TaxMode
	TaxBrackets       []TaxBracket
	InsuranceBrackets []InsuranceBracket
	Allowances        []AllowanceDefinition
	PenaltyRules      []PenaltyRule

	// Relative gross change vs the prior period above which a payslip gets
	// a variance anomaly.
	GrossVarianceThreshold decimal.Decimal
}

// Validate enforces the bracket invariants: tax brackets sorted ascending by
// MinIncome, contiguous, non-overlapping, last one unbounded. Called at
// resolution time so the calculation engine can trust its input.
func (rs *RuleSet) Validate() error {
	if len(rs.TaxBrackets) == 0 {
		return ruleseterrors.ErrEmptyTaxBrackets
	}

	switch rs.TaxMode {
	case TaxModeFlat, TaxModeProgressive:
	default:
		return ruleseterrors.ErrUnknownTaxMode
	}

	for i, b := range rs.TaxBrackets {
		if i == 0 {
			if b.MinIncome != 0 {
				return ruleseterrors.ErrTaxBracketGap
			}
		} else {
			prev := rs.TaxBrackets[i-1]
			if prev.MaxIncome == nil {
				// An unbounded bracket can only be the last one.
				return ruleseterrors.ErrTaxBracketOverlap
			}
			if b.MinIncome != *prev.MaxIncome {
				return ruleseterrors.ErrTaxBracketGap
			}
		}
		if b.MaxIncome != nil && *b.MaxIncome <= b.MinIncome {
			return ruleseterrors.ErrTaxBracketOverlap
		}
	}

	if rs.TaxBrackets[len(rs.TaxBrackets)-1].MaxIncome != nil {
		return ruleseterrors.ErrTaxBracketUnbounded
	}

	for _, b := range rs.InsuranceBrackets {
		if b.MaxSalary < b.MinSalary {
			return ruleseterrors.ErrInsuranceBracketRange
		}
	}

	return nil
}

// Allowance returns the approved allowance definition for a code.
func (rs *RuleSet) Allowance(code string) (AllowanceDefinition, bool) {
	for _, a := range rs.Allowances {
		if a.Code == code {
			return a, true
		}
	}
	return AllowanceDefinition{}, false
}

// Penalty returns the approved penalty rule for a code.
func (rs *RuleSet) Penalty(code string) (PenaltyRule, bool) {
	for _, p := range rs.PenaltyRules {
		if p.Code == code {
			return p, true
		}
	}
	return PenaltyRule{}, false
}

// InsuranceBracketFor returns the bracket whose salary range contains gross.
func (rs *RuleSet) InsuranceBracketFor(gross int64) (InsuranceBracket, bool) {
	for _, b := range rs.InsuranceBrackets {
		if gross >= b.MinSalary && gross <= b.MaxSalary {
			return b, true
		}
	}
	return InsuranceBracket{}, false
}
