package ruleset

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	ruleseterrors "go-payday/internal/ruleset/errors"
)

// Default relative gross change vs the prior period before a payslip is
// flagged for review.
var defaultGrossVarianceThreshold = decimal.RequireFromString("0.15")

type Resolver interface {
	// Resolve assembles the frozen RuleSet for one company and period.
	// Missing approved tax or insurance policy is a hard stop: no payroll
	// run may start under an unapproved or absent statutory policy.
	Resolve(ctx context.Context, companyID, period string) (*RuleSet, error)
}

type resolver struct {
	repo Repository
	sf   singleflight.Group
}

func NewResolver(repo Repository) Resolver {
	return &resolver{repo: repo}
}

func (r *resolver) Resolve(ctx context.Context, companyID, period string) (*RuleSet, error) {
	periodStart, err := ParsePeriod(period)
	if err != nil {
		return nil, err
	}

	// Concurrent resolutions of the same company+period share one pass.
	// The result is not retained: every later call re-reads configuration.
	v, err, _ := r.sf.Do(fmt.Sprintf("%s|%s", companyID, period), func() (any, error) {
		return r.build(ctx, companyID, periodStart)
	})
	if err != nil {
		return nil, err
	}
	return v.(*RuleSet), nil
}

func (r *resolver) build(ctx context.Context, companyID string, periodStart time.Time) (*RuleSet, error) {
	taxPolicy, err := r.repo.FindApprovedTaxPolicy(ctx, companyID, periodStart)
	if err != nil {
		return nil, err
	}
	if taxPolicy == nil {
		return nil, ruleseterrors.ErrNoApprovedTaxPolicy
	}

	insPolicy, err := r.repo.FindApprovedInsurancePolicy(ctx, companyID, periodStart)
	if err != nil {
		return nil, err
	}
	if insPolicy == nil {
		return nil, ruleseterrors.ErrNoApprovedInsurancePolicy
	}

	allowances, err := r.repo.FindApprovedAllowances(ctx, companyID, periodStart)
	if err != nil {
		return nil, err
	}

	penaltyRules, err := r.repo.FindApprovedPenaltyRules(ctx, companyID, periodStart)
	if err != nil {
		return nil, err
	}

	rs := &RuleSet{
		EffectiveDate:          periodStart,
		DaysInPeriod:           DaysInPeriod(periodStart),
		TaxMode:                TaxMode(taxPolicy.Mode),
		GrossVarianceThreshold: defaultGrossVarianceThreshold,
	}

	for _, b := range taxPolicy.Brackets {
		rs.TaxBrackets = append(rs.TaxBrackets, TaxBracket{
			MinIncome: b.MinIncome,
			MaxIncome: b.MaxIncome,
			Rate:      b.Rate,
		})
	}

	for _, b := range insPolicy.Brackets {
		rs.InsuranceBrackets = append(rs.InsuranceBrackets, InsuranceBracket{
			MinSalary:    b.MinSalary,
			MaxSalary:    b.MaxSalary,
			EmployeeRate: b.EmployeeRate,
			EmployerRate: b.EmployerRate,
		})
	}

	for _, a := range allowances {
		rs.Allowances = append(rs.Allowances, AllowanceDefinition{
			Code:    a.Code,
			Kind:    AllowanceKind(a.Kind),
			Amount:  a.Amount,
			Rate:    a.Rate,
			Taxable: a.Taxable,
		})
	}

	for _, p := range penaltyRules {
		rs.PenaltyRules = append(rs.PenaltyRules, PenaltyRule{
			Code:      p.Code,
			Kind:      PenaltyKind(p.Kind),
			Amount:    p.Amount,
			Rate:      p.Rate,
			AppliesTo: p.AppliesTo,
		})
	}

	if err := rs.Validate(); err != nil {
		return nil, err
	}

	return rs, nil
}

// ParsePeriod parses a payroll period id such as "2025-11" into the first
// day of that month, UTC.
func ParsePeriod(period string) (time.Time, error) {
	t, err := time.Parse("2006-01", period)
	if err != nil {
		return time.Time{}, ruleseterrors.ErrInvalidPeriodFormat
	}
	return t, nil
}

// DaysInPeriod returns the number of calendar days in the period's month.
func DaysInPeriod(periodStart time.Time) int {
	return periodStart.AddDate(0, 1, -1).Day()
}
