package ruleset_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"go-payday/internal/ruleset"
	ruleseterrors "go-payday/internal/ruleset/errors"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func i64(v int64) *int64 {
	return &v
}

type fakeRulesetRepository struct {
	taxPolicy       *ruleset.TaxPolicy
	insurancePolicy *ruleset.InsurancePolicy
	allowances      []ruleset.AllowanceRecord
	penaltyRules    []ruleset.PenaltyRuleRecord

	taxCalls int
}

func (f *fakeRulesetRepository) FindApprovedTaxPolicy(ctx context.Context, companyID string, onOrBefore time.Time) (*ruleset.TaxPolicy, error) {
	f.taxCalls++
	return f.taxPolicy, nil
}

func (f *fakeRulesetRepository) FindApprovedInsurancePolicy(ctx context.Context, companyID string, onOrBefore time.Time) (*ruleset.InsurancePolicy, error) {
	return f.insurancePolicy, nil
}

func (f *fakeRulesetRepository) FindApprovedAllowances(ctx context.Context, companyID string, onOrBefore time.Time) ([]ruleset.AllowanceRecord, error) {
	return f.allowances, nil
}

func (f *fakeRulesetRepository) FindApprovedPenaltyRules(ctx context.Context, companyID string, onOrBefore time.Time) ([]ruleset.PenaltyRuleRecord, error) {
	return f.penaltyRules, nil
}

func approvedPolicies() *fakeRulesetRepository {
	return &fakeRulesetRepository{
		taxPolicy: &ruleset.TaxPolicy{
			Mode: string(ruleset.TaxModeFlat),
			Brackets: []ruleset.TaxPolicyBracket{
				{MinIncome: 0, MaxIncome: i64(10000), Rate: dec("0.05")},
				{MinIncome: 10000, MaxIncome: nil, Rate: dec("0.10")},
			},
		},
		insurancePolicy: &ruleset.InsurancePolicy{
			Brackets: []ruleset.InsurancePolicyBracket{
				{MinSalary: 0, MaxSalary: 100000, EmployeeRate: dec("0.05"), EmployerRate: dec("0.05")},
			},
		},
		allowances: []ruleset.AllowanceRecord{
			{Code: "transport", Kind: string(ruleset.AllowanceFixedAmount), Amount: 500, Taxable: true},
		},
		penaltyRules: []ruleset.PenaltyRuleRecord{
			{Code: "unpaid-day", Kind: string(ruleset.PenaltyUnpaidDayRate)},
		},
	}
}

func TestResolver_Resolve(t *testing.T) {
	repo := approvedPolicies()
	resolver := ruleset.NewResolver(repo)

	rs, err := resolver.Resolve(context.Background(), "acme", "2025-11")

	assert.NoError(t, err)
	assert.Equal(t, ruleset.TaxModeFlat, rs.TaxMode)
	assert.Equal(t, 30, rs.DaysInPeriod)
	assert.Len(t, rs.TaxBrackets, 2)
	assert.Len(t, rs.InsuranceBrackets, 1)
	assert.Len(t, rs.Allowances, 1)
	assert.Len(t, rs.PenaltyRules, 1)
	assert.True(t, rs.GrossVarianceThreshold.Equal(dec("0.15")))
	assert.Equal(t, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), rs.EffectiveDate)
}

func TestResolver_NoApprovedTaxPolicy(t *testing.T) {
	repo := approvedPolicies()
	repo.taxPolicy = nil
	resolver := ruleset.NewResolver(repo)

	_, err := resolver.Resolve(context.Background(), "acme", "2025-11")

	assert.ErrorIs(t, err, ruleseterrors.ErrNoApprovedTaxPolicy)
}

func TestResolver_NoApprovedInsurancePolicy(t *testing.T) {
	repo := approvedPolicies()
	repo.insurancePolicy = nil
	resolver := ruleset.NewResolver(repo)

	_, err := resolver.Resolve(context.Background(), "acme", "2025-11")

	assert.ErrorIs(t, err, ruleseterrors.ErrNoApprovedInsurancePolicy)
}

func TestResolver_InvalidPeriod(t *testing.T) {
	resolver := ruleset.NewResolver(approvedPolicies())

	_, err := resolver.Resolve(context.Background(), "acme", "november-2025")

	assert.ErrorIs(t, err, ruleseterrors.ErrInvalidPeriodFormat)
}

func TestResolver_RejectsBrokenBrackets(t *testing.T) {
	repo := approvedPolicies()
	repo.taxPolicy.Brackets = []ruleset.TaxPolicyBracket{
		{MinIncome: 0, MaxIncome: i64(10000), Rate: dec("0.05")},
		{MinIncome: 12000, MaxIncome: nil, Rate: dec("0.10")}, // gap 10000..12000
	}
	resolver := ruleset.NewResolver(repo)

	_, err := resolver.Resolve(context.Background(), "acme", "2025-11")

	assert.ErrorIs(t, err, ruleseterrors.ErrTaxBracketGap)
}

func TestRuleSet_Validate(t *testing.T) {
	valid := func() *ruleset.RuleSet {
		return &ruleset.RuleSet{
			TaxMode: ruleset.TaxModeFlat,
			TaxBrackets: []ruleset.TaxBracket{
				{MinIncome: 0, MaxIncome: i64(10000), Rate: dec("0.05")},
				{MinIncome: 10000, MaxIncome: nil, Rate: dec("0.10")},
			},
			InsuranceBrackets: []ruleset.InsuranceBracket{
				{MinSalary: 0, MaxSalary: 100000},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(rs *ruleset.RuleSet)
		wantErr error
	}{
		{
			name:    "valid",
			mutate:  func(rs *ruleset.RuleSet) {},
			wantErr: nil,
		},
		{
			name: "no brackets",
			mutate: func(rs *ruleset.RuleSet) {
				rs.TaxBrackets = nil
			},
			wantErr: ruleseterrors.ErrEmptyTaxBrackets,
		},
		{
			name: "unknown mode",
			mutate: func(rs *ruleset.RuleSet) {
				rs.TaxMode = "MYSTERY"
			},
			wantErr: ruleseterrors.ErrUnknownTaxMode,
		},
		{
			name: "first bracket starts above zero",
			mutate: func(rs *ruleset.RuleSet) {
				rs.TaxBrackets[0].MinIncome = 1000
			},
			wantErr: ruleseterrors.ErrTaxBracketGap,
		},
		{
			name: "gap between brackets",
			mutate: func(rs *ruleset.RuleSet) {
				rs.TaxBrackets[1].MinIncome = 11000
			},
			wantErr: ruleseterrors.ErrTaxBracketGap,
		},
		{
			name: "unbounded bracket not last",
			mutate: func(rs *ruleset.RuleSet) {
				rs.TaxBrackets[0].MaxIncome = nil
			},
			wantErr: ruleseterrors.ErrTaxBracketOverlap,
		},
		{
			name: "inverted bracket",
			mutate: func(rs *ruleset.RuleSet) {
				rs.TaxBrackets[0].MaxIncome = i64(0)
			},
			wantErr: ruleseterrors.ErrTaxBracketOverlap,
		},
		{
			name: "last bracket bounded",
			mutate: func(rs *ruleset.RuleSet) {
				rs.TaxBrackets[1].MaxIncome = i64(50000)
			},
			wantErr: ruleseterrors.ErrTaxBracketUnbounded,
		},
		{
			name: "inverted insurance bracket",
			mutate: func(rs *ruleset.RuleSet) {
				rs.InsuranceBrackets[0].MaxSalary = -1
			},
			wantErr: ruleseterrors.ErrInsuranceBracketRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := valid()
			tt.mutate(rs)

			err := rs.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestParsePeriod(t *testing.T) {
	start, err := ruleset.ParsePeriod("2025-02")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 28, ruleset.DaysInPeriod(start))

	leap, _ := ruleset.ParsePeriod("2024-02")
	assert.Equal(t, 29, ruleset.DaysInPeriod(leap))

	_, err = ruleset.ParsePeriod("2025-13")
	assert.ErrorIs(t, err, ruleseterrors.ErrInvalidPeriodFormat)
}
