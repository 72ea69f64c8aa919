package paycalc

import (
	"github.com/shopspring/decimal"

	"go-payday/internal/ruleset"
)

// Anomaly codes. Anomalies are advisory: they never abort a calculation,
// they only block the publish transition until resolved or overridden.
const (
	AnomalyNegativeNetPay     = "negative-net-pay"
	AnomalyMissingBankAccount = "missing-bank-account"
	AnomalyGrossVariance      = "gross-variance"
	AnomalyNoInsuranceBracket = "no-insurance-bracket"
)

// Detect runs the independent payslip checks. Each check contributes at
// most one code; the result is empty when every check passes.
func Detect(slip *Payslip, in EmployeeInput, rs *ruleset.RuleSet, insuranceMatched bool) []string {
	var anomalies []string

	if slip.NetPay < 0 {
		anomalies = append(anomalies, AnomalyNegativeNetPay)
	}

	if !in.HasBankAccount {
		anomalies = append(anomalies, AnomalyMissingBankAccount)
	}

	if in.PriorGross != nil && *in.PriorGross > 0 {
		prior := decimal.NewFromInt(*in.PriorGross)
		diff := decimal.NewFromInt(slip.TotalGross - *in.PriorGross).Abs()
		if diff.Div(prior).GreaterThan(rs.GrossVarianceThreshold) {
			anomalies = append(anomalies, AnomalyGrossVariance)
		}
	}

	// A salary outside every statutory insurance bracket is a configuration
	// problem that must be fixed, never silently zeroed.
	if !insuranceMatched {
		anomalies = append(anomalies, AnomalyNoInsuranceBracket)
	}

	return anomalies
}
