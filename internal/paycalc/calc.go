package paycalc

import (
	"github.com/shopspring/decimal"

	"go-payday/internal/ruleset"
)

// Compute maps one employee's facts and a frozen RuleSet to a Payslip.
// Pure and deterministic: no I/O, no clock, same inputs give an identical
// Payslip on every call, so a run can be replayed for audit.
func Compute(in EmployeeInput, rs *ruleset.RuleSet) Payslip {
	slip := Payslip{
		EmployeeID: in.EmployeeID,
		BaseSalary: in.BaseSalary,
	}

	slip.addComponent(KindEarning, CategoryBaseSalary, "Base Salary", in.BaseSalary)

	var nonTaxableAllowances int64
	for _, code := range in.AllowanceCodes {
		def, ok := rs.Allowance(code)
		if !ok {
			continue
		}
		amount := allowanceAmount(def, in.BaseSalary)
		slip.TotalAllowances += amount
		if !def.Taxable {
			nonTaxableAllowances += amount
		}
		slip.addComponent(KindEarning, CategoryAllowance, def.Code, amount)
	}

	for _, b := range in.Bonuses {
		slip.TotalBonuses += b.Amount
		slip.addComponent(KindEarning, CategoryBonus, b.Name, b.Amount)
	}

	for _, b := range in.Benefits {
		slip.TotalBenefits += b.Amount
		slip.addComponent(KindEarning, CategoryBenefit, b.Name, b.Amount)
	}

	for _, r := range in.PendingRefunds {
		slip.TotalRefunds += r.Amount
		slip.addComponent(KindEarning, CategoryRefund, "Refund", r.Amount)
	}

	slip.TotalGross = in.BaseSalary + slip.TotalAllowances + slip.TotalBonuses + slip.TotalBenefits + slip.TotalRefunds

	// Refunds return money that was already taxed once; non-taxable
	// allowances are excluded per their definition.
	taxBase := slip.TotalGross - nonTaxableAllowances - slip.TotalRefunds
	slip.Tax = computeTax(taxBase, rs)
	slip.addComponent(KindDeduction, CategoryTax, "Income Tax", slip.Tax)

	insuranceOK := false
	if bracket, ok := rs.InsuranceBracketFor(slip.TotalGross); ok {
		insuranceOK = true
		gross := decimal.NewFromInt(slip.TotalGross)
		slip.InsuranceEmployee = roundMoney(gross.Mul(bracket.EmployeeRate))
		slip.InsuranceEmployer = roundMoney(gross.Mul(bracket.EmployerRate))
		slip.addComponent(KindDeduction, CategoryInsurance, "Insurance (employee)", slip.InsuranceEmployee)
	}

	slip.TotalPenalties = computePenalties(&slip, in, rs)

	slip.TotalDeductions = slip.Tax + slip.InsuranceEmployee + slip.TotalPenalties
	slip.NetPay = slip.TotalGross - slip.TotalDeductions

	slip.Anomalies = Detect(&slip, in, rs, insuranceOK)

	return slip
}

func (p *Payslip) addComponent(kind, category, name string, amount int64) {
	p.Components = append(p.Components, Component{
		Kind:     kind,
		Category: category,
		Name:     name,
		Amount:   amount,
	})
}

func allowanceAmount(def ruleset.AllowanceDefinition, baseSalary int64) int64 {
	if def.Kind == ruleset.AllowancePercentOfBase {
		return roundMoney(decimal.NewFromInt(baseSalary).Mul(def.Rate))
	}
	return def.Amount
}

func computeTax(taxBase int64, rs *ruleset.RuleSet) int64 {
	if taxBase <= 0 {
		return 0
	}

	base := decimal.NewFromInt(taxBase)

	if rs.TaxMode == ruleset.TaxModeProgressive {
		total := decimal.Zero
		for _, b := range rs.TaxBrackets {
			if taxBase <= b.MinIncome {
				break
			}
			upper := taxBase
			if b.MaxIncome != nil && *b.MaxIncome < taxBase {
				upper = *b.MaxIncome
			}
			slice := decimal.NewFromInt(upper - b.MinIncome)
			total = total.Add(slice.Mul(b.Rate))
		}
		return roundMoney(total)
	}

	// Flat mode: the whole base is taxed at the rate of the single bracket
	// whose range contains it. Bracket ranges are [min, max).
	for _, b := range rs.TaxBrackets {
		if taxBase >= b.MinIncome && (b.MaxIncome == nil || taxBase < *b.MaxIncome) {
			return roundMoney(base.Mul(b.Rate))
		}
	}
	return 0
}

func computePenalties(slip *Payslip, in EmployeeInput, rs *ruleset.RuleSet) int64 {
	var total int64

	for _, p := range in.Penalties {
		rule, ok := rs.Penalty(p.Code)
		if !ok {
			// Time management sent a code with no approved rule; the
			// reported amount stands as-is.
			total += p.Amount
			slip.addComponent(KindDeduction, CategoryPenalty, p.Code, p.Amount)
			continue
		}

		var amount int64
		switch rule.Kind {
		case ruleset.PenaltyPercentOfBase:
			amount = roundMoney(decimal.NewFromInt(in.BaseSalary).Mul(rule.Rate))
		case ruleset.PenaltyFixedAmount:
			amount = rule.Amount
			if p.Amount > 0 {
				amount = p.Amount
			}
		default:
			// Unpaid-day rules are driven by UnpaidLeaveDays below, not by
			// individual penalty records.
			continue
		}
		total += amount
		slip.addComponent(KindDeduction, CategoryPenalty, rule.Code, amount)
	}

	if in.UnpaidLeaveDays > 0 && rs.DaysInPeriod > 0 {
		for _, rule := range rs.PenaltyRules {
			if rule.Kind != ruleset.PenaltyUnpaidDayRate {
				continue
			}
			daily := decimal.NewFromInt(in.BaseSalary).Div(decimal.NewFromInt(int64(rs.DaysInPeriod)))
			amount := roundMoney(daily.Mul(decimal.NewFromInt(int64(in.UnpaidLeaveDays))))
			total += amount
			slip.addComponent(KindDeduction, CategoryPenalty, rule.Code, amount)
			break
		}
	}

	return total
}

// roundMoney rounds to a whole minor unit, half away from zero.
func roundMoney(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}
