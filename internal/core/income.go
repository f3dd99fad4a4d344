package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Pay-period counts for normalizing a salary to a monthly figure.
var (
	weeksPerYear   = decimal.NewFromInt(52)
	biweeksPerYear = decimal.NewFromInt(26)
	monthsPerYear  = decimal.NewFromInt(12)
)

// MonthlyIncome normalizes a salary to a monthly amount.
//
//	weekly   -> salary * 52 / 12
//	biweekly -> salary * 26 / 12
//	anything else, including "monthly", passes the salary through.
//
// No rounding is applied; display formatting rounds at presentation
// time only.
func MonthlyIncome(salary decimal.Decimal, frequency PayFrequency) (decimal.Decimal, error) {
	if salary.IsNegative() {
		return decimal.Zero, ErrNegativeSalary
	}
	if err := frequency.Validate(); err != nil {
		return decimal.Zero, err
	}
	switch PayFrequency(strings.ToLower(string(frequency))) {
	case Weekly:
		return salary.Mul(weeksPerYear).Div(monthsPerYear), nil
	case Biweekly:
		return salary.Mul(biweeksPerYear).Div(monthsPerYear), nil
	default:
		return salary, nil
	}
}

// Monthly returns the derived monthly income for the settings.
func (s IncomeSettings) Monthly() (decimal.Decimal, error) {
	return MonthlyIncome(s.Salary, s.Frequency)
}
