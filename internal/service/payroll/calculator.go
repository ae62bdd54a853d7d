package payroll

import (
	"github.com/periodica-hq/bizops-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// Single-state professional tax slab on monthly gross.
	ptUpperThreshold = decimal.NewFromInt(10000)
	ptLowerThreshold = decimal.NewFromInt(7500)
	ptUpperAmount    = decimal.NewFromInt(200)
	ptLowerAmount    = decimal.NewFromInt(175)
)

// ProfessionalTaxSlab returns the monthly professional tax for gross.
func ProfessionalTaxSlab(gross decimal.Decimal) decimal.Decimal {
	switch {
	case gross.GreaterThan(ptUpperThreshold):
		return ptUpperAmount
	case gross.GreaterThan(ptLowerThreshold):
		return ptLowerAmount
	default:
		return decimal.Zero
	}
}

// MonthlyTDS is the income-tax withholding for the month. Annual tax projection
// is not implemented, so nothing is withheld.
func MonthlyTDS(adjustedGross decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}

// Calculate computes the full salary breakdown for one month. It is pure.
func Calculate(in payroll.BreakdownInput) payroll.Breakdown {
	gross := in.Components.Total()
	days := decimal.NewFromInt(int64(in.DaysInMonth))

	lwpDays := in.LWPDays
	if lwpDays.IsNegative() {
		lwpDays = decimal.Zero
	}

	prorated := in.Components
	lwpDeduction := decimal.Zero
	ratio := decimal.NewFromInt(1)

	if lwpDays.IsPositive() && gross.IsPositive() && in.DaysInMonth > 0 {
		lwpDeduction = gross.Div(days).Mul(lwpDays)
		if lwpDeduction.GreaterThan(gross) {
			lwpDeduction = gross
		}
		ratio = gross.Sub(lwpDeduction).Div(gross)
		prorated = in.Components.Scale(ratio)
	}

	adjustedGross := prorated.Total()
	s := in.Settings

	// PF
	pfBasis := decimal.Min(prorated.Basic, s.PFCeilingAmount)
	pfEmployee := percentOf(pfBasis, s.PFEmployeeRate).Round(2)
	pfEmployer := percentOf(pfBasis, s.PFEmployerRate).Round(2)

	// ESIC
	esicApplicable := adjustedGross.LessThanOrEqual(s.ESICLimitAmount)
	esicEmployee := decimal.Zero
	esicEmployer := decimal.Zero
	if esicApplicable {
		esicEmployee = percentOf(adjustedGross, s.ESICEmployeeRate).Ceil()
		esicEmployer = percentOf(adjustedGross, s.ESICEmployerRate).Ceil()
	}

	// Professional tax
	pt := decimal.Zero
	if s.PTEnabled {
		pt = ProfessionalTaxSlab(adjustedGross)
	}

	tds := MonthlyTDS(adjustedGross)

	deductions := payroll.Deductions{
		PFEmployee:      pfEmployee,
		ESICEmployee:    esicEmployee,
		ProfessionalTax: pt,
		TDS:             tds,
		Total:           decimal.Sum(pfEmployee, esicEmployee, pt, tds),
	}
	employer := payroll.EmployerContributions{
		PFEmployer:   pfEmployer,
		ESICEmployer: esicEmployer,
		Total:        pfEmployer.Add(esicEmployer),
	}

	return payroll.Breakdown{
		TotalGrossFixed:       gross,
		LWPDays:               lwpDays,
		DaysInMonth:           in.DaysInMonth,
		LWPDeduction:          lwpDeduction.Round(2),
		ProrationRatio:        ratio.Round(6),
		Earnings:              payroll.NewEarnings(prorated),
		AdjustedGross:         adjustedGross,
		PFBasis:               pfBasis,
		ESICApplicable:        esicApplicable,
		Deductions:            deductions,
		EmployerContributions: employer,
		Arrears:               in.Arrears,
		NetPayable:            adjustedGross.Sub(deductions.Total).Add(in.Arrears),
		CostToCompany:         decimal.Sum(adjustedGross, employer.Total, in.Arrears),
	}
}

// AmountPayable applies the never-pay-negative rule to a computed net.
func AmountPayable(net decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, net)
}

func percentOf(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Div(hundred)
}
