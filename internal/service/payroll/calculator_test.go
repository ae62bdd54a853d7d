package payroll

import (
	"testing"

	"github.com/periodica-hq/bizops-backend-go/internal/domain/payroll"
	"github.com/periodica-hq/bizops-backend-go/internal/domain/statutory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, d(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func TestCalculate_DefaultSettingsNoLOP(t *testing.T) {
	in := payroll.BreakdownInput{
		Components:  payroll.SalaryComponents{Basic: d("20000"), HRA: d("10000")},
		DaysInMonth: 30,
		Settings:    statutory.Defaults("company-1"),
	}

	b := Calculate(in)

	assertDecimal(t, "30000", b.TotalGrossFixed)
	assertDecimal(t, "30000", b.AdjustedGross)
	assertDecimal(t, "0", b.LWPDeduction)
	// basic above the ceiling, so PF uses the ceiling
	assertDecimal(t, "15000", b.PFBasis)
	assertDecimal(t, "1800", b.Deductions.PFEmployee)
	assertDecimal(t, "1800", b.EmployerContributions.PFEmployer)
	assert.False(t, b.ESICApplicable)
	assertDecimal(t, "0", b.Deductions.ESICEmployee)
	assertDecimal(t, "200", b.Deductions.ProfessionalTax)
	assertDecimal(t, "0", b.Deductions.TDS)
	assertDecimal(t, "2000", b.Deductions.Total)
	assertDecimal(t, "28000", b.NetPayable)
	assertDecimal(t, "31800", b.CostToCompany)
}

func TestCalculate_PFBelowCeilingUsesBasic(t *testing.T) {
	in := payroll.BreakdownInput{
		Components:  payroll.SalaryComponents{Basic: d("10000"), HRA: d("4000")},
		DaysInMonth: 30,
		Settings:    statutory.Defaults("company-1"),
	}

	b := Calculate(in)

	assertDecimal(t, "10000", b.PFBasis)
	assertDecimal(t, "1200", b.Deductions.PFEmployee)
}

func TestCalculate_ESICCliff(t *testing.T) {
	settings := statutory.Defaults("company-1")

	atLimit := Calculate(payroll.BreakdownInput{
		Components:  payroll.SalaryComponents{Basic: d("21000")},
		DaysInMonth: 30,
		Settings:    settings,
	})
	assert.True(t, atLimit.ESICApplicable)
	// 157.5 and 682.5 round up
	assertDecimal(t, "158", atLimit.Deductions.ESICEmployee)
	assertDecimal(t, "683", atLimit.EmployerContributions.ESICEmployer)

	aboveLimit := Calculate(payroll.BreakdownInput{
		Components:  payroll.SalaryComponents{Basic: d("21001")},
		DaysInMonth: 30,
		Settings:    settings,
	})
	assert.False(t, aboveLimit.ESICApplicable)
	assertDecimal(t, "0", aboveLimit.Deductions.ESICEmployee)
	assertDecimal(t, "0", aboveLimit.EmployerContributions.ESICEmployer)
}

func TestCalculate_LOPProratesEveryComponent(t *testing.T) {
	in := payroll.BreakdownInput{
		Components:  payroll.SalaryComponents{Basic: d("12000"), HRA: d("6000")},
		LWPDays:     d("3"),
		DaysInMonth: 30,
		Settings:    statutory.Defaults("company-1"),
	}

	b := Calculate(in)

	assertDecimal(t, "1800", b.LWPDeduction)
	assertDecimal(t, "0.9", b.ProrationRatio)
	assertDecimal(t, "10800", b.Earnings.Basic)
	assertDecimal(t, "5400", b.Earnings.HRA)
	assertDecimal(t, "16200", b.AdjustedGross)
	// PF follows prorated basic, ESIC applies under the limit
	assertDecimal(t, "1296", b.Deductions.PFEmployee)
	assert.True(t, b.ESICApplicable)
	assertDecimal(t, "122", b.Deductions.ESICEmployee)
	assertDecimal(t, "527", b.EmployerContributions.ESICEmployer)
}

func TestCalculate_ProrationConsistency(t *testing.T) {
	components := payroll.SalaryComponents{
		Basic:            d("12345.67"),
		HRA:              d("4938.27"),
		Conveyance:       d("1600"),
		Medical:          d("1250"),
		SpecialAllowance: d("3333.33"),
		OtherAllowances:  d("777.77"),
	}
	tolerance := d("0.06")

	for _, daysInMonth := range []int{28, 30, 31} {
		for lwp := 0; lwp <= daysInMonth; lwp++ {
			b := Calculate(payroll.BreakdownInput{
				Components:  components,
				LWPDays:     decimal.NewFromInt(int64(lwp)),
				DaysInMonth: daysInMonth,
				Settings:    statutory.Defaults("company-1"),
			})

			expected := b.TotalGrossFixed.Sub(b.LWPDeduction)
			diff := b.Earnings.Total().Sub(expected).Abs()
			assert.True(t, diff.LessThanOrEqual(tolerance), "days=%d lwp=%d diff=%s", daysInMonth, lwp, diff)
			assert.True(t, b.AdjustedGross.Equal(b.Earnings.Total()))
		}
	}
}

func TestCalculate_FullMonthLOP(t *testing.T) {
	b := Calculate(payroll.BreakdownInput{
		Components:  payroll.SalaryComponents{Basic: d("9000")},
		LWPDays:     d("31"),
		DaysInMonth: 30,
		Settings:    statutory.Defaults("company-1"),
	})

	assertDecimal(t, "9000", b.LWPDeduction)
	assertDecimal(t, "0", b.AdjustedGross)
	assertDecimal(t, "0", b.Deductions.Total)
	assertDecimal(t, "0", b.NetPayable)
}

func TestCalculate_ArrearsAddedAfterDeductions(t *testing.T) {
	b := Calculate(payroll.BreakdownInput{
		Components:  payroll.SalaryComponents{Basic: d("20000"), HRA: d("10000")},
		LWPDays:     d("15"),
		DaysInMonth: 30,
		Settings:    statutory.Defaults("company-1"),
		Arrears:     d("2500"),
	})

	assertDecimal(t, "15000", b.AdjustedGross)
	assertDecimal(t, "2500", b.Arrears)
	// 15000 - (1200 PF + 113 ESIC + 200 PT) + 2500
	assertDecimal(t, "15987", b.NetPayable)
	// 15000 + 1200 + 488 + 2500
	assertDecimal(t, "19188", b.CostToCompany)
}

func TestCalculate_PTDisabled(t *testing.T) {
	settings := statutory.Defaults("company-1")
	settings.PTEnabled = false

	b := Calculate(payroll.BreakdownInput{
		Components:  payroll.SalaryComponents{Basic: d("20000"), HRA: d("10000")},
		DaysInMonth: 30,
		Settings:    settings,
	})

	assertDecimal(t, "0", b.Deductions.ProfessionalTax)
	assertDecimal(t, "28200", b.NetPayable)
}

func TestProfessionalTaxSlab(t *testing.T) {
	tests := []struct {
		gross string
		want  string
	}{
		{"0", "0"},
		{"7500", "0"},
		{"7500.01", "175"},
		{"10000", "175"},
		{"10000.01", "200"},
		{"250000", "200"},
	}

	for _, tt := range tests {
		t.Run(tt.gross, func(t *testing.T) {
			assertDecimal(t, tt.want, ProfessionalTaxSlab(d(tt.gross)))
		})
	}
}

func TestMonthlyTDS_IsZero(t *testing.T) {
	assertDecimal(t, "0", MonthlyTDS(d("500000")))
}

func TestAmountPayable(t *testing.T) {
	assertDecimal(t, "0", AmountPayable(d("-150.25")))
	assertDecimal(t, "150.25", AmountPayable(d("150.25")))
}
