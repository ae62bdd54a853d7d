package statutory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings - Company statutory configuration (PF, ESIC, professional tax)
type Settings struct {
	ID               string
	CompanyID        string
	PFEmployeeRate   decimal.Decimal // % of capped basic
	PFEmployerRate   decimal.Decimal // % of capped basic
	PFCeilingAmount  decimal.Decimal
	ESICEmployeeRate decimal.Decimal // % of gross
	ESICEmployerRate decimal.Decimal // % of gross
	ESICLimitAmount  decimal.Decimal
	PTEnabled        bool
	IsDefault        bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// National defaults, applied when a company has no stored configuration.
var (
	DefaultPFEmployeeRate   = decimal.NewFromInt(12)
	DefaultPFEmployerRate   = decimal.NewFromInt(12)
	DefaultPFCeilingAmount  = decimal.NewFromInt(15000)
	DefaultESICEmployeeRate = decimal.RequireFromString("0.75")
	DefaultESICEmployerRate = decimal.RequireFromString("3.25")
	DefaultESICLimitAmount  = decimal.NewFromInt(21000)
)

const DefaultPTEnabled = true

// Defaults returns the default statutory settings for a company.
func Defaults(companyID string) Settings {
	return Settings{
		CompanyID:        companyID,
		PFEmployeeRate:   DefaultPFEmployeeRate,
		PFEmployerRate:   DefaultPFEmployerRate,
		PFCeilingAmount:  DefaultPFCeilingAmount,
		ESICEmployeeRate: DefaultESICEmployeeRate,
		ESICEmployerRate: DefaultESICEmployerRate,
		ESICLimitAmount:  DefaultESICLimitAmount,
		PTEnabled:        DefaultPTEnabled,
		IsDefault:        true,
	}
}
