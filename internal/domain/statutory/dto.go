package statutory

import (
	"github.com/periodica-hq/bizops-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type SettingsResponse struct {
	ID               string          `json:"id,omitempty"`
	CompanyID        string          `json:"company_id"`
	PFEmployeeRate   decimal.Decimal `json:"pf_employee_rate"`
	PFEmployerRate   decimal.Decimal `json:"pf_employer_rate"`
	PFCeilingAmount  decimal.Decimal `json:"pf_ceiling_amount"`
	ESICEmployeeRate decimal.Decimal `json:"esic_employee_rate"`
	ESICEmployerRate decimal.Decimal `json:"esic_employer_rate"`
	ESICLimitAmount  decimal.Decimal `json:"esic_limit_amount"`
	PTEnabled        bool            `json:"pt_enabled"`
	IsDefault        bool            `json:"is_default"`
}

func NewSettingsResponse(s Settings) SettingsResponse {
	return SettingsResponse{
		ID:               s.ID,
		CompanyID:        s.CompanyID,
		PFEmployeeRate:   s.PFEmployeeRate,
		PFEmployerRate:   s.PFEmployerRate,
		PFCeilingAmount:  s.PFCeilingAmount,
		ESICEmployeeRate: s.ESICEmployeeRate,
		ESICEmployerRate: s.ESICEmployerRate,
		ESICLimitAmount:  s.ESICLimitAmount,
		PTEnabled:        s.PTEnabled,
		IsDefault:        s.IsDefault,
	}
}

type UpdateSettingsRequest struct {
	PFEmployeeRate   *decimal.Decimal `json:"pf_employee_rate,omitempty"`
	PFEmployerRate   *decimal.Decimal `json:"pf_employer_rate,omitempty"`
	PFCeilingAmount  *decimal.Decimal `json:"pf_ceiling_amount,omitempty"`
	ESICEmployeeRate *decimal.Decimal `json:"esic_employee_rate,omitempty"`
	ESICEmployerRate *decimal.Decimal `json:"esic_employer_rate,omitempty"`
	ESICLimitAmount  *decimal.Decimal `json:"esic_limit_amount,omitempty"`
	PTEnabled        *bool            `json:"pt_enabled,omitempty"`
}

var hundred = decimal.NewFromInt(100)

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	rates := []struct {
		field string
		value *decimal.Decimal
	}{
		{"pf_employee_rate", r.PFEmployeeRate},
		{"pf_employer_rate", r.PFEmployerRate},
		{"esic_employee_rate", r.ESICEmployeeRate},
		{"esic_employer_rate", r.ESICEmployerRate},
	}
	for _, rate := range rates {
		if rate.value == nil {
			continue
		}
		if rate.value.IsNegative() || rate.value.GreaterThan(hundred) {
			errs = append(errs, validator.ValidationError{Field: rate.field, Message: "must be between 0 and 100"})
		}
	}

	if r.PFCeilingAmount != nil && r.PFCeilingAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "pf_ceiling_amount", Message: "must be non-negative"})
	}
	if r.ESICLimitAmount != nil && r.ESICLimitAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "esic_limit_amount", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply copies the non-nil fields of the request onto s.
func (r *UpdateSettingsRequest) Apply(s *Settings) {
	if r.PFEmployeeRate != nil {
		s.PFEmployeeRate = *r.PFEmployeeRate
	}
	if r.PFEmployerRate != nil {
		s.PFEmployerRate = *r.PFEmployerRate
	}
	if r.PFCeilingAmount != nil {
		s.PFCeilingAmount = *r.PFCeilingAmount
	}
	if r.ESICEmployeeRate != nil {
		s.ESICEmployeeRate = *r.ESICEmployeeRate
	}
	if r.ESICEmployerRate != nil {
		s.ESICEmployerRate = *r.ESICEmployerRate
	}
	if r.ESICLimitAmount != nil {
		s.ESICLimitAmount = *r.ESICLimitAmount
	}
	if r.PTEnabled != nil {
		s.PTEnabled = *r.PTEnabled
	}
}
