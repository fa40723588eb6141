package dto

import "github.com/shopspring/decimal"

// ConvenioDTO conciliación de un convenio confirmado contra lo facturado.
type ConvenioDTO struct {
	TaxID                string          `json:"tax_id"`
	Client               string          `json:"client"`
	Seller               string          `json:"seller"`
	RebatePct            decimal.Decimal `json:"rebate_pct"`
	TargetValue          decimal.Decimal `json:"target_value"`
	Gross                decimal.Decimal `json:"gross"`
	Discount             decimal.Decimal `json:"discount"`
	NetValue             decimal.Decimal `json:"net_value"`
	EffectiveDiscountPct decimal.Decimal `json:"effective_discount_pct"`
	DiscountCompliant    bool            `json:"discount_compliant"`
	TargetCompliant      bool            `json:"target_compliant"`
	TargetProgressPct    decimal.Decimal `json:"target_progress_pct"`
	ExpectedSales        decimal.Decimal `json:"expected_sales"`
	ExpectedProgressPct  decimal.Decimal `json:"expected_progress_pct"`
	DaysElapsed          int             `json:"days_elapsed"`
	DaysInYear           int             `json:"days_in_year"`
	Observations         string          `json:"observations,omitempty"`
}

// ConvenioSummaryDTO totales de la conciliación.
type ConvenioSummaryDTO struct {
	Agreements        int             `json:"agreements"`
	DiscountCompliant int             `json:"discount_compliant"`
	TargetCompliant   int             `json:"target_compliant"`
	TotalTarget       decimal.Decimal `json:"total_target"`
	TotalNet          decimal.Decimal `json:"total_net"`
	ProgressPct       decimal.Decimal `json:"progress_pct"`
}

// ConvenioAnalysisDTO respuesta de get_convenio_analysis.
type ConvenioAnalysisDTO struct {
	Agreements []ConvenioDTO      `json:"agreements"`
	Summary    ConvenioSummaryDTO `json:"summary"`
}
