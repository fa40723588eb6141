package dto

import "github.com/shopspring/decimal"

// RiskIndicatorDTO indicador de riesgo de cartera de un vendedor.
type RiskIndicatorDTO struct {
	Seller         string          `json:"seller"`
	TotalPortfolio decimal.Decimal `json:"total_portfolio"`
	TotalOverdue   decimal.Decimal `json:"total_overdue"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalReceipts  decimal.Decimal `json:"total_receipts"`

	OverdueRate          float64 `json:"overdue_rate"`
	WOF                  float64 `json:"wof"`
	DSO                  float64 `json:"dso"`
	CollectionEfficiency float64 `json:"collection_efficiency"`
	Concentration        float64 `json:"risk_concentration"`

	OverdueRisk       float64 `json:"overdue_risk"`
	WOFRisk           float64 `json:"wof_risk"`
	DSORisk           float64 `json:"dso_risk"`
	CollectionRisk    float64 `json:"collection_risk"`
	ConcentrationRisk float64 `json:"concentration_risk"`

	CompositeRisk float64 `json:"composite_risk"`
	Percentile    float64 `json:"percentile"`
	AdjustedRisk  float64 `json:"adjusted_risk"`
	Category      string  `json:"category"`
}

// RiskThresholdsDTO percentiles del riesgo compuesto en la población.
type RiskThresholdsDTO struct {
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
}

// RiskReportDTO indicador para la población de vendedores.
type RiskReportDTO struct {
	PeriodDays int                `json:"period_days"`
	Thresholds RiskThresholdsDTO  `json:"thresholds"`
	Calibrated bool               `json:"calibrated"` // false = cortes fijos
	Sellers    []RiskIndicatorDTO `json:"sellers"`
}
