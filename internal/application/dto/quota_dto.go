package dto

import "github.com/shopspring/decimal"

// QuotaAttainmentDTO cumplimiento de cuota de un vendedor en un mes.
type QuotaAttainmentDTO struct {
	Seller              string          `json:"seller"`
	Month               string          `json:"month"` // YYYY-MM
	Quota               decimal.Decimal `json:"quota"`
	Real                decimal.Decimal `json:"real"`
	ExpectedAmount      decimal.Decimal `json:"expected_amount"`
	DifferenceVsQuota   decimal.Decimal `json:"difference_vs_quota"`
	AttainmentPct       decimal.Decimal `json:"attainment_pct"`
	ExpectedProgressPct decimal.Decimal `json:"expected_progress_pct"`
	TotalBusinessDays   int             `json:"total_business_days"`
	ElapsedBusinessDays int             `json:"elapsed_business_days"`
	Closed              bool            `json:"closed"`
	State               string          `json:"state"`
}

// QuotaBoardDTO vista multivendedor con fila de total del equipo.
type QuotaBoardDTO struct {
	Month   string               `json:"month"`
	Sellers []QuotaAttainmentDTO `json:"sellers"`
	Team    *QuotaAttainmentDTO  `json:"team,omitempty"`
}
