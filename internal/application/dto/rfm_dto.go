package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrendDTO métricas de tendencia mensual de un cliente.
type TrendDTO struct {
	CAGR        float64 `json:"cagr_ytd"`
	Var3M       float64 `json:"var_3m"`
	VarRecent   float64 `json:"var_recent"`
	Consistency float64 `json:"consistency"`
	Label       string  `json:"trend_label"`
	Months      int     `json:"months"`
}

// RFMClientDTO puntaje RFM+ de un cliente.
type RFMClientDTO struct {
	ClientID     string          `json:"client_id"`
	Client       string          `json:"client"`
	Seller       string          `json:"seller"`
	LastPurchase time.Time       `json:"last_purchase"`
	RecencyDays  int             `json:"recency_days"`
	Frequency    int             `json:"frequency"`
	Monetary     decimal.Decimal `json:"monetary"`
	AvgTicket    decimal.Decimal `json:"valor_promedio_transaccion"`
	R            int             `json:"r_score"`
	F            int             `json:"f_score"`
	M            int             `json:"m_score"`
	T            int             `json:"t_score"`
	Score        string          `json:"rfm_score"` // "RFMT"
	Numeric      float64         `json:"rfm_numeric"`
	Category     string          `json:"category"`
	Trend        TrendDTO        `json:"trend"`
}

// SegmentDTO clientes y monto por categoría.
type SegmentDTO struct {
	Category string          `json:"category"`
	Clients  int             `json:"clients"`
	Monetary decimal.Decimal `json:"monetary"`
	SharePct decimal.Decimal `json:"share_pct"` // % de clientes
}

// RFMResultDTO resultado de compute_rfm.
type RFMResultDTO struct {
	Seller   string         `json:"seller"`
	CutOff   time.Time      `json:"cut_off"`
	Clients  []RFMClientDTO `json:"clients"`
	Segments []SegmentDTO   `json:"segments"`
}

// MonthValueDTO neto de un mes.
type MonthValueDTO struct {
	YearMonth string          `json:"year_month"`
	NetSales  decimal.Decimal `json:"net_sales"`
}

// RFMClientDetailDTO detalle de un cliente con recomendación.
type RFMClientDetailDTO struct {
	RFMClientDTO
	Recommendation string          `json:"recommendation"`
	Monthly        []MonthValueDTO `json:"monthly"`
}
