package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Resumen ───────────────────────────────────────────────────────────────────

// SalesSummaryDTO KPIs de ventas (o de transferencias) para un vendedor/mes.
// NetSales = TotalSales - TotalReturns siempre.
type SalesSummaryDTO struct {
	TotalSales       decimal.Decimal `json:"total_sales"`        // Σ neto de remisiones
	TotalReturns     decimal.Decimal `json:"total_returns"`      // |Σ neto de devoluciones|
	TotalCreditNotes decimal.Decimal `json:"total_credit_notes"` // |Σ neto de notas crédito|
	NetSales         decimal.Decimal `json:"net_sales"`
	InvoiceCount     int             `json:"invoice_count"`
	UniqueClients    int             `json:"unique_clients"`
	ReturnCount      int             `json:"return_count"`
	AvgTicket        decimal.Decimal `json:"avg_ticket"`
	TotalDiscount    decimal.Decimal `json:"total_discount"`
	DiscountPct      decimal.Decimal `json:"discount_pct"` // descuento / bruto * 100
}

// ── Series ────────────────────────────────────────────────────────────────────

// MonthlySalesDTO punto de la serie mensual; NetSales ya descuenta devoluciones.
type MonthlySalesDTO struct {
	YearMonth    string          `json:"year_month"`
	Sales        decimal.Decimal `json:"sales"`
	Returns      decimal.Decimal `json:"returns"`
	NetSales     decimal.Decimal `json:"net_sales"`
	InvoiceCount int             `json:"invoice_count"`
}

// WeekdaySalesDTO ventas por día de la semana (lunes primero).
type WeekdaySalesDTO struct {
	Weekday      string          `json:"weekday"`
	Order        int             `json:"order"` // 0 = lunes
	NetSales     decimal.Decimal `json:"net_sales"`
	InvoiceCount int             `json:"invoice_count"`
}

// GroupSalesDTO agregación genérica (zona, forma de pago).
type GroupSalesDTO struct {
	Key           string          `json:"key"`
	NetSales      decimal.Decimal `json:"net_sales"`
	InvoiceCount  int             `json:"invoice_count"`
	UniqueClients int             `json:"unique_clients"`
	SharePct      decimal.Decimal `json:"share_pct"`
}

// ClientSalesDTO fila del top de clientes.
type ClientSalesDTO struct {
	ClientID     string          `json:"client_id"`
	Client       string          `json:"client"`
	NetSales     decimal.Decimal `json:"net_sales"`
	InvoiceCount int             `json:"invoice_count"`
}

// PeriodValueDTO punto (período, valor) de la evolución de un cliente.
type PeriodValueDTO struct {
	Period       string          `json:"period"` // YYYY-MM-DD o YYYY-MM
	NetSales     decimal.Decimal `json:"net_sales"`
	InvoiceCount int             `json:"invoice_count"`
}

// ── Rangos ────────────────────────────────────────────────────────────────────

// ClientTotalDTO total neto de un cliente en el rango.
type ClientTotalDTO struct {
	Client   string          `json:"client"`
	NetSales decimal.Decimal `json:"net_sales"`
}

// ClientMonthDTO neto de un cliente en un mes del rango.
type ClientMonthDTO struct {
	Client    string          `json:"client"`
	YearMonth string          `json:"year_month"`
	NetSales  decimal.Decimal `json:"net_sales"`
}

// RangeSalesDTO resultado de los rangos por fecha y por mes.
type RangeSalesDTO struct {
	Start   time.Time        `json:"start"`
	End     time.Time        `json:"end"`
	Total   []ClientTotalDTO `json:"total"`
	Monthly []ClientMonthDTO `json:"monthly"`
}

// ── Variaciones ───────────────────────────────────────────────────────────────

// VariationRowDTO ventas mensuales y variación % entre meses consecutivos de un cliente.
// Variations[i] compara Months[i+1] con Months[i].
type VariationRowDTO struct {
	Client     string            `json:"client"`
	Sales      []decimal.Decimal `json:"sales"`
	Variations []decimal.Decimal `json:"variations"`
	Total      decimal.Decimal   `json:"total_variation"`
}

// MonthlyVariationsDTO mapa de calor cliente × mes.
type MonthlyVariationsDTO struct {
	Months []string          `json:"months"`
	Rows   []VariationRowDTO `json:"rows"`
}

// ── Cobertura ─────────────────────────────────────────────────────────────────

// MonthClientsDTO clientes únicos impactados en un mes.
type MonthClientsDTO struct {
	YearMonth string `json:"year_month"`
	Clients   int    `json:"clients"`
}

// ImpactedClientsDTO clientes impactados por período y tasa promedio sobre activos.
type ImpactedClientsDTO struct {
	Months             []MonthClientsDTO `json:"months"`
	AvgImpacted        decimal.Decimal   `json:"avg_impacted"`
	TotalActiveClients int               `json:"total_active_clients"`
	AvgRatePct         decimal.Decimal   `json:"avg_rate_pct"`
}

// InactiveClientDTO cliente activo con días desde su última remisión.
type InactiveClientDTO struct {
	ClientID string    `json:"client_id"`
	Client   string    `json:"client"`
	Seller   string    `json:"seller"`
	LastSale time.Time `json:"last_sale"`
	Days     int       `json:"days"`
	Bucket   string    `json:"bucket"`
}

// BucketCountDTO conteo por rango de días.
type BucketCountDTO struct {
	Bucket  string `json:"bucket"`
	Clients int    `json:"clients"`
}

// DaysWithoutSaleDTO clientes para seguimiento y conteos en orden fijo de rangos.
type DaysWithoutSaleDTO struct {
	Clients []InactiveClientDTO `json:"clients"`
	Buckets []BucketCountDTO    `json:"buckets"`
}
