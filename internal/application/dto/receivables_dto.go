package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AgingBucketDTO saldo por rango de mora. El orden de los rangos es fijo.
type AgingBucketDTO struct {
	Bucket    string          `json:"bucket"`
	Amount    decimal.Decimal `json:"amount"`
	Documents int             `json:"documents"`
}

// ARSummaryDTO resumen de cartera.
type ARSummaryDTO struct {
	TotalPortfolio     decimal.Decimal `json:"total_portfolio"`
	TotalOverdue       decimal.Decimal `json:"total_overdue"`
	TotalCurrent       decimal.Decimal `json:"total_current"`
	QualityPct         decimal.Decimal `json:"quality_pct"` // corriente / cartera * 100
	UniqueClients      int             `json:"unique_clients"`
	ClientsWithOverdue int             `json:"clients_with_overdue"`
	DocumentCount      int             `json:"document_count"`
	InvoiceCount       int             `json:"invoice_count"`
}

// ExpirationDTO documentos de un cliente que vencen en DaysUntilDue días.
type ExpirationDTO struct {
	DaysUntilDue int             `json:"days_until_due"`
	Client       string          `json:"client"`
	Amount       decimal.Decimal `json:"amount"`
	Documents    int             `json:"documents"`
	DocumentIDs  string          `json:"document_ids"` // máx. 10 y sufijo "+k más"
}

// ARDetailDTO documento de la cartera de un cliente, etiquetado vencido/corriente.
type ARDetailDTO struct {
	DocumentID  string          `json:"document_id"`
	Type        string          `json:"type"` // overdue | current
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
	DaysOverdue int             `json:"days_overdue"`
	IssueDate   *time.Time      `json:"issue_date,omitempty"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	Status      string          `json:"status"`
	Notes       string          `json:"notes,omitempty"`
}

// TreemapNodeDTO nodo jerárquico raíz → cliente → {vencido, corriente}.
// ColorValue es el % vencido (0..100) en los nodos cliente; el render lo interpreta la UI.
type TreemapNodeDTO struct {
	ID         string          `json:"id"`
	Label      string          `json:"label"`
	Parent     string          `json:"parent"`
	Value      decimal.Decimal `json:"value"`
	ColorKey   string          `json:"color_key"` // root | client | overdue | current
	ColorValue float64         `json:"color_value"`
}
