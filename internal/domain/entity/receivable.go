package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceivableStatus situación de vencimiento de un documento de cartera.
type ReceivableStatus string

const (
	StatusOverdue     ReceivableStatus = "VENCIDO"
	StatusDueToday    ReceivableStatus = "VENCE_HOY"
	StatusDueTomorrow ReceivableStatus = "VENCE_MANANA"
	StatusCurrent     ReceivableStatus = "AL_DIA"
	StatusUndated     ReceivableStatus = "SIN_FECHA"
)

// Receivable documento de cartera_actual (cliente × documento).
type Receivable struct {
	ClientID         string
	DocumentID       string
	ClientName       string
	TradeName        string
	City             string
	TaxID            string
	FullClient       string
	Seller           PartyRef
	PaymentMethod    string
	Value            decimal.Decimal
	Applied          decimal.Decimal
	Balance          decimal.Decimal
	OverdueAmount    decimal.Decimal
	NonOverdueAmount decimal.Decimal
	IssueDate        time.Time
	DueDate          time.Time
	Notes            string
	DaysOverdue      int  // hoy - vencimiento; positivo = vencido
	Dated            bool // false si no hay fecha de vencimiento
	Status           ReceivableStatus
}

// StatusForDays clasifica los días de mora.
func StatusForDays(days int, dated bool) ReceivableStatus {
	switch {
	case !dated:
		return StatusUndated
	case days > 0:
		return StatusOverdue
	case days == 0:
		return StatusDueToday
	case days == -1:
		return StatusDueTomorrow
	default:
		return StatusCurrent
	}
}
