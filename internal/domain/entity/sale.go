package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocKind familia del tipo de documento; define el signo en las agregaciones.
type DocKind uint8

const (
	DocOther DocKind = iota
	DocSale          // Remisión
	DocReturn        // Devolución
	DocCreditNote    // Nota crédito (nunca suma en ventas)
)

// Sale una línea de fac_ventas normalizada.
type Sale struct {
	DocumentID    string
	Seller        PartyRef
	TransferAgent PartyRef
	ClientID      string
	ClientName    string
	TradeName     string
	TaxID         string
	Date          time.Time // cero si la fecha no se pudo interpretar
	DocType       string
	Kind          DocKind
	Gross         decimal.Decimal
	Discount      decimal.Decimal
	Tax           decimal.Decimal
	Net           decimal.Decimal // Gross - Discount
	PaymentMethod string
	Zone          string
	SubZone       string
	CreditLimit   decimal.Decimal
	YearMonth     string // YYYY-MM, vacío sin fecha
	FullClient    string
}

// HasDate informa si la línea tiene fecha válida.
func (s Sale) HasDate() bool { return !s.Date.IsZero() }

// IsSale, IsReturn e IsCreditNote clasifican la línea por familia documental.
func (s Sale) IsSale() bool       { return s.Kind == DocSale }
func (s Sale) IsReturn() bool     { return s.Kind == DocReturn }
func (s Sale) IsCreditNote() bool { return s.Kind == DocCreditNote }

// FullClientLabel compone "cliente – razón" o solo el nombre si no hay razón social.
func FullClientLabel(name, tradeName string) string {
	if tradeName == "" {
		return name
	}
	return name + " – " + tradeName
}

// YearMonthOf devuelve YYYY-MM o "" para la fecha cero.
func YearMonthOf(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01")
}
