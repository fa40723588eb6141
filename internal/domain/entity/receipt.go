package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt recibo de caja (recaudo) con el vendedor del cliente.
type Receipt struct {
	ReceiptID string
	ClientID  string
	Amount    decimal.Decimal
	Seller    PartyRef
	Date      time.Time
	YearMonth string
}
