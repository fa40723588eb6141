package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quota cuota mensual de un vendedor.
type Quota struct {
	Month  string    // YYYYMM
	Period time.Time // primer día del mes
	Seller string
	Amount decimal.Decimal
}
