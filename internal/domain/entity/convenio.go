package entity

import "github.com/shopspring/decimal"

// Convenio acuerdo comercial confirmado con tope de descuento y meta de compra.
type Convenio struct {
	TaxID        string
	ClientName   string
	TradeName    string
	SellerName   string
	Status       string
	RebatePct    decimal.Decimal // 0..100
	TargetValue  decimal.Decimal
	Observations string
}
