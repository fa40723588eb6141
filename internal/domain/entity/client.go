package entity

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/farma-analytics/pkg/textnorm"
)

// Client registro del maestro maestros/clientes_id.
type Client struct {
	ID                string
	TaxID             string
	Name              string
	TradeName         string
	Lat               float64
	Long              float64
	City              string
	Department        string
	Zone              string
	SubZone           string
	Status            string // Activo, Anulado, ...
	Type              string // Cliente, Cliente proveedor, Proveedor, ...
	PaymentMethodCode string
	CreditLimit       decimal.Decimal
	SellerCode        string
}

// IsCancelled informa si el cliente está anulado/cancelado.
func (c Client) IsCancelled() bool {
	return textnorm.Contains(c.Status, "anulado", "cancelado", "cancelled")
}

// IsActive informa si el estado es activo.
func (c Client) IsActive() bool {
	return textnorm.Equal(c.Status, "activo") || textnorm.Equal(c.Status, "active")
}

// IsCustomerType informa si el tipo es Cliente o Cliente proveedor.
func (c Client) IsCustomerType() bool {
	return textnorm.Equal(c.Type, "cliente") || textnorm.Equal(c.Type, "cliente proveedor")
}

// FullLabel etiqueta "cliente – razón".
func (c Client) FullLabel() string { return FullClientLabel(c.Name, c.TradeName) }
