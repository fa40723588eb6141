package entity

import "time"

// Masters tablas de referencia cargadas en bloque. Se reemplazan completas en cada
// recarga y nunca se mutan parcialmente.
type Masters struct {
	DocTypes       map[string]string // código → etiqueta
	Sellers        map[string]string // código → nombre
	PaymentMethods map[string]string // código → etiqueta
	Clients        map[string]Client // id → cliente
	LoadedAt       time.Time
}

// EmptyMasters devuelve maestros vacíos (todas las búsquedas resuelven "N/A").
func EmptyMasters() *Masters {
	return &Masters{
		DocTypes:       map[string]string{},
		Sellers:        map[string]string{},
		PaymentMethods: map[string]string{},
		Clients:        map[string]Client{},
	}
}

// DocTypeLabel etiqueta del tipo de documento o "N/A".
func (m *Masters) DocTypeLabel(code string) string { return lookup(m.DocTypes, code) }

// PaymentLabel etiqueta de la forma de pago o "N/A".
func (m *Masters) PaymentLabel(code string) string { return lookup(m.PaymentMethods, code) }

// ResolveSeller resuelve un código de vendedor/transferencista.
func (m *Masters) ResolveSeller(code string) PartyRef {
	name, ok := m.Sellers[code]
	if !ok || code == "" {
		return PartyRef{Code: code, Name: NotResolved, Resolution: Unresolved}
	}
	return NewPartyRef(code, name)
}

// Client devuelve el cliente del maestro.
func (m *Masters) Client(id string) (Client, bool) {
	c, ok := m.Clients[id]
	return c, ok
}

// SellerOfClient compone cliente → código de vendedor → nombre.
func (m *Masters) SellerOfClient(clientID string) PartyRef {
	c, ok := m.Clients[clientID]
	if !ok {
		return PartyRef{Name: NotResolved, Resolution: Unresolved}
	}
	return m.ResolveSeller(c.SellerCode)
}

func lookup(table map[string]string, code string) string {
	if v, ok := table[code]; ok && v != "" {
		return v
	}
	return NotResolved
}
