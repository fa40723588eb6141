package entity

import "regexp"

// Resolution estado de la resolución de un código contra los maestros.
type Resolution uint8

const (
	Unresolved  Resolution = iota // código ausente o desconocido → "N/A"
	Placeholder                   // nombre genérico del maestro, ej. "Vendedor 1234"
	Resolved
)

var placeholderName = regexp.MustCompile(`^Vendedor \d+$`)

// PartyRef vendedor o transferencista resuelto desde el maestro de códigos.
type PartyRef struct {
	Code       string
	Name       string
	Resolution Resolution
}

// NewPartyRef clasifica un nombre ya resuelto; vacío → Unresolved.
func NewPartyRef(code, name string) PartyRef {
	switch {
	case name == "" || name == NotResolved:
		return PartyRef{Code: code, Name: NotResolved, Resolution: Unresolved}
	case placeholderName.MatchString(name):
		return PartyRef{Code: code, Name: name, Resolution: Placeholder}
	default:
		return PartyRef{Code: code, Name: name, Resolution: Resolved}
	}
}

// IsResolved informa si la referencia apunta a una persona real.
func (p PartyRef) IsResolved() bool { return p.Resolution == Resolved }

// Label nombre a mostrar ("N/A" si no se resolvió).
func (p PartyRef) Label() string {
	if p.Name == "" {
		return NotResolved
	}
	return p.Name
}
