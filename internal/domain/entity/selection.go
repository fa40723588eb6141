package entity

import (
	"strings"

	"github.com/jhoicas/farma-analytics/pkg/textnorm"
)

// Tokens de la UI que significan "sin filtro".
const (
	AllToken    = "ALL"
	AllTokenUI  = "Todos"
	NotResolved = "N/A"
)

// Selection filtro opcional sobre un valor (vendedor, transferencista, mes, cliente).
// El valor cero equivale a "todos" y no filtra nada.
type Selection struct {
	value string
	set   bool
}

// All devuelve la selección que desactiva el filtro.
func All() Selection { return Selection{} }

// Only devuelve una selección sobre un valor concreto.
func Only(v string) Selection { return Selection{value: v, set: true} }

// ParseSelection traduce el token de la UI: "", "ALL" y "Todos" desactivan el filtro.
func ParseSelection(token string) Selection {
	t := strings.TrimSpace(token)
	if t == "" || textnorm.Equal(t, AllToken) || textnorm.Equal(t, AllTokenUI) {
		return All()
	}
	return Only(t)
}

// IsAll informa si la selección no filtra.
func (s Selection) IsAll() bool { return !s.set }

// Value devuelve el valor seleccionado ("" si es todos).
func (s Selection) Value() string { return s.value }

// Matches informa si v pasa el filtro.
func (s Selection) Matches(v string) bool { return !s.set || s.value == v }

// String devuelve el valor o AllToken.
func (s Selection) String() string {
	if !s.set {
		return AllToken
	}
	return s.value
}
