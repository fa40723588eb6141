// Package textnorm normaliza textos del origen (etiquetas de tipo de documento,
// estados, tokens de filtro) para compararlos sin tildes ni mayúsculas.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold devuelve s en minúsculas, sin marcas diacríticas y sin espacios extremos.
// "Devolución " → "devolucion", "Nota Crédito" → "nota credito".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// Contains informa si s contiene alguno de los fragmentos, comparando con Fold.
func Contains(s string, fragments ...string) bool {
	folded := Fold(s)
	for _, f := range fragments {
		if f != "" && strings.Contains(folded, Fold(f)) {
			return true
		}
	}
	return false
}

// Equal compara a y b ignorando tildes, mayúsculas y espacios extremos.
func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}
