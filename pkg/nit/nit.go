// Package nit normaliza identificaciones tributarias colombianas (NIT) para
// usarlas como llave de cruce entre colecciones.
package nit

import (
	"fmt"
	"strings"
	"unicode"
)

// pesos para el cálculo del dígito de verificación NIT (Orden Administrativa 4 de 1989, DIAN).
// Se aplican a los 9 primeros dígitos del NIT, de izquierda a derecha.
var weights = [9]int{41, 37, 29, 23, 19, 17, 13, 7, 3}

// CheckDigit calcula el dígito de verificación de los 9 primeros dígitos del NIT.
func CheckDigit(taxID string) (byte, error) {
	digits := extractDigits(taxID)
	if len(digits) < 9 {
		return 0, fmt.Errorf("nit: se requieren al menos 9 dígitos, se encontraron %d", len(digits))
	}
	var sum int
	for i, d := range digits[:9] {
		sum += int(d-'0') * weights[i]
	}
	remainder := sum % 11
	if remainder == 0 || remainder == 1 {
		return byte('0' + remainder), nil
	}
	return byte('0' + (11 - remainder)), nil
}

// Canonical devuelve la forma de cruce del NIT: solo dígitos y sin dígito de
// verificación cuando viene incluido. "900.123.456-7" y "900123456" coinciden.
// Un valor sin dígitos se devuelve recortado.
func Canonical(taxID string) string {
	digits := extractDigits(taxID)
	if len(digits) == 0 {
		return strings.TrimSpace(taxID)
	}
	if len(digits) == 10 {
		if dv, err := CheckDigit(string(digits)); err == nil && dv == digits[9] {
			return string(digits[:9])
		}
	}
	return string(digits)
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			out = append(out, byte(r))
		}
	}
	return out
}
