package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/farma-analytics/pkg/textnorm"
)

func TestFold_QuitaTildesYMayusculas(t *testing.T) {
	assert.Equal(t, "devolucion", textnorm.Fold(" Devolución "))
	assert.Equal(t, "nota credito", textnorm.Fold("Nota Crédito"))
	assert.Equal(t, "remision", textnorm.Fold("REMISIÓN"))
}

func TestContains_AlgunFragmento(t *testing.T) {
	assert.True(t, textnorm.Contains("Devolucion en venta", "Devolución"))
	assert.True(t, textnorm.Contains("Remisión FV", "x", "remision"))
	assert.False(t, textnorm.Contains("Factura", "remision", ""))
}

func TestEqual(t *testing.T) {
	assert.True(t, textnorm.Equal("Todos", "TODOS"))
	assert.True(t, textnorm.Equal("Confirmado", " confirmado"))
	assert.False(t, textnorm.Equal("Activo", "Anulado"))
}
