package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/farma-analytics/internal/domain/entity"
)

func TestParseSelection_TokensDeTodos(t *testing.T) {
	for _, tok := range []string{"", "ALL", "all", "Todos", " TODOS "} {
		assert.True(t, entity.ParseSelection(tok).IsAll(), "token %q", tok)
	}
	s := entity.ParseSelection("Ana Pérez")
	assert.False(t, s.IsAll())
	assert.Equal(t, "Ana Pérez", s.Value())
	assert.True(t, s.Matches("Ana Pérez"))
	assert.False(t, s.Matches("Otro"))
	assert.True(t, entity.All().Matches("cualquiera"))
	assert.Equal(t, entity.AllToken, entity.All().String())
}

func TestNewPartyRef_Variantes(t *testing.T) {
	assert.Equal(t, entity.Unresolved, entity.NewPartyRef("1", "").Resolution)
	assert.Equal(t, entity.Placeholder, entity.NewPartyRef("1234", "Vendedor 1234").Resolution)
	ref := entity.NewPartyRef("7", "Ana Pérez")
	assert.True(t, ref.IsResolved())
	assert.Equal(t, "Ana Pérez", ref.Label())
}

func TestMasters_BusquedasDesconocidasResuelvenNA(t *testing.T) {
	m := entity.EmptyMasters()
	m.DocTypes["01"] = "Remision"
	m.Sellers["10"] = "Ana"
	m.Clients["c1"] = entity.Client{ID: "c1", SellerCode: "10"}
	m.Clients["c2"] = entity.Client{ID: "c2", SellerCode: "99"}

	assert.Equal(t, "Remision", m.DocTypeLabel("01"))
	assert.Equal(t, entity.NotResolved, m.DocTypeLabel("02"))
	assert.Equal(t, entity.NotResolved, m.PaymentLabel(""))
	assert.Equal(t, "Ana", m.SellerOfClient("c1").Name)
	assert.Equal(t, entity.Unresolved, m.SellerOfClient("c2").Resolution)
	assert.Equal(t, entity.NotResolved, m.SellerOfClient("nadie").Label())
}

func TestStatusForDays(t *testing.T) {
	assert.Equal(t, entity.StatusOverdue, entity.StatusForDays(3, true))
	assert.Equal(t, entity.StatusDueToday, entity.StatusForDays(0, true))
	assert.Equal(t, entity.StatusDueTomorrow, entity.StatusForDays(-1, true))
	assert.Equal(t, entity.StatusCurrent, entity.StatusForDays(-2, true))
	assert.Equal(t, entity.StatusUndated, entity.StatusForDays(0, false))
}

func TestClient_Estados(t *testing.T) {
	c := entity.Client{Status: "Activo", Type: "Cliente Proveedor"}
	assert.True(t, c.IsActive())
	assert.True(t, c.IsCustomerType())
	assert.False(t, c.IsCancelled())
	assert.True(t, entity.Client{Status: "Anulado"}.IsCancelled())
	assert.Equal(t, "Drogas SAS – La Esquina", entity.Client{Name: "Drogas SAS", TradeName: "La Esquina"}.FullLabel())
	assert.Equal(t, "Drogas SAS", entity.FullClientLabel("Drogas SAS", ""))
}
