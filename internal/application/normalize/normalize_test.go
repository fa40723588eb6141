package normalize_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farma-analytics/internal/application/normalize"
	"github.com/jhoicas/farma-analytics/internal/domain/entity"
)

var bogota = time.FixedZone("COT", -5*3600)

func testMasters() *entity.Masters {
	m := entity.EmptyMasters()
	m.DocTypes = map[string]string{"RM": "Remision", "DV": "Devolución", "NC": "Nota crédito"}
	m.Sellers = map[string]string{"V1": "Ana Pérez", "V2": "Vendedor 1234", "T1": "Droguería Transfer"}
	m.PaymentMethods = map[string]string{"30": "Crédito 30 días"}
	m.Clients = map[string]entity.Client{
		"C1": {ID: "C1", TaxID: "9001", Name: "Farmacia Uno", TradeName: "Uno SAS", Zone: "Norte", SubZone: "N1",
			PaymentMethodCode: "30", CreditLimit: decimal.NewFromInt(5000), SellerCode: "V1"},
		"C2": {ID: "C2", Name: "Botica Dos", SellerCode: "ZZ"},
	}
	return m
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestKindOf(t *testing.T) {
	assert.Equal(t, entity.DocSale, normalize.KindOf("Remision"))
	assert.Equal(t, entity.DocSale, normalize.KindOf("REMISIÓN"))
	assert.Equal(t, entity.DocReturn, normalize.KindOf("Devolucion"))
	assert.Equal(t, entity.DocCreditNote, normalize.KindOf("Nota Crédito"))
	assert.Equal(t, entity.DocOther, normalize.KindOf("Factura"))
}

func TestSales_HidrataDesdeMaestro(t *testing.T) {
	n := normalize.New(testMasters(), bogota, time.Date(2025, 3, 20, 0, 0, 0, 0, bogota))
	tree := map[string]any{
		"F2": map[string]any{"id1": "C1", "tipo": "DV", "vendedor": "V1", "fecha": "2025-03-05",
			"valor_bruto": json.Number("-50"), "descuento": json.Number("0"), "iva": json.Number("0")},
		"F1": map[string]any{"id1": "C1", "tipo": "RM", "vendedor": "V1", "transferencista": "T1",
			"fecha": "2025-03-04T10:00:00", "valor_bruto": json.Number("100"), "descuento": "10", "iva": 19.0},
		"F3": map[string]any{"id1": "C9", "tipo": "XX", "vendedor": "V2", "fecha": "no es fecha",
			"valor_bruto": int64(7)},
		"F4": map[string]any{"id1": "C1", "tipo": "RM"},
		"F5": map[string]any{"id1": "C1", "valor_bruto": "abc"},
		"F6": "basura",
	}

	sales, skipped := n.Sales(tree)
	require.Len(t, sales, 3)
	assert.Equal(t, 3, skipped)

	f1 := sales[0]
	assert.Equal(t, "F1", f1.DocumentID)
	assert.True(t, f1.Net.Equal(d("90")))
	assert.True(t, f1.Tax.Equal(d("19")))
	assert.Equal(t, entity.DocSale, f1.Kind)
	assert.Equal(t, "Ana Pérez", f1.Seller.Name)
	assert.True(t, f1.Seller.IsResolved())
	assert.Equal(t, "Droguería Transfer", f1.TransferAgent.Name)
	assert.Equal(t, "Farmacia Uno – Uno SAS", f1.FullClient)
	assert.Equal(t, "Crédito 30 días", f1.PaymentMethod)
	assert.Equal(t, "Norte", f1.Zone)
	assert.Equal(t, "2025-03", f1.YearMonth)
	assert.True(t, f1.CreditLimit.Equal(d("5000")))

	assert.Equal(t, entity.DocReturn, sales[1].Kind)

	f3 := sales[2]
	assert.Equal(t, entity.NotResolved, f3.DocType)
	assert.Equal(t, entity.Placeholder, f3.Seller.Resolution)
	assert.Equal(t, entity.Unresolved, f3.TransferAgent.Resolution)
	assert.False(t, f3.HasDate())
	assert.Equal(t, "", f3.YearMonth)
	assert.Equal(t, "", f3.Zone)
	assert.True(t, f3.CreditLimit.IsZero())
}

func TestSales_NetIgualBrutoMenosDescuento(t *testing.T) {
	n := normalize.New(testMasters(), bogota, time.Now())
	tree := []any{
		map[string]any{"valor_bruto": "1.234.567,89", "descuento": "$ 1.000,50"},
		nil,
		map[string]any{"valor_bruto": 1e6, "descuento": json.Number("0.1")},
	}
	sales, _ := n.Sales(tree)
	require.Len(t, sales, 2)
	for _, s := range sales {
		assert.True(t, s.Net.Equal(s.Gross.Sub(s.Discount)))
	}
	assert.True(t, sales[0].Gross.Equal(d("1234567.89")))
	assert.True(t, sales[0].Discount.Equal(d("1000.50")))
}

func TestReceipts_DescartaSinVendedor(t *testing.T) {
	n := normalize.New(testMasters(), bogota, time.Now())
	tree := map[string]any{
		"R1": map[string]any{"id1": "C1", "valor_recibo": json.Number("500"), "fecha": "2025-03-10"},
		"R2": map[string]any{"id1": "C2", "valor_recibo": json.Number("100")},
		"R3": map[string]any{"id1": "C404", "valor_recibo": json.Number("100")},
	}
	receipts, skipped := n.Receipts(tree)
	require.Len(t, receipts, 1)
	assert.Equal(t, 2, skipped)
	assert.Equal(t, "Ana Pérez", receipts[0].Seller.Name)
	assert.Equal(t, "2025-03", receipts[0].YearMonth)
}

func TestReceivables_DiasDeMoraYEstado(t *testing.T) {
	today := time.Date(2025, 3, 20, 15, 0, 0, 0, bogota)
	n := normalize.New(testMasters(), bogota, today)
	tree := map[string]any{
		"C1": map[string]any{
			"cliente": "Farmacia Uno", "razon": "Uno SAS", "vendedor": "V1", "forma_pago": "30",
			"documentos": map[string]any{
				"D1": map[string]any{"vencimiento": "2025-03-10", "saldo": 100, "vencida": 100},
				"D2": map[string]any{"vencimiento": "2025-03-20", "saldo": 50, "sin_vencer": 50},
				"D3": map[string]any{"vencimiento": "2025-03-21", "saldo": 50, "sin_vencer": 50},
				"D4": map[string]any{"vencimiento": "2025-04-01", "saldo": 50, "sin_vencer": 50},
				"D5": map[string]any{"saldo": 10},
				"D6": map[string]any{"saldo": "x"},
			},
		},
		"C2": map[string]any{"cliente": "Botica Dos", "vendedor": "Carlos Ruiz",
			"documentos": map[string]any{"D9": map[string]any{"saldo": 1}}},
	}
	recs, skipped := n.Receivables(tree)
	require.Len(t, recs, 6)
	assert.Equal(t, 1, skipped)

	byDoc := map[string]entity.Receivable{}
	for _, r := range recs {
		byDoc[r.DocumentID] = r
	}
	assert.Equal(t, 10, byDoc["D1"].DaysOverdue)
	assert.Equal(t, entity.StatusOverdue, byDoc["D1"].Status)
	assert.Equal(t, entity.StatusDueToday, byDoc["D2"].Status)
	assert.Equal(t, -1, byDoc["D3"].DaysOverdue)
	assert.Equal(t, entity.StatusDueTomorrow, byDoc["D3"].Status)
	assert.Equal(t, entity.StatusCurrent, byDoc["D4"].Status)
	assert.Equal(t, entity.StatusUndated, byDoc["D5"].Status)
	assert.False(t, byDoc["D5"].Dated)
	assert.Equal(t, "Ana Pérez", byDoc["D1"].Seller.Name)
	assert.Equal(t, "Crédito 30 días", byDoc["D1"].PaymentMethod)
	assert.Equal(t, "Farmacia Uno – Uno SAS", byDoc["D1"].FullClient)
	assert.Equal(t, "Carlos Ruiz", byDoc["D9"].Seller.Name)
	assert.True(t, byDoc["D9"].Seller.IsResolved())
}

func TestConvenios_SoloConfirmadosYEscalaRebate(t *testing.T) {
	n := normalize.New(testMasters(), bogota, time.Now())
	tree := map[string]any{
		"9001": map[string]any{"client_name": "Farmacia Uno", "seller_name": "Ana Pérez", "estado": "Confirmado",
			"rebate_pct": json.Number("0.05"), "target_value": json.Number("1000000")},
		"9002": map[string]any{"estado": "Pendiente", "rebate_pct": 0.1},
		"9003": map[string]any{"estado": "confirmed", "rebate_pct": "x"},
	}
	convs, skipped := n.Convenios(tree)
	require.Len(t, convs, 1)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, "9001", convs[0].TaxID)
	assert.True(t, convs[0].RebatePct.Equal(d("5")))
	assert.True(t, convs[0].TargetValue.Equal(d("1000000")))
}

func TestConvenios_NITCanonico(t *testing.T) {
	n := normalize.New(testMasters(), bogota, time.Now())
	tree := map[string]any{
		"800.011.439-9": map[string]any{"estado": "Confirmado", "rebate_pct": 0.02, "target_value": 100},
	}
	convs, _ := n.Convenios(tree)
	require.Len(t, convs, 1)
	assert.Equal(t, "800011439", convs[0].TaxID)
}

func TestQuotas_Despliega(t *testing.T) {
	n := normalize.New(testMasters(), bogota, time.Now())
	tree := map[string]any{
		"202503": map[string]any{"Ana Pérez": json.Number("1000000"), "Luis": json.Number("500")},
		"2025-3": map[string]any{"Ana Pérez": 1},
		"202513": map[string]any{"Ana Pérez": 1},
	}
	quotas, skipped := n.Quotas(tree)
	require.Len(t, quotas, 2)
	assert.Equal(t, 2, skipped)
	assert.Equal(t, "Ana Pérez", quotas[0].Seller)
	assert.Equal(t, time.March, quotas[0].Period.Month())
}

func TestImpacts_ListasConAll(t *testing.T) {
	n := normalize.New(testMasters(), bogota, time.Now())
	tree := map[string]any{
		"proyectadas": map[string]any{
			"quarter": "2025 Q1",
			"distribucion": map[string]any{
				"Ibuprofeno": map[string]any{"Ana": json.Number("10"), "Luis": json.Number("4")},
			},
		},
		"reales": map[string]any{
			"2025 Q1": map[string]any{
				"Ibuprofeno":  map[string]any{"Ana": map[string]any{"9001": "Farmacia Uno"}},
				"Acetaminofen": map[string]any{"Berta": map[string]any{"9002": "Botica"}},
			},
		},
	}
	imp := n.Impacts(tree)
	assert.Equal(t, "2025 Q1", imp.ProjectedQuarter)
	assert.Equal(t, 10, imp.Projected["Ibuprofeno"]["Ana"])
	assert.Equal(t, "Farmacia Uno", imp.Realized["2025 Q1"]["Ibuprofeno"]["Ana"]["9001"])
	assert.Equal(t, []string{entity.AllToken, "Acetaminofen", "Ibuprofeno"}, imp.Molecules)
	assert.Equal(t, []string{entity.AllToken, "Ana", "Berta", "Luis"}, imp.Sellers)

	empty := n.Impacts(nil)
	assert.Equal(t, []string{entity.AllToken}, empty.Molecules)
}

func TestClientsYCodeTable(t *testing.T) {
	clients, skipped := normalize.Clients(map[string]any{
		"C1": map[string]any{"nit": "9001", "cliente_nombre": "Uno", "estado": "Activo", "tipo": "Cliente",
			"cupo_credito": json.Number("1500.5"), "vendedor": "V1", "lat": json.Number("4.6")},
		"C2": 5,
	})
	require.Len(t, clients, 1)
	assert.Equal(t, 1, skipped)
	assert.InDelta(t, 4.6, clients["C1"].Lat, 1e-9)
	assert.True(t, clients["C1"].CreditLimit.Equal(d("1500.5")))

	table := normalize.CodeTable(map[string]any{"01": "Remision", "02": "", "03": map[string]any{"nombre": "Devolución"}})
	assert.Equal(t, map[string]string{"01": "Remision", "03": "Devolución"}, table)
}
