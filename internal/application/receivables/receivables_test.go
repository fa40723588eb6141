package receivables_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farma-analytics/internal/application/receivables"
	"github.com/jhoicas/farma-analytics/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func doc(id, client string, days int, dated bool, balance, overdue, current string) entity.Receivable {
	return entity.Receivable{
		ClientID:         client,
		DocumentID:       id,
		FullClient:       client,
		Balance:          d(balance),
		OverdueAmount:    d(overdue),
		NonOverdueAmount: d(current),
		DaysOverdue:      days,
		Dated:            dated,
		Status:           entity.StatusForDays(days, dated),
	}
}

func scenario() []entity.Receivable {
	return []entity.Receivable{
		doc("D1", "A", -3, true, "100", "0", "100"),
		doc("D2", "A", 0, true, "100", "100", "0"),
		doc("D3", "B", 15, true, "100", "100", "0"),
		doc("D4", "B", 45, true, "100", "100", "0"),
		doc("D5", "C", 200, true, "100", "100", "0"),
		doc("D6", "C", 0, false, "100", "100", "0"),
	}
}

func TestAging_BucketsYOrden(t *testing.T) {
	aging := receivables.Aging(scenario())
	require.Len(t, aging, 7)
	want := map[string]string{
		receivables.BucketNotDue: "100", receivables.Bucket0to30: "200", receivables.Bucket31to60: "100",
		receivables.Bucket61to90: "0", receivables.Bucket91to180: "0", receivables.BucketOver180: "100",
		receivables.BucketUndated: "100",
	}
	total := decimal.Zero
	for i, b := range aging {
		assert.Equal(t, receivables.AgingOrder[i], b.Bucket)
		assert.True(t, b.Amount.Equal(d(want[b.Bucket])), b.Bucket)
		total = total.Add(b.Amount)
	}
	assert.True(t, total.Equal(d("600")))
}

func TestSummary_Calidad(t *testing.T) {
	s := receivables.Summary(scenario())
	assert.True(t, s.TotalPortfolio.Equal(d("600")))
	assert.True(t, s.TotalOverdue.Equal(d("500")))
	assert.True(t, s.TotalCurrent.Equal(d("100")))
	assert.True(t, s.QualityPct.Equal(d("16.67")))
	assert.Equal(t, 3, s.UniqueClients)
	assert.Equal(t, 3, s.ClientsWithOverdue)
	assert.Equal(t, 6, s.DocumentCount)

	empty := receivables.Summary(nil)
	assert.True(t, empty.QualityPct.IsZero())
}

func TestUpcomingExpirations(t *testing.T) {
	recs := []entity.Receivable{
		doc("X1", "A", -2, true, "50", "0", "50"),
		doc("X2", "A", -2, true, "30", "0", "30"),
		doc("X3", "B", -2, true, "10", "0", "10"),
		doc("X4", "B", -1, true, "500", "0", "500"),
		doc("X5", "B", -9, true, "10", "0", "10"),
		doc("X6", "B", -3, true, "10", "10", "0"),
	}
	for i := 0; i < 12; i++ {
		recs = append(recs, doc("Z"+string(rune('a'+i)), "C", -5, true, "1", "0", "1"))
	}
	out := receivables.UpcomingExpirations(recs, 7)
	require.Len(t, out, 4)
	assert.Equal(t, 1, out[0].DaysUntilDue)
	assert.Equal(t, 2, out[1].DaysUntilDue)
	assert.Equal(t, "B", out[1].Client)
	assert.Equal(t, "A", out[2].Client)
	assert.True(t, out[2].Amount.Equal(d("80")))
	assert.Equal(t, "X1, X2", out[2].DocumentIDs)
	assert.Equal(t, 12, out[3].Documents)
	assert.Contains(t, out[3].DocumentIDs, "+2 más")
}

func TestClientDetail_VencidosPrimero(t *testing.T) {
	recs := []entity.Receivable{
		doc("D1", "A", -5, true, "100", "0", "100"),
		doc("D2", "A", 10, true, "100", "60", "40"),
		doc("D3", "A", 40, true, "100", "100", "0"),
		doc("D4", "B", 90, true, "100", "100", "0"),
	}
	out := receivables.ClientDetail(recs, "A")
	require.Len(t, out, 4)
	assert.Equal(t, receivables.TypeOverdue, out[0].Type)
	assert.Equal(t, "D3", out[0].DocumentID)
	assert.Equal(t, "D2", out[1].DocumentID)
	assert.Equal(t, receivables.TypeCurrent, out[2].Type)
	assert.Equal(t, "D2", out[2].DocumentID)
	assert.True(t, out[2].Amount.Equal(d("40")))
	assert.Equal(t, "D1", out[3].DocumentID)
	require.NotNil(t, out[3].DueDate)
}

func TestTreemap_OmiteFichasPequenas(t *testing.T) {
	recs := []entity.Receivable{
		doc("D1", "Grande", 10, true, "1000", "990", "10"),
		doc("D2", "Medio", 10, true, "500", "250", "250"),
		doc("D3", "Chico", 10, true, "10", "10", "0"),
	}
	nodes := receivables.Treemap(recs)
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{
		receivables.TreemapRoot,
		"client:Grande", "client:Grande:overdue",
		"client:Medio", "client:Medio:overdue", "client:Medio:current",
	}, ids)
	assert.InDelta(t, 99.0, nodes[1].ColorValue, 1e-9)
	assert.Equal(t, "client:Grande", nodes[2].Parent)

	assert.Len(t, receivables.Treemap(nil), 1)
}
