package firestore

import (
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"google.golang.org/genproto/googleapis/type/latlng"
)

func TestIsCollection(t *testing.T) {
	assert.True(t, isCollection("fac_ventas"))
	assert.False(t, isCollection("maestros/tipo_documentos"))
	assert.True(t, isCollection("maestros/clientes_id/items"))
}

func TestPlain_ConvierteTiposFirestore(t *testing.T) {
	ts := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	in := map[string]interface{}{
		"ref":   &firestore.DocumentRef{ID: "C-1"},
		"geo":   &latlng.LatLng{Latitude: 4.6, Longitude: -74.1},
		"fecha": ts,
		"items": []interface{}{int64(3), "x"},
	}
	out := plain(in).(map[string]any)
	assert.Equal(t, "C-1", out["ref"])
	assert.Equal(t, map[string]any{"lat": 4.6, "long": -74.1}, out["geo"])
	assert.Equal(t, ts, out["fecha"])
	assert.Equal(t, []any{int64(3), "x"}, out["items"])
}
