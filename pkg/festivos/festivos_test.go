package festivos_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/farma-analytics/pkg/festivos"
)

func d(y int, m time.Month, day int) time.Time { return time.Date(y, m, day, 0, 0, 0, 0, time.UTC) }

func TestEaster_FechasConocidas(t *testing.T) {
	assert.Equal(t, d(2024, time.March, 31), festivos.Easter(2024))
	assert.Equal(t, d(2025, time.April, 20), festivos.Easter(2025))
	assert.Equal(t, d(2026, time.April, 5), festivos.Easter(2026))
}

func TestHolidays_2025(t *testing.T) {
	hs := festivos.Holidays(2025)
	assert.Len(t, hs, 18)

	// Trasladables a lunes
	assert.True(t, festivos.IsHoliday(d(2025, time.January, 6)))   // lunes
	assert.True(t, festivos.IsHoliday(d(2025, time.March, 24)))    // San José (19 mié → 24 lun)
	assert.True(t, festivos.IsHoliday(d(2025, time.June, 30)))     // San Pedro (29 dom → 30 lun)
	assert.True(t, festivos.IsHoliday(d(2025, time.November, 17))) // Cartagena (11 mar → 17 lun)

	// Móviles de Pascua
	assert.True(t, festivos.IsHoliday(d(2025, time.April, 17))) // Jueves Santo
	assert.True(t, festivos.IsHoliday(d(2025, time.April, 18))) // Viernes Santo
	assert.True(t, festivos.IsHoliday(d(2025, time.June, 2)))   // Ascensión
	assert.True(t, festivos.IsHoliday(d(2025, time.June, 23)))  // Corpus Christi
	assert.True(t, festivos.IsHoliday(d(2025, time.June, 30)))  // Sagrado Corazón coincide con San Pedro

	assert.False(t, festivos.IsHoliday(d(2025, time.March, 19)))
	assert.False(t, festivos.IsHoliday(d(2025, time.March, 3)))
}

func TestHolidays_Ordenados(t *testing.T) {
	hs := festivos.Holidays(2026)
	for i := 1; i < len(hs); i++ {
		assert.False(t, hs[i].Date.Before(hs[i-1].Date))
	}
}
