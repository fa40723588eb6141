// Package festivos calcula los días festivos de Colombia (Ley 51 de 1983, "Ley Emiliani").
//
// Tres grupos:
//   - Fijos: se celebran en su fecha.
//   - Trasladables: se mueven al lunes siguiente si no caen en lunes.
//   - Móviles: dependen del Domingo de Pascua; Ascensión, Corpus Christi y
//     Sagrado Corazón también se trasladan a lunes.
package festivos

import (
	"sort"
	"time"
)

// Holiday un festivo con su nombre.
type Holiday struct {
	Date time.Time
	Name string
}

type fixedDay struct {
	month time.Month
	day   int
	name  string
}

var fijos = []fixedDay{
	{time.January, 1, "Año Nuevo"},
	{time.May, 1, "Día del Trabajo"},
	{time.July, 20, "Día de la Independencia"},
	{time.August, 7, "Batalla de Boyacá"},
	{time.December, 8, "Inmaculada Concepción"},
	{time.December, 25, "Navidad"},
}

var trasladables = []fixedDay{
	{time.January, 6, "Reyes Magos"},
	{time.March, 19, "San José"},
	{time.June, 29, "San Pedro y San Pablo"},
	{time.August, 15, "Asunción de la Virgen"},
	{time.October, 12, "Día de la Raza"},
	{time.November, 1, "Todos los Santos"},
	{time.November, 11, "Independencia de Cartagena"},
}

// Easter devuelve el Domingo de Pascua (algoritmo gregoriano anónimo).
func Easter(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return date(year, time.Month(month), day)
}

// Holidays devuelve los festivos del año ordenados por fecha.
func Holidays(year int) []Holiday {
	out := make([]Holiday, 0, 18)
	for _, f := range fijos {
		out = append(out, Holiday{date(year, f.month, f.day), f.name})
	}
	for _, f := range trasladables {
		out = append(out, Holiday{nextMonday(date(year, f.month, f.day)), f.name})
	}
	easter := Easter(year)
	out = append(out,
		Holiday{easter.AddDate(0, 0, -3), "Jueves Santo"},
		Holiday{easter.AddDate(0, 0, -2), "Viernes Santo"},
		Holiday{nextMonday(easter.AddDate(0, 0, 39)), "Ascensión del Señor"},
		Holiday{nextMonday(easter.AddDate(0, 0, 60)), "Corpus Christi"},
		Holiday{nextMonday(easter.AddDate(0, 0, 68)), "Sagrado Corazón"},
	)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// IsHoliday informa si la fecha (se ignora la hora y la zona) es festivo.
func IsHoliday(t time.Time) bool {
	d := date(t.Year(), t.Month(), t.Day())
	for _, h := range Holidays(t.Year()) {
		if h.Date.Equal(d) {
			return true
		}
	}
	return false
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func nextMonday(t time.Time) time.Time {
	for t.Weekday() != time.Monday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}
