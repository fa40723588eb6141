package quota

import (
	"time"

	"github.com/jhoicas/farma-analytics/pkg/festivos"
)

// BusinessCalendar decide qué días son hábiles.
type BusinessCalendar interface {
	IsBusinessDay(day time.Time) bool
	Name() string
}

// ColombiaCalendar lunes a sábado menos festivos nacionales.
type ColombiaCalendar struct{}

func (ColombiaCalendar) IsBusinessDay(day time.Time) bool {
	return day.Weekday() != time.Sunday && !festivos.IsHoliday(day)
}

func (ColombiaCalendar) Name() string { return "colombia" }

// MondaySaturdayCalendar lunes a sábado, sin festivos.
type MondaySaturdayCalendar struct{}

func (MondaySaturdayCalendar) IsBusinessDay(day time.Time) bool { return day.Weekday() != time.Sunday }

func (MondaySaturdayCalendar) Name() string { return "lunes-sabado" }

// CalendarByName devuelve el calendario configurado; desconocido → lunes a sábado.
func CalendarByName(name string) BusinessCalendar {
	if name == (ColombiaCalendar{}).Name() {
		return ColombiaCalendar{}
	}
	return MondaySaturdayCalendar{}
}

// MonthDays días hábiles y no hábiles de un mes. Business + NonBusiness es
// siempre el número de días calendario.
type MonthDays struct {
	Business    int
	NonBusiness int
}

// CountMonth cuenta los días del mes.
func CountMonth(cal BusinessCalendar, year int, month time.Month) MonthDays {
	var out MonthDays
	day := time.Date(year, month, 1, 12, 0, 0, 0, time.UTC)
	for day.Month() == month {
		if cal.IsBusinessDay(day) {
			out.Business++
		} else {
			out.NonBusiness++
		}
		day = day.AddDate(0, 0, 1)
	}
	return out
}

// BusinessDaysThrough días hábiles del mes desde el día 1 hasta through inclusive.
func BusinessDaysThrough(cal BusinessCalendar, year int, month time.Month, through int) int {
	n := 0
	day := time.Date(year, month, 1, 12, 0, 0, 0, time.UTC)
	for day.Month() == month && day.Day() <= through {
		if cal.IsBusinessDay(day) {
			n++
		}
		day = day.AddDate(0, 0, 1)
	}
	return n
}
