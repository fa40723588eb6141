package normalize

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// asMap acepta un objeto o una lista (índice → elemento, omitiendo nulos).
// Los exportes de la base documental convierten colecciones con claves
// numéricas consecutivas en listas.
func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case []any:
		out := make(map[string]any, len(t))
		for i, item := range t {
			if item != nil {
				out[strconv.Itoa(i)] = item
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// sortedKeys claves en orden ascendente (iteración determinista).
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// str representa cualquier escalar como texto recortado.
func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// field devuelve el primer campo no vacío entre los nombres dados.
func field(rec map[string]any, names ...string) string {
	for _, n := range names {
		if s := str(rec[n]); s != "" {
			return s
		}
	}
	return ""
}

// dec interpreta un monto. ok=false si el valor existe pero no es numérico;
// ausente o vacío devuelve (0, true).
func dec(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case nil:
		return decimal.Zero, true
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(t), true
	case int64:
		return decimal.NewFromInt(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case string:
		return parseAmount(t)
	default:
		return decimal.Zero, false
	}
}

// parseAmount acepta "1234.5", "$ 1.234.567,89" y "1,234,567.89".
func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(s), "$"), " ", ""))
	if s == "" {
		return decimal.Zero, true
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d, true
	}
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	default:
		s = strings.ReplaceAll(s, ",", "")
	}
	d, err := decimal.NewFromString(s)
	return d, err == nil
}

// num atajo para campos opcionales: no numérico → 0.
func num(v any) decimal.Decimal {
	d, ok := dec(v)
	if !ok {
		return decimal.Zero
	}
	return d
}

func float(v any) float64 {
	f, _ := num(v).Float64()
	return f
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"20060102",
}

// parseTime interpreta fechas de forma permisiva; inválida → (cero, false).
// Los números se toman como epoch en segundos (o milisegundos si son grandes).
func parseTime(v any, loc *time.Location) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t.In(loc), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
				return ts.In(loc), true
			}
		}
		return time.Time{}, false
	case json.Number, float64, int64, int:
		d, ok := dec(t)
		if !ok || !d.IsPositive() {
			return time.Time{}, false
		}
		sec := d.IntPart()
		if sec > 1e11 {
			return time.UnixMilli(sec).In(loc), true
		}
		if sec < 1e8 {
			// 20250301 como número
			if ts, err := time.ParseInLocation("20060102", strconv.FormatInt(sec, 10), loc); err == nil {
				return ts, true
			}
			return time.Time{}, false
		}
		return time.Unix(sec, 0).In(loc), true
	default:
		return time.Time{}, false
	}
}

// dateOnly trunca a medianoche en loc.
func dateOnly(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// daysBetween días calendario de a hasta b (b - a).
func daysBetween(a, b time.Time, loc *time.Location) int {
	da := dateOnly(a, loc)
	db := dateOnly(b, loc)
	return int(math.Round(db.Sub(da).Hours() / 24))
}
