package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DocumentSource acceso de solo lectura al árbol documental jerárquico
// (fac_ventas, cartera_actual, maestros/..., etc.).
//
// Fetch devuelve el subárbol en path como valores genéricos: map[string]any,
// []any, string, bool, números (json.Number, int64 o float64) y time.Time.
// Un path inexistente devuelve (nil, nil); un error indica fallo de la fuente.
type DocumentSource interface {
	Fetch(ctx context.Context, path string) (any, error)
}

// DocumentStat tamaño y fecha de actualización de un documento raíz.
type DocumentStat struct {
	Path      string
	SizeBytes decimal.Decimal
	UpdatedAt time.Time
}

// SourceInspector lo implementan las fuentes que pueden describir su contenido.
type SourceInspector interface {
	Stats(ctx context.Context) ([]DocumentStat, error)
}
