// Package masters carga las tablas de referencia (tipos de documento, vendedores,
// formas de pago y clientes) que el normalizador usa para resolver códigos.
package masters

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/farma-analytics/internal/application/normalize"
	"github.com/jhoicas/farma-analytics/internal/domain/entity"
)

// Rutas de los maestros en la fuente documental.
const (
	PathDocTypes       = "maestros/tipo_documentos"
	PathSellers        = "maestros/codigos_vendedores"
	PathPaymentMethods = "maestros/forma_pago_clientes"
	PathClients        = "maestros/clientes_id"
)

// Fetcher lectura con reintentos; (nil, nil) significa ausencia.
type Fetcher interface {
	Lookup(ctx context.Context, path string) (any, error)
}

// Loader construye un *entity.Masters completo. Nunca muta uno existente:
// cada carga produce un valor nuevo que reemplaza al anterior.
type Loader struct {
	src Fetcher
	log zerolog.Logger
	now func() time.Time
}

// NewLoader construye el cargador.
func NewLoader(src Fetcher, log zerolog.Logger, now func() time.Time) *Loader {
	if now == nil {
		now = time.Now
	}
	return &Loader{src: src, log: log, now: now}
}

// Load lee los cuatro maestros. Un maestro ausente queda vacío; un fallo de la
// fuente aborta la carga.
func (l *Loader) Load(ctx context.Context) (*entity.Masters, error) {
	m := entity.EmptyMasters()

	tables := []struct {
		path string
		dst  *map[string]string
	}{
		{PathDocTypes, &m.DocTypes},
		{PathSellers, &m.Sellers},
		{PathPaymentMethods, &m.PaymentMethods},
	}
	for _, t := range tables {
		tree, err := l.src.Lookup(ctx, t.path)
		if err != nil {
			return nil, fmt.Errorf("masters.Load: %w", err)
		}
		*t.dst = normalize.CodeTable(tree)
	}

	tree, err := l.src.Lookup(ctx, PathClients)
	if err != nil {
		return nil, fmt.Errorf("masters.Load: %w", err)
	}
	clients, skipped := normalize.Clients(tree)
	m.Clients = clients
	m.LoadedAt = l.now()

	l.log.Debug().
		Int("doc_types", len(m.DocTypes)).
		Int("sellers", len(m.Sellers)).
		Int("payment_methods", len(m.PaymentMethods)).
		Int("clients", len(m.Clients)).
		Int("clients_skipped", skipped).
		Msg("maestros cargados")
	return m, nil
}
