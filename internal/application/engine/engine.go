// Package engine es la fachada del motor analítico: orquesta la recarga desde
// la fuente documental, publica la instantánea normalizada y expone los
// lectores que consumen la API HTTP, el CLI y los reportes.
package engine

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/farma-analytics/internal/application/dto"
	"github.com/jhoicas/farma-analytics/internal/application/masters"
	"github.com/jhoicas/farma-analytics/internal/application/normalize"
	"github.com/jhoicas/farma-analytics/internal/application/quota"
	"github.com/jhoicas/farma-analytics/internal/application/store"
	"github.com/jhoicas/farma-analytics/internal/domain/repository"
	"github.com/jhoicas/farma-analytics/pkg/cache"
)

// Rutas de las colecciones transaccionales en la fuente.
const (
	PathSales       = "fac_ventas"
	PathReceipts    = "recibos_caja"
	PathReceivables = "cartera_actual"
	PathConvenios   = "convenios"
	PathQuotas      = "cuotas_vendedores"
	PathImpacts     = "impactos"
)

// Prefijos de claves del caché de cálculos.
const (
	cachePrefix = "analytics:"
	rfmPrefix   = cachePrefix + "rfm_"
	riskPrefix  = cachePrefix + "risk_"
)

// Fetcher lectura con reintentos sobre la fuente; (nil, nil) es ausencia.
type Fetcher interface {
	Lookup(ctx context.Context, path string) (any, error)
}

// Options parámetros del motor. Los ceros toman valores por defecto.
type Options struct {
	Location         *time.Location
	Now              func() time.Time
	RFMTTL           time.Duration
	RiskTTL          time.Duration
	RiskPeriodDays   int
	RiskTopClients   int
	TopN             int
	ExpirationWindow int
	// Inspector opcional: describe los documentos raíz de la fuente en get_cache_status.
	Inspector repository.SourceInspector
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.RFMTTL <= 0 {
		o.RFMTTL = 300 * time.Second
	}
	if o.RiskTTL <= 0 {
		o.RiskTTL = 300 * time.Second
	}
	if o.RiskPeriodDays <= 0 {
		o.RiskPeriodDays = 90
	}
	if o.RiskTopClients <= 0 {
		o.RiskTopClients = 3
	}
	if o.TopN <= 0 {
		o.TopN = 10
	}
	if o.ExpirationWindow <= 0 {
		o.ExpirationWindow = 7
	}
	return o
}

// Engine handle del motor. Las lecturas son concurrentes entre sí y ven una
// única instantánea; las recargas se serializan con reloadMu y publican la
// nueva instantánea con un intercambio atómico.
type Engine struct {
	src     Fetcher
	masters *masters.Loader
	cache   *cache.Manager
	quota   *quota.Engine
	log     zerolog.Logger
	opts    Options

	reloadMu sync.Mutex
	snap     atomic.Pointer[store.Snapshot]
}

// New construye el motor con una instantánea vacía. cal nil usa el
// calendario colombiano.
func New(src Fetcher, c *cache.Manager, cal quota.BusinessCalendar, log zerolog.Logger, opts Options) *Engine {
	opts = opts.withDefaults()
	if c == nil {
		c = cache.New(cache.Options{})
	}
	if cal == nil {
		cal = quota.ColombiaCalendar{}
	}
	e := &Engine{
		src:     src,
		masters: masters.NewLoader(src, log, opts.Now),
		cache:   c,
		quota:   quota.NewEngine(cal),
		log:     log,
		opts:    opts,
	}
	e.snap.Store(store.Empty())
	return e
}

// Snapshot instantánea vigente.
func (e *Engine) Snapshot() *store.Snapshot { return e.snap.Load() }

func (e *Engine) now() time.Time { return e.opts.Now().In(e.opts.Location) }

// ReloadData recarga maestros y colecciones. Si la fuente falla se conserva la
// instantánea anterior y el resultado trae success=false.
func (e *Engine) ReloadData(ctx context.Context) dto.ReloadResultDTO {
	e.reloadMu.Lock()
	defer e.reloadMu.Unlock()

	start := time.Now()
	snap, err := e.load(ctx)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		e.log.Error().Err(err).Float64("load_time", elapsed).Msg("recarga fallida; se conserva la instantánea anterior")
		return dto.ReloadResultDTO{Success: false, Error: err.Error(), LoadTime: elapsed}
	}

	e.snap.Store(snap)
	dropped := e.cache.InvalidatePrefix(cachePrefix)
	runtime.GC()

	e.log.Info().
		Str("load_id", snap.LoadID).
		Int("records", snap.RecordsCount()).
		Interface("counts", snap.Counts()).
		Int("cache_invalidated", dropped).
		Float64("load_time", elapsed).
		Msg("datos recargados")
	return dto.ReloadResultDTO{
		Success:      true,
		RecordsCount: snap.RecordsCount(),
		LoadTime:     elapsed,
		LoadID:       snap.LoadID,
		LoadedAt:     snap.LoadedAt,
		Counts:       snap.Counts(),
	}
}

type fetched struct {
	path string
	tree any
	err  error
}

func (e *Engine) load(ctx context.Context) (*store.Snapshot, error) {
	m, err := e.masters.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("engine.Reload: %w", err)
	}

	// Las colecciones son independientes: se leen en paralelo.
	paths := []string{PathSales, PathReceipts, PathReceivables, PathConvenios, PathQuotas, PathImpacts}
	results := make(chan fetched, len(paths))
	for _, p := range paths {
		go func(path string) {
			tree, err := e.src.Lookup(ctx, path)
			results <- fetched{path: path, tree: tree, err: err}
		}(p)
	}
	trees := make(map[string]any, len(paths))
	for range paths {
		r := <-results
		if r.err != nil && err == nil {
			err = fmt.Errorf("engine.Reload %s: %w", r.path, r.err)
		}
		trees[r.path] = r.tree
	}
	if err != nil {
		return nil, err
	}

	now := e.now()
	n := normalize.New(m, e.opts.Location, now)
	skipped := zerolog.Dict()
	f := store.Frames{Masters: m}
	var k int
	f.Sales, k = n.Sales(trees[PathSales])
	skipped.Int("sales", k)
	f.Receipts, k = n.Receipts(trees[PathReceipts])
	skipped.Int("receipts", k)
	f.Receivables, k = n.Receivables(trees[PathReceivables])
	skipped.Int("receivables", k)
	f.Convenios, k = n.Convenios(trees[PathConvenios])
	skipped.Int("convenios", k)
	f.Quotas, k = n.Quotas(trees[PathQuotas])
	skipped.Int("quotas", k)
	f.Impacts = n.Impacts(trees[PathImpacts])
	e.log.Debug().Dict("skipped", skipped).Msg("registros omitidos por colección")

	return store.Build(f, uuid.NewString(), now), nil
}

// guard ejecuta un lector sobre la instantánea vigente. Un pánico se registra
// y se responde con la forma vacía del lector.
func guard[T any](e *Engine, op string, empty func() T, fn func(s *store.Snapshot) T) (out T) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Str("op", op).Interface("panic", r).Msg("error inesperado en analítica")
			out = empty()
		}
	}()
	return fn(e.snap.Load())
}
