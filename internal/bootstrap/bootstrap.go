// Package bootstrap arma el motor analítico a partir de la configuración:
// fuente documental según SOURCE_DRIVER, gateway con reintentos, caché,
// calendario hábil y zona horaria. Lo comparten el servidor y el CLI.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/farma-analytics/internal/application/engine"
	"github.com/jhoicas/farma-analytics/internal/application/gateway"
	"github.com/jhoicas/farma-analytics/internal/application/quota"
	"github.com/jhoicas/farma-analytics/internal/domain"
	"github.com/jhoicas/farma-analytics/internal/domain/repository"
	infrafirestore "github.com/jhoicas/farma-analytics/internal/infrastructure/firestore"
	"github.com/jhoicas/farma-analytics/internal/infrastructure/postgres"
	"github.com/jhoicas/farma-analytics/internal/infrastructure/snapshot"
	"github.com/jhoicas/farma-analytics/pkg/cache"
	"github.com/jhoicas/farma-analytics/pkg/config"
	"github.com/jhoicas/farma-analytics/pkg/logger"
)

// Runtime motor listo para usar y los recursos que hay que liberar al salir.
type Runtime struct {
	Engine   *engine.Engine
	Location *time.Location
	closers  []func()
}

// Close libera la fuente (pool de PostgreSQL o cliente Firestore).
func (r *Runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// Build construye el motor sin cargar datos; el llamador decide cuándo invocar ReloadData.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Runtime, error) {
	loc, err := time.LoadLocation(cfg.Analytics.Timezone)
	if err != nil {
		return nil, fmt.Errorf("bootstrap.Build: zona horaria %q: %w", cfg.Analytics.Timezone, err)
	}

	rt := &Runtime{Location: loc}
	src, inspector, err := openSource(ctx, cfg, rt)
	if err != nil {
		rt.Close()
		return nil, err
	}

	gw := gateway.New(src, gateway.Options{
		Retries: cfg.Gateway.Retries,
		Backoff: cfg.Gateway.Backoff,
	}, log.WithComponent("gateway"))

	c := cache.New(cache.Options{
		MaxEntries:      cfg.Cache.MaxEntries,
		Slack:           cfg.Cache.Slack,
		CleanupInterval: cfg.Cache.CleanupInterval,
	})

	rt.Engine = engine.New(gw, c, quota.CalendarByName(cfg.Analytics.Calendar), log.WithComponent("engine"), engine.Options{
		Location:         loc,
		RFMTTL:           cfg.Analytics.RFMTTL,
		RiskTTL:          cfg.Analytics.RiskTTL,
		RiskPeriodDays:   cfg.Analytics.RiskPeriodDays,
		RiskTopClients:   cfg.Analytics.RiskTopClients,
		TopN:             cfg.Analytics.DefaultTopN,
		ExpirationWindow: cfg.Analytics.ExpirationWindow,
		Inspector:        inspector,
	})

	log.Info().
		Str("source", cfg.Source.Driver).
		Str("calendar", cfg.Analytics.Calendar).
		Str("timezone", loc.String()).
		Msg("motor analítico construido")
	return rt, nil
}

func openSource(ctx context.Context, cfg *config.Config, rt *Runtime) (repository.DocumentSource, repository.SourceInspector, error) {
	switch cfg.Source.Driver {
	case config.SourcePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap.openSource: conexión a PostgreSQL: %w", err)
		}
		rt.closers = append(rt.closers, pool.Close)
		repo := postgres.NewDocumentRepository(pool)
		return repo, repo, nil
	case config.SourceFirestore:
		fs, err := infrafirestore.New(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsFile)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap.openSource: %w", err)
		}
		rt.closers = append(rt.closers, func() { _ = fs.Close() })
		return fs, nil, nil
	case config.SourceFile:
		src, err := snapshot.Open(cfg.Source.File)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap.openSource: %w", err)
		}
		return src, nil, nil
	default:
		return nil, nil, fmt.Errorf("bootstrap.openSource: %w: driver %q no soportado", domain.ErrInvalidInput, cfg.Source.Driver)
	}
}
