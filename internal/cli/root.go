// Package cli define los comandos del binario analytics: recarga, resúmenes,
// RFM+, riesgo, cuotas y estado del caché sobre la misma fuente que la API.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jhoicas/farma-analytics/internal/application/dto"
	"github.com/jhoicas/farma-analytics/internal/application/engine"
)

var version = "1.0.0"

// EngineFactory construye el motor y devuelve la función que libera la fuente.
type EngineFactory func(ctx context.Context) (*engine.Engine, func(), error)

// ScorecardRenderer genera la ficha PDF de riesgo (lo implementa *pdf.ScorecardGenerator).
type ScorecardRenderer interface {
	RiskScorecard(ctx context.Context, report dto.RiskReportDTO, ind dto.RiskIndicatorDTO, generatedAt time.Time) ([]byte, error)
}

// Deps dependencias de los comandos.
type Deps struct {
	Build     EngineFactory
	PDF       ScorecardRenderer
	JWTSecret string
	JWTIssuer string
	Log       zerolog.Logger
	Now       func() time.Time
}

// NewRootCommand arma el árbol de comandos.
func NewRootCommand(deps Deps) *cobra.Command {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	root := &cobra.Command{
		Use:   "analytics",
		Short: "Analítica comercial de la distribuidora desde la línea de comandos",
		Long: `analytics carga la fuente documental configurada (SOURCE_DRIVER) y
ejecuta los mismos cálculos que expone la API: resumen de ventas, RFM+,
indicador de riesgo de cartera, cumplimiento de cuotas y estado del caché.

Los filtros aceptan ALL o Todos para no filtrar.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newReloadCmd(deps),
		newSummaryCmd(deps),
		newRFMCmd(deps),
		newRiskCmd(deps),
		newQuotaCmd(deps),
		newCacheCmd(deps),
		newTokenCmd(deps),
	)
	return root
}

// withEngine construye el motor, carga los datos y ejecuta fn.
func withEngine(cmd *cobra.Command, deps Deps, fn func(*engine.Engine) error) error {
	ctx := ctxOf(cmd)
	eng, closeFn, err := deps.Build(ctx)
	if err != nil {
		return fmt.Errorf("cli: construir motor: %w", err)
	}
	defer closeFn()

	res := eng.ReloadData(ctx)
	if !res.Success {
		return fmt.Errorf("cli: carga de datos: %s", res.Error)
	}
	deps.Log.Debug().Str("load_id", res.LoadID).Int("records", res.RecordsCount).Msg("datos cargados")
	return fn(eng)
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
