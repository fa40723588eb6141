package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/farma-analytics/internal/application/engine"
	"github.com/jhoicas/farma-analytics/internal/domain/entity"
	"github.com/jhoicas/farma-analytics/pkg/jwt"
)

func newReloadCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Carga la fuente y muestra el resultado de la recarga",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, closeFn, err := deps.Build(ctxOf(cmd))
			if err != nil {
				return fmt.Errorf("cli: construir motor: %w", err)
			}
			defer closeFn()
			res := eng.ReloadData(ctxOf(cmd))
			if err := printJSON(cmd, res); err != nil {
				return err
			}
			if !res.Success {
				return fmt.Errorf("recarga fallida: %s", res.Error)
			}
			return nil
		},
	}
}

func newSummaryCmd(deps Deps) *cobra.Command {
	var seller, month string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Resumen de ventas del vendedor y mes",
		Example: `  analytics summary --seller "Ana" --month 2025-03
  analytics summary --month Todos`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, deps, func(e *engine.Engine) error {
				return printJSON(cmd, e.SalesSummary(entity.ParseSelection(seller), entity.ParseSelection(month)))
			})
		},
	}
	cmd.Flags().StringVarP(&seller, "seller", "s", entity.AllToken, "Vendedor")
	cmd.Flags().StringVarP(&month, "month", "m", entity.AllToken, "Mes YYYY-MM")
	return cmd
}

func newRFMCmd(deps Deps) *cobra.Command {
	var seller, client string
	cmd := &cobra.Command{
		Use:   "rfm",
		Short: "Segmentación RFM+ de clientes o detalle de un cliente",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, deps, func(e *engine.Engine) error {
				sel := entity.ParseSelection(seller)
				if client == "" {
					return printJSON(cmd, e.ComputeRFM(sel, false))
				}
				detail, ok := e.ClientRFMDetails(client, sel)
				if !ok {
					return fmt.Errorf("cliente %q sin compras en la población", client)
				}
				return printJSON(cmd, detail)
			})
		},
	}
	cmd.Flags().StringVarP(&seller, "seller", "s", entity.AllToken, "Vendedor")
	cmd.Flags().StringVarP(&client, "client", "c", "", "Cliente (nombre completo o código)")
	return cmd
}

func newRiskCmd(deps Deps) *cobra.Command {
	var seller, pdfPath string
	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Indicador de riesgo de cartera; con --pdf genera la ficha del vendedor",
		Example: `  analytics risk
  analytics risk --seller "Ana" --pdf riesgo-ana.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sel := entity.ParseSelection(seller)
			if pdfPath != "" && sel.IsAll() {
				return fmt.Errorf("--pdf requiere --seller")
			}
			return withEngine(cmd, deps, func(e *engine.Engine) error {
				report := e.PortfolioIndicator(sel)
				if pdfPath == "" {
					return printJSON(cmd, report)
				}
				if deps.PDF == nil {
					return fmt.Errorf("generador PDF no configurado")
				}
				if len(report.Sellers) == 0 {
					return fmt.Errorf("vendedor %q sin datos de riesgo", sel.Value())
				}
				out, err := deps.PDF.RiskScorecard(ctxOf(cmd), report, report.Sellers[0], deps.Now())
				if err != nil {
					return err
				}
				if err := os.WriteFile(pdfPath, out, 0o644); err != nil {
					return fmt.Errorf("cli: escribir %s: %w", pdfPath, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ficha escrita en %s (%d bytes)\n", pdfPath, len(out))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&seller, "seller", "s", entity.AllToken, "Vendedor")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Ruta del PDF de la ficha de riesgo")
	return cmd
}

func newQuotaCmd(deps Deps) *cobra.Command {
	var seller, month string
	cmd := &cobra.Command{
		Use:   "quota",
		Short: "Cumplimiento de cuota; sin --seller muestra todos los vendedores y el equipo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, deps, func(e *engine.Engine) error {
				sel := entity.ParseSelection(seller)
				if sel.IsAll() {
					return printJSON(cmd, e.QuotaBoard(month))
				}
				return printJSON(cmd, e.QuotaAttainment(sel.Value(), month))
			})
		},
	}
	cmd.Flags().StringVarP(&seller, "seller", "s", "", "Vendedor")
	cmd.Flags().StringVarP(&month, "month", "m", "", "Mes YYYY-MM (default: mes en curso)")
	return cmd
}

func newCacheCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "cache",
		Short: "Registros cargados, estado del caché y tamaño de la fuente",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, deps, func(e *engine.Engine) error {
				return printJSON(cmd, e.CacheStatus(ctxOf(cmd)))
			})
		},
	}
}

// newTokenCmd emite un token para probar la API en local con JWT_SECRET.
func newTokenCmd(deps Deps) *cobra.Command {
	var userID, role, seller string
	var minutes int
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Genera un token de prueba firmado con JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch role {
			case jwt.RoleAdmin, jwt.RoleGerente, jwt.RoleVendedor:
			default:
				return fmt.Errorf("rol inválido %q (admin | gerente | vendedor)", role)
			}
			if role == jwt.RoleVendedor && seller == "" {
				return fmt.Errorf("el rol vendedor requiere --seller")
			}
			tok, err := jwt.Generate(deps.JWTSecret, userID, role, seller, deps.JWTIssuer, minutes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "cli", "user_id del token")
	cmd.Flags().StringVar(&role, "role", jwt.RoleAdmin, "admin | gerente | vendedor")
	cmd.Flags().StringVar(&seller, "seller", "", "Vendedor (obligatorio para el rol vendedor)")
	cmd.Flags().IntVar(&minutes, "minutes", 60, "Vigencia en minutos")
	return cmd
}
