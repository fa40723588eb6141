package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jhoicas/farma-analytics/internal/application/engine"
	"github.com/jhoicas/farma-analytics/internal/bootstrap"
	"github.com/jhoicas/farma-analytics/internal/cli"
	infrapdf "github.com/jhoicas/farma-analytics/internal/infrastructure/pdf"
	"github.com/jhoicas/farma-analytics/pkg/config"
	"github.com/jhoicas/farma-analytics/pkg/logger"
)

func main() {
	// .env opcional; las variables ya definidas en el entorno no se sobrescriben.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "aviso: no se pudo leer .env: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	cmdLog := log.WithComponent("cli")

	var loc *time.Location
	root := cli.NewRootCommand(cli.Deps{
		Build: func(ctx context.Context) (*engine.Engine, func(), error) {
			rt, err := bootstrap.Build(ctx, cfg, log)
			if err != nil {
				return nil, nil, err
			}
			loc = rt.Location
			return rt.Engine, rt.Close, nil
		},
		PDF:       infrapdf.NewScorecardGenerator(),
		JWTSecret: cfg.JWT.Secret,
		JWTIssuer: cfg.JWT.Issuer,
		Log:       cmdLog,
		Now: func() time.Time {
			if loc != nil {
				return time.Now().In(loc)
			}
			return time.Now()
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		cmdLog.Error().Err(err).Msg("comando fallido")
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
