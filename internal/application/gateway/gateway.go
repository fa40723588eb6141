// Package gateway envuelve la fuente documental con reintentos y semántica de
// ausencia: un fallo agotados los reintentos se reporta como "sin datos".
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/farma-analytics/internal/domain"
	"github.com/jhoicas/farma-analytics/internal/domain/repository"
)

// Valores por defecto: 3 intentos con espera fija de 1 s.
const (
	DefaultRetries = 3
	DefaultBackoff = time.Second
)

// Options configuración de reintentos.
type Options struct {
	Retries int
	Backoff time.Duration
}

// Gateway acceso de solo lectura con reintentos. No cachea.
type Gateway struct {
	src     repository.DocumentSource
	retries int
	backoff time.Duration
	log     zerolog.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

// New construye el gateway sobre una fuente documental.
func New(src repository.DocumentSource, opts Options, log zerolog.Logger) *Gateway {
	if opts.Retries <= 0 {
		opts.Retries = DefaultRetries
	}
	if opts.Backoff < 0 {
		opts.Backoff = DefaultBackoff
	}
	return &Gateway{
		src:     src,
		retries: opts.Retries,
		backoff: opts.Backoff,
		log:     log,
		sleep:   sleepCtx,
	}
}

// Lookup lee path. Devuelve (nil, nil) si no existe y un error que envuelve
// domain.ErrSourceUnavailable cuando se agotan los intentos.
func (g *Gateway) Lookup(ctx context.Context, path string) (any, error) {
	path = strings.Trim(path, "/")
	var lastErr error
	for attempt := 1; attempt <= g.retries; attempt++ {
		tree, err := g.src.Fetch(ctx, path)
		if err == nil {
			if tree == nil {
				g.log.Debug().Str("path", path).Msg("ruta sin datos en la fuente")
			}
			return tree, nil
		}
		lastErr = err
		if ctxErr := ctx.Err(); ctxErr != nil {
			break
		}
		g.log.Warn().Err(err).Str("path", path).Int("attempt", attempt).Int("max_attempts", g.retries).
			Msg("fallo leyendo la fuente documental")
		if attempt < g.retries {
			if err := g.sleep(ctx, g.backoff); err != nil {
				lastErr = errors.Join(lastErr, err)
				break
			}
		}
	}
	return nil, fmt.Errorf("gateway.Lookup %s: %w: %w", path, domain.ErrSourceUnavailable, lastErr)
}

// Get lee path y reporta cualquier fallo como ausencia.
func (g *Gateway) Get(ctx context.Context, path string) (any, bool) {
	tree, err := g.Lookup(ctx, path)
	if err != nil || tree == nil {
		return nil, false
	}
	return tree, true
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
