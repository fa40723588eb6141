package gateway_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farma-analytics/internal/application/gateway"
	"github.com/jhoicas/farma-analytics/internal/domain"
)

type scriptedSource struct {
	calls   int
	fails   int
	payload any
	paths   []string
}

func (s *scriptedSource) Fetch(_ context.Context, path string) (any, error) {
	s.calls++
	s.paths = append(s.paths, path)
	if s.calls <= s.fails {
		return nil, errors.New("timeout")
	}
	return s.payload, nil
}

func newGateway(src *scriptedSource, sleeps *[]time.Duration) *gateway.Gateway {
	g := gateway.New(src, gateway.Options{}, zerolog.Nop())
	g.SetSleep(func(_ context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		return nil
	})
	return g
}

func TestLookup_ReintentaHastaExito(t *testing.T) {
	src := &scriptedSource{fails: 2, payload: map[string]any{"a": 1}}
	var sleeps []time.Duration
	g := newGateway(src, &sleeps)

	tree, err := g.Lookup(context.Background(), "/fac_ventas/")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, tree)
	assert.Equal(t, 3, src.calls)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, sleeps)
	assert.Equal(t, "fac_ventas", src.paths[0])
}

func TestLookup_AgotaIntentos(t *testing.T) {
	src := &scriptedSource{fails: 10}
	var sleeps []time.Duration
	g := newGateway(src, &sleeps)

	_, err := g.Lookup(context.Background(), "cartera_actual")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.Equal(t, 3, src.calls)
	assert.Len(t, sleeps, 2)
}

func TestGet_FalloEsAusencia(t *testing.T) {
	src := &scriptedSource{fails: 10}
	var sleeps []time.Duration
	g := newGateway(src, &sleeps)

	tree, ok := g.Get(context.Background(), "cartera_actual")
	assert.False(t, ok)
	assert.Nil(t, tree)
}

func TestGet_RutaInexistenteNoReintenta(t *testing.T) {
	src := &scriptedSource{}
	var sleeps []time.Duration
	g := newGateway(src, &sleeps)

	tree, ok := g.Get(context.Background(), "convenios")
	assert.False(t, ok)
	assert.Nil(t, tree)
	assert.Equal(t, 1, src.calls)
	assert.Empty(t, sleeps)
}

func TestLookup_ContextoCancelado(t *testing.T) {
	src := &scriptedSource{fails: 10}
	g := gateway.New(src, gateway.Options{Retries: 3, Backoff: time.Hour}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Lookup(ctx, "fac_ventas")
	require.Error(t, err)
	assert.Equal(t, 1, src.calls)
}
