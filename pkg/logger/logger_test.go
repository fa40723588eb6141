package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farma-analytics/pkg/logger"
)

func TestNew_JSONConComponente(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "debug", Output: &buf})

	sub := log.WithComponent("gateway")
	sub.Debug().Str("path", "fac_ventas").Msg("lectura")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "gateway", line["component"])
	assert.Equal(t, "fac_ventas", line["path"])
	assert.Equal(t, "debug", line["level"])
}

func TestNew_NivelPorDefectoInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "desconocido", Output: &buf})
	log.Debug().Msg("no debe salir")
	assert.Zero(t, buf.Len())
	log.Info().Msg("sí")
	assert.NotZero(t, buf.Len())
}
