package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, false)
	log.Debug("hidden")
	log.Info("catalog reloaded", "genres", 20)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "catalog reloaded", entry["msg"])
	assert.Equal(t, float64(20), entry["genres"])
}

func TestNewLoggerPretty(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, true).With("op", "seeds.Loader.Load")
	log.Error("catalog replace failed", "err", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "catalog replace failed")
	assert.Contains(t, out, `"err": "boom"`)
	assert.Contains(t, out, `"op": "seeds.Loader.Load"`)
}

func TestPgxLogger(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewPgxTracer(NewLogger(&buf, false))
	tracer.Logger.Log(context.Background(), tracelog.LogLevelWarn, "Query", map[string]any{"sql": "SELECT 1"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "SELECT 1", entry["sql"])
	assert.Equal(t, "pgx", entry["component"])
}
