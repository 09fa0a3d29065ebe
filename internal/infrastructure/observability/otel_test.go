package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOTLPHeaders(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "Authorization=Basic%20abc123, X-Scope=team=a,broken")

	headers := parseOTLPHeaders()

	assert.Equal(t, map[string]string{
		"Authorization": "Basic abc123",
		"X-Scope":       "team=a",
	}, headers)
}

func TestParseOTLPHeaders_Unset(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")
	assert.Nil(t, parseOTLPHeaders())
}

func TestInit_Disabled(t *testing.T) {
	ctx := context.Background()
	cfg := Config{Enabled: false, LogLevel: slog.LevelWarn}

	tp, err := InitTracerProvider(ctx, cfg)
	require.NoError(t, err)
	defer func() { _ = tp.Shutdown(ctx) }()

	mp, err := InitMeterProvider(ctx, cfg)
	require.NoError(t, err)
	defer func() { _ = mp.Shutdown(ctx) }()

	lp, logger, err := InitLogger(ctx, cfg)
	require.NoError(t, err)
	defer func() { _ = lp.Shutdown(ctx) }()

	assert.False(t, logger.Enabled(ctx, slog.LevelInfo))
	assert.True(t, logger.Enabled(ctx, slog.LevelWarn))

	_, err = NewMetrics(mp)
	assert.NoError(t, err)
}
