package telemetry_test

import (
	"context"
	"sync"
	"testing"

	"github.com/safespace/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// recordingExporter keeps exported log records in memory.
type recordingExporter struct {
	mu     sync.Mutex
	bodies []string
	closed bool
}

func (e *recordingExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.bodies = append(e.bodies, r.Body().AsString())
	}
	return nil
}

func (e *recordingExporter) Shutdown(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

func (e *recordingExporter) ForceFlush(context.Context) error { return nil }

func (e *recordingExporter) messages() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.bodies...)
}

func TestNewLoggerProvider_Disabled(t *testing.T) {
	ctx := context.Background()

	for name, tc := range map[string]struct {
		cfg     telemetry.Config
		enabled bool
	}{
		"telemetry off": {cfg: telemetry.Config{Enabled: false}, enabled: true},
		"logs off":      {cfg: telemetry.Config{Enabled: true, CollectorEndpoint: "127.0.0.1:1"}, enabled: false},
	} {
		t.Run(name, func(t *testing.T) {
			lp, err := telemetry.NewLoggerProvider(ctx, tc.cfg, tc.enabled, zap.NewNop())
			require.NoError(t, err)
			assert.False(t, lp.IsEnabled())
			assert.NoError(t, lp.ForceFlush(ctx))
			assert.NoError(t, lp.Shutdown(ctx))
		})
	}
}

func TestNewZapOTELCore_DisabledProviderIsNop(t *testing.T) {
	lp, err := telemetry.NewLoggerProvider(context.Background(), telemetry.Config{}, false, zap.NewNop())
	require.NoError(t, err)

	core := telemetry.NewZapOTELCore(lp, "test", zapcore.DebugLevel)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))

	core = telemetry.NewZapOTELCore(nil, "test", zapcore.DebugLevel)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))
}

func TestNewZapOTELCore_ExportsAtOrAboveLevel(t *testing.T) {
	exporter := &recordingExporter{}
	lp := telemetry.NewLoggerProviderWithExporter(exporter, zap.NewNop())
	require.True(t, lp.IsEnabled())

	base, observed := observer.New(zapcore.DebugLevel)
	log := zap.New(zapcore.NewTee(base, telemetry.NewZapOTELCore(lp, "test", zapcore.WarnLevel)))

	log.Info("booking created")
	log.With(zap.String("reference", "SS-1")).Warn("payment gateway slow")
	log.Error("email delivery failed")

	assert.Equal(t, 3, observed.Len(), "base core keeps every entry")
	assert.Equal(t, []string{"payment gateway slow", "email delivery failed"}, exporter.messages())

	require.NoError(t, lp.Shutdown(context.Background()))
	assert.True(t, exporter.closed)
}
