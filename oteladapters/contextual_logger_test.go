package oteladapters_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/embedded"

	"github.com/AntonStoeckl/sqldialect-go/oteladapters"
)

type recordingLogger struct {
	embedded.Logger
	records []log.Record
}

func (l *recordingLogger) Emit(_ context.Context, record log.Record) {
	l.records = append(l.records, record)
}

func (l *recordingLogger) Enabled(context.Context, log.EnabledParameters) bool {
	return true
}

func attrsOf(record log.Record) map[string]log.Value {
	attrs := make(map[string]log.Value)
	record.WalkAttributes(func(kv log.KeyValue) bool {
		attrs[kv.Key] = kv.Value
		return true
	})

	return attrs
}

func Test_OTelLogger_ShouldEmit_TypedAttributes(t *testing.T) {
	backend := &recordingLogger{}
	logger := oteladapters.NewOTelLogger(backend)

	logger.ErrorContext(context.Background(), "binding adapter failed",
		"error", errors.New("boom"),
		"duration_ms", 1.5,
		"attempt", 2,
		"dangling",
	)

	require.Len(t, backend.records, 1)
	record := backend.records[0]
	assert.Equal(t, log.SeverityError, record.Severity())
	assert.Equal(t, "binding adapter failed", record.Body().AsString())
	assert.False(t, record.Timestamp().IsZero())

	attrs := attrsOf(record)
	assert.Len(t, attrs, 3)
	assert.Equal(t, "boom", attrs["error"].AsString())
	assert.InDelta(t, 1.5, attrs["duration_ms"].AsFloat64(), 0.0001)
	assert.Equal(t, int64(2), attrs["attempt"].AsInt64())
}

func Test_OTelLogger_ShouldMap_Severities(t *testing.T) {
	backend := &recordingLogger{}
	logger := oteladapters.NewOTelLogger(backend)
	ctx := context.Background()

	logger.DebugContext(ctx, "d")
	logger.InfoContext(ctx, "i")
	logger.WarnContext(ctx, "w")
	logger.ErrorContext(ctx, "e")

	require.Len(t, backend.records, 4)
	assert.Equal(t, log.SeverityDebug, backend.records[0].Severity())
	assert.Equal(t, log.SeverityInfo, backend.records[1].Severity())
	assert.Equal(t, log.SeverityWarn, backend.records[2].Severity())
	assert.Equal(t, log.SeverityError, backend.records[3].Severity())
}

func Test_SlogBridgeLoggerWithHandler_ShouldWrite_ToTheHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.DebugContext(context.Background(), "executed sql for: current_user", "query", "SELECT current_user")

	assert.Contains(t, buf.String(), `"msg":"executed sql for: current_user"`)
	assert.Contains(t, buf.String(), `"query":"SELECT current_user"`)
}

func Test_SlogBridgeLogger_ShouldNotPanic_WithoutAProvider(t *testing.T) {
	logger := oteladapters.NewSlogBridgeLogger("test")
	ctx := context.Background()

	assert.NotPanics(t, func() {
		logger.DebugContext(ctx, "debug", "key", "value")
		logger.InfoContext(ctx, "info", "key", "value")
		logger.WarnContext(ctx, "warn", "key", "value")
		logger.ErrorContext(ctx, "error", "key", "value")
	})
}
