package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		prefixed string
		plain    string
		want     slog.Level
	}{
		{name: "unset", want: slog.LevelInfo},
		{name: "prefixed debug", prefixed: "debug", want: slog.LevelDebug},
		{name: "plain fallback", plain: "error", want: slog.LevelError},
		{name: "prefixed wins", prefixed: "warn", plain: "debug", want: slog.LevelWarn},
		{name: "warning alias", plain: "WARNING", want: slog.LevelWarn},
		{name: "invalid", plain: "loud", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MILLETMART_LOG_LEVEL", tt.prefixed)
			t.Setenv("LOG_LEVEL", tt.plain)
			assert.Equal(t, tt.want, getLogLevel())
		})
	}
}

func TestTraceHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(&traceHandler{Handler: slog.NewJSONHandler(&buf, nil)}).With("component", "test")

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	logger.InfoContext(ctx, "traced")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, span.SpanContext().TraceID().String(), record["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), record["span_id"])
	assert.Equal(t, "test", record["component"])

	buf.Reset()
	logger.Info("untraced")
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.NotContains(t, buf.String(), "trace_id")
}
