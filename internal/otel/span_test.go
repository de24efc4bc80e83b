package otel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newTestTracerProvider(t *testing.T) (*tracetest.InMemoryExporter, trace.TracerProvider) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return exporter, tp
}

func TestStartSpan_NilTracer(t *testing.T) {
	t.Parallel()

	ctx, span := StartSpan(context.Background(), nil, "catalog.ListProducts")
	require.NotNil(t, ctx)
	require.NotNil(t, span)
	assert.False(t, span.SpanContext().IsValid())
	assert.NotPanics(t, func() { span.End() })
}

func TestStartSpan_RecordsAttributes(t *testing.T) {
	t.Parallel()

	exporter, tp := newTestTracerProvider(t)
	_, span := StartSpan(context.Background(), tp.Tracer("test"), "catalog.ListProducts",
		trace.WithAttributes(
			AttrFilterSearch.String("ragi"),
			AttrFilterType.String("all"),
		),
	)
	span.SetAttributes(AttrResultCount.Int(2))
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "catalog.ListProducts", spans[0].Name)

	attrs := map[string]any{}
	for _, kv := range spans[0].Attributes {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, "ragi", attrs["filter.search"])
	assert.Equal(t, "all", attrs["filter.type"])
	assert.Equal(t, int64(2), attrs["result.count"])
}

func TestRecordError(t *testing.T) {
	t.Parallel()

	t.Run("nil span and nil error", func(t *testing.T) {
		t.Parallel()
		assert.NotPanics(t, func() { RecordError(nil, errors.New("boom")) })
		assert.NotPanics(t, func() { RecordError(nil, nil) })
	})

	t.Run("nil error leaves status unset", func(t *testing.T) {
		t.Parallel()
		exporter, tp := newTestTracerProvider(t)
		_, span := tp.Tracer("test").Start(context.Background(), "catalog.Reload")
		RecordError(span, nil)
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Unset, spans[0].Status.Code)
		assert.Empty(t, spans[0].Events)
	})

	t.Run("error sets generic status and exception event", func(t *testing.T) {
		t.Parallel()
		exporter, tp := newTestTracerProvider(t)
		_, span := tp.Tracer("test").Start(context.Background(), "catalog.Reload")
		RecordError(span, errors.New("fetch https://fixtures.example/products.json: 502"))
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status.Code)
		assert.Equal(t, "operation failed", spans[0].Status.Description)
		require.NotEmpty(t, spans[0].Events)
		assert.Equal(t, "exception", spans[0].Events[0].Name)
	})
}
