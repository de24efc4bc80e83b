// Package otel provides span helpers shared by the catalog service and loaders.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys recorded on catalog spans.
const (
	AttrFilterSearch   = attribute.Key("filter.search")
	AttrFilterType     = attribute.Key("filter.type")
	AttrFilterCategory = attribute.Key("filter.category")
	AttrFilterPrice    = attribute.Key("filter.price_range")
	AttrResultCount    = attribute.Key("result.count")
	AttrSnapshotID     = attribute.Key("catalog.snapshot_id")
	AttrProductID      = attribute.Key("catalog.product_id")
	AttrFarmerID       = attribute.Key("catalog.farmer_id")
)

// StartSpan starts a span on tracer. A nil tracer yields the span already
// in ctx, which is a no-op when tracing is off.
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError marks span as failed. The status carries a fixed message;
// err itself goes into the exception event.
func RecordError(span trace.Span, err error) {
	if err == nil || span == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, "operation failed")
}
