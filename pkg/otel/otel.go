// Package otel wires OpenTelemetry tracing into the service: provider setup,
// a tracer carried through the request context, and span helpers for
// handlers.
package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Config holds the settings for the tracing provider.
type Config struct {
	ServiceName string
	Host        string
	Probability float64
}

type ctxKey int

const tracerKey ctxKey = 1

// InitTracing builds a tracer provider exporting over OTLP/gRPC and installs
// it as the global provider. The returned shutdown function flushes any
// pending spans.
func InitTracing(cfg Config) (*sdktrace.TracerProvider, func(context.Context) error, error) {
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(cfg.Host),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("creating otlp exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.Probability)),
		sdktrace.WithResource(sdkresource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
		)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return tp, tp.Shutdown, nil
}

// InjectTracing stores the tracer in the context so handlers can open spans
// with AddSpan.
func InjectTracing(ctx context.Context, tracer trace.Tracer) context.Context {
	return context.WithValue(ctx, tracerKey, tracer)
}

// AddSpan starts a span named name when a tracer is present in the context;
// otherwise it returns the current (possibly non-recording) span.
func AddSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer, ok := ctx.Value(tracerKey).(trace.Tracer)
	if !ok {
		return ctx, trace.SpanFromContext(ctx)
	}
	ctx, span := tracer.Start(ctx, name)
	span.SetAttributes(attrs...)
	return ctx, span
}

// GetTraceID returns the trace id of the current span for log correlation;
// it is the zero id when nothing is recording.
func GetTraceID(ctx context.Context) string {
	return trace.SpanFromContext(ctx).SpanContext().TraceID().String()
}
