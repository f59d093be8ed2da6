package tracer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "consentsync/coordinator"

// OTelTracer emits coordinator spans through OpenTelemetry. Spans carry the
// platform attribute when one is configured.
type OTelTracer struct {
	otel   trace.Tracer
	common []attribute.KeyValue
}

type OTelOption func(*OTelTracer)

// WithOTelTracer replaces the global provider's tracer.
func WithOTelTracer(t trace.Tracer) OTelOption {
	return func(o *OTelTracer) {
		o.otel = t
	}
}

// WithPlatform tags every span with the host platform.
func WithPlatform(platform string) OTelOption {
	return func(o *OTelTracer) {
		if platform != "" {
			o.common = append(o.common, attribute.String(AttrPlatform, platform))
		}
	}
}

func NewOTel(opts ...OTelOption) *OTelTracer {
	o := &OTelTracer{}
	for _, opt := range opts {
		opt(o)
	}
	if o.otel == nil {
		o.otel = otel.Tracer(instrumentationName)
	}
	return o
}

func (o *OTelTracer) Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	kvs := append(o.common[:len(o.common):len(o.common)], keyValues(attrs)...)
	ctx, span := o.otel.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(kvs...),
	)
	return ctx, otelSpan{span}
}

type otelSpan struct {
	trace.Span
}

// End marks the span failed when err is non-nil. SDK acceptance without an
// error is recorded as Ok.
func (s otelSpan) End(err error) {
	if err != nil {
		s.Span.RecordError(err)
		s.Span.SetStatus(codes.Error, err.Error())
	} else {
		s.Span.SetStatus(codes.Ok, "")
	}
	s.Span.End()
}

func (s otelSpan) SetAttributes(attrs ...Attribute) {
	s.Span.SetAttributes(keyValues(attrs)...)
}

func (s otelSpan) AddEvent(name string, attrs ...Attribute) {
	s.Span.AddEvent(name, trace.WithAttributes(keyValues(attrs)...))
}

// keyValues drops attributes whose value type OpenTelemetry cannot carry.
func keyValues(attrs []Attribute) []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, len(attrs))
	for _, a := range attrs {
		switch v := a.Value.(type) {
		case string:
			kvs = append(kvs, attribute.String(a.Key, v))
		case bool:
			kvs = append(kvs, attribute.Bool(a.Key, v))
		case int:
			kvs = append(kvs, attribute.Int(a.Key, v))
		case int64:
			kvs = append(kvs, attribute.Int64(a.Key, v))
		case []string:
			kvs = append(kvs, attribute.StringSlice(a.Key, v))
		}
	}
	return kvs
}

var _ Tracer = (*OTelTracer)(nil)
