package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ostinato-fm/ostinato/pkg/router"
)

// Default tracer name for Ostinato applications.
const defaultTracerName = "ostinato"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "ostinato").
	TracerName string

	// IncludeParams includes route parameters as span attributes.
	// Parameter values may identify users - disabled by default.
	IncludeParams bool

	// Filter determines which activations to trace. Return true to trace.
	// If nil, all activations are traced.
	Filter func(ctx router.Ctx) bool

	// AttributeExtractor extracts custom attributes from the context.
	AttributeExtractor func(ctx router.Ctx) []attribute.KeyValue

	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithIncludeParams enables recording route parameters on spans.
func WithIncludeParams(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeParams = include
	}
}

// WithFilter sets a filter function for activations.
func WithFilter(filter func(ctx router.Ctx) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(ctx router.Ctx) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// OpenTelemetry creates middleware that traces every route activation.
//
// The middleware creates a span per activation named after the matched
// pattern, records the canonical path and method, injects the span context
// into the request context for downstream calls (loaders, API clients), and
// records errors with span status.
//
// The tracer uses the global OpenTelemetry tracer provider; configure it in
// main() before starting the server.
func OpenTelemetry(opts ...OTelOption) router.Middleware {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)

	return router.MiddlewareFunc(func(ctx router.Ctx, next func() error) error {
		if config.Filter != nil && !config.Filter(ctx) {
			return next()
		}

		spanName := ctx.Pattern()
		if spanName == "" {
			spanName = ctx.Path()
		}

		attrs := []attribute.KeyValue{
			attribute.String("ostinato.path", ctx.Path()),
			attribute.String("ostinato.route", ctx.Pattern()),
			attribute.String("http.method", ctx.Method()),
		}
		if config.IncludeParams {
			for name, value := range ctx.Params() {
				attrs = append(attrs, attribute.String("ostinato.param."+name, value))
			}
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(ctx)...)
		}

		spanCtx, span := config.tracer.Start(
			ctx.StdContext(),
			spanName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attrs...),
			trace.WithTimestamp(time.Now()),
		)
		defer span.End()

		ctx.SetValue(spanContextKey{}, spanCtx)

		err := next()

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	})
}

// spanContextKey is the key for storing the span context in Ctx values.
type spanContextKey struct{}

// SpanFromContext retrieves the current trace span from the router context.
// Returns nil when tracing is not active for the request.
func SpanFromContext(ctx router.Ctx) trace.Span {
	if spanCtx, ok := ctx.Value(spanContextKey{}).(context.Context); ok {
		return trace.SpanFromContext(spanCtx)
	}
	return nil
}

// TraceContext returns the trace-carrying context for propagation to
// loaders and external services.
func TraceContext(ctx router.Ctx) context.Context {
	if spanCtx, ok := ctx.Value(spanContextKey{}).(context.Context); ok {
		return spanCtx
	}
	return ctx.StdContext()
}
