package observe

import (
	"net/http"

	"github.com/sjc5/routekit/pkg/dispatch"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "routekit"

type TracingConfig struct {
	// TracerName defaults to "routekit".
	TracerName string

	// Provider defaults to the global tracer provider.
	Provider trace.TracerProvider
}

type TracingOption func(*TracingConfig)

func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) { c.TracerName = name }
}

func WithTracerProvider(provider trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) { c.Provider = provider }
}

// Tracing starts a span per request in Wrap and records every handler
// the dispatcher runs as an event on it.
type Tracing struct {
	tracer trace.Tracer
}

func NewTracing(opts ...TracingOption) *Tracing {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Provider == nil {
		config.Provider = otel.GetTracerProvider()
	}
	return &Tracing{tracer: config.Provider.Tracer(config.TracerName)}
}

func (t *Tracing) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := t.tracer.Start(r.Context(), "HTTP "+r.Method,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("url.path", r.URL.Path),
			),
		)
		defer span.End()

		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r.WithContext(ctx))

		status := sw.code()
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	})
}

// Observer adds a span event per handler to the request's span. Error
// handlers also record the error they were given.
func (t *Tracing) Observer() dispatch.Observer {
	return dispatch.Observer{
		OnHandleRequest: func(e dispatch.HandleRequestEvent) {
			span := trace.SpanFromContext(e.Request.Context())
			span.AddEvent("dispatch.handle_request", trace.WithAttributes(
				attribute.String("dispatch.routing_path", e.RoutingPath),
			))
		},
		OnHandleError: func(e dispatch.HandleErrorEvent) {
			span := trace.SpanFromContext(e.Request.Context())
			span.AddEvent("dispatch.handle_error", trace.WithAttributes(
				attribute.String("dispatch.routing_path", e.RoutingPath),
			))
			span.RecordError(e.Error)
			span.SetStatus(codes.Error, e.Error.Error())
		},
	}
}
