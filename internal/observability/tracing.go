package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	"github.com/oggyb/muzz-interest/internal/config"
)

// Shutdown flushes and stops the tracer provider.
type Shutdown func(context.Context) error

func noop(context.Context) error { return nil }

// SetupTracing installs a global tracer provider exporting to out (stdout
// when nil). With tracing disabled the otel no-op provider stays in place.
func SetupTracing(ctx context.Context, cfg *config.Config, log *slog.Logger, out io.Writer) (Shutdown, error) {
	if !cfg.Tracing.Enabled {
		return noop, nil
	}
	if out == nil {
		out = os.Stdout
	}

	serviceName := strings.TrimSpace(cfg.Tracing.ServiceName)
	if serviceName == "" {
		serviceName = "muzz-interest"
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			attribute.String("deployment.environment", cfg.App.ENV),
		),
	)
	if err != nil && log != nil {
		log.Warn("otel resource init failed (continuing)", "error", err)
	}

	exp, err := stdouttrace.New(stdouttrace.WithWriter(out))
	if err != nil {
		return noop, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	if log != nil {
		log.Info("otel tracing initialized", "service", serviceName)
	}
	return tp.Shutdown, nil
}
