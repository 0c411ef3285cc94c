// Package observability wires OpenTelemetry trace export into Genkit.
//
// Genkit already instruments every generate and embed call with spans; this
// package registers an OTLP HTTP exporter on Genkit's TracerProvider so those
// spans (plus anything the application adds) reach a collector. Any OTLP
// ingest works: an OpenTelemetry Collector, Jaeger, or a vendor agent
// listening on the standard OTLP HTTP port 4318.
//
// Tracing is off unless an endpoint is configured:
//
//	otlp:
//	  endpoint: "localhost:4318"
//	  service_name: "pagechat"
//	  environment: "dev"
//
// or via PAGECHAT_OTLP_ENDPOINT. Export failures never take the service down;
// a broken exporter degrades to a no-op with a warning.
package observability

import (
	"context"
	"log/slog"
	"os"

	"github.com/firebase/genkit/go/core/tracing"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Config for OTLP trace export.
type Config struct {
	// Endpoint is the collector's OTLP HTTP host:port. Empty disables tracing.
	Endpoint string
	// ServiceName is the service name attached to exported spans.
	ServiceName string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
}

// Setup registers an OTLP HTTP exporter with Genkit's TracerProvider.
//
// Returns a shutdown function that flushes pending spans. When cfg.Endpoint
// is empty, tracing stays disabled and the shutdown function is a no-op.
func Setup(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if cfg.Endpoint == "" {
		slog.Debug("tracing disabled, no OTLP endpoint configured")
		return noop, nil
	}

	// Genkit's TracerProvider picks the service identity up from the
	// standard OTEL environment variables.
	if cfg.ServiceName != "" {
		_ = os.Setenv("OTEL_SERVICE_NAME", cfg.ServiceName)
	}
	if cfg.Environment != "" {
		_ = os.Setenv("OTEL_RESOURCE_ATTRIBUTES", "deployment.environment="+cfg.Environment)
	}

	// Collectors run next to the service, so plain HTTP is the norm here.
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		slog.Warn("failed to create OTLP exporter, tracing disabled", "error", err)
		return noop, nil
	}

	processor := sdktrace.NewBatchSpanProcessor(exporter)
	tracing.TracerProvider().RegisterSpanProcessor(processor)

	slog.Debug("OTLP tracing enabled",
		"endpoint", cfg.Endpoint,
		"service", cfg.ServiceName,
		"environment", cfg.Environment,
	)

	return tracing.TracerProvider().Shutdown, nil
}
