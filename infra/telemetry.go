package infra

import (
	"context"
	"log"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/Jason-Gitau/jkuat-course-hub/config"
)

type TelemetryClient struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *metric.MeterProvider
}

func newResource(cfg *config.EnvConfig) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.Grafana.ServiceName),
		semconv.DeploymentEnvironment(cfg.Environment.Mode),
	)
}

// InitTelemetry wires tracing, metrics and runtime instrumentation against
// the configured OTLP endpoint. Returns nil when no endpoint is set; every
// caller must treat a nil client as telemetry-off.
func InitTelemetry(cfg *config.EnvConfig) *TelemetryClient {
	if cfg.Grafana.OTLPEndpoint == "" {
		return nil
	}
	ctx := context.Background()

	traceExporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Grafana.OTLPEndpoint),
	)
	if err != nil {
		log.Printf("Warning: OTLP trace exporter init failed: %v", err)
		return nil
	}

	metricExporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(cfg.Grafana.OTLPEndpoint),
	)
	if err != nil {
		log.Printf("Warning: OTLP metric exporter init failed: %v", err)
		return nil
	}

	res := newResource(cfg)

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)

	meterProvider := metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(metricExporter)),
		metric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	if err := runtime.Start(runtime.WithMeterProvider(meterProvider)); err != nil {
		log.Printf("Warning: runtime metrics init failed: %v", err)
	}

	return &TelemetryClient{tracerProvider: tracerProvider, meterProvider: meterProvider}
}

func (t *TelemetryClient) Shutdown(ctx context.Context) {
	if t == nil {
		return
	}
	if err := t.tracerProvider.Shutdown(ctx); err != nil {
		log.Printf("Warning: tracer provider shutdown: %v", err)
	}
	if err := t.meterProvider.Shutdown(ctx); err != nil {
		log.Printf("Warning: meter provider shutdown: %v", err)
	}
}
