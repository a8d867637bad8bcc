package observability

import (
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/observability/metrics"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/observability/tracing"
	"go.opentelemetry.io/otel/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		provideTracingConfig,
		tracing.NewProvider,
		provideMetricsConfig,
		metrics.NewProvider,
	),
	fx.Invoke(ensureTracingProvider),
	fx.Invoke(ensureMeterProvider),
	fx.Invoke(ensureReportingMetrics),
)

func ensureTracingProvider(_ *sdktrace.TracerProvider) {}

func ensureMeterProvider(_ metric.MeterProvider) {}

func ensureReportingMetrics() {
	metrics.Reporting()
}

func provideTracingConfig(cfg Config) tracing.Config {
	return tracing.Config{
		Enabled:          cfg.OtelEnabled,
		ServiceName:      cfg.ServiceName,
		ServiceVersion:   cfg.Version,
		Environment:      cfg.Environment,
		ExporterEndpoint: cfg.OtelExporterEndpoint,
		ExporterProtocol: cfg.OtelExporterProtocol,
		SamplingRatio:    cfg.OtelSamplingRatio,
	}
}

func provideMetricsConfig(cfg Config) metrics.Config {
	return metrics.Config{
		Enabled:          cfg.OtelEnabled,
		ExporterEndpoint: cfg.OtelExporterEndpoint,
		ExporterProtocol: cfg.OtelExporterProtocol,
		ServiceName:      cfg.ServiceName,
		Environment:      cfg.Environment,
	}
}
