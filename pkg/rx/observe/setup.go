package observe

import (
	"context"
	"errors"
	"fmt"

	"github.com/ib-77/rxpush/pkg/rx/config"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry owns the meter and tracer providers built by Setup.
type Telemetry struct {
	MeterProvider  *sdkmetric.MeterProvider
	TracerProvider *sdktrace.TracerProvider
}

// Setup builds OpenTelemetry providers from cfg and installs them as the
// global providers. Spans and metrics are exported over OTLP/HTTP when
// cfg.Endpoint is set; otherwise they are recorded but not exported.
func Setup(ctx context.Context, cfg config.Telemetry, logger zerolog.Logger) (*Telemetry, error) {
	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
		attribute.String("environment", cfg.Environment),
	)

	meterOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	traceOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRate)),
	}

	if cfg.Endpoint != "" {
		metricExporter, err := newMetricExporter(ctx, cfg)
		if err != nil {
			return nil, err
		}
		readerOpts := []sdkmetric.PeriodicReaderOption{}
		if cfg.Interval > 0 {
			readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
		}
		meterOpts = append(meterOpts,
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter, readerOpts...)))

		traceExporter, err := newTraceExporter(ctx, cfg)
		if err != nil {
			return nil, errors.Join(err, metricExporter.Shutdown(ctx))
		}
		traceOpts = append(traceOpts, sdktrace.WithBatcher(traceExporter))
	}

	t := &Telemetry{
		MeterProvider:  sdkmetric.NewMeterProvider(meterOpts...),
		TracerProvider: sdktrace.NewTracerProvider(traceOpts...),
	}

	otel.SetMeterProvider(t.MeterProvider)
	otel.SetTracerProvider(t.TracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info().
		Str("service", cfg.ServiceName).
		Str("endpoint", cfg.Endpoint).
		Float64("sample_rate", cfg.SampleRate).
		Msg("telemetry initialized")

	return t, nil
}

func newMetricExporter(ctx context.Context, cfg config.Telemetry) (sdkmetric.Exporter, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}
	return exporter, nil
}

func newTraceExporter(ctx context.Context, cfg config.Telemetry) (sdktrace.SpanExporter, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}
	return exporter, nil
}

func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

// Metrics creates the stream instruments on the telemetry meter provider.
func (t *Telemetry) Metrics() (*Metrics, error) {
	return NewMetrics(t.MeterProvider.Meter(instrumentationName))
}

func (t *Telemetry) Tracer() trace.Tracer {
	return t.TracerProvider.Tracer(instrumentationName)
}

// Shutdown flushes and stops both providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return errors.Join(
		t.TracerProvider.Shutdown(ctx),
		t.MeterProvider.Shutdown(ctx),
	)
}
