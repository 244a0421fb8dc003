package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace"
)

type providers struct {
	tracerProvider *trace.TracerProvider
	meterProvider  *metric.MeterProvider
}

var active *providers

// Setup installs global OTLP trace and metric providers according to the
// given config. It is a no-op when no exporter endpoints are configured,
// which keeps one-shot CLI runs from blocking on a collector that isn't
// there.
func Setup(ctx context.Context, serviceName string, config Config) error {
	if config.Otlp.Traces.isZero() && config.Otlp.Metrics.isZero() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	r, err := newResource(serviceName)
	if err != nil {
		return err
	}

	tracerProvider, err := newTraceProvider(ctx, r, config)
	if err != nil {
		return err
	}
	otel.SetTracerProvider(tracerProvider)

	meterProvider, err := newMetricProvider(ctx, r, config)
	if err != nil {
		return err
	}
	otel.SetMeterProvider(meterProvider)

	active = &providers{
		tracerProvider: tracerProvider,
		meterProvider:  meterProvider,
	}
	return nil
}

func Shutdown(ctx context.Context) error {
	if active == nil {
		return nil
	}
	var errlist []error
	if err := active.tracerProvider.Shutdown(ctx); err != nil {
		errlist = append(errlist, err)
	}
	if err := active.meterProvider.Shutdown(ctx); err != nil {
		errlist = append(errlist, err)
	}
	active = nil
	return errors.Join(errlist...)
}
