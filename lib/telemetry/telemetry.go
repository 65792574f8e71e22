// Package telemetry wires OpenTelemetry tracing and metrics plus the slog
// default logger for every binary and test in this repository.
package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace"
)

type providers struct {
	tracer *trace.TracerProvider
	meter  *metric.MeterProvider
}

var active providers

// Setup installs global tracer and meter providers that export over OTLP
// as described by the config.
func Setup(ctx context.Context, serviceName string, cfg config) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	r, err := newResource(serviceName)
	if err != nil {
		return err
	}

	tracerProvider, err := newTraceProvider(ctx, r, cfg)
	if err != nil {
		return err
	}
	otel.SetTracerProvider(tracerProvider)

	meterProvider, err := newMetricProvider(ctx, r, cfg)
	if err != nil {
		return err
	}
	otel.SetMeterProvider(meterProvider)

	active = providers{tracer: tracerProvider, meter: meterProvider}
	return nil
}

// Shutdown flushes and stops the providers Setup installed. Safe to call
// when Setup never ran.
func Shutdown(ctx context.Context) error {
	var errlist []error
	if active.tracer != nil {
		err := active.tracer.Shutdown(ctx)
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	if active.meter != nil {
		err := active.meter.Shutdown(ctx)
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	active = providers{}
	return errors.Join(errlist...)
}

// InitSlog replaces the default logger with a tint handler on stderr.
// Verbose enables debug records.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
}
