// Package observes sets up process wide tracing and error reporting.
package observes

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

// TracerOption configures the exported spans. Revision, when known, is
// attached to every span as vcs.revision.
type TracerOption struct {
	URL                string
	Name               string
	Version            string
	Revision           string
	Environment        string
	SamplingRate       float64
	BatchTimeout       time.Duration
	ExportTimeout      time.Duration
	MaxExportBatchSize int
}

// NewTracer installs an OTLP gRPC exporting tracer provider. The returned
// func flushes pending spans and shuts the provider down.
func NewTracer(opt *TracerOption) (func(context.Context) error, error) {
	if opt == nil {
		return nil, fmt.Errorf("tracer config is nil")
	}
	if opt.URL == "" {
		return nil, fmt.Errorf("tracer endpoint is empty")
	}

	exp, err := otlptracegrpc.New(
		context.Background(),
		otlptracegrpc.WithEndpoint(opt.URL),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	attrs := []attribute.KeyValue{
		semconv.ServiceNameKey.String(opt.Name),
		semconv.ServiceVersionKey.String(opt.Version),
		semconv.DeploymentEnvironmentKey.String(opt.Environment),
	}
	if opt.Revision != "" && opt.Revision != "unknown" {
		attrs = append(attrs, attribute.String("vcs.revision", opt.Revision))
	}
	res, err := resource.New(context.Background(), resource.WithAttributes(attrs...))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(opt.SamplingRate))),
		sdktrace.WithBatcher(exp,
			sdktrace.WithMaxExportBatchSize(opt.MaxExportBatchSize),
			sdktrace.WithBatchTimeout(opt.BatchTimeout),
			sdktrace.WithExportTimeout(opt.ExportTimeout),
		),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	return tp.Shutdown, nil
}
