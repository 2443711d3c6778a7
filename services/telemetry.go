package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/league-system/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/Dosada05/league-system/services"

// Observability bundles what every service logs, measures and traces with.
type Observability struct {
	Logger  *slog.Logger
	Metrics metrics.Recorder
	Tracer  trace.Tracer
}

func (o Observability) withDefaults() Observability {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Metrics == nil {
		o.Metrics = metrics.Noop{}
	}
	if o.Tracer == nil {
		o.Tracer = otel.Tracer(tracerName)
	}
	return o
}

// observe wraps op with a span, operation metrics and panic recovery.
func observe[T any](ctx context.Context, o Observability, operation string, fixtureID int, op func(context.Context) (T, error)) (result T, err error) {
	attrs := []attribute.KeyValue{attribute.String("operation", operation)}
	if fixtureID > 0 {
		attrs = append(attrs, attribute.Int("fixture_id", fixtureID))
	}
	ctx, span := o.Tracer.Start(ctx, operation, trace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operation, r)
			o.Logger.ErrorContext(ctx, "Critical panic recovered",
				slog.String("operation", operation),
				slog.Int("fixture_id", fixtureID),
				slog.Any("error", err),
			)
		}
		o.Metrics.RecordOperation(ctx, operation, time.Since(start), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	return op(ctx)
}
