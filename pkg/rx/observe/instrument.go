package observe

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ib-77/rxpush/pkg/rx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/ib-77/rxpush/pkg/rx/observe"

const (
	MetricEvents        = "rx.stream.events"
	MetricErrors        = "rx.stream.errors"
	MetricSubscriptions = "rx.stream.subscriptions.active"
)

// Metrics holds the instruments shared by every Instrument operator built
// from the same meter.
type Metrics struct {
	events        metric.Int64Counter
	errors        metric.Int64Counter
	subscriptions metric.Int64UpDownCounter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	events, err := meter.Int64Counter(MetricEvents,
		metric.WithDescription("Events delivered downstream, by stream and kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating events counter: %w", err)
	}

	errs, err := meter.Int64Counter(MetricErrors,
		metric.WithDescription("Streams terminated with an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating errors counter: %w", err)
	}

	subscriptions, err := meter.Int64UpDownCounter(MetricSubscriptions,
		metric.WithDescription("Subscriptions currently alive"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating subscriptions counter: %w", err)
	}

	return &Metrics{
		events:        events,
		errors:        errs,
		subscriptions: subscriptions,
	}, nil
}

// Instrument records every subscription to the source as a span named name
// and counts the events passing through it. The span ends when the
// subscription terminates or is cancelled; a Throw marks it as failed.
func Instrument[T any](m *Metrics, tracer trace.Tracer, name string) rx.Operator[T, T] {
	return func(source rx.Source[T]) rx.Source[T] {
		return rx.NewSource(func(sink rx.Sink[T]) {
			ctx := context.Background()
			stream := metric.WithAttributes(attribute.String("stream", name))

			_, span := tracer.Start(ctx, name, trace.WithAttributes(
				attribute.String("rx.stream", name),
				attribute.String("rx.subscription_id", uuid.NewString()),
			))
			m.subscriptions.Add(ctx, 1, stream)

			pushed := 0
			sink.Add(rx.NewDisposable(func() {
				m.subscriptions.Add(ctx, -1, stream)
				span.SetAttributes(attribute.Int("rx.pushed", pushed))
				span.End()
			}))

			inner := rx.NewSink(func(event rx.Event[T]) {
				m.events.Add(ctx, 1, metric.WithAttributes(
					attribute.String("stream", name),
					attribute.String("kind", event.Kind().String()),
				))
				switch event.Kind() {
				case rx.KindPush:
					pushed++
				case rx.KindThrow:
					m.errors.Add(ctx, 1, stream)
					span.RecordError(event.Err())
					span.SetStatus(codes.Error, event.Err().Error())
				case rx.KindEnd:
					span.SetStatus(codes.Ok, "")
				}
				sink.Emit(event)
			})
			sink.Add(inner)
			source(inner)
		})
	}
}
