package observe

import (
	"errors"

	"github.com/google/uuid"
	"github.com/ib-77/rxpush/pkg/rx"
	"github.com/rs/zerolog"
)

// Log logs every subscription to the source and each event passing through
// it. Pushes and End go to debug, Throw to error. A subscription cancelled
// before its terminal event is logged as unsubscribed.
func Log[T any](logger zerolog.Logger, name string) rx.Operator[T, T] {
	return func(source rx.Source[T]) rx.Source[T] {
		return rx.NewSource(func(sink rx.Sink[T]) {
			l := logger.With().
				Str("stream", name).
				Str("subscription_id", uuid.NewString()).
				Logger()

			l.Debug().Msg("subscribed")

			terminated := false
			index := 0
			sink.Add(rx.NewDisposable(func() {
				if !terminated {
					l.Debug().Int("pushed", index).Msg("unsubscribed")
				}
			}))

			inner := rx.NewSink(func(event rx.Event[T]) {
				switch event.Kind() {
				case rx.KindPush:
					l.Debug().Int("index", index).Interface("value", event.Value()).Msg("push")
					index++
				case rx.KindThrow:
					terminated = true
					l.Error().Err(event.Err()).Int("pushed", index).Msg("throw")
				case rx.KindEnd:
					terminated = true
					l.Debug().Int("pushed", index).Msg("end")
				}
				sink.Emit(event)
			})
			sink.Add(inner)
			source(inner)
		})
	}
}

// ErrorHandler returns an async error handler that logs through logger.
// Install it with rx.SetErrorHandler.
func ErrorHandler(logger zerolog.Logger) rx.ErrorHandler {
	return func(err error) {
		e := logger.Error().Err(err).Str("component", "rx")
		var panicErr *rx.PanicError
		if errors.As(err, &panicErr) {
			e = e.Bytes("stack", panicErr.Stack)
		}
		e.Msg("unhandled stream error")
	}
}
