package rx

// Sink receives the events of a Source. It owns a Disposable: everything a
// subscription creates on its behalf hangs below it.
type Sink[T any] interface {
	Disposable
	Emit(event Event[T])
}

type sink[T any] struct {
	*disposable
	onEvent func(event Event[T])
}

// NewSink wraps onEvent with a fresh Disposable and the delivery guard:
// events are dropped once the sink is inactive, a terminal event disposes
// the sink before onEvent sees it, and a panic in onEvent is reported
// asynchronously and disposes the sink.
func NewSink[T any](onEvent func(event Event[T])) Sink[T] {
	return &sink[T]{
		disposable: newDisposable(nil),
		onEvent:    onEvent,
	}
}

func (s *sink[T]) Emit(event Event[T]) {
	if !s.active {
		return
	}

	if event.IsTerminal() {
		dispose(s.disposable)
	}

	if err := try(func() { s.onEvent(event) }); err != nil {
		ReportError(err)
		dispose(s.disposable)
	}
}

// Handlers is a convenience for building a Sink from per-kind callbacks.
// Nil callbacks are skipped.
type Handlers[T any] struct {
	OnPush  func(value T)
	OnThrow func(err error)
	OnEnd   func()
}

// SinkOf builds a Sink from handlers.
func SinkOf[T any](h Handlers[T]) Sink[T] {
	return NewSink(func(event Event[T]) {
		switch event.Kind() {
		case KindPush:
			if h.OnPush != nil {
				h.OnPush(event.Value())
			}
		case KindThrow:
			if h.OnThrow != nil {
				h.OnThrow(event.Err())
			}
		case KindEnd:
			if h.OnEnd != nil {
				h.OnEnd()
			}
		}
	})
}
