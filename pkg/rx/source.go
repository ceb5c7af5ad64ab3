package rx

// Source produces events into the Sink it is subscribed with. A Source is
// stateless; each subscription is independent.
type Source[T any] func(sink Sink[T])

// Subscribe starts the source with sink.
func (s Source[T]) Subscribe(sink Sink[T]) {
	s(sink)
}

// Operator transforms one Source into another.
type Operator[T, U any] func(source Source[T]) Source[U]

// NewSource wraps subscribe with the subscription guard. Inactive sinks are
// ignored. A panic raised while subscribing is delivered to the sink as a
// Throw, or reported asynchronously when the sink is no longer active.
func NewSource[T any](subscribe func(sink Sink[T])) Source[T] {
	return func(sink Sink[T]) {
		if !sink.Active() {
			return
		}

		err := try(func() { subscribe(sink) })
		if err == nil {
			return
		}

		var active bool
		// Checking a sink can itself panic when a custom Sink disposes
		// itself lazily; the original error must not be lost then.
		if innerErr := try(func() { active = sink.Active() }); innerErr != nil {
			ReportError(err)
			panic(innerErr)
		}

		if active {
			sink.Emit(Throw[T](err))
		} else {
			ReportError(err)
		}
	}
}

// Subscribe returns a function that subscribes sink to the source it is
// given, for use at the end of a Pipe.
func Subscribe[T any](sink Sink[T]) func(source Source[T]) {
	return func(source Source[T]) {
		source(sink)
	}
}
