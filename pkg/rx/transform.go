package rx

// pipeInto subscribes source with a new sink owned by sink, so disposing
// sink also tears down the upstream subscription.
func pipeInto[T, U any](source Source[T], sink Sink[U], onEvent func(event Event[T])) {
	sourceSink := NewSink(onEvent)
	sink.Add(sourceSink)
	source(sourceSink)
}

// Map applies transform to every pushed value. A panic in transform is
// delivered downstream as Throw.
func Map[T, U any](transform func(value T, index int) U) Operator[T, U] {
	return func(source Source[T]) Source[U] {
		return NewSource(func(sink Sink[U]) {
			idx := 0

			pipeInto(source, sink, func(event Event[T]) {
				if event.IsPush() {
					var transformed U
					if err := try(func() { transformed = transform(event.Value(), idx) }); err != nil {
						sink.Emit(Throw[U](err))
						return
					}
					idx++
					sink.Emit(Push(transformed))
					return
				}
				sink.Emit(EventFrom[T, U](event))
			})
		})
	}
}

// TryMap is Map for transforms that can fail; a returned error is
// delivered as Throw.
func TryMap[T, U any](transform func(value T, index int) (U, error)) Operator[T, U] {
	return func(source Source[T]) Source[U] {
		return NewSource(func(sink Sink[U]) {
			idx := 0

			pipeInto(source, sink, func(event Event[T]) {
				if event.IsPush() {
					var (
						transformed U
						err         error
					)
					if perr := try(func() { transformed, err = transform(event.Value(), idx) }); perr != nil {
						err = perr
					}
					idx++
					if err != nil {
						sink.Emit(Throw[U](err))
						return
					}
					sink.Emit(Push(transformed))
					return
				}
				sink.Emit(EventFrom[T, U](event))
			})
		})
	}
}

func MapTo[T, U any](value U) Operator[T, U] {
	return Map(func(T, int) U { return value })
}

// MapEvents rewrites every event, terminal ones included. If a terminal
// event is rewritten into a Push, End follows it.
func MapEvents[T, U any](transform func(event Event[T], index int) Event[U]) Operator[T, U] {
	return func(source Source[T]) Source[U] {
		return NewSource(func(sink Sink[U]) {
			idx := 0

			pipeInto(source, sink, func(event Event[T]) {
				var newEvent Event[U]
				if err := try(func() { newEvent = transform(event, idx) }); err != nil {
					sink.Emit(Throw[U](err))
					return
				}
				idx++
				sink.Emit(newEvent)
				if event.IsTerminal() {
					sink.Emit(End[U]())
				}
			})
		})
	}
}

// WrapInPushEvents turns every event, terminal ones included, into a Push
// carrying it.
func WrapInPushEvents[T any]() Operator[T, Event[T]] {
	return MapEvents(func(event Event[T], _ int) Event[Event[T]] {
		return Push(event)
	})
}

func UnwrapFromWrappedPushEvents[T any]() Operator[Event[T], T] {
	return MapEvents(func(event Event[Event[T]], _ int) Event[T] {
		if event.IsPush() {
			return event.Value()
		}
		return EventFrom[Event[T], T](event)
	})
}

func Pluck[K comparable, V any](key K) Operator[map[K]V, V] {
	return Map(func(value map[K]V, _ int) V {
		return value[key]
	})
}

// Filter passes through the Push events whose value satisfies predicate.
func Filter[T any](predicate func(value T, index int) bool) Operator[T, T] {
	return func(source Source[T]) Source[T] {
		return NewSource(func(sink Sink[T]) {
			idx := 0

			pipeInto(source, sink, func(event Event[T]) {
				if event.IsPush() {
					var pass bool
					if err := try(func() { pass = predicate(event.Value(), idx) }); err != nil {
						sink.Emit(Throw[T](err))
						return
					}
					idx++
					if !pass {
						return
					}
				}
				sink.Emit(event)
			})
		})
	}
}

// Scan emits the running accumulation after every Push.
func Scan[T, R any](transform func(accumulated R, value T, index int) R, initial R) Operator[T, R] {
	return func(source Source[T]) Source[R] {
		return NewSource(func(sink Sink[R]) {
			accumulated := initial
			idx := 0

			pipeInto(source, sink, func(event Event[T]) {
				if event.IsPush() {
					if err := try(func() { accumulated = transform(accumulated, event.Value(), idx) }); err != nil {
						sink.Emit(Throw[R](err))
						return
					}
					idx++
					sink.Emit(Push(accumulated))
					return
				}
				sink.Emit(EventFrom[T, R](event))
			})
		})
	}
}

// Reduce emits the final accumulation once the source ends.
func Reduce[T, R any](transform func(accumulated R, value T, index int) R, initial R) Operator[T, R] {
	return Compose(Scan(transform, initial), Last[R]())
}

func StartWith[T any](values ...T) Operator[T, T] {
	return func(source Source[T]) Source[T] {
		return NewSource(func(sink Sink[T]) {
			pushSliceToSink(values, sink)
			source(sink)
		})
	}
}

func EndWith[T any](values ...T) Operator[T, T] {
	return func(source Source[T]) Source[T] {
		return NewSource(func(sink Sink[T]) {
			pipeInto(source, sink, func(event Event[T]) {
				if event.IsEnd() {
					pushSliceToSink(values, sink)
				}
				sink.Emit(event)
			})
		})
	}
}

// Spy calls onEvent for every event before forwarding it unchanged. A panic
// in onEvent is delivered as Throw instead.
func Spy[T any](onEvent func(event Event[T])) Operator[T, T] {
	return func(source Source[T]) Source[T] {
		return NewSource(func(sink Sink[T]) {
			pipeInto(source, sink, func(event Event[T]) {
				if err := try(func() { onEvent(event) }); err != nil {
					sink.Emit(Throw[T](err))
					return
				}
				sink.Emit(event)
			})
		})
	}
}

func SpyPush[T any](onPush func(value T, index int)) Operator[T, T] {
	return func(source Source[T]) Source[T] {
		return NewSource(func(sink Sink[T]) {
			idx := 0

			Spy(func(event Event[T]) {
				if event.IsPush() {
					i := idx
					idx++
					onPush(event.Value(), i)
				}
			})(source)(sink)
		})
	}
}

func SpyThrow[T any](onThrow func(err error)) Operator[T, T] {
	return Spy(func(event Event[T]) {
		if event.IsThrow() {
			onThrow(event.Err())
		}
	})
}

func SpyEnd[T any](onEnd func()) Operator[T, T] {
	return Spy(func(event Event[T]) {
		if event.IsEnd() {
			onEnd()
		}
	})
}

// IsEmpty emits a single bool: true when the source ended without pushing.
func IsEmpty[T any]() Operator[T, bool] {
	return func(source Source[T]) Source[bool] {
		return NewSource(func(sink Sink[bool]) {
			pipeInto(source, sink, func(event Event[T]) {
				if event.IsThrow() {
					sink.Emit(EventFrom[T, bool](event))
					return
				}
				sink.Emit(Push(event.IsEnd()))
				sink.Emit(End[bool]())
			})
		})
	}
}

// DefaultIfEmpty pushes getDefault() before End when the source pushed
// nothing.
func DefaultIfEmpty[T any](getDefault func() T) Operator[T, T] {
	return func(source Source[T]) Source[T] {
		return NewSource(func(sink Sink[T]) {
			empty := true

			pipeInto(source, sink, func(event Event[T]) {
				if event.IsPush() {
					empty = false
				} else if event.IsEnd() && empty {
					var value T
					if err := try(func() { value = getDefault() }); err != nil {
						sink.Emit(Throw[T](err))
						return
					}
					sink.Emit(Push(value))
				}
				sink.Emit(event)
			})
		})
	}
}

// ThrowIfEmpty throws getError() when the source ends without pushing. A nil
// getError throws ErrEmpty.
func ThrowIfEmpty[T any](getError func() error) Operator[T, T] {
	return func(source Source[T]) Source[T] {
		return NewSource(func(sink Sink[T]) {
			empty := true

			pipeInto(source, sink, func(event Event[T]) {
				if event.IsPush() {
					empty = false
				} else if event.IsEnd() && empty {
					err := ErrEmpty
					if getError != nil {
						if perr := try(func() { err = getError() }); perr != nil {
							err = perr
						}
					}
					sink.Emit(Throw[T](err))
					return
				}
				sink.Emit(event)
			})
		})
	}
}

// CatchError replaces a Throw with the events of getNewSource(err). The
// replacement is itself guarded, so a later Throw recovers again.
func CatchError[T any](getNewSource func(err error) Source[T]) Operator[T, T] {
	return func(source Source[T]) Source[T] {
		return NewSource(func(sink Sink[T]) {
			var onEvent func(event Event[T])
			onEvent = func(event Event[T]) {
				if event.IsThrow() {
					var newSource Source[T]
					if err := try(func() { newSource = getNewSource(event.Err()) }); err != nil {
						sink.Emit(Throw[T](err))
						return
					}
					pipeInto(newSource, sink, onEvent)
					return
				}
				sink.Emit(event)
			}

			pipeInto(source, sink, onEvent)
		})
	}
}
