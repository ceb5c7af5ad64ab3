package rx

func toEmpty[T any](Source[T]) Source[T] {
	return Empty[T]()
}

// Take forwards the first amount pushes and then ends, which disposes the
// upstream subscription.
func Take[T any](amount int) Operator[T, T] {
	if amount < 1 {
		return toEmpty[T]
	}
	return func(source Source[T]) Source[T] {
		return NewSource(func(sink Sink[T]) {
			count := 0

			pipeInto(source, sink, func(event Event[T]) {
				// Reentrant delivery after the last wanted value.
				if count >= amount {
					return
				}
				if event.IsPush() {
					count++
				}
				sink.Emit(event)
				if count >= amount {
					sink.Emit(End[T]())
				}
			})
		})
	}
}

func First[T any]() Operator[T, T] {
	return Take[T](1)
}

// TakeWhile ends the stream, in place of the offending Push, as soon as
// shouldContinue returns false.
func TakeWhile[T any](shouldContinue func(value T, index int) bool) Operator[T, T] {
	return func(source Source[T]) Source[T] {
		return NewSource(func(sink Sink[T]) {
			idx := 0

			pipeInto(source, sink, func(event Event[T]) {
				if event.IsPush() {
					var keepGoing bool
					if err := try(func() { keepGoing = shouldContinue(event.Value(), idx) }); err != nil {
						sink.Emit(Throw[T](err))
						return
					}
					idx++
					if !keepGoing {
						sink.Emit(End[T]())
						return
					}
				}
				sink.Emit(event)
			})
		})
	}
}

// TakeLast holds back every Push and, when the source ends, emits the last
// amount of them followed by End.
func TakeLast[T any](amount int) Operator[T, T] {
	if amount < 1 {
		return toEmpty[T]
	}
	return func(source Source[T]) Source[T] {
		return NewSource(func(sink Sink[T]) {
			pushEvents := make([]Event[T], 0, amount)
			done := false

			pipeInto(source, sink, func(event Event[T]) {
				if done {
					return
				}

				if event.IsPush() {
					if len(pushEvents) >= amount {
						pushEvents = pushEvents[1:]
					}
					pushEvents = append(pushEvents, event)
					return
				}

				if event.IsEnd() {
					done = true
					held := pushEvents
					pushEvents = nil
					for _, e := range held {
						sink.Emit(e)
					}
				}

				sink.Emit(event)
			})
		})
	}
}

func Last[T any]() Operator[T, T] {
	return TakeLast[T](1)
}

// TakeUntil ends the stream when stopSource pushes or ends; a Throw from
// stopSource is forwarded.
func TakeUntil[T, S any](stopSource Source[S]) Operator[T, T] {
	return func(source Source[T]) Source[T] {
		return NewSource(func(sink Sink[T]) {
			stopSink := NewSink(func(event Event[S]) {
				if event.IsThrow() {
					sink.Emit(EventFrom[S, T](event))
					return
				}
				sink.Emit(End[T]())
			})

			sink.Add(stopSink)
			stopSource(stopSink)
			source(sink)
		})
	}
}

func Skip[T any](amount int) Operator[T, T] {
	return func(source Source[T]) Source[T] {
		return NewSource(func(sink Sink[T]) {
			count := 0

			pipeInto(source, sink, func(event Event[T]) {
				if event.IsPush() {
					count++
					if count <= amount {
						return
					}
				}
				sink.Emit(event)
			})
		})
	}
}

func SkipWhile[T any](shouldContinueSkipping func(value T, index int) bool) Operator[T, T] {
	return func(source Source[T]) Source[T] {
		return NewSource(func(sink Sink[T]) {
			skipping := true
			idx := 0

			pipeInto(source, sink, func(event Event[T]) {
				if event.IsPush() && skipping {
					if err := try(func() { skipping = shouldContinueSkipping(event.Value(), idx) }); err != nil {
						sink.Emit(Throw[T](err))
						return
					}
					idx++
					if skipping {
						return
					}
				}
				sink.Emit(event)
			})
		})
	}
}

// SkipLast delays every Push by amount positions, dropping the final amount
// values.
func SkipLast[T any](amount int) Operator[T, T] {
	if amount < 1 {
		return func(source Source[T]) Source[T] { return source }
	}
	return func(source Source[T]) Source[T] {
		return NewSource(func(sink Sink[T]) {
			pushEvents := make([]Event[T], amount)
			count := 0

			pipeInto(source, sink, func(event Event[T]) {
				if event.IsPush() {
					idx := count
					count++

					if idx < amount {
						pushEvents[idx] = event
						return
					}

					idx %= amount
					previous := pushEvents[idx]
					pushEvents[idx] = event
					sink.Emit(previous)
					return
				}

				sink.Emit(event)
			})
		})
	}
}

// SkipUntil drops pushes until stopSource pushes or ends.
func SkipUntil[T, S any](stopSource Source[S]) Operator[T, T] {
	return func(source Source[T]) Source[T] {
		return NewSource(func(sink Sink[T]) {
			skip := true

			var stopSink Sink[S]
			stopSink = NewSink(func(event Event[S]) {
				if event.IsThrow() {
					sink.Emit(EventFrom[S, T](event))
					return
				}
				skip = false
				dispose(stopSink)
			})

			sourceSink := NewSink(func(event Event[T]) {
				if event.IsPush() && skip {
					return
				}
				sink.Emit(event)
			})

			sink.Add(stopSink)
			sink.Add(sourceSink)
			stopSource(stopSink)
			source(sourceSink)
		})
	}
}
