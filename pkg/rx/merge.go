package rx

// Unbounded is the concurrency limit meaning "no limit".
const Unbounded = 0

func mergeMapOperator[T, U any](transform func(value T, index int) Source[U], maxConcurrent int,
	feedback func(value U) T) Operator[T, U] {
	return func(source Source[T]) Source[U] {
		return NewSource(func(sink Sink[U]) {
			var (
				queued    []T
				completed bool
				active    int
				idx       int
			)

			var onPush func(value T)

			transformPush := func(value T) {
				var inner Source[U]
				if err := try(func() { inner = transform(value, idx) }); err != nil {
					sink.Emit(Throw[U](err))
					return
				}
				idx++

				var innerSink Sink[U]
				innerSink = NewSink(func(event Event[U]) {
					if event.IsPush() {
						sink.Emit(event)
						if feedback != nil && sink.Active() {
							onPush(feedback(event.Value()))
						}
						return
					}

					if event.IsEnd() {
						active--
						sink.Remove(innerSink)

						if len(queued) > 0 {
							next := queued[0]
							queued = queued[1:]
							onPush(next)
							return
						}
						if active != 0 || !completed {
							return
						}
					}

					sink.Emit(event)
				})

				active++
				sink.Add(innerSink)
				inner(innerSink)
			}

			onPush = func(value T) {
				if maxConcurrent <= Unbounded || active < maxConcurrent {
					transformPush(value)
					return
				}
				queued = append(queued, value)
			}

			pipeInto(source, sink, func(event Event[T]) {
				if event.IsPush() {
					onPush(event.Value())
					return
				}

				if event.IsEnd() {
					completed = true
					if len(queued) != 0 || active != 0 {
						return
					}
				}

				sink.Emit(EventFrom[T, U](event))
			})
		})
	}
}

// MergeMap subscribes to transform(value) for every pushed value, running at
// most maxConcurrent inner sources at once (Unbounded for no limit) and
// queueing the rest in push order. The merged stream ends once the source
// and every inner source have ended. A Throw anywhere terminates it.
func MergeMap[T, U any](transform func(value T, index int) Source[U], maxConcurrent int) Operator[T, U] {
	return mergeMapOperator(transform, maxConcurrent, nil)
}

// ExpandMap is MergeMap where every inner value is emitted and then fed
// back through transform, recursively.
func ExpandMap[T any](transform func(value T, index int) Source[T], maxConcurrent int) Operator[T, T] {
	return mergeMapOperator(transform, maxConcurrent, func(v T) T { return v })
}

func identitySource[T any](source Source[T], _ int) Source[T] {
	return source
}

func MergeConcurrent[T any](maxConcurrent int) Operator[Source[T], T] {
	return MergeMap(identitySource[T], maxConcurrent)
}

func Merge[T any]() Operator[Source[T], T] {
	return MergeConcurrent[T](Unbounded)
}

// Concat runs the inner sources one at a time, in push order.
func Concat[T any]() Operator[Source[T], T] {
	return MergeConcurrent[T](1)
}

// Flat flattens a source of sources without a concurrency limit.
func Flat[T any]() Operator[Source[T], T] {
	return Merge[T]()
}

func FlatMap[T, U any](transform func(value T, index int) Source[U]) Operator[T, U] {
	return Compose(Map(transform), Flat[U]())
}

func ConcatMap[T, U any](transform func(value T, index int) Source[U]) Operator[T, U] {
	return MergeMap(transform, 1)
}

func switchOperator[T any](overrideCurrent bool) Operator[Source[T], T] {
	return func(source Source[Source[T]]) Source[T] {
		return NewSource(func(sink Sink[T]) {
			var (
				completed bool
				innerSink Sink[T]
			)

			onInnerEvent := func(event Event[T]) {
				if event.IsEnd() && !completed {
					return
				}
				sink.Emit(event)
			}

			pipeInto(source, sink, func(event Event[Source[T]]) {
				if event.IsPush() {
					if innerSink != nil && innerSink.Active() {
						if !overrideCurrent {
							return
						}
						sink.Remove(innerSink)
						dispose(innerSink)
					} else if innerSink != nil {
						sink.Remove(innerSink)
					}

					innerSink = NewSink(onInnerEvent)
					sink.Add(innerSink)
					event.Value()(innerSink)
					return
				}

				if event.IsEnd() {
					completed = true
					if innerSink != nil && innerSink.Active() {
						return
					}
				}

				sink.Emit(EventFrom[Source[T], T](event))
			})
		})
	}
}

// SwitchEach follows only the latest inner source, disposing the previous
// one before subscribing the next.
func SwitchEach[T any]() Operator[Source[T], T] {
	return switchOperator[T](true)
}

// ConcatDrop ignores inner sources that arrive while one is still running.
func ConcatDrop[T any]() Operator[Source[T], T] {
	return switchOperator[T](false)
}

func SwitchMap[T, U any](transform func(value T, index int) Source[U]) Operator[T, U] {
	return Compose(Map(transform), SwitchEach[U]())
}

func ConcatDropMap[T, U any](transform func(value T, index int) Source[U]) Operator[T, U] {
	return Compose(Map(transform), ConcatDrop[U]())
}

func FlatSources[T any](sources ...Source[T]) Source[T] {
	return Flat[T]()(FromSlice(sources))
}

func MergeSourcesConcurrent[T any](maxConcurrent int, sources ...Source[T]) Source[T] {
	return MergeConcurrent[T](maxConcurrent)(FromSlice(sources))
}

func MergeSources[T any](sources ...Source[T]) Source[T] {
	return Merge[T]()(FromSlice(sources))
}

func ConcatSources[T any](sources ...Source[T]) Source[T] {
	return Concat[T]()(FromSlice(sources))
}

func FlatWith[T any](sources ...Source[T]) Operator[T, T] {
	return func(source Source[T]) Source[T] {
		return FlatSources(append([]Source[T]{source}, sources...)...)
	}
}

func MergeWithConcurrent[T any](maxConcurrent int, sources ...Source[T]) Operator[T, T] {
	return func(source Source[T]) Source[T] {
		return MergeSourcesConcurrent(maxConcurrent, append([]Source[T]{source}, sources...)...)
	}
}

func MergeWith[T any](sources ...Source[T]) Operator[T, T] {
	return func(source Source[T]) Source[T] {
		return MergeSources(append([]Source[T]{source}, sources...)...)
	}
}

func ConcatWith[T any](sources ...Source[T]) Operator[T, T] {
	return func(source Source[T]) Source[T] {
		return ConcatSources(append([]Source[T]{source}, sources...)...)
	}
}
