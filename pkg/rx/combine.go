package rx

// CombineSources emits a snapshot of the latest value of every source each
// time one of them pushes, once all of them have pushed at least once.
// Throw and End from any source are forwarded immediately.
func CombineSources[T any](sources ...Source[T]) Source[[]T] {
	if len(sources) == 0 {
		return Empty[[]T]()
	}
	return NewSource(func(sink Sink[[]T]) {
		values := make([]T, len(sources))
		has := make([]bool, len(sources))
		responded := 0

		for i := 0; sink.Active() && i < len(sources); i++ {
			pipeInto(sources[i], sink, func(event Event[T]) {
				if event.IsPush() {
					if !has[i] {
						has[i] = true
						responded++
					}
					values[i] = event.Value()
					if responded == len(sources) {
						sink.Emit(Push(append([]T(nil), values...)))
					}
					return
				}
				sink.Emit(EventFrom[T, []T](event))
			})
		}
	})
}

// ZipSources pairs values by position: the n-th emission holds the n-th
// value of every source. The stream ends as soon as a source has ended and
// its buffered values are used up.
func ZipSources[T any](sources ...Source[T]) Source[[]T] {
	if len(sources) == 0 {
		return Empty[[]T]()
	}
	return NewSource(func(sink Sink[[]T]) {
		type zipInfo struct {
			ended  bool
			values []T
		}
		infos := make([]*zipInfo, len(sources))
		hasValueCount := 0
		completedWithNoValues := false

		for i := 0; sink.Active() && i < len(sources); i++ {
			info := &zipInfo{}
			infos[i] = info

			pipeInto(sources[i], sink, func(event Event[T]) {
				if completedWithNoValues {
					return
				}

				if event.IsPush() {
					if len(info.values) == 0 {
						hasValueCount++
					}
					info.values = append(info.values, event.Value())

					if hasValueCount == len(sources) {
						zipped := make([]T, 0, len(sources))
						for _, other := range infos {
							zipped = append(zipped, other.values[0])
							other.values = other.values[1:]
							if len(other.values) == 0 {
								if other.ended {
									completedWithNoValues = true
								}
								hasValueCount--
							}
						}

						sink.Emit(Push(zipped))

						if completedWithNoValues {
							sink.Emit(End[[]T]())
						}
					}
					return
				}

				if event.IsEnd() && len(info.values) != 0 {
					info.ended = true
					return
				}

				sink.Emit(EventFrom[T, []T](event))
			})
		}
	})
}

// RaceSources mirrors the first source to push. The other subscriptions are
// disposed at that moment.
func RaceSources[T any](sources ...Source[T]) Source[T] {
	if len(sources) == 0 {
		return Empty[T]()
	}
	return NewSource(func(sink Sink[T]) {
		candidates := NewDisposable(nil)
		sink.Add(candidates)
		won := false

		for i := 0; sink.Active() && i < len(sources); i++ {
			var sourceSink Sink[T]
			sourceSink = NewSink(func(event Event[T]) {
				if !won && event.IsPush() {
					won = true
					candidates.Remove(sourceSink)
					sink.Add(sourceSink)
					dispose(candidates)
				}
				sink.Emit(event)
			})

			candidates.Add(sourceSink)
			sources[i](sourceSink)
		}
	})
}

func CombineWith[T any](sources ...Source[T]) Operator[T, []T] {
	return func(source Source[T]) Source[[]T] {
		return CombineSources(append([]Source[T]{source}, sources...)...)
	}
}

func ZipWith[T any](sources ...Source[T]) Operator[T, []T] {
	return func(source Source[T]) Source[[]T] {
		return ZipSources(append([]Source[T]{source}, sources...)...)
	}
}

func RaceWith[T any](sources ...Source[T]) Operator[T, T] {
	return func(source Source[T]) Source[T] {
		return RaceSources(append([]Source[T]{source}, sources...)...)
	}
}
