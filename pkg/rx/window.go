package rx

// Window splits the source into consecutive windows. A window is opened on
// subscription and every time boundaries pushes; each window is emitted
// downstream as a Source as soon as it opens. The source's terminal event
// closes the current window and the stream.
func Window[T, B any](boundaries Source[B]) Operator[T, Source[T]] {
	return func(source Source[T]) Source[Source[T]] {
		return NewSource(func(sink Sink[Source[T]]) {
			currentWindow := NewSubject[T]()
			sink.Emit(Push(currentWindow.Source()))

			var boundariesSink Sink[B]

			sourceSink := NewSink(func(event Event[T]) {
				if !event.IsPush() {
					dispose(boundariesSink)
				}
				currentWindow.Emit(event)
				if !event.IsPush() {
					sink.Emit(EventFrom[T, Source[T]](event))
				}
			})

			boundariesSink = NewSink(func(event Event[B]) {
				if event.IsPush() {
					currentWindow.Emit(End[T]())
					currentWindow = NewSubject[T]()
					sink.Emit(Push(currentWindow.Source()))
					return
				}
				sink.Emit(EventFrom[B, Source[T]](event))
			})

			sink.Add(sourceSink)
			sink.Add(boundariesSink)
			source(sourceSink)
			boundaries(boundariesSink)
		})
	}
}

// WindowEach opens a new window every time the source returned by
// getWindowEnd for the current window pushes or ends.
func WindowEach[T, B any](getWindowEnd func() Source[B]) Operator[T, Source[T]] {
	return func(source Source[T]) Source[Source[T]] {
		return NewSource(func(sink Sink[Source[T]]) {
			var (
				currentWindow *Subject[T]
				windowEndSink Sink[B]
				openWindow    func()
			)

			sourceSink := NewSink(func(event Event[T]) {
				if !event.IsPush() {
					dispose(windowEndSink)
				}
				currentWindow.Emit(event)
				if !event.IsPush() {
					sink.Emit(EventFrom[T, Source[T]](event))
				}
			})

			onWindowEndEvent := func(event Event[B]) {
				if event.IsThrow() {
					sink.Emit(EventFrom[B, Source[T]](event))
					return
				}
				openWindow()
			}

			openWindow = func() {
				if currentWindow != nil {
					sink.Remove(windowEndSink)
					dispose(windowEndSink)
					currentWindow.Emit(End[T]())
				}

				currentWindow = NewSubject[T]()
				sink.Emit(Push(currentWindow.Source()))

				var windowEnd Source[B]
				if err := try(func() { windowEnd = getWindowEnd() }); err != nil {
					currentWindow.Emit(Throw[T](err))
					sink.Emit(Throw[Source[T]](err))
					return
				}

				windowEndSink = NewSink(onWindowEndEvent)
				sink.Add(windowEndSink)
				windowEnd(windowEndSink)
			}

			openWindow()
			sink.Add(sourceSink)
			source(sourceSink)
		})
	}
}

// Collect gathers every pushed value and emits them as one slice when the
// source ends.
func Collect[T any]() Operator[T, []T] {
	return func(source Source[T]) Source[[]T] {
		return NewSource(func(sink Sink[[]T]) {
			items := []T{}

			pipeInto(source, sink, func(event Event[T]) {
				if event.IsPush() {
					items = append(items, event.Value())
					return
				}
				if event.IsEnd() {
					sink.Emit(Push(items))
				}
				sink.Emit(EventFrom[T, []T](event))
			})
		})
	}
}

func collectInner[T any](window Source[T], _ int) Source[[]T] {
	return Collect[T]()(window)
}

// Buffer is Window with every window collected into a slice.
func Buffer[T, B any](boundaries Source[B]) Operator[T, []T] {
	return Compose(Window[T](boundaries), MergeMap(collectInner[T], Unbounded))
}

func BufferEach[T, B any](getWindowEnd func() Source[B]) Operator[T, []T] {
	return Compose(WindowEach[T](getWindowEnd), MergeMap(collectInner[T], Unbounded))
}
