package rx

import (
	"context"
	"iter"
	"time"
)

// Executor runs tasks on the goroutine that owns a pipeline. Post must be
// safe to call from any goroutine.
type Executor interface {
	Post(task func())
}

func pushSliceToSink[T any](items []T, sink Sink[T]) {
	for i := 0; sink.Active() && i < len(items); i++ {
		sink.Emit(Push(items[i]))
	}
}

// FromSlice emits the items synchronously on every subscription, then End.
func FromSlice[T any](items []T) Source[T] {
	return NewSource(func(sink Sink[T]) {
		pushSliceToSink(items, sink)
		sink.Emit(End[T]())
	})
}

func FromSliceScheduled[T any](items []T, schedule ScheduleFunc) Source[T] {
	return NewSource(func(sink Sink[T]) {
		if len(items) == 0 {
			sink.Emit(End[T]())
			return
		}

		idx := 0
		var pushNext func()
		pushNext = func() {
			sink.Emit(Push(items[idx]))
			idx++

			if idx == len(items) {
				sink.Emit(End[T]())
				return
			}
			// The schedule function is host code and may not check.
			if sink.Active() {
				schedule(pushNext, sink)
			}
		}

		schedule(pushNext, sink)
	})
}

func Of[T any](items ...T) Source[T] {
	return FromSlice(items)
}

func OfScheduled[T any](schedule ScheduleFunc, items ...T) Source[T] {
	return FromSliceScheduled(items, schedule)
}

// OfEvent emits event followed by End. A terminal event makes the End a
// no-op.
func OfEvent[T any](event Event[T]) Source[T] {
	return NewSource(func(sink Sink[T]) {
		sink.Emit(event)
		sink.Emit(End[T]())
	})
}

func OfEventScheduled[T any](event Event[T], schedule ScheduleFunc) Source[T] {
	return NewSource(func(sink Sink[T]) {
		schedule(func() {
			sink.Emit(event)
			sink.Emit(End[T]())
		}, sink)
	})
}

func ThrowError[T any](err error) Source[T] {
	return OfEvent(Throw[T](err))
}

func ThrowErrorScheduled[T any](err error, schedule ScheduleFunc) Source[T] {
	return OfEventScheduled(Throw[T](err), schedule)
}

func Empty[T any]() Source[T] {
	return OfEvent(End[T]())
}

func EmptyScheduled[T any](schedule ScheduleFunc) Source[T] {
	return OfEventScheduled(End[T](), schedule)
}

// Timer ends once d has elapsed on s. It never pushes.
func Timer(s Scheduler, d time.Duration) Source[struct{}] {
	return EmptyScheduled[struct{}](s.Timeout(d))
}

// Never neither pushes nor terminates.
func Never[T any]() Source[T] {
	return NewSource(func(Sink[T]) {})
}

// FromSeq emits the values of seq. A panic raised by the sequence is
// delivered as Throw.
func FromSeq[T any](seq iter.Seq[T]) Source[T] {
	return NewSource(func(sink Sink[T]) {
		for v := range seq {
			sink.Emit(Push(v))
			if !sink.Active() {
				break
			}
		}
		sink.Emit(End[T]())
	})
}

// FromSeq2 emits the values of seq until it yields a non-nil error, which
// is delivered as Throw.
func FromSeq2[T any](seq iter.Seq2[T, error]) Source[T] {
	return NewSource(func(sink Sink[T]) {
		for v, err := range seq {
			if err != nil {
				sink.Emit(Throw[T](err))
				return
			}
			sink.Emit(Push(v))
			if !sink.Active() {
				break
			}
		}
		sink.Emit(End[T]())
	})
}

// FromChannel emits the values received from ch, in order, and ends when ch
// is closed. Reading happens on a separate goroutine; every event is posted
// back through exec. Disposing the subscription stops the reader.
func FromChannel[T any](ch <-chan T, exec Executor) Source[T] {
	return NewSource(func(sink Sink[T]) {
		ctx, cancel := context.WithCancel(context.Background())
		sink.Add(NewDisposable(cancel))

		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case v, ok := <-ch:
					if !ok {
						exec.Post(func() { sink.Emit(End[T]()) })
						return
					}
					exec.Post(func() { sink.Emit(Push(v)) })
				}
			}
		}()
	})
}

// FromFunc runs fn on a separate goroutine and emits its result followed by
// End, or Throw when it fails. The context passed to fn is cancelled when
// the subscription is disposed.
func FromFunc[T any](fn func(ctx context.Context) (T, error), exec Executor) Source[T] {
	return NewSource(func(sink Sink[T]) {
		ctx, cancel := context.WithCancel(context.Background())
		sink.Add(NewDisposable(cancel))

		go func() {
			var (
				v   T
				err error
			)
			if perr := try(func() { v, err = fn(ctx) }); perr != nil {
				err = perr
			}
			if ctx.Err() != nil {
				return
			}
			exec.Post(func() {
				if err != nil {
					sink.Emit(Throw[T](err))
					return
				}
				sink.Emit(Push(v))
				sink.Emit(End[T]())
			})
		}()
	})
}

// FromScheduleFunc pushes the call count (starting at 0) each time schedule
// runs its callback, rescheduling after every push.
func FromScheduleFunc(schedule ScheduleFunc) Source[int] {
	return NewSource(func(sink Sink[int]) {
		idx := 0
		var callback func()
		callback = func() {
			i := idx
			idx++
			sink.Emit(Push(i))

			if sink.Active() {
				schedule(callback, sink)
			}
		}

		schedule(callback, sink)
	})
}

// Interval pushes 0, 1, 2, ... once per d.
func Interval(s Scheduler, d time.Duration) Source[int] {
	return FromScheduleFunc(s.Interval(d))
}

// Lazy calls create on every subscription.
func Lazy[T any](create func() Source[T]) Source[T] {
	return NewSource(func(sink Sink[T]) {
		var source Source[T]
		if err := try(func() { source = create() }); err != nil {
			sink.Emit(Throw[T](err))
			return
		}
		source(sink)
	})
}

// Range emits count integers starting at start.
func Range(count, start int) Source[int] {
	return NewSource(func(sink Sink[int]) {
		for i := 0; sink.Active() && i < count; i++ {
			sink.Emit(Push(start + i))
		}
		sink.Emit(End[int]())
	})
}
