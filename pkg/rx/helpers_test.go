package rx_test

import (
	"testing"

	"github.com/ib-77/rxpush/pkg/rx"
)

type recorder[T any] struct {
	sink   rx.Sink[T]
	events []rx.Event[T]
}

func newRecorder[T any]() *recorder[T] {
	r := &recorder[T]{}
	r.sink = rx.NewSink(func(event rx.Event[T]) {
		r.events = append(r.events, event)
	})
	return r
}

// record subscribes a fresh recorder to source.
func record[T any](source rx.Source[T]) *recorder[T] {
	r := newRecorder[T]()
	source(r.sink)
	return r
}

func (r *recorder[T]) values() []T {
	values := []T{}
	for _, e := range r.events {
		if e.IsPush() {
			values = append(values, e.Value())
		}
	}
	return values
}

func (r *recorder[T]) last() rx.Event[T] {
	if len(r.events) == 0 {
		return rx.Event[T]{}
	}
	return r.events[len(r.events)-1]
}

func (r *recorder[T]) ended() bool {
	return len(r.events) > 0 && r.last().IsEnd()
}

func pushThenEnd[T any](values ...T) []rx.Event[T] {
	events := make([]rx.Event[T], 0, len(values)+1)
	for _, v := range values {
		events = append(events, rx.Push(v))
	}
	return append(events, rx.End[T]())
}

// captureErrors swaps the async error handler for the duration of t.
// Tests using it must not run in parallel.
func captureErrors(t *testing.T) *[]error {
	t.Helper()
	var errs []error
	prev := rx.SetErrorHandler(func(err error) {
		errs = append(errs, err)
	})
	t.Cleanup(func() { rx.SetErrorHandler(prev) })
	return &errs
}
