package chain

import (
	"errors"

	"github.com/ib-77/rxpush/pkg/rx"
)

// ErrIncomplete is returned by Drain when the stream did not terminate
// during the synchronous subscription.
var ErrIncomplete = errors.New("chain: source did not complete synchronously")

// Chain wraps an rx.Source to enable fluent chaining
type Chain[T any] struct {
	source rx.Source[T]
}

// From creates a new chain from a source
func From[T any](source rx.Source[T]) *Chain[T] {
	return &Chain[T]{source: source}
}

// FromValues creates a new chain that emits values and ends
func FromValues[T any](values ...T) *Chain[T] {
	return &Chain[T]{source: rx.FromSlice(values)}
}

// Source returns the underlying rx.Source
func (c *Chain[T]) Source() rx.Source[T] {
	return c.source
}

// Then applies an operator that may change the element type
func Then[T, U any](c *Chain[T], op rx.Operator[T, U]) *Chain[U] {
	return &Chain[U]{source: op(c.source)}
}

// Pipe applies type-preserving operators in order
func (c *Chain[T]) Pipe(ops ...rx.Operator[T, T]) *Chain[T] {
	source := c.source
	for _, op := range ops {
		source = op(source)
	}
	return &Chain[T]{source: source}
}

// ThenTry chains a function that returns (U, error); an error ends the
// stream with Throw
func ThenTry[T, U any](c *Chain[T], try func(value T) (U, error)) *Chain[U] {
	return Then(c, rx.TryMap(func(value T, _ int) (U, error) {
		return try(value)
	}))
}

// Map chains a pure transformation function
func Map[T, U any](c *Chain[T], transform func(value T) U) *Chain[U] {
	return Then(c, rx.Map(func(value T, _ int) U {
		return transform(value)
	}))
}

// Ensure performs a side effect on every value without changing the stream
func (c *Chain[T]) Ensure(onPush func(value T)) *Chain[T] {
	return &Chain[T]{source: rx.SpyPush(func(value T, _ int) {
		onPush(value)
	})(c.source)}
}

// Finally subscribes the chain with handlers. Disposing the returned value
// cancels the subscription.
func (c *Chain[T]) Finally(handlers rx.Handlers[T]) rx.Disposable {
	sink := rx.SinkOf(handlers)
	c.source(sink)
	return sink
}

// Drain subscribes and collects every value of a synchronous chain. The
// error is the Throw the stream ended with, or ErrIncomplete when it did not
// terminate before subscription returned.
func Drain[T any](c *Chain[T]) ([]T, error) {
	var (
		values     = []T{}
		err        error
		terminated bool
	)

	d := c.Finally(rx.Handlers[T]{
		OnPush: func(value T) {
			values = append(values, value)
		},
		OnThrow: func(e error) {
			err = e
			terminated = true
		},
		OnEnd: func() {
			terminated = true
		},
	})

	if !terminated {
		if disposeErr := d.Dispose(); disposeErr != nil {
			return values, errors.Join(ErrIncomplete, disposeErr)
		}
		return values, ErrIncomplete
	}
	return values, err
}
