package rx

// Kind discriminates the three event variants.
type Kind uint8

const (
	KindPush Kind = iota
	KindThrow
	KindEnd
)

func (k Kind) String() string {
	switch k {
	case KindPush:
		return "push"
	case KindThrow:
		return "throw"
	case KindEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Event is what a Source delivers to a Sink. Throw and End are terminal.
type Event[T any] struct {
	kind  Kind
	value T
	err   error
}

func Push[T any](value T) Event[T] {
	return Event[T]{
		kind:  KindPush,
		value: value,
	}
}

func Throw[T any](err error) Event[T] {
	return Event[T]{
		kind: KindThrow,
		err:  err,
	}
}

// End returns the completion event. It carries no payload, so every End
// value of a given type is identical.
func End[T any]() Event[T] {
	return Event[T]{kind: KindEnd}
}

// EventFrom re-types a terminal event. Only the kind and the error are
// carried over; a Push value is dropped.
func EventFrom[In, Out any](from Event[In]) Event[Out] {
	return Event[Out]{
		kind: from.kind,
		err:  from.err,
	}
}

func (e Event[T]) Kind() Kind {
	return e.kind
}

func (e Event[T]) Value() T {
	return e.value
}

func (e Event[T]) Err() error {
	return e.err
}

func (e Event[T]) IsPush() bool {
	return e.kind == KindPush
}

func (e Event[T]) IsThrow() bool {
	return e.kind == KindThrow
}

func (e Event[T]) IsEnd() bool {
	return e.kind == KindEnd
}

func (e Event[T]) IsTerminal() bool {
	return e.kind != KindPush
}
