package rx_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ib-77/rxpush/pkg/rx"
	"github.com/ib-77/rxpush/pkg/rx/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect_RoundTrip(t *testing.T) {
	t.Parallel()

	r := record(rx.Collect[string]()(rx.FromSlice([]string{"a", "b", "c"})))
	assert.Equal(t, pushThenEnd([]string{"a", "b", "c"}), r.events)

	r = record(rx.Collect[string]()(rx.Empty[string]()))
	assert.Equal(t, pushThenEnd([]string{}), r.events)
}

func TestWindow(t *testing.T) {
	t.Parallel()

	input := rx.NewSubject[int]()
	boundaries := rx.NewSubject[struct{}]()

	var windows []*recorder[int]
	outer := newRecorder[rx.Source[int]]()
	rx.Window[int](boundaries.Source())(input.Source())(rx.NewSink(func(event rx.Event[rx.Source[int]]) {
		if event.IsPush() {
			windows = append(windows, record(event.Value()))
		}
		outer.sink.Emit(event)
	}))

	input.Emit(rx.Push(1))
	input.Emit(rx.Push(2))
	boundaries.Emit(rx.Push(struct{}{}))
	input.Emit(rx.Push(3))
	input.Emit(rx.End[int]())

	require.Len(t, windows, 2)
	assert.Equal(t, pushThenEnd(1, 2), windows[0].events)
	assert.Equal(t, pushThenEnd(3), windows[1].events)
	assert.True(t, outer.ended())
}

func TestBuffer(t *testing.T) {
	t.Parallel()

	v := schedule.NewVirtual()
	input := rx.NewSubject[int]()

	r := record(rx.Buffer[int](rx.Interval(v, 2*time.Second))(input.Source()))

	pushEvery(v, input, time.Second, 5)
	input.Emit(rx.End[int]())

	assert.Equal(t, pushThenEnd([]int{0, 1}, []int{2, 3}, []int{4}), r.events)
	assert.Equal(t, 0, v.Pending())
}

func TestBufferEach(t *testing.T) {
	t.Parallel()

	v := schedule.NewVirtual()
	input := rx.NewSubject[int]()

	windows := 0
	r := record(rx.BufferEach[int](func() rx.Source[struct{}] {
		windows++
		return rx.Timer(v, time.Duration(windows)*time.Second)
	})(input.Source()))

	// windows close at 1s, then 1+2=3s, then 3+3=6s
	pushEvery(v, input, time.Second, 6)
	input.Emit(rx.End[int]())

	assert.Equal(t, pushThenEnd([]int{0}, []int{1, 2}, []int{3, 4, 5}, []int{}), r.events)
}

func TestWindowEach_FactoryPanic(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	r := record(rx.WindowEach[int](func() rx.Source[int] {
		panic(boom)
	})(rx.Never[int]()))

	require.Len(t, r.events, 2)
	assert.True(t, r.events[0].IsPush())
	assert.ErrorIs(t, r.events[1].Err(), boom)
}
