package chain

import (
	"errors"
	"strconv"
	"testing"

	"github.com/ib-77/rxpush/pkg/rx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain_MapAndPipe(t *testing.T) {
	t.Parallel()

	var seen []int
	c := FromValues(1, 2, 3, 4).
		Pipe(
			rx.Filter(func(v int, _ int) bool { return v%2 == 0 }),
			rx.Map(func(v int, _ int) int { return v * 10 }),
		).
		Ensure(func(v int) { seen = append(seen, v) })

	values, err := Drain(Map(c, strconv.Itoa))
	require.NoError(t, err)
	assert.Equal(t, []string{"20", "40"}, values)
	assert.Equal(t, []int{20, 40}, seen)
}

func TestChain_ThenTryFails(t *testing.T) {
	t.Parallel()

	values, err := Drain(ThenTry(FromValues("1", "x", "3"), strconv.Atoi))
	assert.Equal(t, []int{1}, values)

	var numErr *strconv.NumError
	assert.ErrorAs(t, err, &numErr)
}

func TestChain_Then(t *testing.T) {
	t.Parallel()

	values, err := Drain(Then(FromValues(1, 2, 3), rx.Collect[int]()))
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2, 3}}, values)
}

func TestDrain_Incomplete(t *testing.T) {
	t.Parallel()

	torn := false
	source := rx.NewSource(func(sink rx.Sink[int]) {
		sink.Emit(rx.Push(1))
		sink.Add(rx.NewDisposable(func() { torn = true }))
	})

	values, err := Drain(From(source))
	assert.Equal(t, []int{1}, values)
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.True(t, torn)
}

func TestChain_FinallyDispose(t *testing.T) {
	t.Parallel()

	s := rx.NewSubject[int]()
	var got []int
	sub := From(s.Source()).Finally(rx.Handlers[int]{
		OnPush: func(v int) { got = append(got, v) },
	})

	s.Emit(rx.Push(1))
	require.NoError(t, sub.Dispose())
	s.Emit(rx.Push(2))

	assert.Equal(t, []int{1}, got)
	assert.False(t, sub.Active())
}

func TestChain_ThrowFromSource(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := Drain(From(rx.ThrowError[int](boom)))
	assert.ErrorIs(t, err, boom)
}
