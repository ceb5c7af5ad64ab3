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

type stamped struct {
	at    time.Duration
	value int
}

// recordTimed records pushes along with the virtual time they arrived at.
func recordTimed(v *schedule.Virtual, source rx.Source[int]) (*[]stamped, *recorder[int]) {
	var out []stamped
	r := newRecorder[int]()
	source(rx.NewSink(func(event rx.Event[int]) {
		if event.IsPush() {
			out = append(out, stamped{at: v.Elapsed(), value: event.Value()})
		}
		r.sink.Emit(event)
	}))
	return &out, r
}

// pushEvery pushes 0, 1, 2, ... through s at every step until count values
// have been pushed, advancing v by step after each.
func pushEvery(v *schedule.Virtual, s *rx.Subject[int], step time.Duration, count int) {
	for i := 0; i < count; i++ {
		s.Emit(rx.Push(i))
		v.Advance(step)
	}
}

func TestDebounce_TrailingOnly(t *testing.T) {
	t.Parallel()

	v := schedule.NewVirtual()
	input := rx.NewSubject[int]()
	const d = 5 * time.Second

	out, _ := recordTimed(v, rx.DebounceDuration[int](v, d, 0,
		rx.WithLeading(false), rx.WithTrailing(rx.TrailingOn))(input.Source()))

	// pushes at 0, 1 and 2
	pushEvery(v, input, time.Second, 3)
	v.Advance(time.Minute)

	assert.Equal(t, []stamped{{at: 2*time.Second + d, value: 2}}, *out)
}

func TestDebounce_Leading(t *testing.T) {
	t.Parallel()

	v := schedule.NewVirtual()
	input := rx.NewSubject[int]()

	out, _ := recordTimed(v, rx.DebounceDuration[int](v, 2*time.Second, 0,
		rx.WithLeading(true), rx.WithTrailing(rx.TrailingOff))(input.Source()))

	pushEvery(v, input, time.Second, 3)
	v.Advance(10 * time.Second)
	input.Emit(rx.Push(9))

	assert.Equal(t, []stamped{{at: 0, value: 0}, {at: 13 * time.Second, value: 9}}, *out)
}

// The max timer is not restarted by pushes, and a restart emission re-arms
// both timers from that moment.
func TestDebounce_RestartWithMaxDuration(t *testing.T) {
	t.Parallel()

	v := schedule.NewVirtual()
	input := rx.NewSubject[int]()

	out, _ := recordTimed(v, rx.DebounceDuration[int](v, 3*time.Second, 5*time.Second,
		rx.WithTrailing(rx.TrailingRestart))(input.Source()))

	pushEvery(v, input, time.Second, 12)

	assert.Equal(t, []stamped{
		{at: 5 * time.Second, value: 4},
		{at: 10 * time.Second, value: 9},
	}, *out)
}

func TestDebounce_MaxDurationWithoutRestart(t *testing.T) {
	t.Parallel()

	v := schedule.NewVirtual()
	input := rx.NewSubject[int]()

	out, _ := recordTimed(v, rx.DebounceDuration[int](v, 3*time.Second, 5*time.Second)(input.Source()))

	pushEvery(v, input, time.Second, 12)
	v.Advance(time.Minute)

	// t=0 opens, the max timer closes at 5 with value 4; t=5 opens again and
	// closes at 10 with 9; t=10 opens and the quiet period ends at 11+3.
	assert.Equal(t, []stamped{
		{at: 5 * time.Second, value: 4},
		{at: 10 * time.Second, value: 9},
		{at: 14 * time.Second, value: 11},
	}, *out)
}

func TestDebounce_EmitPendingOnEnd(t *testing.T) {
	t.Parallel()

	v := schedule.NewVirtual()

	input := rx.NewSubject[int]()
	out, r := recordTimed(v, rx.DebounceDuration[int](v, time.Second, 0)(input.Source()))
	input.Emit(rx.Push(1))
	input.Emit(rx.End[int]())
	assert.Equal(t, []stamped{{at: 0, value: 1}}, *out)
	assert.True(t, r.ended())
	assert.Equal(t, 0, v.Pending())

	input = rx.NewSubject[int]()
	out, r = recordTimed(v, rx.DebounceDuration[int](v, time.Second, 0,
		rx.WithEmitPendingOnEnd(false))(input.Source()))
	input.Emit(rx.Push(1))
	input.Emit(rx.End[int]())
	assert.Empty(t, *out)
	assert.True(t, r.ended())
}

func TestDebounce_DurationPerValue(t *testing.T) {
	t.Parallel()

	v := schedule.NewVirtual()
	input := rx.NewSubject[int]()

	var indexes []int
	op := rx.Debounce(func(value int, index int) rx.Source[struct{}] {
		indexes = append(indexes, index)
		return rx.Timer(v, time.Duration(value)*time.Second)
	}, nil)
	out, _ := recordTimed(v, op(input.Source()))

	input.Emit(rx.Push(4))
	v.Advance(time.Second)
	input.Emit(rx.Push(1))
	v.Advance(time.Minute)

	assert.Equal(t, []int{0, 1}, indexes)
	assert.Equal(t, []stamped{{at: 2 * time.Second, value: 1}}, *out)
}

func TestDebounce_TimerThrow(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	r := record(rx.Debounce(func(int, int) rx.Source[int] {
		return rx.ThrowError[int](boom)
	}, nil)(rx.Never[int]()))
	assert.Empty(t, r.events)

	input := rx.NewSubject[int]()
	r = record(rx.Debounce(func(int, int) rx.Source[int] {
		return rx.ThrowError[int](boom)
	}, nil)(input.Source()))
	input.Emit(rx.Push(1))
	assert.ErrorIs(t, r.last().Err(), boom)
}

func TestDebounce_NoDurations(t *testing.T) {
	t.Parallel()

	v := schedule.NewVirtual()
	r := record(rx.DebounceDuration[int](v, 0, 0)(rx.Of(1, 2)))
	assert.Equal(t, pushThenEnd(1, 2), r.events)
}

func TestThrottle(t *testing.T) {
	t.Parallel()

	v := schedule.NewVirtual()
	input := rx.NewSubject[int]()

	out, _ := recordTimed(v, rx.ThrottleDuration[int](v, 3*time.Second)(input.Source()))

	pushEvery(v, input, time.Second, 7)
	v.Advance(time.Minute)

	// leading 0, window closes at 3 with 2; 3 opens a new window (leading)
	// that closes at 6 with 5; 6 leads the last window and nothing is
	// pending when it closes.
	assert.Equal(t, []stamped{
		{at: 0, value: 0},
		{at: 3 * time.Second, value: 2},
		{at: 3 * time.Second, value: 3},
		{at: 6 * time.Second, value: 5},
		{at: 6 * time.Second, value: 6},
	}, *out)
}

func TestThrottle_TrailingOff(t *testing.T) {
	t.Parallel()

	v := schedule.NewVirtual()
	input := rx.NewSubject[int]()

	out, _ := recordTimed(v, rx.Throttle(func(int, int) rx.Source[struct{}] {
		return rx.Timer(v, 3*time.Second)
	}, rx.WithTrailing(rx.TrailingOff))(input.Source()))

	pushEvery(v, input, time.Second, 7)

	assert.Equal(t, []stamped{
		{at: 0, value: 0},
		{at: 3 * time.Second, value: 3},
		{at: 6 * time.Second, value: 6},
	}, *out)
}

func TestDelay(t *testing.T) {
	t.Parallel()

	v := schedule.NewVirtual()
	out, r := recordTimed(v, rx.DelayDuration[int](v, 2*time.Second)(rx.Of(1, 2)))

	assert.Empty(t, r.events)
	v.Advance(2 * time.Second)

	assert.Equal(t, []stamped{{at: 2 * time.Second, value: 1}, {at: 2 * time.Second, value: 2}}, *out)
	assert.True(t, r.ended())
}

func TestDelay_PerValue(t *testing.T) {
	t.Parallel()

	v := schedule.NewVirtual()
	out, r := recordTimed(v, rx.Delay(func(x int, _ int) rx.Source[struct{}] {
		return rx.Timer(v, time.Duration(x)*time.Second)
	})(rx.Of(3, 1)))

	v.Flush()
	assert.Equal(t, []stamped{{at: time.Second, value: 1}, {at: 3 * time.Second, value: 3}}, *out)
	assert.True(t, r.ended())
}

func TestSample(t *testing.T) {
	t.Parallel()

	v := schedule.NewVirtual()
	input := rx.NewSubject[int]()
	out, _ := recordTimed(v, rx.SampleDuration[int](v, 2*time.Second)(input.Source()))

	v.Advance(time.Second)
	input.Emit(rx.Push(1))
	input.Emit(rx.Push(2))
	v.Advance(2 * time.Second)
	v.Advance(2 * time.Second)

	assert.Equal(t, []stamped{{at: 2 * time.Second, value: 2}, {at: 4 * time.Second, value: 2}}, *out)
}

func TestWithTime(t *testing.T) {
	t.Parallel()

	v := schedule.NewVirtual()
	input := rx.NewSubject[string]()

	stampedValues := record(rx.WithTime[string](v.Now)(input.Source()))
	intervals := record(rx.WithTimeInterval[string](v.Now)(input.Source()))

	v.Advance(time.Second)
	input.Emit(rx.Push("a"))
	v.Advance(2 * time.Second)
	input.Emit(rx.Push("b"))

	require.Len(t, stampedValues.values(), 2)
	assert.Equal(t, schedule.Epoch.Add(3*time.Second), stampedValues.values()[1].Time)

	got := intervals.values()
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[1].Value)
	assert.Equal(t, 3*time.Second, got[1].SinceStart)
	assert.Equal(t, 2*time.Second, got[1].Difference)
	assert.Equal(t, schedule.Epoch, got[0].StartTime)
}

func TestTrailing_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "restart", rx.TrailingRestart.String())
	assert.Equal(t, rx.DebounceConfig{Leading: true, Trailing: rx.TrailingOn, EmitPendingOnEnd: true},
		rx.DefaultThrottleConfig())
}
