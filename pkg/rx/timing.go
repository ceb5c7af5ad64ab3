package rx

import "time"

// Trailing selects what Debounce does when its timer fires with a value
// still pending.
type Trailing int

const (
	// TrailingOff drops the pending value.
	TrailingOff Trailing = iota
	// TrailingOn emits the pending value.
	TrailingOn
	// TrailingRestart emits the pending value and immediately re-arms both
	// timers as if the value had just arrived on an idle stream. The max
	// timer starts a fresh window on every restart.
	TrailingRestart
)

func (t Trailing) String() string {
	switch t {
	case TrailingOff:
		return "off"
	case TrailingOn:
		return "on"
	case TrailingRestart:
		return "restart"
	default:
		return "unknown"
	}
}

type DebounceConfig struct {
	Leading          bool
	Trailing         Trailing
	EmitPendingOnEnd bool
}

type DebounceOption func(*DebounceConfig)

func WithLeading(leading bool) DebounceOption {
	return func(c *DebounceConfig) {
		c.Leading = leading
	}
}

func WithTrailing(trailing Trailing) DebounceOption {
	return func(c *DebounceConfig) {
		c.Trailing = trailing
	}
}

func WithEmitPendingOnEnd(emit bool) DebounceOption {
	return func(c *DebounceConfig) {
		c.EmitPendingOnEnd = emit
	}
}

func DefaultDebounceConfig() DebounceConfig {
	return DebounceConfig{Leading: false, Trailing: TrailingOn, EmitPendingOnEnd: true}
}

func DefaultThrottleConfig() DebounceConfig {
	return DebounceConfig{Leading: true, Trailing: TrailingOn, EmitPendingOnEnd: true}
}

func buildDebounceConfig(base DebounceConfig, opts []DebounceOption) DebounceConfig {
	for _, opt := range opts {
		if opt != nil {
			opt(&base)
		}
	}
	return base
}

// DurationRange holds the timers armed when a debounce window opens. Either
// field may be nil. MaxDuration bounds the total wait and is not restarted
// by further pushes.
type DurationRange[D any] struct {
	Duration    Source[D]
	MaxDuration Source[D]
}

// Debounce holds pushes back until a quiet period has passed.
//
// When a push arrives on an idle stream the window opens: getInitialRange
// (if set) supplies the first duration timer and the max-duration timer;
// otherwise getDuration supplies the duration timer. Every further push
// restarts the duration timer with getDuration(value, index). When either
// timer pushes or ends, the window closes and the latest value is emitted
// according to the Trailing mode. A Throw from a timer is forwarded.
func Debounce[T, D any](getDuration func(value T, index int) Source[D],
	getInitialRange func(value T, index int) DurationRange[D], opts ...DebounceOption) Operator[T, T] {
	return debounceWith(getDuration, getInitialRange, buildDebounceConfig(DefaultDebounceConfig(), opts))
}

// DebounceDuration debounces on s. A non-positive duration disables the
// restarting timer, a non-positive maxDuration disables the max timer, and
// with both disabled values pass through unchanged.
func DebounceDuration[T any](s Scheduler, duration, maxDuration time.Duration, opts ...DebounceOption) Operator[T, T] {
	cfg := buildDebounceConfig(DefaultDebounceConfig(), opts)

	switch {
	case duration > 0 && maxDuration > 0:
		durationTimer := Timer(s, duration)
		maxTimer := Timer(s, maxDuration)
		return debounceWith(
			func(T, int) Source[struct{}] { return durationTimer },
			func(T, int) DurationRange[struct{}] {
				return DurationRange[struct{}]{Duration: durationTimer, MaxDuration: maxTimer}
			},
			cfg)
	case duration > 0:
		durationTimer := Timer(s, duration)
		return debounceWith(func(T, int) Source[struct{}] { return durationTimer }, nil, cfg)
	case maxDuration > 0:
		maxTimer := Timer(s, maxDuration)
		return debounceWith(nil,
			func(T, int) DurationRange[struct{}] {
				return DurationRange[struct{}]{MaxDuration: maxTimer}
			},
			cfg)
	default:
		return func(source Source[T]) Source[T] { return source }
	}
}

// Throttle emits at most one value per getDuration window. The window's
// timer is not restarted by pushes.
func Throttle[T, D any](getDuration func(value T, index int) Source[D], opts ...DebounceOption) Operator[T, T] {
	return debounceWith(nil,
		func(value T, index int) DurationRange[D] {
			return DurationRange[D]{MaxDuration: getDuration(value, index)}
		},
		buildDebounceConfig(DefaultThrottleConfig(), opts))
}

func ThrottleDuration[T any](s Scheduler, duration time.Duration, opts ...DebounceOption) Operator[T, T] {
	timer := Timer(s, duration)
	return Throttle(func(T, int) Source[struct{}] { return timer }, opts...)
}

func debounceWith[T, D any](getDuration func(value T, index int) Source[D],
	getInitialRange func(value T, index int) DurationRange[D], cfg DebounceConfig) Operator[T, T] {
	return func(source Source[T]) Source[T] {
		return NewSource(func(sink Sink[T]) {
			var (
				latest        T
				armed         bool
				distributing  bool
				lastPushedIdx int
				idx           int

				durationSink Sink[D]
				maxSink      Sink[D]
				sourceSink   Sink[T]
			)

			var startDebounce func(value T, index int)

			release := func(timerSink Sink[D]) {
				if timerSink != nil {
					sourceSink.Remove(timerSink)
					dispose(timerSink)
				}
			}

			onDurationEvent := func(event Event[D]) {
				if event.IsThrow() {
					sink.Emit(EventFrom[D, T](event))
					return
				}

				armed = false
				release(durationSink)
				release(maxSink)
				durationSink, maxSink = nil, nil

				if cfg.Trailing == TrailingOff || idx <= lastPushedIdx {
					return
				}

				value, count := latest, idx
				lastPushedIdx = count

				if cfg.Trailing == TrailingRestart {
					distributing = true
					sink.Emit(Push(value))
					distributing = false
					startDebounce(value, count-1)
					return
				}
				sink.Emit(Push(value))
			}

			restartDuration := func(durationSource Source[D]) {
				if durationSource == nil && getDuration == nil {
					return
				}

				release(durationSink)
				durationSink = NewSink(onDurationEvent)
				sourceSink.Add(durationSink)

				if durationSource == nil {
					if err := try(func() { durationSource = getDuration(latest, idx-1) }); err != nil {
						sink.Emit(Throw[T](err))
						return
					}
				}
				durationSource(durationSink)
			}

			startDebounce = func(value T, index int) {
				armed = true
				if getInitialRange == nil {
					restartDuration(nil)
					return
				}

				var initial DurationRange[D]
				if err := try(func() { initial = getInitialRange(value, index) }); err != nil {
					sink.Emit(Throw[T](err))
					return
				}

				current := NewSink(onDurationEvent)
				maxSink = current
				sourceSink.Add(current)

				if initial.MaxDuration != nil {
					initial.MaxDuration(current)
				}
				if initial.Duration != nil && current.Active() {
					restartDuration(initial.Duration)
				}
			}

			sourceSink = NewSink(func(event Event[T]) {
				if event.IsPush() {
					latest = event.Value()
					idx++

					if distributing {
						return
					}
					if armed {
						restartDuration(nil)
						return
					}

					value, count := latest, idx
					if cfg.Leading {
						distributing = true
						lastPushedIdx = count
						sink.Emit(event)
						distributing = false
					}
					startDebounce(value, count-1)
					return
				}

				if event.IsEnd() && cfg.EmitPendingOnEnd && armed && idx > lastPushedIdx {
					sink.Emit(Push(latest))
				}
				sink.Emit(event)
			})

			sink.Add(sourceSink)
			source(sourceSink)
		})
	}
}

// Delay re-emits every push once the source returned by getDelay pushes or
// ends. End is held back until every delayed value has been emitted.
func Delay[T, D any](getDelay func(value T, index int) Source[D]) Operator[T, T] {
	return func(source Source[T]) Source[T] {
		return NewSource(func(sink Sink[T]) {
			var (
				idx    int
				active int
				ended  bool
			)

			pipeInto(source, sink, func(event Event[T]) {
				if event.IsPush() {
					var delaySource Source[D]
					if err := try(func() { delaySource = getDelay(event.Value(), idx) }); err != nil {
						sink.Emit(Throw[T](err))
						return
					}
					idx++

					var delaySink Sink[D]
					delaySink = NewSink(func(inner Event[D]) {
						if inner.IsThrow() {
							sink.Emit(EventFrom[D, T](inner))
							return
						}

						active--
						sink.Remove(delaySink)
						dispose(delaySink)

						sink.Emit(event)
						if ended && active == 0 {
							sink.Emit(End[T]())
						}
					})

					sink.Add(delaySink)
					active++
					delaySource(delaySink)
					return
				}

				if event.IsEnd() && active != 0 {
					ended = true
					return
				}
				sink.Emit(event)
			})
		})
	}
}

func DelayDuration[T any](s Scheduler, d time.Duration) Operator[T, T] {
	timer := Timer(s, d)
	return Delay(func(T, int) Source[struct{}] { return timer })
}

// Sample emits the most recent value every time schedule pushes. The same
// value is emitted again on later ticks if nothing new arrived.
func Sample[T, S any](schedule Source[S]) Operator[T, T] {
	return func(source Source[T]) Source[T] {
		return NewSource(func(sink Sink[T]) {
			var (
				latest    T
				hasLatest bool
			)

			sourceSink := NewSink(func(event Event[T]) {
				if event.IsPush() {
					latest, hasLatest = event.Value(), true
					return
				}
				sink.Emit(event)
			})

			scheduleSink := NewSink(func(event Event[S]) {
				if event.IsPush() {
					if hasLatest {
						sink.Emit(Push(latest))
					}
					return
				}
				sink.Emit(EventFrom[S, T](event))
			})

			sink.Add(sourceSink)
			sink.Add(scheduleSink)
			source(sourceSink)
			schedule(scheduleSink)
		})
	}
}

func SampleDuration[T any](s Scheduler, d time.Duration) Operator[T, T] {
	return Sample[T](Interval(s, d))
}

type Timed[T any] struct {
	Value T
	Time  time.Time
}

// WithTime stamps every value with now().
func WithTime[T any](now func() time.Time) Operator[T, Timed[T]] {
	return Map(func(value T, _ int) Timed[T] {
		return Timed[T]{Value: value, Time: now()}
	})
}

type TimeInterval[T any] struct {
	Value      T
	Time       time.Time
	StartTime  time.Time
	SinceStart time.Duration
	LastTime   time.Time
	Difference time.Duration
}

// WithTimeInterval stamps every value with its time and the time elapsed
// since subscription and since the previous value.
func WithTimeInterval[T any](now func() time.Time) Operator[T, TimeInterval[T]] {
	return func(source Source[T]) Source[TimeInterval[T]] {
		return NewSource(func(sink Sink[TimeInterval[T]]) {
			startTime := now()
			lastTime := startTime

			pipeInto(source, sink, func(event Event[T]) {
				if event.IsPush() {
					current := now()
					info := TimeInterval[T]{
						Value:      event.Value(),
						Time:       current,
						StartTime:  startTime,
						SinceStart: current.Sub(startTime),
						LastTime:   lastTime,
						Difference: current.Sub(lastTime),
					}
					lastTime = current
					sink.Emit(Push(info))
					return
				}
				sink.Emit(EventFrom[T, TimeInterval[T]](event))
			})
		})
	}
}
