package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/ib-77/rxpush/pkg/rx"
	"github.com/rs/zerolog"
)

// Loop is a real-time scheduler that runs every task on the goroutine that
// called Run, one at a time and in the order they were posted. Timers fire
// on their own goroutines but only ever post back into the loop, so a
// pipeline driven by a Loop never runs concurrently with itself.
type Loop struct {
	logger zerolog.Logger

	mu    sync.Mutex
	tasks []func()
	wake  chan struct{}

	intervals map[time.Duration]*intervalGroup
}

type intervalGroup struct {
	ticker  *time.Ticker
	stop    chan struct{}
	waiting []*intervalEntry
}

type intervalEntry struct {
	callback func()
	scope    rx.Disposable
	cancel   rx.Disposable
}

var _ rx.Scheduler = (*Loop)(nil)
var _ rx.Executor = (*Loop)(nil)

func NewLoop(opts ...Option) *Loop {
	o := buildLoopOptions(opts)
	return &Loop{
		logger:    o.Logger,
		tasks:     make([]func(), 0, o.QueueSize),
		wake:      make(chan struct{}, 1),
		intervals: make(map[time.Duration]*intervalGroup),
	}
}

// LoopFromContext builds a loop from the options stored with
// WithLoopOptions, followed by extra.
func LoopFromContext(ctx context.Context, extra ...Option) *Loop {
	return NewLoop(append(GetLoopOptions(ctx), extra...)...)
}

// Post queues task for the loop goroutine. Safe for concurrent use.
func (l *Loop) Post(task func()) {
	if task == nil {
		return
	}
	l.mu.Lock()
	l.tasks = append(l.tasks, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run executes posted tasks until ctx is done and returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Debug().Msg("loop started")
	defer l.stopIntervals()

	for {
		for {
			if ctx.Err() != nil {
				l.logger.Debug().Err(ctx.Err()).Msg("loop stopped")
				return ctx.Err()
			}
			task, ok := l.next()
			if !ok {
				break
			}
			l.run(task)
		}

		select {
		case <-ctx.Done():
			l.logger.Debug().Err(ctx.Err()).Msg("loop stopped")
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.tasks) == 0 {
		return nil, false
	}
	task := l.tasks[0]
	l.tasks[0] = nil
	l.tasks = l.tasks[1:]
	return task, true
}

func (l *Loop) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			err := rx.RecoveredError(r)
			l.logger.Error().Err(err).Msg("loop task panicked")
			rx.ReportError(err)
		}
	}()
	task()
}

func (l *Loop) Now() time.Time {
	return time.Now()
}

// Asap runs callbacks on the next loop iteration.
func (l *Loop) Asap() rx.ScheduleFunc {
	return func(callback func(), scope rx.Disposable) {
		l.Post(func() {
			if scope.Active() {
				callback()
			}
		})
	}
}

// Timeout runs each callback d after it was scheduled.
func (l *Loop) Timeout(d time.Duration) rx.ScheduleFunc {
	return func(callback func(), scope rx.Disposable) {
		var (
			timer  *time.Timer
			cancel rx.Disposable
		)
		cancel = rx.NewDisposable(func() {
			timer.Stop()
		})

		timer = time.AfterFunc(d, func() {
			l.Post(func() {
				if !scope.Active() || !cancel.Active() {
					return
				}
				scope.Remove(cancel)
				callback()
			})
		})
		scope.Add(cancel)
	}
}

// Interval runs each callback on the next tick of a ticker shared by every
// callback scheduled with the same d. All callbacks waiting for a tick run
// together, in the order they were scheduled.
func (l *Loop) Interval(d time.Duration) rx.ScheduleFunc {
	if d <= 0 {
		return l.Asap()
	}
	return func(callback func(), scope rx.Disposable) {
		entry := &intervalEntry{callback: callback, scope: scope}
		entry.cancel = rx.NewDisposable(func() {
			l.forget(d, entry)
		})

		l.mu.Lock()
		group, ok := l.intervals[d]
		if !ok {
			group = &intervalGroup{ticker: time.NewTicker(d), stop: make(chan struct{})}
			l.intervals[d] = group
			go l.tick(d, group)
		}
		group.waiting = append(group.waiting, entry)
		l.mu.Unlock()

		scope.Add(entry.cancel)
	}
}

func (l *Loop) tick(d time.Duration, group *intervalGroup) {
	for {
		select {
		case <-group.stop:
			return
		case <-group.ticker.C:
			l.Post(func() { l.fire(d, group) })
		}
	}
}

func (l *Loop) fire(d time.Duration, group *intervalGroup) {
	l.mu.Lock()
	due := group.waiting
	group.waiting = nil
	l.mu.Unlock()

	for _, entry := range due {
		if !entry.scope.Active() || !entry.cancel.Active() {
			continue
		}
		entry.scope.Remove(entry.cancel)
		l.run(entry.callback)
	}

	l.mu.Lock()
	if len(group.waiting) == 0 && l.intervals[d] == group {
		delete(l.intervals, d)
		group.ticker.Stop()
		close(group.stop)
	}
	l.mu.Unlock()
}

func (l *Loop) forget(d time.Duration, entry *intervalEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	group, ok := l.intervals[d]
	if !ok {
		return
	}
	for i, e := range group.waiting {
		if e == entry {
			group.waiting = append(group.waiting[:i], group.waiting[i+1:]...)
			break
		}
	}
}

func (l *Loop) stopIntervals() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for d, group := range l.intervals {
		group.ticker.Stop()
		close(group.stop)
		delete(l.intervals, d)
	}
}
