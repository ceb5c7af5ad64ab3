package rx

import "time"

// ScheduleFunc runs callback at some later logical time unless scope is
// disposed first. Cancellation through scope must be immediate and
// idempotent. Implementations are supplied by the host, see package
// schedule.
type ScheduleFunc func(callback func(), scope Disposable)

// Scheduler hands out duration based ScheduleFuncs for the timing
// operators.
type Scheduler interface {
	// Timeout schedules each callback once, d after the call.
	Timeout(d time.Duration) ScheduleFunc
	// Interval schedules each callback on the next tick of a repeating
	// d-spaced interval.
	Interval(d time.Duration) ScheduleFunc
}
