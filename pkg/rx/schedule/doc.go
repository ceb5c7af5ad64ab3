// Package schedule provides the host bindings that drive rx pipelines in
// time. It does not define stream logic; it only decides when callbacks
// run.
//
// Common usage:
//   - Loop: real-time scheduler with one goroutine executing every task, also
//     the Executor for rx.FromChannel and rx.FromFunc
//   - Virtual: deterministic clock for tests and simulations, advanced by hand
//
// Both implement rx.Scheduler, so DebounceDuration, ThrottleDuration,
// DelayDuration, SampleDuration, Interval and Timer accept either.
package schedule
