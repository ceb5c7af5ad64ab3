// Package rx is a push-based reactive stream engine. A Source pushes events
// (Push, Throw, End) into a Sink; every subscription owns a tree of
// Disposables so cancelling the outermost sink tears the whole pipeline
// down synchronously.
//
// Common usage:
//   - Creation: FromSlice, Of, Range, Interval, Timer, FromChannel, FromFunc, Lazy
//   - Transform/filter: Map, Filter, Scan, Take, Skip, CatchError, Spy
//   - Combinators: MergeMap, Concat, SwitchEach, CombineSources, ZipSources, RaceSources
//   - Timing: Debounce, Throttle, Delay, Sample
//   - Windowing: Window, WindowEach, Buffer, Collect
//   - Subject: multicast hub that is both a Sink and a Source
//
// The core is not safe for concurrent use. A pipeline lives on one
// goroutine; scheduling and cross-goroutine hand-off go through a
// ScheduleFunc or Executor supplied by the host, see package schedule.
//
// Panics raised by user callbacks are recovered at the sink and source
// guards. Errors that have no active receiver left are passed to the
// handler installed with SetErrorHandler.
package rx
