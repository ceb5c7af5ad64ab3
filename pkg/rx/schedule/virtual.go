package schedule

import (
	"container/heap"
	"time"

	"github.com/ib-77/rxpush/pkg/rx"
)

// Epoch is the start time of every Virtual clock.
var Epoch = time.Unix(0, 0).UTC()

// Virtual is a deterministic scheduler driven by an explicit clock. Nothing
// runs until Advance or Flush is called; tasks due at the same instant run
// in the order they were scheduled. Not safe for concurrent use.
type Virtual struct {
	now   time.Time
	seq   uint64
	queue taskQueue
}

type virtualTask struct {
	due   time.Time
	seq   uint64
	run   func()
	index int
}

var _ rx.Scheduler = (*Virtual)(nil)

func NewVirtual() *Virtual {
	return &Virtual{now: Epoch}
}

func (v *Virtual) Now() time.Time {
	return v.now
}

// Elapsed is the virtual time passed since Epoch.
func (v *Virtual) Elapsed() time.Duration {
	return v.now.Sub(Epoch)
}

// Pending returns the number of scheduled tasks.
func (v *Virtual) Pending() int {
	return v.queue.Len()
}

// Asap runs callbacks at the current virtual time, on the next Advance or
// Flush.
func (v *Virtual) Asap() rx.ScheduleFunc {
	return func(callback func(), scope rx.Disposable) {
		v.schedule(v.now, callback, scope)
	}
}

func (v *Virtual) Timeout(d time.Duration) rx.ScheduleFunc {
	return func(callback func(), scope rx.Disposable) {
		v.schedule(v.now.Add(d), callback, scope)
	}
}

// Interval runs callbacks on the next multiple of d since Epoch.
func (v *Virtual) Interval(d time.Duration) rx.ScheduleFunc {
	if d <= 0 {
		return v.Asap()
	}
	return func(callback func(), scope rx.Disposable) {
		elapsed := v.Elapsed()
		next := (elapsed/d + 1) * d
		v.schedule(Epoch.Add(next), callback, scope)
	}
}

func (v *Virtual) schedule(due time.Time, callback func(), scope rx.Disposable) {
	task := &virtualTask{due: due, seq: v.seq}
	v.seq++

	cancel := rx.NewDisposable(func() {
		if task.index >= 0 {
			heap.Remove(&v.queue, task.index)
		}
	})
	task.run = func() {
		scope.Remove(cancel)
		callback()
	}

	heap.Push(&v.queue, task)
	scope.Add(cancel)
}

// Advance moves the clock forward by d, running every task that falls due
// on the way at its own due time.
func (v *Virtual) Advance(d time.Duration) {
	v.AdvanceTo(v.now.Add(d))
}

func (v *Virtual) AdvanceTo(target time.Time) {
	for v.queue.Len() > 0 && !v.queue[0].due.After(target) {
		task := heap.Pop(&v.queue).(*virtualTask)
		if task.due.After(v.now) {
			v.now = task.due
		}
		task.run()
	}
	if target.After(v.now) {
		v.now = target
	}
}

// Flush runs tasks until none are left. A repeating source never lets it
// return; drive those with Advance.
func (v *Virtual) Flush() {
	for v.queue.Len() > 0 {
		task := heap.Pop(&v.queue).(*virtualTask)
		if task.due.After(v.now) {
			v.now = task.due
		}
		task.run()
	}
}

type taskQueue []*virtualTask

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	task := x.(*virtualTask)
	task.index = len(*q)
	*q = append(*q, task)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	task := old[n-1]
	old[n-1] = nil
	task.index = -1
	*q = old[:n-1]
	return task
}
