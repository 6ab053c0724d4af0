package server

import (
	"container/heap"
	"time"
)

// Timeline is a virtual clock with scheduled callbacks. Time only moves
// when Advance is called, so the same sequence of calls always produces
// the same firings. Callbacks due at the same instant run in the order
// their tasks were first scheduled.
//
// A Timeline is not safe for concurrent use; the Server drives it from
// a single goroutine.
type Timeline struct {
	now     time.Duration
	queue   taskQueue
	nextSeq uint64
	running *task
}

// TimerHandle refers to one scheduled task, one-shot or periodic.
type TimerHandle struct {
	t *task
}

// Cancel stops the task, including every later run of a periodic task.
// Cancelling a finished or already cancelled task is a no-op.
func (h TimerHandle) Cancel() {
	if h.t != nil {
		h.t.cancelled = true
	}
}

type task struct {
	at        time.Duration
	period    time.Duration // 0 for one-shot tasks
	seq       uint64
	fn        func()
	cancelled bool
}

// NewTimeline returns a timeline positioned at time zero.
func NewTimeline() *Timeline {
	return &Timeline{}
}

// Now returns the virtual time elapsed since the timeline was created.
func (tl *Timeline) Now() time.Duration {
	return tl.now
}

// Every schedules fn to run once per period. The first run is one period
// from now.
func (tl *Timeline) Every(period time.Duration, fn func()) TimerHandle {
	if period <= 0 {
		panic("timeline: non-positive period")
	}
	return tl.schedule(tl.now+period, period, fn)
}

// After schedules fn to run once, d from now.
func (tl *Timeline) After(d time.Duration, fn func()) TimerHandle {
	return tl.schedule(tl.now+d, 0, fn)
}

func (tl *Timeline) schedule(at, period time.Duration, fn func()) TimerHandle {
	t := &task{at: at, period: period, seq: tl.nextSeq, fn: fn}
	tl.nextSeq++
	heap.Push(&tl.queue, t)
	return TimerHandle{t: t}
}

// CancelAll drops every pending task, including a periodic task that is
// currently running.
func (tl *Timeline) CancelAll() {
	for _, t := range tl.queue {
		t.cancelled = true
	}
	tl.queue = tl.queue[:0]
	if tl.running != nil {
		tl.running.cancelled = true
	}
}

// Pending returns the number of scheduled tasks that have not been cancelled.
func (tl *Timeline) Pending() int {
	n := 0
	for _, t := range tl.queue {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, running every task that falls due
// on the way in time order.
func (tl *Timeline) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	target := tl.now + d
	for len(tl.queue) > 0 && tl.queue[0].at <= target {
		t := heap.Pop(&tl.queue).(*task)
		if t.cancelled {
			continue
		}
		tl.now = t.at

		tl.running = t
		t.fn()
		tl.running = nil

		if t.period > 0 && !t.cancelled {
			t.at += t.period
			heap.Push(&tl.queue, t)
		}
	}
	tl.now = target
}

// taskQueue is a min-heap ordered by due time, then scheduling order.
type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *taskQueue) Push(x any) { *q = append(*q, x.(*task)) }

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}
