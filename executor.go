package future

import (
	"context"
	"sync"
	"time"

	"github.com/eapache/queue"
	"golang.org/x/sync/semaphore"
)

// An Executor accepts units of work and runs each of them exactly once.
// Where and when the work runs is up to the implementation: immediately on
// the submitting goroutine, on a pool, or on an event loop.
type Executor interface {
	Add(f func())
}

// A PriorityExecutor is an [Executor] that additionally accepts a priority
// with each unit of work. Higher priorities run first.
type PriorityExecutor interface {
	Executor
	AddPriority(f func(), priority int8)
}

// A DrivableExecutor is an [Executor] whose queued work is run by calling
// Drive. Drive runs pending work until the queue empties once.
type DrivableExecutor interface {
	Executor
	Drive()
}

// A TimedDrivableExecutor is a [DrivableExecutor] that can block, waiting
// for work to arrive until a deadline.
type TimedDrivableExecutor interface {
	DrivableExecutor

	// TryDriveUntil runs pending work, blocking for more until deadline.
	// It reports whether any work was run.
	TryDriveUntil(deadline time.Time) bool
}

// addWork submits f to ex, passing the priority through when ex supports one.
func addWork(ex Executor, f func(), priority int8) {
	if pe, ok := ex.(PriorityExecutor); ok {
		pe.AddPriority(f, priority)
		return
	}
	ex.Add(f)
}

// An InlineExecutor runs each unit of work immediately on the goroutine that
// submits it. It is the default executor for scheduled operations requested
// on a handle that has none.
type InlineExecutor struct{}

// Inline is the shared [InlineExecutor].
var Inline InlineExecutor

// Add runs f before returning.
func (InlineExecutor) Add(f func()) {
	f()
}

// A QueuedExecutor runs work on the submitting goroutine like
// [InlineExecutor], but through a FIFO queue: work submitted while other
// work is running is queued behind it instead of run recursively.
// Long continuation chains drain iteratively, keeping stack depth flat.
//
// If two goroutines submit at once, one of them drains the queue for both.
type QueuedExecutor struct {
	mu       sync.Mutex
	q        *queue.Queue
	draining bool
}

// Queued is the shared [QueuedExecutor]. [Window] dispatches on it when no
// executor is given.
var Queued = NewQueuedExecutor()

// NewQueuedExecutor creates a new [QueuedExecutor].
func NewQueuedExecutor() *QueuedExecutor {
	return &QueuedExecutor{q: queue.New()}
}

// Add queues f and, unless another Add higher up the stack is already
// draining, runs queued work until none remains.
func (e *QueuedExecutor) Add(f func()) {
	e.mu.Lock()
	e.q.Add(f)
	if e.draining {
		e.mu.Unlock()
		return
	}
	e.draining = true
	for e.q.Length() != 0 {
		f := e.q.Remove().(func())
		e.mu.Unlock()
		f()
		e.mu.Lock()
	}
	e.draining = false
	e.mu.Unlock()
}

// A ManualExecutor queues work until it is driven. It implements
// [TimedDrivableExecutor] and is the natural companion of WaitVia and
// GetVia: the waiting goroutine pumps the executor while it waits.
type ManualExecutor struct {
	mu   sync.Mutex
	q    *queue.Queue
	wake chan struct{}
}

// NewManualExecutor creates a new [ManualExecutor].
func NewManualExecutor() *ManualExecutor {
	return &ManualExecutor{
		q:    queue.New(),
		wake: make(chan struct{}, 1),
	}
}

// Add queues f for a later Drive.
func (e *ManualExecutor) Add(f func()) {
	e.mu.Lock()
	e.q.Add(f)
	e.mu.Unlock()
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// Drive runs pending work until the queue empties once.
func (e *ManualExecutor) Drive() {
	e.drainOnce()
}

func (e *ManualExecutor) drainOnce() (n int) {
	e.mu.Lock()
	for e.q.Length() != 0 {
		f := e.q.Remove().(func())
		e.mu.Unlock()
		f()
		n++
		e.mu.Lock()
	}
	e.mu.Unlock()
	return n
}

// TryDriveUntil runs pending work, blocking for more until deadline.
// It reports whether any work was run.
func (e *ManualExecutor) TryDriveUntil(deadline time.Time) bool {
	for {
		if e.drainOnce() > 0 {
			return true
		}
		d := time.Until(deadline)
		if d <= 0 {
			return false
		}
		tm := time.NewTimer(d)
		select {
		case <-e.wake:
			tm.Stop()
		case <-tm.C:
		}
	}
}

// A PoolExecutor runs each unit of work on its own goroutine, with at most
// n of them running at the same time.
type PoolExecutor struct {
	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

// NewPoolExecutor creates a new [PoolExecutor] allowing n concurrent units
// of work.
func NewPoolExecutor(n int64) *PoolExecutor {
	return &PoolExecutor{sem: semaphore.NewWeighted(n)}
}

// Add schedules f on a new goroutine, subject to the concurrency bound.
func (e *PoolExecutor) Add(f func()) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		_ = e.sem.Acquire(context.Background(), 1)
		defer e.sem.Release(1)
		f()
	}()
}

// Join blocks until all work submitted so far has finished.
func (e *PoolExecutor) Join() {
	e.wg.Wait()
}
