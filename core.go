package future

import (
	"sync"
	"sync/atomic"
)

// States of a core. A result may only be read in stateOnlyResult, stateArmed
// and stateDone; a callback may only be present in stateOnlyCallback and
// stateArmed.
const (
	stateStart uint32 = iota
	stateOnlyResult
	stateOnlyCallback
	stateArmed
	stateDone
)

// A core is the shared state binding a producer, at most one consumer
// callback, an optional executor and an optional interrupt handler.
// It is the only object shared between the two sides; the hand-off of
// result and callback is synchronized on its state word, while the executor
// and interrupt slots sit behind a small mutex.
//
// Neither a [Promise] nor a future holds a back-reference to the other; both
// point at the same core and the core outlives whichever side is dropped
// first.
type core[T any] struct {
	state    atomic.Uint32
	attached atomic.Int32 // producer and consumer retentions
	result   Result[T]
	callback func(Result[T])

	mu               sync.Mutex // guards the fields below
	executor         Executor
	priority         int8
	interruptHandler func(error)
	interrupt        error
}

func newCore[T any]() *core[T] {
	c := new(core[T])
	c.attached.Store(2)
	return c
}

// setResult stores the result exactly once and, if a callback is already
// installed, dispatches it. The store happens before the state transition so
// that whichever goroutine observes stateArmed also observes the result.
func (c *core[T]) setResult(r Result[T]) {
	c.result = r
	for {
		switch s := c.state.Load(); s {
		case stateStart:
			if c.state.CompareAndSwap(stateStart, stateOnlyResult) {
				return
			}
		case stateOnlyCallback:
			if c.state.CompareAndSwap(stateOnlyCallback, stateArmed) {
				c.dispatch()
				return
			}
		default:
			panic("future: result already set")
		}
	}
}

// setCallback installs the continuation exactly once and, if a result is
// already present, dispatches it.
func (c *core[T]) setCallback(cb func(Result[T])) {
	c.callback = cb
	for {
		switch s := c.state.Load(); s {
		case stateStart:
			if c.state.CompareAndSwap(stateStart, stateOnlyCallback) {
				return
			}
		case stateOnlyResult:
			if c.state.CompareAndSwap(stateOnlyResult, stateArmed) {
				c.dispatch()
				return
			}
		default:
			panic("future: callback already set")
		}
	}
}

// dispatch hands the callback and result to the bound executor, or runs them
// inline when no executor is bound. Exactly one dispatch occurs per core.
func (c *core[T]) dispatch() {
	c.mu.Lock()
	ex, prio := c.executor, c.priority
	c.mu.Unlock()

	cb, r := c.callback, c.result
	c.callback = nil

	run := func() {
		cb(r)
		c.state.Store(stateDone)
	}

	switch {
	case ex == nil:
		run()
	default:
		addWork(ex, run, prio)
	}
}

// hasResult reports whether a result has been stored.
func (c *core[T]) hasResult() bool {
	switch c.state.Load() {
	case stateOnlyResult, stateArmed, stateDone:
		return true
	}
	return false
}

// ready reports whether a result is present and not yet claimed by
// a callback.
func (c *core[T]) ready() bool {
	return c.state.Load() == stateOnlyResult
}

func (c *core[T]) setExecutor(ex Executor, priority int8) {
	c.mu.Lock()
	c.executor, c.priority = ex, priority
	c.mu.Unlock()
}

func (c *core[T]) getExecutor() Executor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.executor
}

func (c *core[T]) getExecutorAndPriority() (Executor, int8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.executor, c.priority
}

// readResult returns the stored result. Only valid once hasResult reports
// true.
func (c *core[T]) readResult() Result[T] {
	return c.result
}

// raise delivers err to the interrupt handler if one is installed, or stores
// it for a future handler. Only the first interrupt is kept. The handler runs
// outside the lock.
func (c *core[T]) raise(err error) {
	c.mu.Lock()
	if h := c.interruptHandler; h != nil {
		c.mu.Unlock()
		_ = try(func() { h(err) })
		return
	}
	if c.interrupt == nil {
		c.interrupt = err
	}
	c.mu.Unlock()
}

// setInterruptHandler installs h. A pending interrupt, if any, is delivered
// to h immediately.
func (c *core[T]) setInterruptHandler(h func(error)) {
	c.mu.Lock()
	c.interruptHandler = h
	err := c.interrupt
	c.interrupt = nil
	c.mu.Unlock()
	if err != nil && h != nil {
		_ = try(func() { h(err) })
	}
}

// inheritInterruptHandler copies the interrupt handler of the upstream core
// so that a late raise propagates toward the earliest producer. The upstream
// lock is taken exactly once.
func (c *core[T]) inheritInterruptHandler(h func(error)) {
	if h == nil {
		return
	}
	c.mu.Lock()
	c.interruptHandler = h
	c.mu.Unlock()
}

func (c *core[T]) takeInterruptHandler() func(error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interruptHandler
}

// detachProducer releases the producer retention. If no result was set and
// the core is not in a terminal state, a broken-promise error is latched
// first.
func (c *core[T]) detachProducer() {
	if !c.hasResult() {
		c.setResult(ErrorOf[T](ErrBrokenPromise))
	}
	c.detach()
}

// detachConsumer releases the consumer retention. An installed callback
// survives the consumer handle; the core keeps it alive until a result
// arrives.
func (c *core[T]) detachConsumer() {
	c.detach()
}

func (c *core[T]) detach() {
	if c.attached.Add(-1) < 0 {
		panic("future: core detached too many times")
	}
}
