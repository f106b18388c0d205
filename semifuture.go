package future

import (
	"errors"
	"sync/atomic"
	"time"
)

// A SemiFuture is the read side of a shared core with no consumer-attached
// executor: it cannot carry continuations of its own. Work may be staged on
// it with [Defer] and runs once a real executor is attached with Via, or
// inline when the handle is waited on.
//
// Most operations consume the handle; a consumed handle is invalid and
// subsequent operations fail with [ErrInvalid]. A SemiFuture is not safe for
// concurrent use.
type SemiFuture[T any] struct {
	core *core[T]
}

func (f *SemiFuture[T]) take() (*core[T], bool) {
	c := f.core
	f.core = nil
	return c, c != nil
}

// deferredOf returns the staging executor of c, if it has one.
func deferredOf[T any](c *core[T]) *deferredExecutor {
	d, _ := c.getExecutor().(*deferredExecutor)
	return d
}

// observeCore consumes the callback slot of c with cb. If deferred work is
// staged on c, it is wired to run inline on the completing goroutine.
func observeCore[T any](c *core[T], cb func(Result[T])) {
	if d := deferredOf(c); d != nil {
		c.setExecutor(nil, 0)
		d.setExecutor(Inline)
	}
	c.setCallback(cb)
}

// Via consumes f and returns a handle scheduled on ex: continuations
// installed on the returned handle run on ex. Deferred work staged on f is
// wired to ex as well. If ex is nil, the returned handle fails with
// [ErrNoExecutor].
func (f *SemiFuture[T]) Via(ex Executor) *Future[T] {
	return f.ViaPriority(ex, 0)
}

// ViaPriority is [SemiFuture.Via] with an executor priority.
func (f *SemiFuture[T]) ViaPriority(ex Executor, priority int8) *Future[T] {
	c, ok := f.take()
	if !ok {
		return errorFuture[T](ErrInvalid)
	}
	if ex == nil {
		if d := deferredOf(c); d != nil {
			d.detach()
		}
		c.detachConsumer()
		return errorFuture[T](ErrNoExecutor)
	}
	d := deferredOf(c)
	c.setExecutor(ex, priority)
	if d != nil {
		d.setExecutor(ex)
	}
	return &Future[T]{core: c}
}

// Wait blocks until the core holds a result. Deferred work staged on f is
// run inline on the calling goroutine. After Wait, f is still unscheduled
// but its core is terminal.
func (f *SemiFuture[T]) Wait() {
	c := f.core
	if c == nil {
		return
	}
	if d := deferredOf(c); d != nil {
		d.wait()
		d.runAndDestroy()
		c.setExecutor(nil, 0)
		return
	}
	if c.hasResult() {
		return
	}
	b := newBaton()
	c.setCallback(func(Result[T]) { b.post() })
	b.wait()
}

// WaitFor is like [SemiFuture.Wait] but gives up after dur, reporting
// whether the core holds a result.
func (f *SemiFuture[T]) WaitFor(dur time.Duration) bool {
	c := f.core
	if c == nil {
		return false
	}
	if d := deferredOf(c); d != nil {
		if !d.waitFor(dur) {
			return false
		}
		d.runAndDestroy()
		c.setExecutor(nil, 0)
		return true
	}
	if c.hasResult() {
		return true
	}
	b := newBaton()
	next := newCore[T]()
	next.inheritInterruptHandler(c.takeInterruptHandler())
	c.setCallback(func(r Result[T]) {
		next.setResult(r)
		b.post()
	})
	f.core = next
	return b.tryWaitFor(dur)
}

// Get consumes f, waits for completion and returns the outcome.
func (f *SemiFuture[T]) Get() (T, error) {
	return f.GetResult().Get()
}

// GetFor is like [SemiFuture.Get] but fails with [ErrTimeout] if the core
// is not fulfilled within dur.
func (f *SemiFuture[T]) GetFor(dur time.Duration) (T, error) {
	return f.GetResultFor(dur).Get()
}

// GetResult consumes f, waits for completion and returns the Result.
func (f *SemiFuture[T]) GetResult() Result[T] {
	f.Wait()
	c, ok := f.take()
	if !ok {
		return ErrorOf[T](ErrInvalid)
	}
	c.detachConsumer()
	return c.readResult()
}

// GetResultFor is like [SemiFuture.GetResult] but yields [ErrTimeout] if the
// core is not fulfilled within dur.
func (f *SemiFuture[T]) GetResultFor(dur time.Duration) Result[T] {
	ok := f.WaitFor(dur)
	c, valid := f.take()
	if !valid {
		return ErrorOf[T](ErrInvalid)
	}
	if d := deferredOf(c); d != nil {
		d.detach()
		c.setExecutor(nil, 0)
	}
	c.detachConsumer()
	if !ok && !c.hasResult() {
		return ErrorOf[T](ErrTimeout)
	}
	return c.readResult()
}

// IsReady reports whether the core holds a result.
func (f *SemiFuture[T]) IsReady() bool {
	return f.core != nil && f.core.hasResult()
}

// Poll returns the result without blocking, reporting whether one is
// present. Poll does not consume f.
func (f *SemiFuture[T]) Poll() (Result[T], bool) {
	if !f.IsReady() {
		return Result[T]{}, false
	}
	return f.core.readResult(), true
}

// Raise signals an interrupt toward the producer. A producer that installed
// an interrupt handler may observe err and short-circuit; one that did not
// is free to complete normally.
func (f *SemiFuture[T]) Raise(err error) {
	if c := f.core; c != nil {
		c.raise(err)
	}
}

// Cancel raises [ErrFutureCancelled] toward the producer.
func (f *SemiFuture[T]) Cancel() {
	f.Raise(ErrFutureCancelled)
}

// Delayed consumes f and returns a handle that completes with f's result,
// but no earlier than after dur has elapsed. The singleton timekeeper
// provides the timer.
func (f *SemiFuture[T]) Delayed(dur time.Duration) *SemiFuture[T] {
	return f.DelayedTimekeeper(dur, nil)
}

// DelayedTimekeeper is [SemiFuture.Delayed] with an explicit timekeeper.
func (f *SemiFuture[T]) DelayedTimekeeper(dur time.Duration, tk Timekeeper) *SemiFuture[T] {
	c, ok := f.take()
	if !ok {
		return errorSemiFuture[T](ErrInvalid)
	}
	tk, err := resolveTimekeeper(tk)
	if err != nil {
		c.detachConsumer()
		return errorSemiFuture[T](err)
	}
	next := newCore[T]()
	next.inheritInterruptHandler(c.takeInterruptHandler())
	delayCore(c, next, dur, tk)
	return &SemiFuture[T]{core: next}
}

// A delayGate fulfills a core with an upstream result once both the result
// has arrived and a timer has fired, in either order.
type delayGate[T any] struct {
	next    *core[T]
	result  Result[T]
	pending atomic.Int32
}

func newDelayGate[T any](next *core[T]) *delayGate[T] {
	d := &delayGate[T]{next: next}
	d.pending.Store(2)
	return d
}

func (d *delayGate[T]) complete(r Result[T]) {
	d.result = r
	d.down()
}

func (d *delayGate[T]) elapse() {
	d.down()
}

func (d *delayGate[T]) down() {
	if d.pending.Add(-1) == 0 {
		d.next.setResult(d.result)
	}
}

// Defer consumes f and stages fn on its deferred executor: fn runs on
// whatever real executor is eventually attached with Via, or inline during
// a Wait. The returned handle carries the same deferred executor.
func Defer[T, U any](f *SemiFuture[T], fn func(Result[T]) (U, error)) *SemiFuture[U] {
	return deferImpl(f, func(r Result[T]) Result[U] {
		return tryResult(func() (U, error) { return fn(r) })
	})
}

// DeferValue is [Defer] for callbacks that only care about values: an
// upstream error short-circuits past fn.
func DeferValue[T, U any](f *SemiFuture[T], fn func(T) (U, error)) *SemiFuture[U] {
	return deferImpl(f, func(r Result[T]) Result[U] {
		if r.HasError() {
			return ErrorOf[U](r.Err())
		}
		return tryResult(func() (U, error) { return fn(r.Value()) })
	})
}

// DeferErrorAs is [Defer] for callbacks that recover from errors of kind E:
// any other upstream result is forwarded unchanged.
func DeferErrorAs[T any, E error](f *SemiFuture[T], fn func(E) (T, error)) *SemiFuture[T] {
	return deferImpl(f, func(r Result[T]) Result[T] {
		var target E
		if !errors.As(r.Err(), &target) {
			return r
		}
		return tryResult(func() (T, error) { return fn(target) })
	})
}

func deferImpl[T, U any](f *SemiFuture[T], fn func(Result[T]) Result[U]) *SemiFuture[U] {
	c, ok := f.take()
	if !ok {
		return errorSemiFuture[U](ErrInvalid)
	}
	d := deferredOf(c)
	if d == nil {
		d = newDeferredExecutor()
		c.setExecutor(d, 0)
	}
	next := newCore[U]()
	next.inheritInterruptHandler(c.takeInterruptHandler())
	next.setExecutor(d, 0)
	c.setCallback(func(r Result[T]) {
		next.setResult(fn(r))
	})
	return &SemiFuture[U]{core: next}
}
