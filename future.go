package future

import (
	"errors"
	"runtime"
	"sync/atomic"
	"time"
	"weak"
)

// A Future is the read side of a shared core bound to an executor: every
// continuation installed through it runs on that executor. A Future is
// obtained from [SemiFuture.Via], from [Promise.Future], or from one of the
// Make functions.
//
// Most operations consume the handle; a consumed handle is invalid and
// subsequent operations fail with [ErrInvalid]. A Future is not safe for
// concurrent use.
type Future[T any] struct {
	core *core[T]
}

func (f *Future[T]) take() (*core[T], bool) {
	c := f.core
	f.core = nil
	return c, c != nil
}

// Semi consumes f and returns it as an unscheduled handle. The core keeps
// its executor until another one is attached with Via.
func (f *Future[T]) Semi() *SemiFuture[T] {
	c, ok := f.take()
	if !ok {
		return errorSemiFuture[T](ErrInvalid)
	}
	return &SemiFuture[T]{core: c}
}

// Executor returns the executor f is bound to.
func (f *Future[T]) Executor() Executor {
	if c := f.core; c != nil {
		return c.getExecutor()
	}
	return nil
}

// Via consumes f and rebinds it to ex.
func (f *Future[T]) Via(ex Executor) *Future[T] {
	return f.Semi().Via(ex)
}

// IsReady reports whether the core holds a result.
func (f *Future[T]) IsReady() bool {
	return f.core != nil && f.core.hasResult()
}

// Poll returns the result without blocking, reporting whether one is
// present. Poll does not consume f.
func (f *Future[T]) Poll() (Result[T], bool) {
	if !f.IsReady() {
		return Result[T]{}, false
	}
	return f.core.readResult(), true
}

// Raise signals an interrupt toward the producer. A producer that installed
// an interrupt handler may observe err and short-circuit; one that did not
// is free to complete normally.
func (f *Future[T]) Raise(err error) {
	if c := f.core; c != nil {
		c.raise(err)
	}
}

// Cancel raises [ErrFutureCancelled] toward the producer.
func (f *Future[T]) Cancel() {
	f.Raise(ErrFutureCancelled)
}

// Wait blocks until the core holds a result. The completion callback runs
// inline on the producer's goroutine, so Wait does not require f's executor
// to be driven. After Wait, the core is terminal.
func (f *Future[T]) Wait() {
	c := f.core
	if c == nil || c.hasResult() {
		return
	}
	b := newBaton()
	c.setExecutor(Inline, 0)
	c.setCallback(func(Result[T]) { b.post() })
	b.wait()
}

// WaitFor is like [Future.Wait] but gives up after dur, reporting whether
// the core holds a result.
func (f *Future[T]) WaitFor(dur time.Duration) bool {
	c := f.core
	if c == nil {
		return false
	}
	if c.hasResult() {
		return true
	}
	ex, prio := c.getExecutorAndPriority()
	b := newBaton()
	next := newCore[T]()
	next.inheritInterruptHandler(c.takeInterruptHandler())
	next.setExecutor(ex, prio)
	c.setExecutor(Inline, 0)
	c.setCallback(func(r Result[T]) {
		next.setResult(r)
		b.post()
	})
	f.core = next
	return b.tryWaitFor(dur)
}

// WaitVia blocks until the core holds a result, repeatedly driving e while
// it waits. The completion callback is dispatched on e, so e must be f's
// executor, or at least reachable from it.
func (f *Future[T]) WaitVia(e DrivableExecutor) {
	c := f.core
	if c == nil || c.hasResult() {
		return
	}
	b := newBaton()
	c.setExecutor(e, 0)
	c.setCallback(func(Result[T]) { b.post() })
	for !b.tryWaitFor(0) {
		if te, ok := e.(TimedDrivableExecutor); ok {
			te.TryDriveUntil(time.Now().Add(time.Millisecond))
			continue
		}
		e.Drive()
		runtime.Gosched()
	}
}

// WaitViaFor is like [Future.WaitVia] but gives up after dur, reporting
// whether the core holds a result.
func (f *Future[T]) WaitViaFor(e TimedDrivableExecutor, dur time.Duration) bool {
	c := f.core
	if c == nil {
		return false
	}
	if c.hasResult() {
		return true
	}
	deadline := time.Now().Add(dur)
	b := newBaton()
	c.setExecutor(e, 0)
	c.setCallback(func(Result[T]) { b.post() })
	for !b.tryWaitFor(0) {
		if !time.Now().Before(deadline) {
			return c.hasResult()
		}
		e.TryDriveUntil(deadline)
	}
	return true
}

// Get consumes f, waits for completion and returns the outcome.
func (f *Future[T]) Get() (T, error) {
	return f.GetResult().Get()
}

// GetFor is like [Future.Get] but fails with [ErrTimeout] if the core is
// not fulfilled within dur.
func (f *Future[T]) GetFor(dur time.Duration) (T, error) {
	return f.GetResultFor(dur).Get()
}

// GetVia drives e until completion, then returns the outcome.
func (f *Future[T]) GetVia(e DrivableExecutor) (T, error) {
	return f.GetResultVia(e).Get()
}

// GetResult consumes f, waits for completion and returns the Result.
func (f *Future[T]) GetResult() Result[T] {
	f.Wait()
	return f.claimResult()
}

// GetResultFor is like [Future.GetResult] but yields [ErrTimeout] if the
// core is not fulfilled within dur.
func (f *Future[T]) GetResultFor(dur time.Duration) Result[T] {
	ok := f.WaitFor(dur)
	c, valid := f.take()
	if !valid {
		return ErrorOf[T](ErrInvalid)
	}
	c.detachConsumer()
	if !ok && !c.hasResult() {
		return ErrorOf[T](ErrTimeout)
	}
	return c.readResult()
}

// GetResultVia drives e until completion, then returns the Result.
func (f *Future[T]) GetResultVia(e DrivableExecutor) Result[T] {
	f.WaitVia(e)
	return f.claimResult()
}

func (f *Future[T]) claimResult() Result[T] {
	c, ok := f.take()
	if !ok {
		return ErrorOf[T](ErrInvalid)
	}
	c.detachConsumer()
	return c.readResult()
}

// OnError consumes f and installs a recovery callback: if the upstream
// result holds an error, fn is invoked with it and its outcome replaces the
// result; a value is forwarded unchanged.
func (f *Future[T]) OnError(fn func(error) (T, error)) *Future[T] {
	return chainFuture(f, func(r Result[T]) Result[T] {
		if !r.HasError() {
			return r
		}
		return tryResult(func() (T, error) { return fn(r.Err()) })
	})
}

// OnErrorFuture is [Future.OnError] for recovery callbacks that are
// themselves asynchronous.
func (f *Future[T]) OnErrorFuture(fn func(error) *SemiFuture[T]) *Future[T] {
	return chainFutureAsync(f, func(r Result[T], next *core[T]) {
		if !r.HasError() {
			next.setResult(r)
			return
		}
		callAndForward(next, func() *SemiFuture[T] { return fn(r.Err()) })
	})
}

// Ensure consumes f and installs fn to run for side effect on completion.
// The upstream result is forwarded unchanged, unless fn itself panics.
func (f *Future[T]) Ensure(fn func()) *Future[T] {
	return chainFuture(f, func(r Result[T]) Result[T] {
		if err := try(fn); err != nil {
			return ErrorOf[T](err)
		}
		return r
	})
}

// Filter consumes f and installs a predicate: a value that pred rejects is
// replaced with [ErrPredicateDoesNotObtain].
func (f *Future[T]) Filter(pred func(T) bool) *Future[T] {
	return chainFuture(f, func(r Result[T]) Result[T] {
		if r.HasError() {
			return r
		}
		ok := false
		if err := try(func() { ok = pred(r.Value()) }); err != nil {
			return ErrorOf[T](err)
		}
		if !ok {
			return ErrorOf[T](ErrPredicateDoesNotObtain)
		}
		return r
	})
}

// Within consumes f and returns a handle that resolves to the upstream
// result if it arrives within dur, and to [ErrTimeout] otherwise. The timer
// raises an interrupt upstream when it wins.
func (f *Future[T]) Within(dur time.Duration) *Future[T] {
	return f.WithinTimekeeper(dur, ErrTimeout, nil)
}

// WithinError is [Future.Within] with a custom timeout error.
func (f *Future[T]) WithinError(dur time.Duration, err error) *Future[T] {
	return f.WithinTimekeeper(dur, err, nil)
}

// A withinContext pairs the timer and the upstream completion behind one
// first-writer-wins token; only the winner fulfills the downstream core.
type withinContext[T any] struct {
	err      error
	upstream *core[T]
	next     *core[T]
	token    atomic.Bool
}

// WithinTimekeeper is [Future.Within] with a custom timeout error and an
// explicit timekeeper. A nil tk means the singleton.
func (f *Future[T]) WithinTimekeeper(dur time.Duration, errOut error, tk Timekeeper) *Future[T] {
	c := f.core
	if c == nil {
		return errorFuture[T](ErrInvalid)
	}
	if c.hasResult() {
		return f
	}
	tk, err := resolveTimekeeper(tk)
	if err != nil {
		c.detachConsumer()
		f.core = nil
		return errorFuture[T](err)
	}
	f.core = nil
	ex, prio := c.getExecutorAndPriority()
	if ex == nil {
		ex = Inline
	}

	ctx := &withinContext[T]{err: errOut, upstream: c, next: newCore[T]()}
	ctx.next.setExecutor(ex, prio)

	tc := timerCore(tk, dur)

	// Upstream side: the callback holds the only strong reference to ctx,
	// so ctx is collectable as soon as the upstream path resolves.
	c.setCallback(func(r Result[T]) {
		if !ctx.token.Swap(true) {
			ctx.next.setResult(r)
			tc.raise(ErrFutureCancelled)
		}
	})

	wp := weak.Make(ctx)
	ctx.next.setInterruptHandler(func(e error) {
		if ctx := wp.Value(); ctx != nil {
			ctx.upstream.raise(e)
		}
	})

	observeCore(tc, func(r Result[Unit]) {
		ctx := wp.Value()
		if ctx == nil {
			// Upstream completed first; nothing to time out.
			return
		}
		if !ctx.token.Swap(true) {
			if r.HasError() {
				ctx.next.setResult(ErrorOf[T](r.Err()))
			} else {
				ctx.next.setResult(ErrorOf[T](ctx.err))
			}
			ctx.upstream.raise(ErrTimeout)
		}
	})

	return &Future[T]{core: ctx.next}
}

// Delayed consumes f and returns a handle that completes with f's result,
// but no earlier than after dur has elapsed.
func (f *Future[T]) Delayed(dur time.Duration) *Future[T] {
	return f.DelayedTimekeeper(dur, nil)
}

// DelayedTimekeeper is [Future.Delayed] with an explicit timekeeper.
func (f *Future[T]) DelayedTimekeeper(dur time.Duration, tk Timekeeper) *Future[T] {
	c, ok := f.take()
	if !ok {
		return errorFuture[T](ErrInvalid)
	}
	tk, err := resolveTimekeeper(tk)
	if err != nil {
		c.detachConsumer()
		return errorFuture[T](err)
	}
	ex, prio := c.getExecutorAndPriority()
	next := newCore[T]()
	next.inheritInterruptHandler(c.takeInterruptHandler())
	next.setExecutor(ex, prio)
	delayCore(c, next, dur, tk)
	return &Future[T]{core: next}
}

// delayCore wires c and a timer into next: next completes with c's result
// once both have fired.
func delayCore[T any](c, next *core[T], dur time.Duration, tk Timekeeper) {
	d := newDelayGate(next)
	observeCore(c, d.complete)
	tc := timerCore(tk, dur)
	observeCore(tc, func(Result[Unit]) { d.elapse() })
}

// timerCore consumes a timekeeper's After handle down to its core. A
// timekeeper that hands out a consumed handle is treated as having fired
// immediately.
func timerCore(tk Timekeeper, dur time.Duration) *core[Unit] {
	sf := tk.After(dur)
	if sf != nil {
		if tc, ok := sf.take(); ok {
			return tc
		}
	}
	tc := newCore[Unit]()
	tc.setResult(ValueOf(Unit{}))
	return tc
}

// chainFuture consumes f and installs fn as its continuation; the returned
// handle shares f's executor and inherits its interrupt handler.
func chainFuture[T, U any](f *Future[T], fn func(Result[T]) Result[U]) *Future[U] {
	c, ok := f.take()
	if !ok {
		return errorFuture[U](ErrInvalid)
	}
	next := newCore[U]()
	next.inheritInterruptHandler(c.takeInterruptHandler())
	ex, prio := c.getExecutorAndPriority()
	next.setExecutor(ex, prio)
	c.setCallback(func(r Result[T]) {
		next.setResult(fn(r))
	})
	return &Future[U]{core: next}
}

// chainFutureAsync is chainFuture for continuations that fulfill the
// downstream core themselves, possibly through another future.
func chainFutureAsync[T, U any](f *Future[T], fn func(Result[T], *core[U])) *Future[U] {
	c, ok := f.take()
	if !ok {
		return errorFuture[U](ErrInvalid)
	}
	next := newCore[U]()
	next.inheritInterruptHandler(c.takeInterruptHandler())
	ex, prio := c.getExecutorAndPriority()
	next.setExecutor(ex, prio)
	c.setCallback(func(r Result[T]) {
		fn(r, next)
	})
	return &Future[U]{core: next}
}

// callAndForward invokes fn, catching panics, and forwards the future it
// returns into next, adapting an unscheduled result to next's executor.
func callAndForward[U any](next *core[U], fn func() *SemiFuture[U]) {
	var inner *SemiFuture[U]
	if err := try(func() { inner = fn() }); err != nil {
		next.setResult(ErrorOf[U](err))
		return
	}
	if inner == nil {
		next.setResult(ErrorOf[U](ErrInvalid))
		return
	}
	forwardInner(inner, next)
}

// forwardInner chains the core of inner to next. An unscheduled inner is
// adapted to next's executor, or the inline executor if next has none, so
// that scheduled-handle continuations always run on an executor.
func forwardInner[U any](inner *SemiFuture[U], next *core[U]) {
	ic, ok := inner.take()
	if !ok {
		next.setResult(ErrorOf[U](ErrInvalid))
		return
	}
	ex := next.getExecutor()
	if ex == nil {
		ex = Inline
	}
	if d := deferredOf(ic); d != nil {
		ic.setExecutor(ex, 0)
		d.setExecutor(ex)
	} else if ic.getExecutor() == nil {
		ic.setExecutor(ex, 0)
	}
	ic.setCallback(func(r Result[U]) {
		next.setResult(r)
	})
}

// OnErrorAs consumes f and installs a recovery callback for errors of kind
// E, matched with [errors.As]; any other result is forwarded unchanged.
func OnErrorAs[T any, E error](f *Future[T], fn func(E) (T, error)) *Future[T] {
	return chainFuture(f, func(r Result[T]) Result[T] {
		var target E
		if !errors.As(r.Err(), &target) {
			return r
		}
		return tryResult(func() (T, error) { return fn(target) })
	})
}
