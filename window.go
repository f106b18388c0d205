package future

import "sync/atomic"

// Window consumes no handles: it dispatches fn over input with at most n
// invocations in flight at once. As each invocation finishes, the next input
// is dispatched on the executor. The returned handles correspond to the
// inputs in input order. Dispatch happens on [Queued], keeping stack depth
// flat for long inputs.
func Window[T, U any](input []T, fn func(T) *SemiFuture[U], n int) []*Future[U] {
	return WindowVia(Queued, input, fn, n)
}

// WindowVia is [Window] with an explicit dispatch executor.
func WindowVia[T, U any](ex Executor, input []T, fn func(T) *SemiFuture[U], n int) []*Future[U] {
	return windowImpl(ex, len(input), func(i int) *SemiFuture[U] { return fn(input[i]) }, n)
}

// WindowCount is [Window] over the indices 0..times-1, without
// materializing them.
func WindowCount[U any](times int, fn func(int) *SemiFuture[U], n int) []*Future[U] {
	return windowImpl(Queued, times, fn, n)
}

type windowContext[U any] struct {
	ex    Executor
	fn    func(int) *SemiFuture[U]
	idx   atomic.Int64
	cores []*core[U]
}

// spawn claims the next input, runs fn on it and, once the inner handle
// completes, fulfills the input's slot and chains another spawn on the
// executor.
func (ctx *windowContext[U]) spawn() {
	i := int(ctx.idx.Add(1) - 1)
	if i >= len(ctx.cores) {
		return
	}
	var inner *SemiFuture[U]
	if err := try(func() { inner = ctx.fn(i) }); err != nil {
		inner = errorSemiFuture[U](err)
	}
	if inner == nil {
		inner = errorSemiFuture[U](ErrInvalid)
	}
	ic, ok := inner.take()
	if !ok {
		ic = newCore[U]()
		ic.setResult(ErrorOf[U](ErrInvalid))
	}
	observeCore(ic, func(r Result[U]) {
		ctx.ex.Add(func() {
			ctx.cores[i].setResult(r)
			ctx.spawn()
		})
	})
}

func windowImpl[U any](ex Executor, size int, fn func(int) *SemiFuture[U], n int) []*Future[U] {
	ctx := &windowContext[U]{
		ex:    ex,
		fn:    fn,
		cores: make([]*core[U], size),
	}
	out := make([]*Future[U], size)
	for i := range ctx.cores {
		c := newCore[U]()
		c.setExecutor(ex, 0)
		ctx.cores[i] = c
		out[i] = &Future[U]{core: c}
	}

	for range min(n, size) {
		ex.Add(ctx.spawn)
	}

	return out
}
