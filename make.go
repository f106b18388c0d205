package future

// Unit is the value type of futures that carry no value, such as those a
// [Timekeeper] produces.
type Unit struct{}

// MakeSemiFuture returns a completed unscheduled handle holding v.
func MakeSemiFuture[T any](v T) *SemiFuture[T] {
	return MakeResultSemiFuture(ValueOf(v))
}

// MakeErrorSemiFuture returns a completed unscheduled handle holding err.
func MakeErrorSemiFuture[T any](err error) *SemiFuture[T] {
	return MakeResultSemiFuture(ErrorOf[T](err))
}

// MakeResultSemiFuture returns a completed unscheduled handle holding r.
func MakeResultSemiFuture[T any](r Result[T]) *SemiFuture[T] {
	c := newCore[T]()
	c.setResult(r)
	c.detachProducer()
	return &SemiFuture[T]{core: c}
}

// MakeSemiFutureWith returns an unscheduled handle holding the outcome of
// fn, run eagerly on the calling goroutine. A panic in fn becomes
// a [PanicError] result.
func MakeSemiFutureWith[T any](fn func() (T, error)) *SemiFuture[T] {
	return MakeResultSemiFuture(tryResult(fn))
}

// MakeFuture returns a completed handle holding v, bound to the inline
// executor.
func MakeFuture[T any](v T) *Future[T] {
	return MakeSemiFuture(v).Via(Inline)
}

// MakeErrorFuture returns a completed handle holding err, bound to the
// inline executor.
func MakeErrorFuture[T any](err error) *Future[T] {
	return MakeErrorSemiFuture[T](err).Via(Inline)
}

// MakeResultFuture returns a completed handle holding r, bound to the
// inline executor.
func MakeResultFuture[T any](r Result[T]) *Future[T] {
	return MakeResultSemiFuture(r).Via(Inline)
}

// MakeFutureWith returns a handle holding the outcome of fn, run eagerly on
// the calling goroutine.
func MakeFutureWith[T any](fn func() (T, error)) *Future[T] {
	return MakeSemiFutureWith(fn).Via(Inline)
}

// RunVia returns a handle that completes with the outcome of fn, run as a
// unit of work on ex.
func RunVia[T any](ex Executor, fn func() (T, error)) *Future[T] {
	if ex == nil {
		return errorFuture[T](ErrNoExecutor)
	}
	p := NewPromise[T]()
	f := p.Semi().Via(ex)
	ex.Add(func() {
		p.SetResult(tryResult(fn))
	})
	return f
}

// errorSemiFuture is the in-package shorthand for a failed unscheduled
// handle.
func errorSemiFuture[T any](err error) *SemiFuture[T] {
	return MakeErrorSemiFuture[T](err)
}

// errorFuture returns a failed handle with no executor bound; operations
// that need one fall back to inline dispatch.
func errorFuture[T any](err error) *Future[T] {
	c := newCore[T]()
	c.setResult(ErrorOf[T](err))
	c.detachProducer()
	return &Future[T]{core: c}
}
