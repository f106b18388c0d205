package future

// Then consumes f and installs fn as its continuation. fn sees the upstream
// value; an upstream error short-circuits past fn. The returned handle runs
// its continuations on f's executor.
//
// Then is a free function because the value type changes; Go methods cannot
// introduce type parameters.
func Then[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	return chainFuture(f, func(r Result[T]) Result[U] {
		if r.HasError() {
			return ErrorOf[U](r.Err())
		}
		return tryResult(func() (U, error) { return fn(r.Value()) })
	})
}

// ThenResult is [Then] for continuations that inspect the full upstream
// [Result], errors included.
func ThenResult[T, U any](f *Future[T], fn func(Result[T]) (U, error)) *Future[U] {
	return chainFuture(f, func(r Result[T]) Result[U] {
		return tryResult(func() (U, error) { return fn(r) })
	})
}

// ThenFuture is [Then] for continuations that are themselves asynchronous:
// the handle fn returns is chained into the returned one. An unscheduled
// handle returned by fn is adapted to f's executor, or the inline executor
// if f has none.
func ThenFuture[T, U any](f *Future[T], fn func(T) *SemiFuture[U]) *Future[U] {
	return chainFutureAsync(f, func(r Result[T], next *core[U]) {
		if r.HasError() {
			next.setResult(ErrorOf[U](r.Err()))
			return
		}
		callAndForward(next, func() *SemiFuture[U] { return fn(r.Value()) })
	})
}

// ThenResultFuture is [ThenFuture] for continuations that inspect the full
// upstream [Result].
func ThenResultFuture[T, U any](f *Future[T], fn func(Result[T]) *SemiFuture[U]) *Future[U] {
	return chainFutureAsync(f, func(r Result[T], next *core[U]) {
		callAndForward(next, func() *SemiFuture[U] { return fn(r) })
	})
}

// Unwrap collapses one layer of nesting: the inner future's result becomes
// the returned handle's result. An upstream error short-circuits.
func Unwrap[T any](f *Future[*Future[T]]) *Future[T] {
	return chainFutureAsync(f, func(r Result[*Future[T]], next *core[T]) {
		if r.HasError() {
			next.setResult(ErrorOf[T](r.Err()))
			return
		}
		inner := r.Value()
		if inner == nil {
			next.setResult(ErrorOf[T](ErrInvalid))
			return
		}
		forwardInner(inner.Semi(), next)
	})
}
