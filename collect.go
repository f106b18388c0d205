package future

import "sync/atomic"

// An IndexedResult pairs a completed input's position with its [Result].
type IndexedResult[T any] struct {
	Index  int
	Result Result[T]
}

// An IndexedValue pairs a completed input's position with its value.
type IndexedValue[T any] struct {
	Index int
	Value T
}

// mapObserve consumes every input handle and arranges for cb to be called
// with each one's position and result as it completes. An already-consumed
// input reports [ErrInvalid] immediately.
func mapObserve[T any](fs []*SemiFuture[T], cb func(int, Result[T])) {
	for i, f := range fs {
		c, ok := f.take()
		if !ok {
			cb(i, ErrorOf[T](ErrInvalid))
			continue
		}
		observeCore(c, func(r Result[T]) { cb(i, r) })
	}
}

// CollectAll consumes the inputs and returns a handle that completes, once
// every input has, with one [Result] per input in input order. It never
// fails itself.
func CollectAll[T any](fs []*SemiFuture[T]) *SemiFuture[[]Result[T]] {
	next := newCore[[]Result[T]]()
	results := make([]Result[T], len(fs))
	if len(fs) == 0 {
		next.setResult(ValueOf(results))
		return &SemiFuture[[]Result[T]]{core: next}
	}
	var remaining atomic.Int64
	remaining.Store(int64(len(fs)))
	mapObserve(fs, func(i int, r Result[T]) {
		results[i] = r
		if remaining.Add(-1) == 0 {
			next.setResult(ValueOf(results))
		}
	})
	return &SemiFuture[[]Result[T]]{core: next}
}

// Collect consumes the inputs and returns a handle that completes with the
// input values in input order if every input succeeds, or with the error of
// the earliest-completing failing input otherwise. Once an error is latched,
// remaining results are dropped.
func Collect[T any](fs []*SemiFuture[T]) *SemiFuture[[]T] {
	next := newCore[[]T]()
	values := make([]T, len(fs))
	if len(fs) == 0 {
		next.setResult(ValueOf(values))
		return &SemiFuture[[]T]{core: next}
	}
	var threw atomic.Bool
	var remaining atomic.Int64
	remaining.Store(int64(len(fs)))
	mapObserve(fs, func(i int, r Result[T]) {
		switch {
		case r.HasError():
			if !threw.Swap(true) {
				next.setResult(ErrorOf[[]T](r.Err()))
			}
		case !threw.Load():
			values[i] = r.Value()
		}
		if remaining.Add(-1) == 0 && !threw.Swap(true) {
			next.setResult(ValueOf(values))
		}
	})
	return &SemiFuture[[]T]{core: next}
}

// CollectAny consumes the inputs and returns a handle that completes with
// the position and [Result] of the first input to complete. With no inputs,
// the returned handle never completes.
func CollectAny[T any](fs []*SemiFuture[T]) *SemiFuture[IndexedResult[T]] {
	next := newCore[IndexedResult[T]]()
	var done atomic.Bool
	mapObserve(fs, func(i int, r Result[T]) {
		if !done.Swap(true) {
			next.setResult(ValueOf(IndexedResult[T]{Index: i, Result: r}))
		}
	})
	return &SemiFuture[IndexedResult[T]]{core: next}
}

// CollectAnyValue consumes the inputs and returns a handle that completes
// with the position and value of the first input to succeed; if every input
// fails, it completes with the last error. With no inputs, the returned
// handle never completes.
func CollectAnyValue[T any](fs []*SemiFuture[T]) *SemiFuture[IndexedValue[T]] {
	next := newCore[IndexedValue[T]]()
	var done atomic.Bool
	var fulfilled atomic.Int64
	total := int64(len(fs))
	mapObserve(fs, func(i int, r Result[T]) {
		// The winner does not bump the counter, so the all-failed branch
		// can never fire once a success has claimed the token.
		if !r.HasError() && !done.Swap(true) {
			next.setResult(ValueOf(IndexedValue[T]{Index: i, Value: r.Value()}))
		} else if fulfilled.Add(1) == total {
			next.setResult(ErrorOf[IndexedValue[T]](r.Err()))
		}
	})
	return &SemiFuture[IndexedValue[T]]{core: next}
}

// CollectN consumes the inputs and returns a handle that completes with the
// first n successful results in completion order, each tagged with its input
// position. It fails with [ErrNotEnoughFutures] if fewer than n inputs
// exist, or if the inputs are exhausted before n of them succeed.
func CollectN[T any](fs []*SemiFuture[T], n int) *SemiFuture[[]IndexedValue[T]] {
	next := newCore[[]IndexedValue[T]]()
	out := &SemiFuture[[]IndexedValue[T]]{core: next}

	if len(fs) < n {
		mapObserve(fs, func(int, Result[T]) {})
		next.setResult(ErrorOf[[]IndexedValue[T]](ErrNotEnoughFutures))
		return out
	}
	if n <= 0 {
		mapObserve(fs, func(int, Result[T]) {})
		next.setResult(ValueOf([]IndexedValue[T]{}))
		return out
	}

	slots := make([]IndexedValue[T], n)
	var done atomic.Bool
	var claimed, stored, completed atomic.Int64
	total := int64(len(fs))

	mapObserve(fs, func(i int, r Result[T]) {
		if !r.HasError() {
			if k := claimed.Add(1) - 1; k < int64(n) {
				slots[k] = IndexedValue[T]{Index: i, Value: r.Value()}
				if stored.Add(1) == int64(n) && !done.Swap(true) {
					next.setResult(ValueOf(slots))
				}
			}
		}
		// The success bookkeeping above must precede this count so that
		// the exhaustion check cannot fire while an nth success is still
		// in flight.
		if completed.Add(1) == total && !done.Swap(true) {
			next.setResult(ErrorOf[[]IndexedValue[T]](ErrNotEnoughFutures))
		}
	})
	return out
}

// WillEqual consumes both inputs and returns a handle that completes with
// true iff both complete with values that compare equal.
func WillEqual[T comparable](a, b *SemiFuture[T]) *SemiFuture[bool] {
	next := newCore[bool]()
	all, _ := CollectAll([]*SemiFuture[T]{a, b}).take()
	observeCore(all, func(r Result[[]Result[T]]) {
		rs := r.Value()
		if rs[0].HasError() || rs[1].HasError() {
			next.setResult(ValueOf(false))
			return
		}
		next.setResult(ValueOf(rs[0].Value() == rs[1].Value()))
	})
	return &SemiFuture[bool]{core: next}
}
