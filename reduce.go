package future

import "sync"

// Reduce consumes the inputs and folds them, in input order, into an
// accumulator: each step runs as a continuation on the previous one. An
// input error, or an error from fn, short-circuits the fold; the remaining
// inputs are still awaited, in order, so the returned handle completes only
// after the last input has.
func Reduce[T, U any](fs []*SemiFuture[T], initial U, fn func(U, T) (U, error)) *SemiFuture[U] {
	return ReduceResult(fs, initial, func(acc U, r Result[T]) (U, error) {
		if r.HasError() {
			var zero U
			return zero, r.Err()
		}
		return fn(acc, r.Value())
	})
}

// ReduceResult is [Reduce] for folding functions that inspect each input's
// full [Result], errors included.
func ReduceResult[T, U any](fs []*SemiFuture[T], initial U, fn func(U, Result[T]) (U, error)) *SemiFuture[U] {
	if len(fs) == 0 {
		return MakeSemiFuture(initial)
	}
	next := newCore[U]()

	var step func(i int, acc Result[U])
	step = func(i int, acc Result[U]) {
		if i == len(fs) {
			next.setResult(acc)
			return
		}
		c, ok := fs[i].take()
		if !ok {
			step(i+1, combineStep(acc, ErrorOf[T](ErrInvalid), fn))
			return
		}
		observeCore(c, func(r Result[T]) {
			step(i+1, combineStep(acc, r, fn))
		})
	}
	step(0, ValueOf(initial))

	return &SemiFuture[U]{core: next}
}

func combineStep[T, U any](acc Result[U], r Result[T], fn func(U, Result[T]) (U, error)) Result[U] {
	if acc.HasError() {
		return acc
	}
	return tryResult(func() (U, error) { return fn(acc.Value(), r) })
}

// UnorderedReduce consumes the inputs and folds them in completion order
// rather than input order. Each application of fn is chained after the
// current accumulator, so applications never overlap even when inputs
// complete simultaneously; a small lock protects only the chaining, not fn
// itself. With all-error inputs, the first error to complete surfaces.
func UnorderedReduce[T, U any](fs []*SemiFuture[T], initial U, fn func(U, T) (U, error)) *SemiFuture[U] {
	if len(fs) == 0 {
		return MakeSemiFuture(initial)
	}
	next := newCore[U]()

	memo := newCore[U]()
	memo.setResult(ValueOf(initial))

	ctx := &unorderedReduceContext[U]{memo: memo, total: len(fs)}

	mapObserve(fs, func(_ int, r Result[T]) {
		tail := newCore[U]()

		ctx.mu.Lock()
		prev := ctx.memo
		ctx.memo = tail
		ctx.applied++
		last := ctx.applied == ctx.total
		ctx.mu.Unlock()

		prev.setCallback(func(acc Result[U]) {
			switch {
			case acc.HasError():
				tail.setResult(acc)
			case r.HasError():
				tail.setResult(ErrorOf[U](r.Err()))
			default:
				tail.setResult(tryResult(func() (U, error) {
					return fn(acc.Value(), r.Value())
				}))
			}
		})

		if last {
			tail.setCallback(func(acc Result[U]) { next.setResult(acc) })
		}
	})

	return &SemiFuture[U]{core: next}
}

type unorderedReduceContext[U any] struct {
	mu      sync.Mutex // protects the accumulator chain
	memo    *core[U]
	applied int
	total   int
}
