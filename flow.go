package future

import "sync/atomic"

// Map consumes the inputs and returns one handle per input, each completing
// with fn applied to that input's value. Work is staged with [DeferValue],
// so each output runs fn on whatever executor is eventually attached.
func Map[T, U any](fs []*SemiFuture[T], fn func(T) (U, error)) []*SemiFuture[U] {
	out := make([]*SemiFuture[U], len(fs))
	for i, f := range fs {
		out[i] = DeferValue(f, fn)
	}
	return out
}

// When returns thunk's handle if cond holds, and an already-completed
// handle otherwise.
func When(cond bool, thunk func() *SemiFuture[Unit]) *SemiFuture[Unit] {
	if !cond {
		return MakeSemiFuture(Unit{})
	}
	return callThunk(thunk)
}

// WhileDo evaluates pred and, while it holds, runs thunk and chains another
// round after thunk's handle completes. The returned handle completes when
// pred first reports false, or with the first error produced along the way.
func WhileDo(pred func() bool, thunk func() *SemiFuture[Unit]) *SemiFuture[Unit] {
	next := newCore[Unit]()

	var loop func()
	loop = func() {
		ok, err := evalPred(pred)
		if err != nil {
			next.setResult(ErrorOf[Unit](err))
			return
		}
		if !ok {
			next.setResult(ValueOf(Unit{}))
			return
		}
		c, valid := callThunk(thunk).take()
		if !valid {
			next.setResult(ErrorOf[Unit](ErrInvalid))
			return
		}
		observeCore(c, func(r Result[Unit]) {
			if r.HasError() {
				next.setResult(r)
				return
			}
			loop()
		})
	}
	loop()

	return &SemiFuture[Unit]{core: next}
}

// Times runs thunk n times, each round chained after the previous one.
func Times(n int, thunk func() *SemiFuture[Unit]) *SemiFuture[Unit] {
	var count atomic.Int64
	return WhileDo(func() bool {
		return count.Add(1) <= int64(n)
	}, thunk)
}

func callThunk(thunk func() *SemiFuture[Unit]) *SemiFuture[Unit] {
	var sf *SemiFuture[Unit]
	if err := try(func() { sf = thunk() }); err != nil {
		return errorSemiFuture[Unit](err)
	}
	if sf == nil {
		return errorSemiFuture[Unit](ErrInvalid)
	}
	return sf
}

func evalPred(pred func() bool) (ok bool, err error) {
	err = try(func() { ok = pred() })
	return ok, err
}
