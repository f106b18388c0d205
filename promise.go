package future

// A Promise is the write side of a shared core. It fulfills the core exactly
// once, with a value or an error, and hands out the read side exactly once.
//
// A Promise is not safe for concurrent use. Holding the Promise on one
// goroutine and its future on another is fully supported.
type Promise[T any] struct {
	core      *core[T]
	retrieved bool
	fulfilled bool
}

// NewPromise creates a new unfulfilled [Promise].
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{core: newCore[T]()}
}

// Semi returns the read side of p as an unscheduled handle.
// It may be called at most once per promise, and not after Future.
func (p *Promise[T]) Semi() *SemiFuture[T] {
	c := p.valid()
	if p.retrieved {
		panic("future: future already retrieved")
	}
	p.retrieved = true
	return &SemiFuture[T]{core: c}
}

// Future returns the read side of p as a handle scheduled on the inline
// executor. It may be called at most once per promise, and not after Semi.
func (p *Promise[T]) Future() *Future[T] {
	return p.Semi().Via(Inline)
}

// SetValue fulfills p with v.
func (p *Promise[T]) SetValue(v T) {
	p.SetResult(ValueOf(v))
}

// SetError fulfills p with err.
func (p *Promise[T]) SetError(err error) {
	p.SetResult(ErrorOf[T](err))
}

// SetResult fulfills p with r. Fulfilling a promise twice panics.
func (p *Promise[T]) SetResult(r Result[T]) {
	c := p.valid()
	p.fulfilled = true
	c.setResult(r)
}

// SetInterruptHandler installs h to observe interrupts raised by the
// consumer side. If an interrupt is already pending, h is invoked with it
// immediately.
func (p *Promise[T]) SetInterruptHandler(h func(error)) {
	p.valid().setInterruptHandler(h)
}

// Release detaches p from its core. If p was never fulfilled, the core is
// fulfilled with [ErrBrokenPromise] first. After Release, p is invalid.
func (p *Promise[T]) Release() {
	c := p.core
	if c == nil {
		return
	}
	p.core = nil
	if p.fulfilled {
		c.detach()
		return
	}
	c.detachProducer()
}

func (p *Promise[T]) valid() *core[T] {
	c := p.core
	if c == nil {
		panic("future: promise is invalid")
	}
	return c
}
