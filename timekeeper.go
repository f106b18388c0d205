package future

import (
	"sync"
	"time"
)

// A Timekeeper produces time-based completion handles: After returns a
// handle fulfilled approximately dur after the call.
//
// Within, Delayed and Sleep consult the process-wide singleton when no
// timekeeper is passed explicitly; they fail with [ErrNoTimekeeper] if the
// singleton has been cleared.
type Timekeeper interface {
	After(dur time.Duration) *SemiFuture[Unit]
}

// timerTimekeeper backs the default singleton with runtime timers.
// An interrupt raised on a pending After handle stops the timer and
// fulfills the handle with the raised error.
type timerTimekeeper struct{}

func (timerTimekeeper) After(dur time.Duration) *SemiFuture[Unit] {
	p := NewPromise[Unit]()
	f := p.Semi()
	tm := time.AfterFunc(dur, func() {
		p.SetValue(Unit{})
	})
	p.SetInterruptHandler(func(err error) {
		if tm.Stop() {
			p.SetError(err)
		}
	})
	return f
}

var (
	timekeeperMu sync.Mutex
	timekeeper   Timekeeper = timerTimekeeper{}
)

// SingletonTimekeeper returns the process-wide timekeeper. It may be nil if
// cleared with [SetSingletonTimekeeper].
func SingletonTimekeeper() Timekeeper {
	timekeeperMu.Lock()
	defer timekeeperMu.Unlock()
	return timekeeper
}

// SetSingletonTimekeeper replaces the process-wide timekeeper. Passing nil
// clears it, making operations that need one fail with [ErrNoTimekeeper].
func SetSingletonTimekeeper(tk Timekeeper) {
	timekeeperMu.Lock()
	timekeeper = tk
	timekeeperMu.Unlock()
}

func resolveTimekeeper(tk Timekeeper) (Timekeeper, error) {
	if tk != nil {
		return tk, nil
	}
	if tk = SingletonTimekeeper(); tk != nil {
		return tk, nil
	}
	return nil, ErrNoTimekeeper
}

// Sleep returns an unscheduled handle fulfilled approximately dur from now
// by the singleton timekeeper.
func Sleep(dur time.Duration) *SemiFuture[Unit] {
	return SleepTimekeeper(dur, nil)
}

// SleepTimekeeper is [Sleep] with an explicit timekeeper.
func SleepTimekeeper(dur time.Duration, tk Timekeeper) *SemiFuture[Unit] {
	tk, err := resolveTimekeeper(tk)
	if err != nil {
		return errorSemiFuture[Unit](err)
	}
	return tk.After(dur)
}
