package future_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b97tsk/future"
)

func TestWindowBoundsConcurrency(t *testing.T) {
	const n = 4
	input := make([]int, 10)
	for i := range input {
		input[i] = i
	}

	var cur, peak atomic.Int32
	worker := func(x int) *future.SemiFuture[int] {
		p := future.NewPromise[int]()
		sf := p.Semi()
		go func() {
			c := cur.Add(1)
			for {
				pk := peak.Load()
				if c <= pk || peak.CompareAndSwap(pk, c) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			cur.Add(-1)
			p.SetValue(x * 2)
		}()
		return sf
	}

	futs := future.Window(input, worker, n)
	require.Len(t, futs, len(input))
	for i, f := range futs {
		v, err := f.Get()
		require.NoError(t, err)
		// Outputs preserve input order.
		assert.Equal(t, input[i]*2, v)
	}
	assert.LessOrEqual(t, peak.Load(), int32(n))
	assert.Positive(t, peak.Load())
}

func TestWindowCount(t *testing.T) {
	futs := future.WindowCount(5, func(i int) *future.SemiFuture[int] {
		return future.MakeSemiFuture(i * i)
	}, 2)
	require.Len(t, futs, 5)
	for i, f := range futs {
		v, err := f.Get()
		require.NoError(t, err)
		assert.Equal(t, i*i, v)
	}
}

func TestWindowPropagatesErrors(t *testing.T) {
	myErr := errors.New("e")
	futs := future.Window([]int{1, 2}, func(x int) *future.SemiFuture[int] {
		if x == 2 {
			return future.MakeErrorSemiFuture[int](myErr)
		}
		return future.MakeSemiFuture(x)
	}, 1)
	v, err := futs[0].Get()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	_, err = futs[1].Get()
	assert.ErrorIs(t, err, myErr)
}

func TestWindowPanicInWorker(t *testing.T) {
	futs := future.Window([]int{1}, func(int) *future.SemiFuture[int] {
		panic("worker down")
	}, 1)
	_, err := futs[0].Get()
	var pe *future.PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "worker down", pe.Value)
}

func TestWindowVia(t *testing.T) {
	m := future.NewManualExecutor()
	futs := future.WindowVia(m, []int{1, 2, 3}, func(x int) *future.SemiFuture[int] {
		return future.MakeSemiFuture(x + 10)
	}, 2)
	for _, f := range futs {
		assert.False(t, f.IsReady(), "nothing may run before the executor is driven")
	}
	m.Drive()
	for i, f := range futs {
		v, err := f.Get()
		require.NoError(t, err)
		assert.Equal(t, i+11, v)
	}
}

func TestMap(t *testing.T) {
	fs := []*future.SemiFuture[int]{
		future.MakeSemiFuture(1),
		future.MakeSemiFuture(2),
		future.MakeSemiFuture(3),
	}
	out := future.Map(fs, func(x int) (int, error) { return x * 10, nil })
	require.Len(t, out, 3)
	for i, f := range out {
		v, err := f.Get()
		require.NoError(t, err)
		assert.Equal(t, (i+1)*10, v)
	}
}
