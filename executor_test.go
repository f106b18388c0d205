package future_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b97tsk/future"
)

func TestInlineExecutor(t *testing.T) {
	ran := false
	future.Inline.Add(func() { ran = true })
	assert.True(t, ran, "inline work must run before Add returns")
}

func TestQueuedExecutorReentrancy(t *testing.T) {
	q := future.NewQueuedExecutor()
	var order []int
	q.Add(func() {
		order = append(order, 1)
		q.Add(func() { order = append(order, 3) })
		order = append(order, 2)
	})
	assert.Equal(t, []int{1, 2, 3}, order, "reentrant work must queue, not recurse")
}

func TestManualExecutor(t *testing.T) {
	m := future.NewManualExecutor()
	var ran atomic.Int32
	m.Add(func() { ran.Add(1) })
	m.Add(func() { ran.Add(1) })
	assert.Zero(t, ran.Load(), "work must not run before Drive")
	m.Drive()
	assert.Equal(t, int32(2), ran.Load())
}

func TestManualExecutorTryDriveUntil(t *testing.T) {
	m := future.NewManualExecutor()

	start := time.Now()
	ok := m.TryDriveUntil(start.Add(20 * time.Millisecond))
	assert.False(t, ok, "nothing to drive")
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)

	done := make(chan struct{})
	go func() {
		defer close(done)
		time.Sleep(10 * time.Millisecond)
		m.Add(func() {})
	}()
	ok = m.TryDriveUntil(time.Now().Add(time.Second))
	assert.True(t, ok, "work arrived before the deadline")
	<-done
}

func TestPoolExecutorBoundsConcurrency(t *testing.T) {
	const limit = 3
	e := future.NewPoolExecutor(limit)

	var cur, peak atomic.Int32
	for range 12 {
		e.Add(func() {
			c := cur.Add(1)
			for {
				p := peak.Load()
				if c <= p || peak.CompareAndSwap(p, c) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			cur.Add(-1)
		})
	}
	e.Join()
	assert.LessOrEqual(t, peak.Load(), int32(limit))
	assert.Positive(t, peak.Load())
}

func TestPriorityQueuedExecutor(t *testing.T) {
	e := future.NewPriorityQueuedExecutor()
	var order []string
	e.AddPriority(func() { order = append(order, "low") }, -1)
	e.AddPriority(func() { order = append(order, "high") }, 1)
	e.Add(func() { order = append(order, "mid-1") })
	e.Add(func() { order = append(order, "mid-2") })
	e.Drive()
	require.Equal(t, []string{"high", "mid-1", "mid-2", "low"}, order)
}

func TestPriorityDispatch(t *testing.T) {
	// A core bound with a priority forwards it to a PriorityExecutor.
	e := future.NewPriorityQueuedExecutor()
	var order []int
	p1 := future.NewPromise[int]()
	f1 := future.Then(p1.Semi().ViaPriority(e, -1), func(x int) (int, error) {
		order = append(order, x)
		return x, nil
	})
	p2 := future.NewPromise[int]()
	f2 := future.Then(p2.Semi().ViaPriority(e, 1), func(x int) (int, error) {
		order = append(order, x)
		return x, nil
	})
	p1.SetValue(1)
	p2.SetValue(2)
	e.Drive()
	require.Equal(t, []int{2, 1}, order)
	f1.Wait()
	f2.Wait()
}

func TestQueuedExecutorConcurrentAdds(t *testing.T) {
	q := future.NewQueuedExecutor()
	var n atomic.Int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 100 {
				q.Add(func() { n.Add(1) })
			}
		})
	}
	wg.Wait()
	assert.Equal(t, int32(800), n.Load())
}
