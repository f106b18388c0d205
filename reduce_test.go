package future_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b97tsk/future"
)

func TestReduce(t *testing.T) {
	fs := []*future.SemiFuture[int]{
		future.MakeSemiFuture(1),
		future.MakeSemiFuture(2),
		future.MakeSemiFuture(3),
		future.MakeSemiFuture(4),
	}
	v, err := future.Reduce(fs, 0, func(acc, x int) (int, error) {
		return acc + x, nil
	}).Get()
	require.NoError(t, err)
	assert.Equal(t, 10, v)
}

func TestReduceEmpty(t *testing.T) {
	v, err := future.Reduce(nil, 42, func(acc, x int) (int, error) {
		return acc + x, nil
	}).Get()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestReduceInputOrder(t *testing.T) {
	// Inputs complete out of order; the fold still applies them in input
	// order.
	ps, fs := semis(3)
	out := future.Reduce(fs, "", func(acc string, x int) (string, error) {
		return acc + string(rune('a'+x)), nil
	})
	ps[2].SetValue(2)
	ps[0].SetValue(0)
	ps[1].SetValue(1)
	v, err := out.Get()
	require.NoError(t, err)
	assert.Equal(t, "abc", v)
}

func TestReduceErrorShortCircuits(t *testing.T) {
	myErr := errors.New("e")
	calls := 0
	fs := []*future.SemiFuture[int]{
		future.MakeSemiFuture(1),
		future.MakeErrorSemiFuture[int](myErr),
		future.MakeSemiFuture(3),
	}
	_, err := future.Reduce(fs, 0, func(acc, x int) (int, error) {
		calls++
		return acc + x, nil
	}).Get()
	assert.ErrorIs(t, err, myErr)
	assert.Equal(t, 1, calls, "fold must stop at the failing input")
}

func TestReduceResultSeesErrors(t *testing.T) {
	myErr := errors.New("e")
	fs := []*future.SemiFuture[int]{
		future.MakeSemiFuture(1),
		future.MakeErrorSemiFuture[int](myErr),
		future.MakeSemiFuture(3),
	}
	v, err := future.ReduceResult(fs, 0, func(acc int, r future.Result[int]) (int, error) {
		if r.HasError() {
			return acc, nil // skip failed inputs
		}
		return acc + r.Value(), nil
	}).Get()
	require.NoError(t, err)
	assert.Equal(t, 4, v)
}

func TestUnorderedReduce(t *testing.T) {
	ps, fs := semis(4)
	out := future.UnorderedReduce(fs, 0, func(acc, x int) (int, error) {
		return acc + x, nil
	})
	ps[3].SetValue(4)
	ps[0].SetValue(1)
	ps[2].SetValue(3)
	ps[1].SetValue(2)
	v, err := out.Get()
	require.NoError(t, err)
	assert.Equal(t, 10, v)
}

func TestUnorderedReduceCompletionOrder(t *testing.T) {
	ps, fs := semis(3)
	out := future.UnorderedReduce(fs, "", func(acc string, x int) (string, error) {
		return acc + string(rune('0'+x)), nil
	})
	ps[2].SetValue(2)
	ps[0].SetValue(0)
	ps[1].SetValue(1)
	v, err := out.Get()
	require.NoError(t, err)
	assert.Equal(t, "201", v)
}

func TestUnorderedReduceAllErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")
	ps, fs := semis(2)
	out := future.UnorderedReduce(fs, 0, func(acc, x int) (int, error) {
		return acc + x, nil
	})
	ps[1].SetError(err1)
	ps[0].SetError(err2)
	_, err := out.Get()
	assert.ErrorIs(t, err, err1, "the first error to complete surfaces")
}

func TestUnorderedReduceEmpty(t *testing.T) {
	v, err := future.UnorderedReduce(nil, 5, func(acc, x int) (int, error) {
		return acc + x, nil
	}).Get()
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}
