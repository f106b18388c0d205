package future_test

import (
	"errors"
	"fmt"

	"github.com/b97tsk/future"
)

func Example() {
	// Create a promise and hand its read side to a consumer.
	p := future.NewPromise[int]()

	// Chain continuations; each one runs when the previous completes.
	f := future.Then(p.Future(), func(x int) (int, error) { return x + 1, nil })
	f = future.Then(f, func(x int) (int, error) { return x * 2, nil })

	// Fulfill the promise; the chain runs and Get observes the outcome.
	p.SetValue(3)

	v, err := f.Get()
	fmt.Println(v, err)
	// Output:
	// 8 <nil>
}

func ExampleThen() {
	f := future.Then(future.MakeFuture("go"), func(s string) (int, error) {
		return len(s), nil
	})
	v, _ := f.Get()
	fmt.Println(v)
	// Output:
	// 2
}

func ExampleFuture_OnError() {
	f := future.Then(future.MakeFuture(1), func(int) (int, error) {
		return 0, errors.New("lost")
	})
	f = f.OnError(func(error) (int, error) { return 42, nil })
	v, _ := f.Get()
	fmt.Println(v)
	// Output:
	// 42
}

func ExampleCollectAll() {
	rs, _ := future.CollectAll([]*future.SemiFuture[int]{
		future.MakeSemiFuture(1),
		future.MakeErrorSemiFuture[int](errors.New("two")),
		future.MakeSemiFuture(3),
	}).Get()
	for _, r := range rs {
		fmt.Println(r.Get())
	}
	// Output:
	// 1 <nil>
	// 0 two
	// 3 <nil>
}

func ExampleDefer() {
	// Stage work on an unscheduled handle; nothing runs yet.
	p := future.NewPromise[int]()
	sf := future.Defer(p.Semi(), func(r future.Result[int]) (int, error) {
		v, err := r.Get()
		return v * 10, err
	})
	p.SetValue(7)

	// Attaching an executor releases the staged work.
	m := future.NewManualExecutor()
	f := sf.Via(m)
	m.Drive()

	v, _ := f.Get()
	fmt.Println(v)
	// Output:
	// 70
}

func ExampleWhileDo() {
	i := 0
	future.WhileDo(func() bool { return i < 3 }, func() *future.SemiFuture[future.Unit] {
		i++
		fmt.Println("round", i)
		return future.MakeSemiFuture(future.Unit{})
	}).Wait()
	// Output:
	// round 1
	// round 2
	// round 3
}

func ExampleReduce() {
	fs := []*future.SemiFuture[int]{
		future.MakeSemiFuture(1),
		future.MakeSemiFuture(2),
		future.MakeSemiFuture(3),
	}
	v, _ := future.Reduce(fs, 0, func(acc, x int) (int, error) {
		return acc + x, nil
	}).Get()
	fmt.Println(v)
	// Output:
	// 6
}
