// Package future is a library for composing asynchronous computations.
//
// A [Promise] is the write side of an asynchronous value; a [SemiFuture] or
// a [Future] is the read side. The two sides share a small state machine
// that mediates exactly one result, at most one continuation, and an
// optional executor, with lock-free state transitions. Either side can
// be dropped at any time; releasing an unfulfilled [Promise] completes the
// shared state with [ErrBrokenPromise].
//
// # Unscheduled And Scheduled Handles
//
// A [SemiFuture] has no executor attached, and deliberately offers no way
// to attach continuations that run on their own: work staged on it with
// [Defer] is held in a single-slot staging executor until a real [Executor]
// arrives via [SemiFuture.Via], or until the handle is waited on, in which
// case the staged work runs inline on the waiting goroutine.
//
// A [Future] is bound to an [Executor]. Every continuation installed
// through it, with [Then] and friends, is dispatched as a unit of work on
// that executor. A continuation may itself return an asynchronous handle;
// the inner handle is chained, never blocked on.
//
// This split makes execution explicit: a library can return a [SemiFuture]
// and leave the choice of executor to its caller, instead of sneaking
// continuations onto whatever thread happens to complete the promise.
//
// # Composition
//
// Free functions combine handles: [CollectAll], [Collect], [CollectAny],
// [CollectAnyValue] and [CollectN] gather many inputs; [Reduce] and
// [UnorderedReduce] fold them; [Window] bounds how many of a set of
// computations are in flight at once; [When], [WhileDo] and [Times] express
// asynchronous control flow. Combinators accept and return unscheduled
// handles; attach an executor with Via before chaining further, or consume
// the result with Get. [Window] is the exception: it inherently dispatches
// on an executor and returns scheduled handles.
//
// The continuation-installing operations are free functions rather than
// methods because they change the handle's value type, and Go methods
// cannot introduce type parameters.
//
// # Time
//
// [Future.Within] bounds a computation with a deadline, racing it against a
// [Timekeeper] timer; whichever side finishes first wins, and the loser is
// told to stand down through the interrupt path. [Future.Delayed] holds a
// result back until a duration has elapsed. [Sleep] is the timer alone.
//
// # Errors And Interrupts
//
// A callback that fails, or panics, completes its downstream handle with an
// error; panics are packaged as [PanicError] with the stack captured at the
// panic site, and never escape into an executor. Raise on a handle delivers
// a best-effort interrupt toward the producer, which may observe it through
// [Promise.SetInterruptHandler] and short-circuit, or ignore it entirely.
//
// # Concurrency Model
//
// Handles are not safe for concurrent use; one goroutine holding the
// promise and another holding the future of the same shared state is fully
// supported, and is the intended way to use this package. Blocking occurs
// only in the Wait and Get families; WaitVia and GetVia instead pump a
// [DrivableExecutor] while they wait, so single-threaded programs can drive
// their own event loop to completion.
package future
