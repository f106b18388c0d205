package future

import "errors"

var (
	// ErrInvalid is reported when operating on a future or promise whose
	// shared state has been consumed by a previous operation.
	ErrInvalid = errors.New("future: invalid handle")

	// ErrNoExecutor is reported when a scheduled operation is requested
	// but no executor is available, e.g. Via(nil).
	ErrNoExecutor = errors.New("future: no executor")

	// ErrNoTimekeeper is reported by Within and Delayed when no
	// [Timekeeper] was supplied and the singleton is unset.
	ErrNoTimekeeper = errors.New("future: no timekeeper")

	// ErrTimeout is reported when a Within deadline fires before the
	// upstream future completes, or when a timed Get expires.
	ErrTimeout = errors.New("future: timed out")

	// ErrPredicateDoesNotObtain is reported by Filter when the predicate
	// rejects the value.
	ErrPredicateDoesNotObtain = errors.New("future: predicate does not obtain")

	// ErrNotEnoughFutures is reported by CollectN when it cannot possibly
	// gather n successful results.
	ErrNotEnoughFutures = errors.New("future: not enough futures")

	// ErrBrokenPromise is the result latched into a future whose promise
	// was released without being fulfilled.
	ErrBrokenPromise = errors.New("future: broken promise")

	// ErrFutureCancelled is the interrupt raised by Cancel.
	ErrFutureCancelled = errors.New("future: future cancelled")
)
