// Package oneof races independent asynchronous predicates and adopts the
// first positive outcome without waiting on the rest.
package oneof

import "context"

// Branch is one independently evaluated predicate. Implementations should
// honor ctx cancellation so a decided race does not leave work running.
type Branch func(ctx context.Context) (bool, error)

// First starts every branch concurrently and returns true as soon as any
// branch settles true, cancelling the branches still in flight. If every
// branch settles false, First returns false only after the last settlement.
// A branch error counts as a false settlement; it never fails the race.
func First(ctx context.Context, branches ...Branch) bool {
	if len(branches) == 0 {
		return false
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	settled := make(chan bool, len(branches))
	for _, b := range branches {
		go func(b Branch) {
			ok, err := b(ctx)
			settled <- ok && err == nil
		}(b)
	}

	for range branches {
		if <-settled {
			return true
		}
	}
	return false
}
