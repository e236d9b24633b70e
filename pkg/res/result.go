// Package res carries fallible results as values rather than as a
// second return parameter or a panic.
//
// The aligned allocator (pkg/simd.AlignedAlloc) and BTreeSet.TryInsert
// are this module's two callers: both have a failure mode — allocation
// exhaustion, a NaN key — that the caller may legitimately want to
// inspect rather than have forced into an immediate panic or a silently
// discarded bool.
package res

import (
	"fmt"
)

// Result is a type that represents either success (Ok) or failure (Err).
type Result[T any] struct {
	Value *T
	Err   error
}

// Contains the success value.
func Ok[T any](value T) Result[T] { return Result[T]{&value, nil} }

// Contains the error value.
func Err[T any](err error) Result[T] { return Result[T]{nil, err} }

// Wrap a value and error
func Wrap[T any](value T, err error) Result[T] {
	if err != nil {
		return Result[T]{nil, err}
	}

	return Result[T]{&value, nil}
}

func (r Result[T]) String() string {
	if r.IsOk() {
		return fmt.Sprintf("Ok(%v)", *r.Value)
	}

	return fmt.Sprintf("Err(%v)", r.Err)
}

// Returns true if the result is Ok.
func (r Result[T]) IsOk() bool { return r.Value != nil }

// Returns true if the result is Err.
func (r Result[T]) IsErr() bool { return r.Err != nil }
