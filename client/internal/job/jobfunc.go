// Package job adapts plain closures to the shard executor's Job interface.
package job

import (
	"context"
	"errors"
	"fmt"
)

// ErrNilJobFunc is returned when a Func is nil.
var ErrNilJobFunc = errors.New("nil job func")

// Func lets callers pass plain closures to the shard executor.
type Func func(context.Context) error

// Run calls f. A nil Func fails with ErrNilJobFunc instead of panicking.
func (f Func) Run(ctx context.Context) error {
	if f == nil {
		return fmt.Errorf("job: %w", ErrNilJobFunc)
	}
	return f(ctx)
}

// New wraps fn as a Job.
func New(fn func(context.Context) error) Func {
	return Func(fn)
}
