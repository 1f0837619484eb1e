package validate

import (
	"context"

	"github.com/Pyoyeongjong/pintL1/core/txpool/txtypes"
)

// TaskExecutor wraps any Validator and is the production-path adapter: it
// preserves the outcome exactly, existing only so the inner call can be
// dispatched to a worker (a goroutine pool, a dedicated validation
// goroutine) without changing the façade above it. Single-threaded callers
// may use the wrapped Validator directly (spec §4.2).
type TaskExecutor[T txtypes.PoolTransaction] struct {
	inner Validator[T]
}

// NewTaskExecutor wraps validator.
func NewTaskExecutor[T txtypes.PoolTransaction](validator Validator[T]) *TaskExecutor[T] {
	return &TaskExecutor[T]{inner: validator}
}

// ValidateTransaction implements Validator, delegating unchanged.
func (e *TaskExecutor[T]) ValidateTransaction(ctx context.Context, origin txtypes.TransactionOrigin, tx T) Outcome[T] {
	return e.inner.ValidateTransaction(ctx, origin, tx)
}
