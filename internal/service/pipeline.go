package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// mutate is the optimistic mutation pipeline every entity action runs
// through: apply the change to the entity store synchronously, persist it
// remotely, and on persistence failure undo the local change. The store
// never permanently diverges from confirmed remote state; the optimistic
// value is only visible until the same call's failure handling rolls it
// back. The outcome surfaces as a bool, never as an error.
func (s *Session) mutate(ctx context.Context, op string, apply, rollback func(), persist func(context.Context) error) bool {
	start := time.Now()

	apply()

	if err := persist(ctx); err != nil {
		rollback()
		s.metrics.IncrPersistenceFailure(op)
		s.metrics.IncrRollback(op)
		s.logger.Warn("mutation rolled back",
			zap.String("operation", op),
			zap.Error(err),
		)
		return false
	}

	s.metrics.RecordMutationDuration(op, time.Since(start))
	return true
}

// persistOnly runs a best-effort remote write with no local rollback. Used
// by completion side effects: each step is independent, so stock may stay
// deducted locally even when the commission write fails.
func (s *Session) persistOnly(ctx context.Context, op string, persist func(context.Context) error) bool {
	if err := persist(ctx); err != nil {
		s.metrics.IncrPersistenceFailure(op)
		s.logger.Warn("best-effort write failed",
			zap.String("operation", op),
			zap.Error(err),
		)
		return false
	}
	return true
}
