package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

type compensation struct {
	name string
	undo func(context.Context) error
}

// saga records the undo action of every completed step of a multi-row write.
// Rows are written one at a time, so a failure midway is repaired by running the
// recorded undo actions in reverse order.
type saga struct {
	name   string
	logger *slog.Logger
	steps  []compensation
}

func newSaga(name string, logger *slog.Logger) *saga {
	return &saga{name: name, logger: logger}
}

func (s *saga) done(step string, undo func(context.Context) error) {
	s.steps = append(s.steps, compensation{name: step, undo: undo})
}

// fail undoes completed steps and returns cause as a PersistenceError.
// Undo failures are logged and joined to the returned error.
func (s *saga) fail(ctx context.Context, op string, cause error) error {
	var undoErrs []error
	for i := len(s.steps) - 1; i >= 0; i-- {
		step := s.steps[i]
		if err := step.undo(ctx); err != nil {
			s.logger.ErrorContext(ctx, "Compensation failed",
				slog.String("saga", s.name),
				slog.String("step", step.name),
				slog.Any("error", err),
			)
			undoErrs = append(undoErrs, fmt.Errorf("undo %s: %w", step.name, err))
			continue
		}
		s.logger.WarnContext(ctx, "Compensated step", slog.String("saga", s.name), slog.String("step", step.name))
	}
	s.steps = nil
	if len(undoErrs) > 0 {
		cause = errors.Join(append([]error{cause}, undoErrs...)...)
	}
	return persistenceError(op, cause)
}
