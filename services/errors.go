package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrNotFound = errors.New("requested resource not found")

	ErrValidationFailed = errors.New("validation failed")
	ErrDuplicateEvent   = errors.New("event already recorded")
	ErrTeamResolution   = errors.New("team does not take part in fixture")
	ErrPersistence      = errors.New("persistence failed")

	ErrFixtureNotFound     = errors.New("fixture not found")
	ErrFixtureNotCompleted = errors.New("fixture is not completed")
	ErrFixturePostponed    = errors.New("fixture is postponed")
	ErrTeamNotFound        = errors.New("team not found")
	ErrPlayerNotFound      = errors.New("player not found in team roster")
	ErrEventNotFound       = errors.New("match event not found")
	ErrEventNotEditable    = errors.New("event type cannot be edited")
)

// ValidationError rejects malformed input before any write.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidationFailed }

// ValidationErrors collects every problem of a payload.
type ValidationErrors []*ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Is(target error) bool { return target == ErrValidationFailed }

// DuplicateError reports an event that is already stored within the duplicate window.
// It is a skip, not a failure.
type DuplicateError struct {
	EventType  models.EventType
	PlayerName string
	EventTime  int
	Existing   []*models.MatchEvent
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s for %q at %ds already recorded (%d matching)", e.EventType, e.PlayerName, e.EventTime, len(e.Existing))
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicateEvent }

type TeamResolutionError struct {
	FixtureID int
	Label     string
}

func (e *TeamResolutionError) Error() string {
	return fmt.Sprintf("team %q does not play in fixture %d", e.Label, e.FixtureID)
}

func (e *TeamResolutionError) Is(target error) bool { return target == ErrTeamResolution }

// PersistenceError wraps a failed write. Compensation has already run when it is returned.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func persistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
