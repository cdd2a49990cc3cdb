package facilityspread

import (
	"fmt"

	"github.com/pkg/errors"
)

// BadScheduleError is returned when a schedule table fails to compile:
// a schedule missing a start=0 row, an out-of-range start minute, or an
// unrecognized place-type key.
type BadScheduleError struct {
	ScheduleID int
	Reason     string
}

func (e *BadScheduleError) Error() string {
	return fmt.Sprintf("bad schedule %d: %s", e.ScheduleID, e.Reason)
}

// BadTransitionMatrixError is returned when a transition matrix row does
// not sum to 0 or 1 within tolerance.
type BadTransitionMatrixError struct {
	State int
	Sum   float64
}

func (e *BadTransitionMatrixError) Error() string {
	return fmt.Sprintf("transition matrix row %d sums to %f, expected 0 or 1", e.State, e.Sum)
}

// UnknownRefError is returned when a resident references a place_id or
// schedule_id that does not appear in the respective lookup table.
type UnknownRefError struct {
	Kind string // "place_id" or "schedule_id"
	ID   int
}

func (e *UnknownRefError) Error() string {
	return fmt.Sprintf("unknown %s %d", e.Kind, e.ID)
}

// MissingDurationError is returned when the simulation attempts to sample
// a dwell time for a state with no (k, theta) entry in the duration matrix.
type MissingDurationError struct {
	State int
}

func (e *MissingDurationError) Error() string {
	return fmt.Sprintf("no duration defined for state %d", e.State)
}

// BadConfigError is returned for a missing or ill-typed parameter, or an
// unresolved $this substitution, in the parameters file.
type BadConfigError struct {
	Field  string
	Reason string
}

func (e *BadConfigError) Error() string {
	return fmt.Sprintf("bad config field %q: %s", e.Field, e.Reason)
}

// wrap attaches a stack trace to err via github.com/pkg/errors, for fatal
// setup-time failures that should carry context to the log.
func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}
