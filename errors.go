package b2session

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingData: a session field was never written or was cleared.
	// Recover by authorizing again.
	ErrMissingData = errors.New("b2session: missing account data")
	// ErrInvalidFormat: a stored value does not parse as its expected type.
	ErrInvalidFormat = errors.New("b2session: invalid stored value")
	// ErrValidation: the caller passed contradictory or insufficient arguments.
	ErrValidation = errors.New("b2session: invalid arguments")
	// ErrBackendUnavailable: the backend could not serve the request.
	ErrBackendUnavailable = errors.New("b2session: backend unavailable")
)

type MissingDataError struct {
	Field Field
	Key   string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("b2session: %q not found (key %q)", string(e.Field), e.Key)
}

func (e *MissingDataError) Is(target error) bool { return target == ErrMissingData }

type InvalidFormatError struct {
	Field Field
	Key   string
	Value string
	Err   error
}

func (e *InvalidFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("b2session: %q holds invalid value %q: %v", string(e.Field), e.Value, e.Err)
	}
	return fmt.Sprintf("b2session: %q holds invalid value %q", string(e.Field), e.Value)
}

func (e *InvalidFormatError) Is(target error) bool { return target == ErrInvalidFormat }
func (e *InvalidFormatError) Unwrap() error        { return e.Err }

type ValidationError struct {
	Op     string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("b2session: %s: %s", e.Op, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// BackendError wraps any failure reported by the backend. Unwrap exposes the
// cause, so context.DeadlineExceeded and driver errors stay matchable.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("b2session: backend %s: %v", e.Op, e.Err)
}

func (e *BackendError) Is(target error) bool { return target == ErrBackendUnavailable }
func (e *BackendError) Unwrap() error        { return e.Err }
