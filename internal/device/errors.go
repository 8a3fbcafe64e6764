package device

import (
	"errors"
	"fmt"
	"strings"
)

// ReductionKind represents the category of reduction failure
type ReductionKind int

const (
	// ReductionRejected means the device flagged the operation as failed.
	ReductionRejected ReductionKind = iota
	// ReductionIncomplete means a required attribute was absent.
	ReductionIncomplete
)

// String returns a human-readable name for the reduction kind
func (k ReductionKind) String() string {
	switch k {
	case ReductionRejected:
		return "Device Rejected"
	case ReductionIncomplete:
		return "Incomplete Response"
	default:
		return fmt.Sprintf("ReductionKind(%d)", int(k))
	}
}

var (
	// ErrDeviceRejected matches reductions of replies flagged failed.
	ErrDeviceRejected = errors.New("device rejected the request")
	// ErrIncompleteResponse matches reductions that lacked required attributes.
	ErrIncompleteResponse = errors.New("incomplete response")
)

// ReductionError explains why a reply did not produce a Record.
type ReductionError struct {
	Kind    ReductionKind
	Types   string   // discriminant of the reply
	Missing []string // wire names of absent attributes, in schema order
}

// Error implements the error interface
func (e *ReductionError) Error() string {
	switch e.Kind {
	case ReductionRejected:
		if e.Types != "" {
			return fmt.Sprintf("%s: device answered %s with failed", e.Kind, strings.TrimSpace(e.Types))
		}
		return fmt.Sprintf("%s: device answered with failed", e.Kind)
	default:
		return fmt.Sprintf("%s: missing %s", e.Kind, strings.Join(e.Missing, ", "))
	}
}

// Field returns the first missing attribute, or "" if none.
func (e *ReductionError) Field() string {
	if len(e.Missing) == 0 {
		return ""
	}
	return e.Missing[0]
}

// Is matches the package sentinels.
func (e *ReductionError) Is(target error) bool {
	switch target {
	case ErrDeviceRejected:
		return e.Kind == ReductionRejected
	case ErrIncompleteResponse:
		return e.Kind == ReductionIncomplete
	}
	return false
}

// IsRejected checks if an error is a device rejection
func IsRejected(err error) bool {
	return errors.Is(err, ErrDeviceRejected)
}

// IsIncomplete checks if an error is an incomplete-response reduction
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrIncompleteResponse)
}

// ValidationError reports an override value the device would not accept.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("Validation Error: %s", e.Message)
	}
	return fmt.Sprintf("Validation Error: %s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
