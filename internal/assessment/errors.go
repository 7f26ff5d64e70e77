package assessment

import (
	"errors"
	"fmt"
)

// ErrNoReadableFiles is returned when an archive has no usable source text.
var ErrNoReadableFiles = errors.New("no readable source files found in zip")

// ErrValidation indicates a missing or malformed assessment input.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// ErrUpstream indicates the model provider failed for a reason other than quota.
type ErrUpstream struct {
	Message string
	Cause   error
}

func (e *ErrUpstream) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ErrUpstream) Unwrap() error {
	return e.Cause
}
