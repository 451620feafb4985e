package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is wrapped by every *Error returned from Load.
var ErrInvalid = errors.New("invalid configuration")

// Error reports every key that kept Settings from loading.
type Error struct {
	// Missing lists required keys that were unset or empty, in declaration order.
	Missing []string
	// Invalid lists keys that were set but failed parsing or validation.
	Invalid []string
	cause   error
}

func (e *Error) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing required keys: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, fmt.Sprintf("invalid keys: %s", strings.Join(e.Invalid, ", ")))
	}
	msg := "config: " + strings.Join(parts, "; ")
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{ErrInvalid, e.cause}
	}
	return []error{ErrInvalid}
}
