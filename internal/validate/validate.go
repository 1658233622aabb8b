// Package validate checks user-supplied input before it reaches the store
// or any remote transport.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	sendTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// Error describes malformed user input
type Error struct {
	Field  string
	Value  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// IsValidation reports whether err is (or wraps) a validation error
func IsValidation(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

// Email checks that addr has the local-part@domain.tld shape
func Email(addr string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return &Error{Field: "email", Value: addr, Reason: "address is required"}
	}
	if !emailPattern.MatchString(addr) {
		return &Error{Field: "email", Value: addr, Reason: "address must look like name@domain.tld"}
	}
	return nil
}

// SendTime checks a 24-hour HH:MM delivery time
func SendTime(hhmm string) error {
	if !sendTimePattern.MatchString(hhmm) {
		return &Error{Field: "send time", Value: hhmm, Reason: "expected HH:MM (24-hour)"}
	}
	return nil
}
