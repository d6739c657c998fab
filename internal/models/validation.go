package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/asaskevich/govalidator"
)

// Field length limits, in runes.
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 2000
)

// ValidationError is returned when a field value is rejected by its constructor.
type ValidationError struct {
	Field  string
	Reason string
}

// Error returns the error message.
func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// requireText trims the value and checks it is non-empty and at most max runes long.
func requireText(field, value string, max int) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", ValidationError{Field: field, Reason: "must not be empty"}
	}
	if !govalidator.StringLength(trimmed, "1", strconv.Itoa(max)) {
		return "", ValidationError{Field: field, Reason: fmt.Sprintf("must be at most %d characters", max)}
	}
	return trimmed, nil
}
