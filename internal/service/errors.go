package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotRegistered is returned when a write requires a registered user
// profile and none exists for the given userId
var ErrNotRegistered = errors.New("user not registered")

// ValidationError reports a missing or malformed required input field
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid field: %s", e.Field)
}

// DuplicateRecordError reports a natural-key collision on a write. Kind
// names the record table and Key holds the natural-key values in column
// order, enough to build a user-facing message.
type DuplicateRecordError struct {
	Kind string
	Key  []string
}

func (e *DuplicateRecordError) Error() string {
	return fmt.Sprintf("duplicate %s record: %s", e.Kind, strings.Join(e.Key, ", "))
}
