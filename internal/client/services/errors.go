package services

import (
	"errors"
	"strings"
)

// ErrNotAuthenticated is returned, without contacting the server, by every
// operation that needs a session while there is none.
var ErrNotAuthenticated = errors.New("not authenticated")

// RejectedError carries the message of a request the server refused.
// It is meant to be shown to the user verbatim.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string { return e.Message }

// FieldError is one failed check on a draft field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every draft field that failed validation. No request
// is sent when it is returned.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}
