package client

import "github.com/dmitrijs2005/carshowroom/internal/client/models"

// Result is the outcome of a call the server processed. Exactly one of its
// variants is meaningful: a success carrying Value, or a failure carrying the
// server's human-readable Message.
type Result[T any] struct {
	Value   T
	Message string
	ok      bool
}

// Success wraps a payload acknowledged by the server.
func Success[T any](v T) Result[T] {
	return Result[T]{Value: v, ok: true}
}

// Failure wraps a refusal reported by the server.
func Failure[T any](message string) Result[T] {
	return Result[T]{Message: message}
}

// OK reports whether the server accepted the request.
func (r Result[T]) OK() bool { return r.ok }

// AuthPayload is returned by signup and login.
type AuthPayload struct {
	User  models.User
	Token string
}

// Empty is the payload of calls that acknowledge without returning data.
type Empty struct{}
