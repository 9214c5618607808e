// Package services holds the client-side application logic: the session
// state machine (SessionManager), the cached car collection (Collection) and
// the create/edit workflow (Editor).
//
// All three are driven from a single goroutine (the REPL) and take no locks.
// Every method that talks to the server takes a context.Context.
package services
