// Package client talks to the car collection API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see Client) covering signup, login and
//     the car CRUD calls.
//  2. An HTTP implementation (see HTTPClient) speaking JSON for auth calls and
//     multipart/form-data for car mutations, so image files travel with the
//     scalar fields.
//
// # Results and errors
//
// The API answers with an envelope {success, ...}. HTTPClient turns it into an
// explicit Result: Success carrying the payload or Failure carrying the
// server's message. Go errors are reserved for conditions the server never
// decided on, exposed as sentinels for errors.Is: ErrUnavailable,
// ErrMalformedResponse, ErrUnauthorized.
//
// There are no retries. A request runs until it completes, fails at the
// network level, or the context/timeout ends it.
package client
