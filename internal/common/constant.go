// Package common contains shared constants and sentinel errors used across
// the carshowroom client and server.
package common

const (
	// APIBasePath is the path prefix every API route lives under.
	APIBasePath = "/api"

	// AuthorizationHeaderName carries the bearer credential on authenticated requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token inside the Authorization header.
	BearerPrefix = "Bearer "

	// MaxCarImages is the upper bound on images attached to a single car.
	MaxCarImages = 10

	// DateLayout is the calendar date format used for buy dates on the wire.
	DateLayout = "2006-01-02"
)

// Durable client storage keys. Both are cleared together on logout.
const (
	StorageKeyToken = "token"
	StorageKeyUser  = "user"
)
