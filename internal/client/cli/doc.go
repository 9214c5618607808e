// Package cli provides the interactive carshowroom command-line client.
//
// It wires configuration, the local session database, the API client and the
// client services, then runs a REPL over stdin. Typical flow: the stored
// session is restored, the user logs in if needed, and car commands operate
// on the cached collection.
//
// Key features:
//   - Register / Login / Logout / Whoami
//   - List with search, Show, Refresh
//   - Add / Edit through an interactive car form (tags, images)
//   - Delete with confirmation
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
