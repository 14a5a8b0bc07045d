// Package session owns the authenticated identity of the CLI: the bearer
// token and the user profile, in memory and in the credential store.
//
// A Manager is created once per process and passed to whatever needs it. It
// is the token source of the HTTP client and the first listener of its
// unauthorized signal.
package session
