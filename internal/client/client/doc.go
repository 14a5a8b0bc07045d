// Package client is the single choke point for calls to the diagram backend.
//
// HTTPClient sends JSON requests relative to a configured base URL. Before
// dispatch it asks its TokenSource for the current bearer token and attaches
// it as an Authorization header when present. After a response arrives:
//
//   - 2xx bodies are decoded into the caller's target;
//   - 401 fans out an UnauthorizedEvent to every listener registered with
//     OnUnauthorized, synchronously and in registration order, and only then
//     returns an *APIError matching ErrUnauthorized;
//   - other 4xx and 5xx statuses come back as *APIError matching ErrClient or
//     ErrServer, untouched otherwise;
//   - transport failures are wrapped with ErrUnavailable.
//
// The client never navigates or clears state itself: the session manager and
// the application shell subscribe to the unauthorized event and do that.
package client
