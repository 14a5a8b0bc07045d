// Package api exposes one thin facade per backend area (auth, diagrams,
// admin). Facades only shape requests and decode responses; authentication
// and 401 handling belong to the underlying client.HTTPClient.
package api
