package fakeapi

import (
	"net/http/httptest"
	"testing"
)

// Server is a Backend listening on a loopback httptest server.
type Server struct {
	*Backend
	URL string
}

// NewServer starts a Backend and stops it when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	b := NewBackend()
	ts := httptest.NewServer(b)
	t.Cleanup(ts.Close)
	return &Server{Backend: b, URL: ts.URL}
}
