package client

import "context"

// TokenSource yields the bearer token to attach, or "" for none.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// UnauthorizedEvent describes a request the backend answered with 401.
// Token is the credential that was attached, "" if the call was anonymous.
type UnauthorizedEvent struct {
	Method    string
	Path      string
	Token     string
	RequestID string
}

// UnauthorizedListener reacts to an UnauthorizedEvent. Listeners run on the
// goroutine that made the request, before the error reaches the caller.
type UnauthorizedListener func(ctx context.Context, ev UnauthorizedEvent)
