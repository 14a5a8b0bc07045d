package session

import "github.com/dmitrijs2005/umlgen/internal/client/models"

// State is a snapshot of the session.
type State struct {
	User    *models.User
	Token   string
	Loading bool
}

// Authenticated reports whether a token is held.
func (s State) Authenticated() bool {
	return s.Token != ""
}

type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseHydrating
	PhaseAuthenticated
	PhaseAnonymous
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseHydrating:
		return "hydrating"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseAnonymous:
		return "anonymous"
	}
	return "unknown"
}

// Result is the outcome of Login and Register. Error is set when Success is
// false and is meant to be shown to the user as is.
type Result struct {
	Success bool
	Error   string
}

const (
	msgLoginFailed        = "Login failed"
	msgRegistrationFailed = "Registration failed"
)
