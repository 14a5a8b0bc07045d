// Package guard decides whether a protected screen may render for the
// current session.
package guard

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/umlgen/internal/client/session"
)

// RouteLogin is where unauthenticated users are sent.
const RouteLogin = "login"

type Outcome int

const (
	Loading Outcome = iota
	Redirect
	Render
	Forbidden
)

func (o Outcome) String() string {
	switch o {
	case Loading:
		return "loading"
	case Redirect:
		return "redirect"
	case Render:
		return "render"
	case Forbidden:
		return "forbidden"
	}
	return "unknown"
}

// Decision is the result of evaluating a session. To is set for Redirect.
type Decision struct {
	Outcome Outcome
	To      string
}

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotAdmin         = errors.New("admin access required")
	ErrSessionLoading   = errors.New("session is still loading")
)

// Evaluate maps a session snapshot onto a decision. It has no side effects.
func Evaluate(s session.State) Decision {
	switch {
	case s.Loading:
		return Decision{Outcome: Loading}
	case !s.Authenticated():
		return Decision{Outcome: Redirect, To: RouteLogin}
	default:
		return Decision{Outcome: Render}
	}
}

// EvaluateAdmin is Evaluate plus the admin flag. The backend enforces the
// same rule; this only avoids showing a screen that would fail.
func EvaluateAdmin(s session.State) Decision {
	d := Evaluate(s)
	if d.Outcome != Render {
		return d
	}
	if s.User == nil || !s.User.IsAdmin {
		return Decision{Outcome: Forbidden}
	}
	return d
}

// Err converts a non-Render decision into an error; Render yields nil.
func (d Decision) Err() error {
	switch d.Outcome {
	case Render:
		return nil
	case Loading:
		return ErrSessionLoading
	case Forbidden:
		return ErrNotAdmin
	default:
		return ErrNotAuthenticated
	}
}

// StateSource is satisfied by *session.Manager.
type StateSource interface {
	State() session.State
	Subscribe() (<-chan session.State, func())
}

type Guard struct {
	src StateSource
}

func New(src StateSource) *Guard {
	return &Guard{src: src}
}

// Protect runs render only when the current session may see the screen.
func (g *Guard) Protect(render func() error) error {
	if err := Evaluate(g.src.State()).Err(); err != nil {
		return err
	}
	return render()
}

// ProtectAdmin is Protect for admin screens.
func (g *Guard) ProtectAdmin(render func() error) error {
	if err := EvaluateAdmin(g.src.State()).Err(); err != nil {
		return err
	}
	return render()
}

// Watch calls fn with a fresh decision for the current state and again after
// every session change, until ctx is done.
func (g *Guard) Watch(ctx context.Context, fn func(Decision)) {
	states, unsubscribe := g.src.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-states:
			if !ok {
				return
			}
			fn(Evaluate(s))
		}
	}
}
