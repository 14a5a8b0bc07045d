package cli

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const minPasswordLength = 6

var (
	errAlreadyLoggedIn = errors.New("already logged in")
	errRejected        = errors.New("rejected")
)

// Register prompts for an email and a password typed twice and creates the
// account. On success the new session is active and the dashboard is shown.
// The password bytes are wiped before returning.
func (a *App) Register(ctx context.Context) error {
	if err := a.requireAnonymous(); err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	a.println("Confirm password")
	again, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(again)

	if len(password) < minPasswordLength {
		a.println("Password must be at least 6 characters")
		return errRejected
	}
	if string(password) != string(again) {
		a.println("Passwords do not match")
		return errRejected
	}

	res := a.session.Register(ctx, email, string(password))
	if !res.Success {
		a.println(res.Error)
		return errRejected
	}
	return a.afterLogin(ctx)
}

// Login prompts for credentials and opens a session. The message on failure
// is the backend's reason when it gave one.
func (a *App) Login(ctx context.Context) error {
	if err := a.requireAnonymous(); err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	res := a.session.Login(ctx, email, string(password))
	if !res.Success {
		a.println(res.Error)
		return errRejected
	}
	return a.afterLogin(ctx)
}

// requireAnonymous refuses login and registration while a session is held;
// a rejected attempt would otherwise carry, and lose, the current token.
func (a *App) requireAnonymous() error {
	s := a.session.State()
	if !s.Authenticated() {
		return nil
	}
	email := ""
	if s.User != nil {
		email = s.User.Email
	}
	a.printf("Already logged in as %s. Use logout first.\n", email)
	return errAlreadyLoggedIn
}

func (a *App) afterLogin(ctx context.Context) error {
	a.resetRoute()
	if u := a.session.State().User; u != nil {
		a.printf("Welcome, %s!\n", u.Email)
	}
	return a.Dashboard(ctx)
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		a.log.Error(ctx, "logout", "error", err)
		a.println("Logout failed: the stored session could not be removed. Please try again.")
		return err
	}
	a.mu.Lock()
	a.draft = draft{}
	a.listed = nil
	a.listQ = listQuery{}
	a.adminV = adminView{}
	a.mu.Unlock()
	a.resetRoute()
	a.println("Logged out.")
	return nil
}

// Account prints the profile of the signed-in user.
func (a *App) Account(ctx context.Context) error {
	return a.protect(func() error {
		s := a.session.State()
		u := s.User
		if u == nil {
			a.println("No profile stored for this session.")
			return nil
		}

		role := "User"
		if u.IsAdmin {
			role = "Admin"
		}
		since := "N/A"
		if !u.CreatedAt.IsZero() {
			since = u.CreatedAt.Local().Format("2006-01-02")
		}

		a.printf("Email:        %s\n", u.Email)
		a.printf("Plan:         %s\n", u.SubscriptionPlan.Label())
		a.printf("Role:         %s\n", role)
		a.printf("Member since: %s\n", since)
		a.printf("Token expiry: %s\n", tokenExpiry(s.Token, a.now()))
		return nil
	})
}

// tokenExpiry reads the exp claim for display. The signature is not checked
// and nothing is decided on the result; the backend stays the authority.
func tokenExpiry(token string, now time.Time) string {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil || claims.ExpiresAt == nil {
		return "unknown"
	}
	exp := claims.ExpiresAt.Time
	if !exp.After(now) {
		return exp.Local().Format(time.DateTime) + " (past)"
	}
	return exp.Local().Format(time.DateTime) + " (in " + exp.Sub(now).Round(time.Minute).String() + ")"
}
