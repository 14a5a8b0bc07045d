package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/umlgen/internal/client/api"
	"github.com/dmitrijs2005/umlgen/internal/client/client"
	"github.com/dmitrijs2005/umlgen/internal/client/config"
	"github.com/dmitrijs2005/umlgen/internal/client/guard"
	"github.com/dmitrijs2005/umlgen/internal/client/models"
	"github.com/dmitrijs2005/umlgen/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/umlgen/internal/client/session"
	"github.com/dmitrijs2005/umlgen/internal/logging"
)

// RouteDashboard is the landing screen after login.
const RouteDashboard = "dashboard"

const msgSessionExpired = "Your session has expired. Please log in again."

type App struct {
	config   *config.Config
	log      logging.Logger
	store    credentials.Repository
	session  *session.Manager
	guard    *guard.Guard
	auth     *api.AuthAPI
	diagrams *api.DiagramAPI
	admin    *api.AdminAPI
	reader   *bufio.Reader
	now      func() time.Time

	outMu sync.Mutex
	out   io.Writer

	mu       sync.Mutex
	route    string
	redirect bool
	draft    draft
	listed   []models.Diagram
	listQ    listQuery
	adminV   adminView
}

// NewApp opens the credential store, builds the HTTP client and the session
// manager, and restores any stored session. Close releases the store.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	store, err := credentials.Open(ctx, c.StoreDriver, c.StorePath)
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	httpc, err := client.New(c.APIBaseURL, client.WithTimeout(c.RequestTimeout), client.WithLogger(log.With("module", "http")))
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	mgr := session.NewManager(store, api.NewAuthAPI(httpc), log)
	a := newApp(c, log, mgr, httpc, os.Stdin, os.Stdout)
	a.store = store

	mgr.Initialize(ctx)
	a.resetRoute()
	return a, nil
}

// newApp wires the session manager into httpc as its token source and as
// the first 401 listener; the App registers itself second.
func newApp(c *config.Config, log logging.Logger, mgr *session.Manager, httpc *client.HTTPClient, in io.Reader, out io.Writer) *App {
	httpc.SetTokenSource(mgr)
	httpc.OnUnauthorized(mgr.UnauthorizedListener())

	a := &App{
		config:   c,
		log:      log.With("module", "cli"),
		session:  mgr,
		guard:    guard.New(mgr),
		auth:     api.NewAuthAPI(httpc),
		diagrams: api.NewDiagramAPI(httpc),
		admin:    api.NewAdminAPI(httpc),
		reader:   bufio.NewReader(in),
		out:      out,
		now:      time.Now,
		route:    guard.RouteLogin,
	}
	httpc.OnUnauthorized(a.onUnauthorized)
	return a
}

// Run shows the welcome banner and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	a.println("Welcome to umlgen (type 'help' for commands)")
	if a.isLoggedIn() {
		if u := a.session.State().User; u != nil {
			a.printf("Signed in as %s\n", u.Email)
		}
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintln(a.out, args...)
}

func (a *App) isLoggedIn() bool {
	return a.session.State().Authenticated()
}

func (a *App) currentRoute() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.route
}

func (a *App) resetRoute() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session.State().Authenticated() {
		a.route = RouteDashboard
	} else {
		a.route = guard.RouteLogin
	}
}

// navigateToLogin switches to the login route and asks the REPL to show the
// login form before the next prompt. It reports false when already there.
func (a *App) navigateToLogin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.route == guard.RouteLogin && a.redirect {
		return false
	}
	a.route = guard.RouteLogin
	a.redirect = true
	a.draft = draft{}
	a.listed = nil
	a.listQ = listQuery{}
	a.adminV = adminView{}
	return true
}

// takeRedirect reports, once, that a redirect to login is pending.
func (a *App) takeRedirect() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	r := a.redirect
	a.redirect = false
	return r
}

// onUnauthorized is the second 401 listener. The session manager has
// already cleared the credential by the time it runs.
func (a *App) onUnauthorized(ctx context.Context, ev client.UnauthorizedEvent) {
	if ev.Token == "" || a.isLoggedIn() {
		return
	}
	if a.navigateToLogin() {
		a.log.Info(ctx, "redirecting to login after 401", "path", ev.Path)
		a.println(msgSessionExpired)
	}
}

func (a *App) getStatus() string {
	s := a.session.State()
	if s.Authenticated() && s.User != nil {
		return fmt.Sprintf("(%s)", s.User.Email)
	}
	return fmt.Sprintf("(%s)", a.currentRoute())
}

// protect runs fn when the guard allows the current session in. A session
// without a token is sent to the login form.
func (a *App) protect(fn func() error) error {
	err := a.guard.Protect(fn)
	a.explainDenied(err)
	return err
}

func (a *App) protectAdmin(fn func() error) error {
	err := a.guard.ProtectAdmin(fn)
	a.explainDenied(err)
	return err
}

func (a *App) explainDenied(err error) {
	switch {
	case errors.Is(err, guard.ErrNotAuthenticated):
		a.println("Please log in to continue.")
		a.navigateToLogin()
	case errors.Is(err, guard.ErrNotAdmin):
		a.println("Admin access required.")
	case errors.Is(err, guard.ErrSessionLoading):
		a.println("Loading...")
	}
}

// reportError prints msg for a failed call, except for a 401 which the
// session listener already reported.
func (a *App) reportError(ctx context.Context, msg string, err error) {
	a.log.Warn(ctx, msg, "error", err)
	if client.IsUnauthorized(err) {
		return
	}
	a.println(msg)
}

// detailOr prefers the backend's detail over fallback.
func detailOr(err error, fallback string) string {
	if d := client.Detail(err); d != "" {
		return d
	}
	return fallback
}

// draft is the generator's working copy.
type draft struct {
	Prompt      string
	Title       string
	MermaidCode string
	DiagramType models.DiagramType
}
