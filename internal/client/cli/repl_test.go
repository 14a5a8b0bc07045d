package cli

import (
	"bufio"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn  bool
	redirects int
	loginErr  error

	calls []string
	args  [][]string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) takeRedirect() bool {
	if f.redirects > 0 {
		f.redirects--
		return true
	}
	return false
}
func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return nil
}
func (f *fakeExec) Register(context.Context) error { return f.record("register", nil) }
func (f *fakeExec) Login(context.Context) error {
	f.calls = append(f.calls, "login")
	if f.loginErr != nil {
		return f.loginErr
	}
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}
func (f *fakeExec) Account(context.Context) error   { return f.record("account", nil) }
func (f *fakeExec) Dashboard(context.Context) error { return f.record("dashboard", nil) }
func (f *fakeExec) Diagrams(_ context.Context, args []string) error {
	return f.record("diagrams", args)
}
func (f *fakeExec) Generate(context.Context) error { return f.record("generate", nil) }
func (f *fakeExec) Save(context.Context) error     { return f.record("save", nil) }
func (f *fakeExec) Show(_ context.Context, args []string) error {
	return f.record("show", args)
}
func (f *fakeExec) Export(_ context.Context, args []string) error {
	return f.record("export", args)
}
func (f *fakeExec) Delete(_ context.Context, args []string) error {
	return f.record("delete", args)
}
func (f *fakeExec) Admin(_ context.Context, args []string) error {
	return f.record("admin", args)
}

func silencePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i], _ = v.(string)
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	silencePrint(t)

	input := strings.Join([]string{
		"help",
		"login",
		"",
		"dashboard",
		"diagrams shop -t class",
		"generate",
		"save",
		"show 3",
		"export 3 out.mmd",
		"delete 3",
		"admin users ann",
		"account",
		"logout",
		"exit",
		"dashboard",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{"login", "dashboard", "diagrams", "generate", "save", "show", "export", "delete", "admin", "account", "logout"}, exec.calls)
	assert.Equal(t, []string{"shop", "-t", "class"}, exec.args[1])
	assert.Equal(t, []string{"3", "out.mmd"}, exec.args[5])
	assert.Equal(t, []string{"users", "ann"}, exec.args[7])
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	lines := silencePrint(t)

	runREPL(context.Background(), &fakeExec{}, func() string { return "" }, bufio.NewReader(strings.NewReader("help\nquit\n")))
	assert.Contains(t, *lines, helpAnonymous)

	*lines = nil
	runREPL(context.Background(), &fakeExec{loggedIn: true}, func() string { return "" }, bufio.NewReader(strings.NewReader("help\nquit\n")))
	assert.Contains(t, *lines, helpLoggedIn)
}

func TestRunREPL_PendingRedirectShowsLoginFirst(t *testing.T) {
	silencePrint(t)

	exec := &fakeExec{redirects: 1}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("dashboard\nexit\n")))

	assert.Equal(t, []string{"login", "dashboard"}, exec.calls)
}

func TestRunREPL_EOFDuringRedirectExits(t *testing.T) {
	silencePrint(t)

	exec := &fakeExec{redirects: 1, loginErr: io.EOF}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("dashboard\n")))

	assert.Equal(t, []string{"login"}, exec.calls)
}

func TestRunREPL_UnknownAndEOF(t *testing.T) {
	lines := silencePrint(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("frobnicate")))

	assert.Empty(t, exec.calls)
	assert.Contains(t, *lines, "Unknown command: frobnicate")
}

func TestRunREPL_StopsOnCanceledContext(t *testing.T) {
	silencePrint(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, bufio.NewReader(strings.NewReader("dashboard\n")))
	assert.Empty(t, exec.calls)
}
