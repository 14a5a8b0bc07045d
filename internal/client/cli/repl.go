package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	takeRedirect() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Account(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Diagrams(ctx context.Context, args []string) error
	Generate(ctx context.Context) error
	Save(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Admin(ctx context.Context, args []string) error
}

const (
	helpAnonymous = "Available commands: register, login, help, exit"
	helpLoggedIn  = "Available commands: dashboard, diagrams [search] [-t type], generate, save, show <id>, " +
		"export <id> <file>, delete <id>, account, admin [watch|users [search]|delete <id>], logout, help, exit"
)

// runREPL starts a simple read–eval–print loop for the umlgen CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Before each prompt it checks whether a
// redirect to the login form is pending (after a rejected token or a
// protected command run anonymously) and shows the form first. The loop
// exits on EOF or when the user types "exit" or "quit".
//
// Errors returned by command handlers are not printed here; handlers report
// to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		if a.takeRedirect() {
			if err := a.Login(ctx); errors.Is(err, io.EOF) {
				return
			}
		}

		printlnFn(fmt.Sprintf("umlgen %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "account":
			_ = a.Account(ctx)

		case "dashboard":
			_ = a.Dashboard(ctx)

		case "diagrams", "l", "list":
			_ = a.Diagrams(ctx, args)

		case "generate":
			_ = a.Generate(ctx)

		case "save":
			_ = a.Save(ctx)

		case "show":
			_ = a.Show(ctx, args)

		case "export":
			_ = a.Export(ctx, args)

		case "delete":
			_ = a.Delete(ctx, args)

		case "admin":
			_ = a.Admin(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
