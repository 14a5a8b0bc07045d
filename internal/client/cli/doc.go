// Package cli provides the interactive umlgen terminal client.
//
// The App wires the session manager, the route guard and the API facades
// into a read-eval-print loop. Protected commands pass through the guard;
// a rejected token sends the user back to the login form.
//
// Commands:
//   - register, login, logout, account
//   - dashboard, diagrams [search] [-t type]
//   - generate, save, show <id>, export <id> <file>, delete <id>
//   - admin, admin watch, admin users [search], admin delete <id>
//   - help, exit | quit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
