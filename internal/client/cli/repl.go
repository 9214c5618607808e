package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	List(ctx context.Context, query string) error
	Refresh(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// commands that need a session; anonymous users are sent to login first
var sessionCommands = map[string]bool{
	"l": true, "list": true, "refresh": true, "show": true,
	"add": true, "edit": true, "delete": true, "whoami": true,
}

// commands taking a car id as their single argument
var idCommands = map[string]bool{"show": true, "edit": true, "delete": true}

// runREPL starts a simple read–eval–print loop for the carshowroom CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF, on context
// cancellation, or when the user types "exit" or "quit".
//
// Prompt & Commands
//
//	Not logged in:
//	  - help            show available commands
//	  - register        create an account
//	  - login           authenticate
//	  - exit | quit     leave the program
//
//	Logged in:
//	  - (l)ist [query]  list cars, optionally filtered
//	  - show <id>       car details
//	  - add             create a car
//	  - edit <id>       edit a car
//	  - delete <id>     delete a car
//	  - refresh         reload cars from the server
//	  - whoami          show the signed-in user
//	  - logout          log out
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the loop focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("cars%s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if idCommands[cmd] && len(args) != 1 {
			printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
			continue
		}

		if sessionCommands[cmd] && !a.isLoggedIn() {
			printlnFn("Unauthorized! Please log in.")
			_ = a.Login(ctx)
			if !a.isLoggedIn() {
				continue
			}
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist [query], show <id>, add, edit <id>, delete <id>, refresh, whoami, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "l", "list":
			_ = a.List(ctx, strings.Join(args, " "))

		case "refresh":
			_ = a.Refresh(ctx)

		case "show":
			_ = a.Show(ctx, args[0])

		case "add":
			_ = a.Add(ctx)

		case "edit":
			_ = a.Edit(ctx, args[0])

		case "delete":
			_ = a.Delete(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
