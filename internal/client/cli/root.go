package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = func(a ...any) { fmt.Println(a...) }

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	LoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Upload(ctx context.Context, args []string) error
	Convert(ctx context.Context) error
	History(ctx context.Context) error
	Gallery(ctx context.Context) error
	Finalize(ctx context.Context) error
	Delete(ctx context.Context) error
}

// Root starts the interactive command loop on stdin.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to the minhwa CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// runREPL reads a line, parses the first token as the command and dispatches
// to methods on 'a'. Unknown commands are reported back to the user. The
// loop exits on scanner EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
//	Not logged in:
//	  - help           — show available commands
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - upload <path>  — select an image for conversion
//	  - convert        — run the minhwa transformation
//	  - history        — list your conversion results
//	  - gallery        — list your finalized artworks
//	  - finalize       — confirm a result for the permanent gallery
//	  - delete         — remove a result
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Errors returned by command handlers are ignored here; handlers report
// their own failures. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("minhwa %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.LoggedIn() {
				printlnFn("Available commands: upload <path>, convert, history, gallery, finalize, delete, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "upload", "u":
			_ = a.Upload(ctx, args)

		case "convert", "c":
			_ = a.Convert(ctx)

		case "history", "h":
			_ = a.History(ctx)

		case "gallery", "g":
			_ = a.Gallery(ctx)

		case "finalize":
			_ = a.Finalize(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
