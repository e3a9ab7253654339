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
}

// runREPL starts a simple read-eval-print loop.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//
//	help          — show available commands
//	register      — create an account
//	login         — authenticate with a zero-knowledge proof
//	logout        — discard the session token
//	exit | quit   — leave the program
func (a *App) runREPL(ctx context.Context, scanner *bufio.Scanner) {
	runREPL(ctx, a, scanner)
}

func runREPL(ctx context.Context, a execIface, scanner *bufio.Scanner) {

	printHelp()

	for {
		fmt.Print(prompt(a))

		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd := strings.Fields(line)[0]

		switch cmd {
		case "help":
			printHelp()
		case "register":
			reportError(a.Register(ctx))
		case "login":
			reportError(a.Login(ctx))
		case "logout":
			reportError(a.Logout(ctx))
		case "exit", "quit":
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func prompt(a execIface) string {
	if a.isLoggedIn() {
		return "(authenticated) > "
	}
	return "> "
}

func printHelp() {
	printlnFn("Commands: help, register, login, logout, exit")
}

func reportError(err error) {
	if err != nil {
		printlnFn("Error:", err.Error())
	}
}
