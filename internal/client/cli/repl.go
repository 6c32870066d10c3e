package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context, letter string) error
	Show(ctx context.Context, arg string) error
	Add(ctx context.Context) error
	Export(ctx context.Context) error
}

// runREPL reads a command per line and dispatches it to a. The loop ends
// on EOF or on "exit"/"quit". Errors from handlers are not fatal; the
// handlers report them to the user themselves.
//
//	Not logged in:  register, login, help, exit
//	Logged in:      list [letter], show <n>, add, export, logout, help, exit
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(w, "rb %s> ", statusFn())

		line, err := readLine(reader)
		if err != nil {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, arg := strings.ToLower(parts[0]), ""
		if len(parts) > 1 {
			arg = parts[1]
		}

		switch cmd {
		case "help", "?":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: (l)ist [letter], show <n>, add, export, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "l", "list":
			_ = a.List(ctx, arg)

		case "show":
			_ = a.Show(ctx, arg)

		case "add":
			_ = a.Add(ctx)

		case "export":
			_ = a.Export(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}
