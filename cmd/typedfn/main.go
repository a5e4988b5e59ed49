// Command typedfn is an interactive shell over the dispatch engine,
// built as a sequence of handleX() functions tried in order from main,
// with stdin-is-a-pipe terminal detection for prompt display.
//
// Go cannot compile a function body from a line of REPL text, so this
// shell does not support interactively defining new dispatch
// implementations — it hosts a small built-in library of named
// callables and lets the user inspect and call them, the way a
// database client lets you query a pre-loaded schema rather than
// create new tables from thin air.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/funvibe/typedfn"
	"github.com/funvibe/typedfn/internal/demolib"
	"github.com/funvibe/typedfn/internal/dispatchcfg"
	"github.com/funvibe/typedfn/internal/registry"
)

func main() {
	if handleHelp() {
		return
	}

	cfg, err := dispatchcfg.Load("typedfn.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading typedfn.yaml: %s\n", err)
		os.Exit(1)
	}
	if len(cfg.Ignore) > 0 {
		for _, name := range cfg.Ignore {
			registry.Default.AddIgnore(name)
		}
		fmt.Printf("ignoring types: %s\n", strings.Join(cfg.Ignore, ", "))
	}

	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	runREPL(interactive)
}

func handleHelp() bool {
	if len(os.Args) < 2 {
		return false
	}
	if os.Args[1] != "-help" && os.Args[1] != "--help" && os.Args[1] != "help" {
		return false
	}
	fmt.Print(usage)
	return true
}

const usage = `typedfn — interactive shell over a small library of dispatched callables

Usage:
  typedfn         start an interactive session (reads stdin line by line)
  typedfn -help   show this message

Commands:
  :list                    list the built-in callables
  :sigs <name>             list a callable's declared signatures
  :call <name> <arg...>    dispatch a call
  :quit
`

// runREPL drives a read-eval-print loop over the built-in callable
// library, printing a prompt only when stdin looks like a terminal.
func runREPL(interactive bool) {
	lib := demolib.Build()

	scanner := bufio.NewScanner(os.Stdin)
	if interactive {
		fmt.Print("typedfn> ")
	}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			if err := handleLine(lib, line); err != nil {
				fmt.Fprintf(os.Stderr, "error: %s\n", err)
			}
		}
		if interactive {
			fmt.Print("typedfn> ")
		}
	}
}

func handleLine(lib map[string]*typedfn.Callable, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case ":quit", ":q":
		os.Exit(0)
	case ":list":
		names := make([]string, 0, len(lib))
		for name := range lib {
			names = append(names, name)
		}
		fmt.Printf("%s callable(s): %s\n", humanize.Comma(int64(len(names))), strings.Join(names, ", "))
		return nil
	case ":sigs":
		if len(fields) != 2 {
			return fmt.Errorf(":sigs <name>")
		}
		c, ok := lib[fields[1]]
		if !ok {
			return fmt.Errorf("no callable named %q", fields[1])
		}
		for sig := range c.Signatures() {
			fmt.Println(" ", sig)
		}
		return nil
	case ":call":
		if len(fields) < 2 {
			return fmt.Errorf(":call <name> [args...]")
		}
		c, ok := lib[fields[1]]
		if !ok {
			return fmt.Errorf("no callable named %q", fields[1])
		}
		args := make([]any, 0, len(fields)-2)
		for _, a := range fields[2:] {
			args = append(args, parseArg(a))
		}
		start := len(args)
		result, err := c.Call(args...)
		if err != nil {
			return err
		}
		fmt.Printf("%v  (%s arg%s)\n", result, humanize.Comma(int64(start)), plural(start))
		return nil
	default:
		return fmt.Errorf("unknown command %q (try :list, :call, :sigs, :quit)", fields[0])
	}
	return nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// parseArg does a minimal best-effort literal parse of a REPL token
// into a number, boolean, or string, so :call users don't need to
// quote every plain integer.
func parseArg(tok string) any {
	switch tok {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return f
	}
	return tok
}

