// Command rush is a small interactive POSIX-style shell.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"rush/interp"
	"rush/state"
	"rush/syntax"
)

var command = flag.String("c", "", "command to be executed")

func main() {
	flag.Parse()
	os.Exit(run())
}

// run chooses an input source per §6 (a -c string, a script path, or
// interactive/stream stdin) and drives the read-parse-execute loop until
// end-of-input. It returns 1 early when the script file cannot be opened,
// or when a parse or run error occurs outside interactive mode; the exit
// built-in ends the shell by calling os.Exit directly.
func run() int {
	name := "rush"
	var src state.LineSource
	interactive := false

	switch {
	case *command != "":
		src = state.NewStream(strings.NewReader(*command))
	case flag.NArg() > 0:
		path := flag.Arg(0)
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rush: %v\n", err)
			return 1
		}
		defer f.Close()
		name = path
		src = state.NewStream(f)
	default:
		if term.IsTerminal(int(os.Stdin.Fd())) {
			interactive = true
			src = state.NewInteractive(os.Stdin, os.Stdout)
		} else {
			src = state.NewStream(os.Stdin)
		}
	}

	s := state.New(name, src)
	r := interp.New(s)

	for {
		line, ok := s.Next()
		if !ok {
			if interactive {
				fmt.Println()
			}
			return 0
		}

		cmds, err := syntax.NewParser(line, s).ParseList()
		if err != nil {
			fmt.Fprintf(os.Stderr, "rush: %v\n", err)
			if !interactive {
				return 1
			}
			continue
		}

		if status := runList(r, cmds, interactive); status >= 0 {
			return status
		}
	}
}

// runList runs every Cmd in cmds in order. It returns -1 to keep reading
// more input, or a non-negative exit status when script mode must abort
// (§7: an Expansion error in non-interactive mode aborts with status 1).
func runList(r *interp.Runner, cmds []syntax.Cmd, interactive bool) int {
	for _, c := range cmds {
		if _, _, err := r.Run(c, false); err != nil {
			fmt.Fprintf(os.Stderr, "rush: %v\n", err)
			if !interactive {
				return 1
			}
			break
		}
	}
	return -1
}
