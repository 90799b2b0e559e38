package interp

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"rush/syntax"
)

// IsBuiltin reports whether name names one of the built-ins RUSH implements
// (§6): every other command name is spawned as an external process.
func IsBuiltin(name string) bool {
	switch name {
	case "exit", "cd", "alias", "unalias", "set":
		return true
	}
	return false
}

// runSimple dispatches name to a built-in, falling back to spawning an
// external process (§4.4's "Spawning a simple command").
func (r *Runner) runSimple(name string, args []string, simple *syntax.SimpleCmd, meta CmdMeta) (bool, error) {
	switch name {
	case "exit":
		return r.builtinExit(args)
	case "cd":
		return r.builtinCd(args)
	case "alias":
		return r.builtinAlias(args, meta)
	case "unalias":
		return r.builtinUnalias(args)
	case "set":
		return r.builtinSet(args)
	default:
		return r.spawn(name, args, simple, meta)
	}
}

// builtinExit parses an optional numeric status (default 0) and terminates
// the process. A non-numeric argument fails the built-in without exiting
// (§6).
func (r *Runner) builtinExit(args []string) (bool, error) {
	if len(args) == 0 {
		os.Exit(0)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "rush: exit: %v\n", err)
		return false, nil
	}
	os.Exit(n)
	panic("unreachable")
}

// builtinCd changes the working directory to args[0], or $HOME when no
// argument is given, falling back to "/" when $HOME is also unset (§6 and
// the original shell's cd fallback, carried into RUSH as a supplemented
// feature).
func (r *Runner) builtinCd(args []string) (bool, error) {
	dir := r.State.GetVar("HOME")
	if len(args) > 0 {
		dir = args[0]
	} else if dir == "" {
		dir = "/"
	}
	if err := os.Chdir(dir); err != nil {
		fmt.Fprintf(os.Stderr, "rush: %v\n", err)
		return false, nil
	}
	return true, nil
}

// builtinAlias implements §6: no args prints every binding sorted by name;
// a bare name prints that one binding; a NAME=VALUE argument assigns. Output
// goes through meta's stdout so `alias | grep foo` and capture both work.
func (r *Runner) builtinAlias(args []string, meta CmdMeta) (bool, error) {
	out := r.stdout(meta)
	if len(args) == 0 {
		for _, name := range r.State.AliasNames() {
			v, _ := r.State.Alias(name)
			fmt.Fprintf(out, "alias %s='%s'\n", name, v)
		}
		return true, nil
	}
	ok := true
	for _, arg := range args {
		if i := strings.IndexByte(arg, '='); i >= 0 {
			r.State.SetAlias(arg[:i], arg[i+1:])
			continue
		}
		v, found := r.State.Alias(arg)
		if !found {
			fmt.Fprintf(os.Stderr, "rush: alias: %s: not found\n", arg)
			ok = false
			continue
		}
		fmt.Fprintf(out, "alias %s='%s'\n", arg, v)
	}
	return ok, nil
}

// builtinUnalias removes each named binding (§6).
func (r *Runner) builtinUnalias(args []string) (bool, error) {
	ok := true
	for _, name := range args {
		if !r.State.Unalias(name) {
			fmt.Fprintf(os.Stderr, "rush: unalias: %s: not found\n", name)
			ok = false
		}
	}
	return ok, nil
}

// builtinSet replaces the positional parameters with args (§6, §9 decision
// 2: positional parameters only, no `-o` options).
func (r *Runner) builtinSet(args []string) (bool, error) {
	r.State.SetPositional(args)
	return true, nil
}
