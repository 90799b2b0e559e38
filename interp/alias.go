package interp

import (
	"os"

	"rush/syntax"
)

// executeSimple dispatches a Simple node: alias substitution, then either a
// built-in or an external process (§4.4).
func (r *Runner) executeSimple(s *syntax.Simple, meta CmdMeta, expanding map[string]bool) (bool, error) {
	simple := s.Cmd

	if len(simple.Cmd) == 0 {
		// A bare redirection with no command word: materialize the Fds for
		// their side effect (truncate/create/heredoc) and succeed, the same
		// way Empty does for bare assignments (§9 decision 6).
		return r.executeBareRedir(simple, meta)
	}

	name, err := r.expandWord(simple.Cmd)
	if err != nil {
		return false, err
	}

	restore := r.overlayEnv(simple.Env)
	defer restore()

	if body, ok := r.State.Alias(name); ok && !expanding[name] {
		return r.executeAlias(name, body, simple, meta, expanding)
	}

	args, err := r.expandArgs(simple.Args)
	if err != nil {
		return false, err
	}
	return r.runSimple(name, args, simple, meta)
}

// overlayEnv applies inline NAME=value assignments (§4.4) for the duration
// of one simple command — builtin or external — and returns a function that
// restores the previous environment.
func (r *Runner) overlayEnv(env map[string][]syntax.Expandable) func() {
	if len(env) == 0 {
		return func() {}
	}
	type saved struct {
		value string
		had   bool
	}
	prev := make(map[string]saved, len(env))
	for name, word := range env {
		old, had := os.LookupEnv(name)
		prev[name] = saved{old, had}
		val, err := r.expandWord(word)
		if err != nil {
			val = ""
		}
		os.Setenv(name, val)
	}
	return func() {
		for name, s := range prev {
			if s.had {
				os.Setenv(name, s.value)
			} else {
				os.Unsetenv(name)
			}
		}
	}
}

// executeAlias substitutes name's alias body for caller, applying the
// propagate-env fixup (§4.4) to every parsed command and the move-args
// fixup to the last one, and marking name as in-flight so the substitution
// cannot recurse into itself.
func (r *Runner) executeAlias(name, body string, caller *syntax.SimpleCmd, meta CmdMeta, expanding map[string]bool) (bool, error) {
	p := syntax.NewParser(body, r.State)
	cmds, err := p.ParseList()
	if err != nil {
		r.tracef("alias %q did not parse (%v); running it as a literal command", name, err)
		args, aerr := r.expandArgs(caller.Args)
		if aerr != nil {
			return false, aerr
		}
		return r.runSimple(name, args, caller, meta)
	}

	next := make(map[string]bool, len(expanding)+1)
	for k := range expanding {
		next[k] = true
	}
	next[name] = true

	last := len(cmds) - 1
	var ok bool
	for i, c := range cmds {
		propagateEnv(c, caller.Env)
		if i == last {
			injectArgs(c, caller.Args)
			ok, err = r.execute(c, meta, next)
		} else {
			ok, err = r.execute(c, inheritMeta(), next)
		}
		if err != nil {
			return false, err
		}
	}
	return ok, nil
}

// rightmostSimple finds the simple command that would run last were cmd
// executed, the target of the alias expansion's "move args" fixup.
func rightmostSimple(cmd syntax.Cmd) *syntax.SimpleCmd {
	switch c := cmd.(type) {
	case *syntax.Simple:
		return c.Cmd
	case *syntax.Pipeline:
		return rightmostSimple(c.Right)
	case *syntax.And:
		return rightmostSimple(c.Right)
	case *syntax.Or:
		return rightmostSimple(c.Right)
	case *syntax.Not:
		return rightmostSimple(c.Child)
	default:
		return nil
	}
}

// injectArgs appends the caller's original arguments to cmd's rightmost
// simple command (`alias ll='ls -l'; ll /tmp` becomes `ls -l /tmp`).
func injectArgs(cmd syntax.Cmd, args [][]syntax.Expandable) {
	if len(args) == 0 {
		return
	}
	if sc := rightmostSimple(cmd); sc != nil {
		sc.Args = append(sc.Args, args...)
	}
}

// propagateEnv copies the caller's inline environment onto every simple
// command in the expanded tree.
func propagateEnv(cmd syntax.Cmd, env map[string][]syntax.Expandable) {
	if len(env) == 0 {
		return
	}
	switch c := cmd.(type) {
	case *syntax.Simple:
		if c.Cmd.Env == nil {
			c.Cmd.Env = map[string][]syntax.Expandable{}
		}
		for k, v := range env {
			c.Cmd.Env[k] = v
		}
	case *syntax.Pipeline:
		propagateEnv(c.Left, env)
		propagateEnv(c.Right, env)
	case *syntax.And:
		propagateEnv(c.Left, env)
		propagateEnv(c.Right, env)
	case *syntax.Or:
		propagateEnv(c.Left, env)
		propagateEnv(c.Right, env)
	case *syntax.Not:
		propagateEnv(c.Child, env)
	}
}
