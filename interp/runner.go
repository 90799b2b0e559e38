// Package interp walks a syntax.Cmd tree and executes it: it creates pipes
// and child processes, expands words, enforces short-circuit semantics for
// &&/||/!, and invokes built-ins (§4.4).
package interp

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"rush/state"
	"rush/syntax"
)

// Runner is the tree walker. It holds the one piece of long-lived state the
// walk needs beyond *state.State: whether debug tracing is enabled (§9,
// RUSH_DEBUG).
type Runner struct {
	State *state.State
	debug bool
}

// New creates a Runner bound to s. Debug tracing is enabled when the
// RUSH_DEBUG environment variable is set to a non-empty value.
func New(s *state.State) *Runner {
	return &Runner{State: s, debug: os.Getenv("RUSH_DEBUG") != ""}
}

func (r *Runner) tracef(format string, args ...any) {
	if r.debug {
		fmt.Fprintf(os.Stderr, "rush: trace: "+format+"\n", args...)
	}
}

// CmdMeta is the per-node stdio plumbing handed down the walk (§4.4),
// carried over from original_source/src/runner.rs almost unchanged: an
// optional reader the caller wants this node's stdin connected to, and an
// optional writer the caller wants this node's stdout connected to.
type CmdMeta struct {
	Stdin  io.Reader
	Stdout io.Writer
}

func inheritMeta() CmdMeta { return CmdMeta{} }

func pipeOutMeta(w io.Writer) CmdMeta { return CmdMeta{Stdout: w} }

func (m CmdMeta) newIn(r io.Reader) CmdMeta { return CmdMeta{Stdin: r, Stdout: m.Stdout} }

// Run walks cmd to completion. When capture is true, a fresh pipe is
// installed as the tree's stdout and the returned string holds everything
// written to it; otherwise stdio is inherited from the process and the
// string is empty (§4.4).
func (r *Runner) Run(cmd syntax.Cmd, capture bool) (string, bool, error) {
	if !capture {
		ok, err := r.execute(cmd, inheritMeta(), nil)
		return "", ok, err
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return "", false, err
	}
	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	go func() {
		b, err := io.ReadAll(pr)
		done <- result{string(b), err}
	}()

	ok, runErr := r.execute(cmd, pipeOutMeta(pw), nil)
	pw.Close()
	res := <-done
	pr.Close()
	if runErr == nil {
		runErr = res.err
	}
	return res.out, ok, runErr
}

// execute is the recursive tree walker. expanding is the set of alias names
// currently being substituted on this command path (§4.4, §9); it is copied
// rather than mutated so that sibling branches of a Pipeline/And/Or never
// observe each other's in-flight alias expansions.
func (r *Runner) execute(cmd syntax.Cmd, meta CmdMeta, expanding map[string]bool) (bool, error) {
	switch c := cmd.(type) {
	case *syntax.Simple:
		return r.executeSimple(c, meta, expanding)
	case *syntax.Pipeline:
		return r.executePipeline(c, meta, expanding)
	case *syntax.And:
		ok, err := r.execute(c.Left, inheritMeta(), expanding)
		if err != nil || !ok {
			return ok, err
		}
		return r.execute(c.Right, meta, expanding)
	case *syntax.Or:
		ok, err := r.execute(c.Left, inheritMeta(), expanding)
		if err != nil || ok {
			return ok, err
		}
		return r.execute(c.Right, meta, expanding)
	case *syntax.Not:
		ok, err := r.execute(c.Child, meta, expanding)
		return !ok, err
	case syntax.Empty:
		return r.executeEmpty(c)
	default:
		return false, fmt.Errorf("unknown command node %T", cmd)
	}
}

// executePipeline creates a pipe, runs the left side with its stdout
// installed as the write end, and the right side with its stdin installed
// as the read end; both sides are spawned and waited on concurrently so
// that neither blocks the other on a full pipe buffer (§4.4, §5). Each side
// walks its half of the tree against its own State clone rather than r's:
// `vars`/`aliases` are plain maps, so two goroutines touching the same map
// (an alias lookup on one side racing a builtin `alias`/`unalias` write on
// the other) would be a concurrent map access, not just a data race. Cloning
// first is the same fix `subshell()` applies on the teacher side before
// handing state to a concurrent goroutine.
func (r *Runner) executePipeline(p *syntax.Pipeline, meta CmdMeta, expanding map[string]bool) (bool, error) {
	pr, pw, err := os.Pipe()
	if err != nil {
		return false, err
	}

	left := &Runner{State: r.State.Clone(), debug: r.debug}
	right := &Runner{State: r.State.Clone(), debug: r.debug}

	var g errgroup.Group
	g.Go(func() error {
		defer pw.Close()
		_, err := left.execute(p.Left, pipeOutMeta(pw), expanding)
		return err
	})

	var rightOK bool
	g.Go(func() error {
		defer pr.Close()
		ok, err := right.execute(p.Right, meta.newIn(pr), expanding)
		rightOK = ok
		return err
	})

	if err := g.Wait(); err != nil {
		return false, err
	}
	return rightOK, nil
}

// executeEmpty applies an Empty node's collected assignments (§3 invariant
// 3, §4.3) and always succeeds.
func (r *Runner) executeEmpty(e syntax.Empty) (bool, error) {
	for name, word := range e.Env {
		val, err := r.expandWord(word)
		if err != nil {
			return false, err
		}
		r.State.SetVar(name, val)
	}
	return true, nil
}
