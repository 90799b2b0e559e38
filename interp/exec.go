package interp

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"rush/syntax"
)

// spawn materialises simple's Fds, overlays nothing further (overlayEnv has
// already run by the time this is reached), spawns name as a child process
// and waits for it (§4.4's "Spawning a simple command").
func (r *Runner) spawn(name string, args []string, simple *syntax.SimpleCmd, meta CmdMeta) (bool, error) {
	stdin, inClose, err := r.resolveInput(simple.Stdin, meta)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rush: %v\n", err)
		return false, nil
	}
	defer closeIfSet(inClose)

	stdout, outClose, err := r.resolveOutput(simple.Stdout, meta, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rush: %v\n", err)
		return false, nil
	}
	defer closeIfSet(outClose)

	var stderr io.Writer
	var errClose io.Closer
	if simple.Stderr == simple.Stdout {
		// `2>&1` (or the reverse): the two stdio slots share one *Fd, so they
		// share the handle just resolved for stdout instead of re-opening it.
		stderr = stdout
	} else {
		stderr, errClose, err = r.resolveOutput(simple.Stderr, meta, true)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rush: %v\n", err)
			return false, nil
		}
		defer closeIfSet(errClose)
	}

	cmd := exec.Command(name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if ok := asExitError(err, &exitErr); ok {
			return exitErr.ExitCode() == 0, nil
		}
		fmt.Fprintf(os.Stderr, "rush: %s: %v\n", name, err)
		return false, nil
	}
	return true, nil
}

func asExitError(err error, target **exec.ExitError) bool {
	ee, ok := err.(*exec.ExitError)
	if !ok {
		return false
	}
	*target = ee
	return true
}

// executeBareRedir handles a Simple node with no command word at all — only
// redirections, kept out of Empty so the shell still performs the file side
// effect (truncate/create/heredoc-drain) without spawning a process (§9
// decision 6).
func (r *Runner) executeBareRedir(simple *syntax.SimpleCmd, meta CmdMeta) (bool, error) {
	_, inClose, err := r.resolveInput(simple.Stdin, meta)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rush: %v\n", err)
		return false, nil
	}
	closeIfSet(inClose)

	_, outClose, err := r.resolveOutput(simple.Stdout, meta, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rush: %v\n", err)
		return false, nil
	}
	closeIfSet(outClose)

	if simple.Stderr != simple.Stdout {
		_, errClose, err := r.resolveOutput(simple.Stderr, meta, true)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rush: %v\n", err)
			return false, nil
		}
		closeIfSet(errClose)
	}
	return true, nil
}

func closeIfSet(c io.Closer) {
	if c != nil {
		c.Close()
	}
}

// resolveInput materialises fd as a readable stream, honouring the I/O
// reconciliation rule (§4.4): an explicit redirection always wins over a
// pipe the caller supplied, but a still-default Stdin picks up the caller's
// PipeReader when one is present.
func (r *Runner) resolveInput(fd *syntax.Fd, meta CmdMeta) (io.Reader, io.Closer, error) {
	switch fd.Kind {
	case syntax.FdStdin:
		if meta.Stdin != nil {
			return meta.Stdin, nil, nil
		}
		return os.Stdin, nil, nil
	case syntax.FdFileName, syntax.FdFileNameAppend:
		path, err := r.expandWord(fd.PathWord)
		if err != nil {
			return nil, nil, err
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return f, f, nil
	case syntax.FdHeredoc:
		return strings.NewReader(fd.Heredoc), nil, nil
	default:
		if fd.Reader != nil {
			return fd.Reader, nil, nil
		}
		if fd.File != nil {
			return fd.File, nil, nil
		}
		return nil, nil, fmt.Errorf("no input source for descriptor")
	}
}

// resolveOutput mirrors resolveInput for stdout/stderr. isStderr disables
// the pipe-reconciliation swap: CmdMeta never carries a captured stderr,
// only stdout (§4.4).
func (r *Runner) resolveOutput(fd *syntax.Fd, meta CmdMeta, isStderr bool) (io.Writer, io.Closer, error) {
	switch fd.Kind {
	case syntax.FdStdout:
		if !isStderr && meta.Stdout != nil {
			return meta.Stdout, nil, nil
		}
		return os.Stdout, nil, nil
	case syntax.FdStderr:
		return os.Stderr, nil, nil
	case syntax.FdFileName:
		path, err := r.expandWord(fd.PathWord)
		if err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, nil, err
		}
		return f, f, nil
	case syntax.FdFileNameAppend:
		path, err := r.expandWord(fd.PathWord)
		if err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		return f, f, nil
	default:
		if fd.Writer != nil {
			return fd.Writer, nil, nil
		}
		if fd.File != nil {
			return fd.File, nil, nil
		}
		return nil, nil, fmt.Errorf("no output target for descriptor")
	}
}

// stdout picks the writer a built-in should print to: the caller's capture
// pipe when one is installed, otherwise the process's own stdout. Built-ins
// never get redirected to a file directly (§4.4 only materialises Fds for
// external spawns), but they must still respect capture and pipelines.
func (r *Runner) stdout(meta CmdMeta) io.Writer {
	if meta.Stdout != nil {
		return meta.Stdout
	}
	return os.Stdout
}
