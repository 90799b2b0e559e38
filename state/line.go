package state

import (
	"bufio"
	"fmt"
	"io"
)

// LineSource is the narrow input-source interface §4.1 asks Shell-state to
// own: "next_prompt(p) -> optional string" — interactive implementations
// write p before reading; stream-backed ones ignore it.
type LineSource interface {
	NextPrompt(prompt string) (line string, ok bool)
}

// interactiveSource reads from a terminal, writing the prompt to out before
// each read (§6). Grounded on cmd/gosh/main.go's runInteractive, which
// prints the prompt then blocks on the next input line.
type interactiveSource struct {
	in  *bufio.Reader
	out io.Writer
}

// NewInteractive wraps a terminal's stdin/stdout as a LineSource.
func NewInteractive(in io.Reader, out io.Writer) LineSource {
	return &interactiveSource{in: bufio.NewReader(in), out: out}
}

func (s *interactiveSource) NextPrompt(prompt string) (string, bool) {
	fmt.Fprint(s.out, prompt)
	line, err := s.in.ReadString('\n')
	if err != nil {
		if line == "" {
			return "", false
		}
		// Last line of input had no trailing newline; still deliver it.
		return line, true
	}
	return line, true
}

// streamSource reads from a script file (or `-c` string) without prompting.
type streamSource struct {
	in *bufio.Reader
}

// NewStream wraps a non-interactive reader (a script file, or the body
// passed to `-c`) as a LineSource that never prints a prompt (§6).
func NewStream(in io.Reader) LineSource {
	return &streamSource{in: bufio.NewReader(in)}
}

func (s *streamSource) NextPrompt(string) (string, bool) {
	line, err := s.in.ReadString('\n')
	if err != nil {
		if line == "" {
			return "", false
		}
		return line, true
	}
	return line, true
}
