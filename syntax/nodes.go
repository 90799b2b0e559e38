// Package syntax implements rush's lexer and parser: it turns a line of
// shell-like input into a Cmd tree, per §3 and §4.2-4.3 of the shell spec.
package syntax

import (
	"io"
	"os"
)

// Expandable is one fragment of a Word. A Word is a list of Expandables
// concatenated together at execution time (§3, §4.4).
type Expandable interface {
	expandableNode()
}

// Literal is a verbatim run of characters, already unescaped/unquoted.
type Literal string

// Var is a `$NAME` or `$n` parameter reference.
type Var struct {
	Name string
}

// Tilde is the content following `~` up to the first invalid-for-a-username
// character.
type Tilde struct {
	Word []Expandable
}

// Action is the operator inside a `${name<op>word}` parameter expansion.
type Action int

const (
	// UseDefault implements ${name:-word} / ${name-word}.
	UseDefault Action = iota
	// AssignDefault implements ${name:=word} / ${name=word}.
	AssignDefault
	// IndicateError implements ${name:?word} / ${name?word}.
	IndicateError
	// UseAlternate implements ${name:+word} / ${name+word}.
	UseAlternate
	// RmSmallestSuffix implements ${name%word}.
	RmSmallestSuffix
	// RmLargestSuffix implements ${name%%word}.
	RmLargestSuffix
	// RmSmallestPrefix implements ${name#word}.
	RmSmallestPrefix
	// RmLargestPrefix implements ${name##word}.
	RmLargestPrefix
	// StringLength implements ${#name}.
	StringLength
)

// Brace is a `${name<op>word}` parameter expansion.
type Brace struct {
	Name     string
	Action   Action
	NullFlag bool // true for the ":"-prefixed family, e.g. ":-" vs "-"
	Word     []Expandable
}

// Sub is a `$(...)` command substitution; Text is re-lexed, re-parsed and
// run when the enclosing word is expanded.
type Sub struct {
	Text string
}

func (Literal) expandableNode() {}
func (*Var) expandableNode()    {}
func (*Tilde) expandableNode()  {}
func (*Brace) expandableNode()  {}
func (*Sub) expandableNode()    {}

// Fd describes where one of a simple command's standard streams connects.
// It is a closed tagged variant, matching §3's Fd description. `>&n`
// aliasing needs no tag of its own: the parser makes the two stdio fields
// point at the very same *Fd (§9), so whichever Kind the shared Fd already
// carries is what both slots observe.
type Fd struct {
	Kind FdKind

	PathWord []Expandable // FdFileName, FdFileNameAppend: expanded at spawn time
	Heredoc  string        // FdHeredoc: the literal body collected at parse time

	Reader io.Reader // FdPipeIn: the pipeline's upstream read end
	Writer io.Writer // FdPipeOut: the pipeline's downstream write end

	// File is an already-open handle. The runner reads Reader, Writer and
	// File for kinds it does not open itself; neither the parser nor the
	// runner sets them, since the runner opens PathWord and here-doc bodies
	// into fresh handles for each spawn and passes pipeline ends through
	// CmdMeta instead.
	File *os.File
}

// FdKind is the tag of an Fd value. Equality between two Fd values is
// defined purely on Kind (§3): it is only ever used to check "is this
// stdio slot still at its default", not to compare paths.
type FdKind int

const (
	FdStdin FdKind = iota
	FdStdout
	FdStderr
	FdFileName
	FdFileNameAppend
	FdHeredoc
	FdPipeIn  // upstream pipeline read end in Reader (not produced by the parser)
	FdPipeOut // downstream pipeline write end in Writer (not produced by the parser)
	FdRawFile // already-open handle in File (not produced by the parser)
)

// SimpleCmd is the executable leaf of a Cmd tree (§3).
type SimpleCmd struct {
	Cmd  []Expandable // the program name, expanded at execution time
	Args [][]Expandable

	// Env holds NAME=value prefixes collected before the first word.
	Env map[string][]Expandable

	// Stdin, Stdout and Stderr are shared handles: a redirection such as
	// `2>&1` makes Stderr point at the very same *Fd as Stdout, and the
	// runner then resolves that one Fd to a single handle for both (§9).
	Stdin, Stdout, Stderr *Fd
}

func newSimpleCmd() *SimpleCmd {
	return &SimpleCmd{
		Stdin:  &Fd{Kind: FdStdin},
		Stdout: &Fd{Kind: FdStdout},
		Stderr: &Fd{Kind: FdStderr},
	}
}

// Cmd is the command tree (§3): Simple, Pipeline, And, Or, Not or Empty.
type Cmd interface {
	cmdNode()
}

// Simple wraps a SimpleCmd so it implements Cmd.
type Simple struct {
	Cmd *SimpleCmd
}

// Pipeline is a left|right pipe composition.
type Pipeline struct {
	Left, Right Cmd
}

// And is left && right, short-circuiting when left fails.
type And struct {
	Left, Right Cmd
}

// Or is left || right, short-circuiting when left succeeds.
type Or struct {
	Left, Right Cmd
}

// Not negates the boolean status of Child (the `!` operator).
type Not struct {
	Child Cmd
}

// Empty is produced when a command line carries only assignments, or is
// blank; it always succeeds. Env holds any assignments collected before the
// parser determined there would be no command word — the runner expands and
// applies them the same way it would for a SimpleCmd's prefix assignments
// (§4.3), keeping expansion on-demand instead of forcing it at parse time.
type Empty struct {
	Env map[string][]Expandable
}

func (*Simple) cmdNode()   {}
func (*Pipeline) cmdNode() {}
func (*And) cmdNode()      {}
func (*Or) cmdNode()       {}
func (*Not) cmdNode()      {}
func (Empty) cmdNode()     {}
