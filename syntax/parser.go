package syntax

import (
	"fmt"
	"strconv"
	"strings"

	"rush/token"
)

// Parser builds a Cmd tree from a Lexer's token stream. It holds one token
// of lookahead, the way mvdan-sh/syntax/parser.go's p.tok lookahead works,
// scaled down to the precedence this grammar needs:
//
//	and_or   := pipeline ( (&& | ||) pipeline )*
//	pipeline := simple ( | simple )*
//	simple   := (!)? ( word | assign | redir )+
type Parser struct {
	lex  *Lexer
	cont Continuer

	tok Tok
	err error
}

// NewParser creates a parser over one logical line. cont is shared with the
// underlying Lexer and is also used directly, to read the raw body lines of
// a here-doc (§4.3), which are never lexed.
func NewParser(line string, cont Continuer) *Parser {
	p := &Parser{lex: NewLexer(line, cont), cont: cont}
	p.advance()
	return p
}

func (p *Parser) advance() {
	if p.err != nil {
		return
	}
	p.tok, p.err = p.lex.Next()
}

// ParseList parses a full line into a sequence of Cmds, one per `;`- or
// `&`-separated segment (§9 decision 3 and 4): both separators are folded
// into the same sequential handling, since true backgrounding is a
// Non-goal.
func (p *Parser) ParseList() ([]Cmd, error) {
	if p.err != nil {
		return nil, p.err
	}
	var cmds []Cmd
	for p.tok.Kind != token.EOF {
		c, err := p.andOr()
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, c)
		if p.tok.Kind == token.SEMI || p.tok.Kind == token.AMP {
			p.advance()
			if p.err != nil {
				return nil, p.err
			}
			continue
		}
		break
	}
	if p.tok.Kind != token.EOF {
		return nil, fmt.Errorf("unexpected %s", p.tok.Kind)
	}
	if len(cmds) == 0 {
		return []Cmd{Empty{}}, nil
	}
	return cmds, nil
}

func (p *Parser) andOr() (Cmd, error) {
	left, err := p.pipeline()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == token.LAND || p.tok.Kind == token.LOR {
		op := p.tok.Kind
		p.advance()
		if p.err != nil {
			return nil, p.err
		}
		right, err := p.pipeline()
		if err != nil {
			return nil, err
		}
		if op == token.LAND {
			left = &And{Left: left, Right: right}
		} else {
			left = &Or{Left: left, Right: right}
		}
	}
	return left, nil
}

func (p *Parser) pipeline() (Cmd, error) {
	left, err := p.simpleCommand()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == token.PIPE {
		p.advance()
		if p.err != nil {
			return nil, p.err
		}
		right, err := p.simpleCommand()
		if err != nil {
			return nil, err
		}
		left = &Pipeline{Left: left, Right: right}
	}
	return left, nil
}

// simpleCommand parses (!)? ( word | assign | redir )+.
func (p *Parser) simpleCommand() (Cmd, error) {
	negate := false
	if p.tok.Kind == token.BANG {
		negate = true
		p.advance()
		if p.err != nil {
			return nil, p.err
		}
	}

	sc := newSimpleCmd()
	var words [][]Expandable
	seenWord := false
	any := false

loop:
	for {
		switch p.tok.Kind {
		case token.WORD:
			any = true
			seenWord = true
			words = append(words, p.tok.Parts)
			p.advance()
		case token.ASSIGN:
			any = true
			if !seenWord {
				if sc.Env == nil {
					sc.Env = map[string][]Expandable{}
				}
				sc.Env[p.tok.Name] = p.tok.Parts
			} else {
				// Degrades to an ordinary argument once a command word has
				// already been seen: "echo FOO=bar" is not an assignment.
				w := append([]Expandable{Literal(p.tok.Name + "=")}, p.tok.Parts...)
				words = append(words, w)
			}
			p.advance()
		case token.INT:
			any = true
			n := p.tok.Int
			p.advance()
			if p.err != nil {
				return nil, p.err
			}
			if p.tok.Kind == token.LSS || p.tok.Kind == token.GTR {
				if err := p.redir(sc, int(n)); err != nil {
					return nil, err
				}
			} else {
				seenWord = true
				words = append(words, []Expandable{Literal(strconv.FormatUint(uint64(n), 10))})
			}
		case token.LSS:
			any = true
			if err := p.redir(sc, 0); err != nil {
				return nil, err
			}
		case token.GTR:
			any = true
			if err := p.redir(sc, 1); err != nil {
				return nil, err
			}
		default:
			break loop
		}
		if p.err != nil {
			return nil, p.err
		}
	}

	if !any {
		return nil, fmt.Errorf("expected command")
	}

	var cmd Cmd
	if len(words) == 0 && !hasRedir(sc) {
		// Only assignments (or nothing at all) were seen: §4.3's Empty case.
		cmd = Empty{Env: sc.Env}
	} else {
		if len(words) > 0 {
			sc.Cmd = words[0]
			sc.Args = words[1:]
		}
		cmd = &Simple{Cmd: sc}
	}
	if negate {
		cmd = &Not{Child: cmd}
	}
	return cmd, nil
}

// hasRedir reports whether sc carries any redirection away from the three
// default stdio Fds newSimpleCmd installs.
func hasRedir(sc *SimpleCmd) bool {
	return sc.Stdin.Kind != FdStdin || sc.Stdout.Kind != FdStdout || sc.Stderr.Kind != FdStderr
}

// redir parses one redirection, with the operator (LSS or GTR) still the
// current token and target identifying which of stdin/stdout/stderr (0, 1
// or 2) is being set — either the default for a bare `<`/`>`, or the value
// read from a preceding Integer(n) (§4.3).
func (p *Parser) redir(sc *SimpleCmd, target int) error {
	if target < 0 || target > 2 {
		return fmt.Errorf("unsupported file descriptor %d", target)
	}
	op := p.tok.Kind
	p.advance()
	if p.err != nil {
		return p.err
	}

	if op == token.GTR && p.tok.Kind == token.GTR {
		p.advance()
		if p.err != nil {
			return p.err
		}
		return p.redirTarget(sc, target, true, false)
	}
	if op == token.LSS && p.tok.Kind == token.LSS {
		p.advance()
		if p.err != nil {
			return p.err
		}
		return p.hereDoc(sc, target)
	}
	return p.redirTarget(sc, target, false, op == token.LSS)
}

// redirTarget parses the word, integer, or `&n` following a (possibly
// doubled) redirection operator and assigns the resulting Fd to the chosen
// stdio slot of sc.
func (p *Parser) redirTarget(sc *SimpleCmd, target int, appendMode, isInput bool) error {
	switch p.tok.Kind {
	case token.AMP:
		p.advance()
		if p.err != nil {
			return p.err
		}
		if p.tok.Kind != token.INT {
			return fmt.Errorf("expected redirection location")
		}
		n := int(p.tok.Int)
		p.advance()
		if p.err != nil {
			return p.err
		}
		src := sc.slot(n)
		if src == nil {
			return fmt.Errorf("expected redirection location")
		}
		sc.setSlot(target, src)
		return nil
	case token.WORD:
		word := p.tok.Parts
		p.advance()
		kind := FdFileName
		if appendMode {
			kind = FdFileNameAppend
		}
		sc.setSlot(target, &Fd{Kind: kind, PathWord: word})
		return nil
	case token.INT:
		lit := []Expandable{Literal(strconv.FormatUint(uint64(p.tok.Int), 10))}
		p.advance()
		kind := FdFileName
		if appendMode {
			kind = FdFileNameAppend
		}
		sc.setSlot(target, &Fd{Kind: kind, PathWord: lit})
		return nil
	default:
		return fmt.Errorf("expected redirection location")
	}
}

// hereDoc reads the delimiter word, then consumes whole raw lines directly
// from cont (never through the Lexer) until one equals the delimiter
// exactly, per §4.3.
func (p *Parser) hereDoc(sc *SimpleCmd, target int) error {
	if p.tok.Kind != token.WORD {
		return fmt.Errorf("expected redirection location")
	}
	delim := literalText(p.tok.Parts)
	p.advance()
	if p.err != nil {
		return p.err
	}

	var body strings.Builder
	for {
		if p.cont == nil {
			return fmt.Errorf("expected more input")
		}
		line, ok := p.cont.NextPrompt("> ")
		if !ok {
			return fmt.Errorf("expected more input")
		}
		// A line source hands back its trailing newline (it is also the
		// backslash-continuation sentinel the lexer relies on); a here-doc
		// body line is compared and stored without it.
		line = strings.TrimSuffix(line, "\n")
		if line == delim {
			break
		}
		body.WriteString(line)
		body.WriteByte('\n')
	}
	sc.setSlot(target, &Fd{Kind: FdHeredoc, Heredoc: body.String()})
	return nil
}

// literalText concatenates the Literal fragments of a word, used for the
// here-doc delimiter, which is never itself expanded.
func literalText(parts []Expandable) string {
	var sb strings.Builder
	for _, part := range parts {
		if lit, ok := part.(Literal); ok {
			sb.WriteString(string(lit))
		}
	}
	return sb.String()
}

// slot returns the *Fd currently occupying descriptor n (0, 1 or 2) on sc,
// or nil if n names anything else — `>&5` with no fd 5 open is a parse
// error (§4.3).
func (sc *SimpleCmd) slot(n int) *Fd {
	switch n {
	case 0:
		return sc.Stdin
	case 1:
		return sc.Stdout
	case 2:
		return sc.Stderr
	default:
		return nil
	}
}

// setSlot assigns fd to descriptor n (0, 1 or 2) on sc.
func (sc *SimpleCmd) setSlot(n int, fd *Fd) {
	switch n {
	case 0:
		sc.Stdin = fd
	case 1:
		sc.Stdout = fd
	case 2:
		sc.Stderr = fd
	}
}
