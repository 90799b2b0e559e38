package interp

import (
	"fmt"
	"os/user"
	"strconv"
	"strings"

	"rush/syntax"
)

// ExpansionError is returned by parameter expansions with Action ==
// IndicateError (`${name?msg}`/`${name:?msg}`) on an unset or null
// parameter. Unlike a Redirection or Spawn failure, it aborts the whole
// command path rather than just failing the one simple command (§7).
type ExpansionError struct{ Msg string }

func (e *ExpansionError) Error() string { return e.Msg }

// expandWord concatenates the expansion of every fragment of a word into
// one string — the on-demand expansion §9 calls for.
func (r *Runner) expandWord(parts []syntax.Expandable) (string, error) {
	var sb strings.Builder
	for _, part := range parts {
		s, err := r.expandPart(part)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

// expandArgs expands a sequence of words, e.g. a SimpleCmd's Args.
func (r *Runner) expandArgs(words [][]syntax.Expandable) ([]string, error) {
	out := make([]string, len(words))
	for i, w := range words {
		s, err := r.expandWord(w)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func (r *Runner) expandPart(e syntax.Expandable) (string, error) {
	switch v := e.(type) {
	case syntax.Literal:
		return string(v), nil
	case *syntax.Var:
		return r.State.GetVar(v.Name), nil
	case *syntax.Tilde:
		return r.expandTilde(v)
	case *syntax.Brace:
		return r.expandBrace(v)
	case *syntax.Sub:
		return r.expandSub(v)
	default:
		return "", fmt.Errorf("unknown word fragment %T", e)
	}
}

// expandTilde implements §4.4's Tilde rule and §9 decision 1 (split on the
// first '/' only).
func (r *Runner) expandTilde(t *syntax.Tilde) (string, error) {
	rest, err := r.expandWord(t.Word)
	if err != nil {
		return "", err
	}
	if rest == "" || strings.HasPrefix(rest, "/") {
		return r.State.GetVar("HOME") + rest, nil
	}

	name, suffix := rest, ""
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		name, suffix = rest[:i], rest[i:]
	}
	u, err := user.Lookup(name)
	if err != nil {
		return "~" + rest, nil
	}
	return u.HomeDir + suffix, nil
}

// expandBrace applies the ${name<op>word} action table in §4.4.
func (r *Runner) expandBrace(b *syntax.Brace) (string, error) {
	val, present := r.State.Lookup(b.Name)

	switch b.Action {
	case syntax.UseDefault:
		if present && val != "" {
			return val, nil
		}
		if !present || b.NullFlag {
			return r.expandWord(b.Word)
		}
		return "", nil

	case syntax.AssignDefault:
		if present && val != "" {
			return val, nil
		}
		if !present || b.NullFlag {
			v, err := r.expandWord(b.Word)
			if err != nil {
				return "", err
			}
			r.State.SetVar(b.Name, v)
			return v, nil
		}
		return "", nil

	case syntax.IndicateError:
		if present && val != "" {
			return val, nil
		}
		if !present || b.NullFlag {
			msg, _ := r.expandWord(b.Word)
			if msg == "" {
				if !present {
					msg = b.Name + ": parameter not set"
				} else {
					msg = "parameter null"
				}
			}
			return "", &ExpansionError{Msg: msg}
		}
		return "", nil

	case syntax.UseAlternate:
		if !present {
			return "", nil
		}
		if val == "" && b.NullFlag {
			return "", nil
		}
		return r.expandWord(b.Word)

	case syntax.RmSmallestSuffix, syntax.RmLargestSuffix, syntax.RmSmallestPrefix, syntax.RmLargestPrefix:
		pattern, err := r.expandWord(b.Word)
		if err != nil {
			return "", err
		}
		return trimByPattern(val, pattern, b.Action), nil

	case syntax.StringLength:
		return strconv.Itoa(len([]rune(val))), nil

	default:
		return "", fmt.Errorf("unsupported parameter expansion action")
	}
}

// expandSub runs a $(...) command substitution: re-lex/re-parse the text
// against the same shell state, capture its output, then collapse internal
// whitespace runs to single spaces and trim (§4.4).
func (r *Runner) expandSub(s *syntax.Sub) (string, error) {
	p := syntax.NewParser(s.Text, r.State)
	cmds, err := p.ParseList()
	if err != nil {
		return "", err
	}
	var out string
	for _, c := range cmds {
		captured, _, err := r.Run(c, true)
		if err != nil {
			return "", err
		}
		out = captured
	}
	return collapseSpace(out), nil
}

// collapseSpace collapses runs of whitespace to a single space and trims
// the ends, matching a command substitution's word-splitting-free result.
func collapseSpace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
