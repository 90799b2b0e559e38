package syntax

import (
	"testing"

	"rush/token"
)

// lexAll drains a line with no Continuer, asserting none of the input needs
// a continuation line.
func lexAll(t *testing.T, line string) []Tok {
	t.Helper()
	l := NewLexer(line, nil)
	var toks []Tok
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("lexing %q: %v", line, err)
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func kinds(toks []Tok) []token.Token {
	out := make([]token.Token, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexerOperators(t *testing.T) {
	tests := []struct {
		line string
		want []token.Token
	}{
		{"", []token.Token{token.EOF}},
		{"echo foo", []token.Token{token.WORD, token.WORD, token.EOF}},
		{"a | b", []token.Token{token.WORD, token.PIPE, token.WORD, token.EOF}},
		{"a || b", []token.Token{token.WORD, token.LOR, token.WORD, token.EOF}},
		{"a && b", []token.Token{token.WORD, token.LAND, token.WORD, token.EOF}},
		{"a & b", []token.Token{token.WORD, token.AMP, token.WORD, token.EOF}},
		{"! a", []token.Token{token.BANG, token.WORD, token.EOF}},
		{"a; b", []token.Token{token.WORD, token.SEMI, token.WORD, token.EOF}},
		{"a < b > c", []token.Token{token.WORD, token.LSS, token.WORD, token.GTR, token.WORD, token.EOF}},
		{"2>&1", []token.Token{token.INT, token.GTR, token.AMP, token.INT, token.EOF}},
	}
	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			got := kinds(lexAll(t, tc.line))
			if len(got) != len(tc.want) {
				t.Fatalf("kinds = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("kinds = %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestLexerClassifiesAssignAndInt(t *testing.T) {
	toks := lexAll(t, "FOO=bar 42")
	if toks[0].Kind != token.ASSIGN || toks[0].Name != "FOO" {
		t.Fatalf("first token = %+v, want ASSIGN FOO", toks[0])
	}
	if toks[1].Kind != token.INT || toks[1].Int != 42 {
		t.Fatalf("second token = %+v, want INT 42", toks[1])
	}
}

func TestLexerAllDigitNameIsNotAssign(t *testing.T) {
	// "1=x" can't be an assignment target (§3 invariant 2): a purely numeric
	// name would collide with positional-parameter syntax.
	toks := lexAll(t, "1=x")
	if toks[0].Kind != token.WORD {
		t.Fatalf("token = %+v, want WORD", toks[0])
	}
}

func TestLexerVarAndBrace(t *testing.T) {
	toks := lexAll(t, "echo $HOME ${FOO:-bar}")
	if toks[1].Kind != token.WORD || len(toks[1].Parts) != 1 {
		t.Fatalf("$HOME word = %+v", toks[1])
	}
	v, ok := toks[1].Parts[0].(*Var)
	if !ok || v.Name != "HOME" {
		t.Fatalf("$HOME part = %#v, want Var{HOME}", toks[1].Parts[0])
	}

	b, ok := toks[2].Parts[0].(*Brace)
	if !ok {
		t.Fatalf("${FOO:-bar} part = %#v, want *Brace", toks[2].Parts[0])
	}
	if b.Name != "FOO" || b.Action != UseDefault || !b.NullFlag {
		t.Fatalf("brace = %+v, want {FOO UseDefault null=true}", b)
	}
}

func TestLexerTilde(t *testing.T) {
	toks := lexAll(t, "~/foo")
	tilde, ok := toks[0].Parts[0].(*Tilde)
	if !ok {
		t.Fatalf("part = %#v, want *Tilde", toks[0].Parts[0])
	}
	if len(tilde.Word) != 1 || tilde.Word[0] != Literal("/foo") {
		t.Fatalf("tilde word = %#v, want [Literal(/foo)]", tilde.Word)
	}
}

func TestLexerCommandSubstitutionBalancesParens(t *testing.T) {
	toks := lexAll(t, "echo $(echo $(echo hi))")
	sub, ok := toks[1].Parts[0].(*Sub)
	if !ok {
		t.Fatalf("part = %#v, want *Sub", toks[1].Parts[0])
	}
	if sub.Text != "echo $(echo hi)" {
		t.Fatalf("sub text = %q, want %q", sub.Text, "echo $(echo hi)")
	}
}

func TestLexerSingleQuoteIsVerbatim(t *testing.T) {
	toks := lexAll(t, `echo '$HOME ~ foo'`)
	if len(toks[1].Parts) != 1 || toks[1].Parts[0] != Literal("$HOME ~ foo") {
		t.Fatalf("parts = %#v", toks[1].Parts)
	}
}

func TestLexerDoubleQuoteStillExpands(t *testing.T) {
	// Braces delimit the name: a bare $HOME/x would read "HOME/x" as the
	// name, since '/' does not end a bare $NAME.
	toks := lexAll(t, `echo "${HOME}/x"`)
	if len(toks[1].Parts) != 2 {
		t.Fatalf("parts = %#v, want [Var, Literal]", toks[1].Parts)
	}
	if _, ok := toks[1].Parts[0].(*Var); !ok {
		t.Fatalf("first part = %#v, want *Var", toks[1].Parts[0])
	}
	if toks[1].Parts[1] != Literal("/x") {
		t.Fatalf("second part = %#v, want Literal(/x)", toks[1].Parts[1])
	}
}

// continuationStub hands back one queued line per call, for testing
// constructs that must span more than one line of input.
type continuationStub struct {
	lines []string
	i     int
}

func (c *continuationStub) NextPrompt(string) (string, bool) {
	if c.i >= len(c.lines) {
		return "", false
	}
	line := c.lines[c.i]
	c.i++
	return line, true
}

func TestLexerRequestsContinuationForOpenQuote(t *testing.T) {
	// A real LineSource's line retains its trailing newline (it doubles as
	// the backslash-continuation sentinel, §9); that newline is what ends
	// up embedded in the quoted string once the closing line arrives.
	cont := &continuationStub{lines: []string{`bar"`}}
	l := NewLexer("echo \"foo\n", cont)
	tok, err := l.Next() // echo
	if err != nil || tok.Kind != token.WORD {
		t.Fatalf("first token = %+v, %v", tok, err)
	}
	tok, err = l.Next() // "foo\nbar"
	if err != nil {
		t.Fatalf("second token: %v", err)
	}
	if tok.Kind != token.WORD {
		t.Fatalf("token = %+v, want WORD", tok)
	}
	var got string
	for _, p := range tok.Parts {
		lit, ok := p.(Literal)
		if !ok {
			t.Fatalf("part = %#v, want Literal", p)
		}
		got += string(lit)
	}
	if got != "foo\nbar" {
		t.Fatalf("quoted text = %q, want %q", got, "foo\nbar")
	}
}
