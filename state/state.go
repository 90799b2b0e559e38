// Package state owns the long-lived, process-wide shell state: positional
// parameters, the variable and alias maps, and the input source, per §4.1.
package state

import (
	"os"
	"sort"
	"strconv"
	"strings"
)

// State is the long-lived value threaded through a run of the shell
// (§3's ShellState). It implements syntax.Continuer directly, so a *State
// can be handed to syntax.NewParser/NewLexer wherever one is needed.
type State struct {
	name       string // $0
	positional []string

	vars    map[string]string
	aliases map[string]string

	input LineSource
}

// New creates shell state with the given program name and input source.
func New(name string, input LineSource) *State {
	return &State{
		name:    name,
		vars:    map[string]string{},
		aliases: map[string]string{},
		input:   input,
	}
}

// SetPositional replaces $1, $2, … (the `set` built-in, §6).
func (s *State) SetPositional(args []string) {
	s.positional = append([]string(nil), args...)
}

// Positional returns the current positional parameters.
func (s *State) Positional() []string {
	return s.positional
}

// GetVar resolves one parameter reference per §4.1's lookup order.
func (s *State) GetVar(key string) string {
	switch key {
	case "0":
		return s.name
	case "@", "*":
		return strings.Join(s.positional, " ")
	case "#":
		return strconv.Itoa(len(s.positional))
	case "$":
		return strconv.Itoa(os.Getpid())
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 1 {
		if n-1 < len(s.positional) {
			return s.positional[n-1]
		}
		return ""
	}
	if v, ok := s.vars[key]; ok {
		return v
	}
	return os.Getenv(key)
}

// Lookup resolves key exactly as GetVar does, but also reports whether the
// parameter is set at all — the presence test the ${name<op>word} action
// table (§4.4) needs to distinguish "unset" from "set but empty".
func (s *State) Lookup(key string) (string, bool) {
	switch key {
	case "0":
		return s.name, true
	case "@", "*":
		return strings.Join(s.positional, " "), true
	case "#":
		return strconv.Itoa(len(s.positional)), true
	case "$":
		return strconv.Itoa(os.Getpid()), true
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 1 {
		if n-1 < len(s.positional) {
			return s.positional[n-1], true
		}
		return "", false
	}
	if v, ok := s.vars[key]; ok {
		return v, true
	}
	return os.LookupEnv(key)
}

// SetVar implements §4.1: updates the process environment if key is already
// exported there, otherwise stores into the local shell vars.
func (s *State) SetVar(key, value string) {
	if _, ok := os.LookupEnv(key); ok {
		os.Setenv(key, value)
		return
	}
	s.vars[key] = value
}

// Alias returns the substitution text registered for name, if any.
func (s *State) Alias(name string) (string, bool) {
	v, ok := s.aliases[name]
	return v, ok
}

// SetAlias registers or replaces an alias binding.
func (s *State) SetAlias(name, value string) {
	s.aliases[name] = value
}

// Unalias removes an alias binding; it reports whether one existed.
func (s *State) Unalias(name string) bool {
	if _, ok := s.aliases[name]; !ok {
		return false
	}
	delete(s.aliases, name)
	return true
}

// AliasNames returns every registered alias name, sorted, for `alias` with
// no arguments (§6: "print all bindings sorted by name").
func (s *State) AliasNames() []string {
	names := make([]string, 0, len(s.aliases))
	for name := range s.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a shell state with its own copy of the mutable vars/alias
// maps and positional parameters, sharing name and input. A Pipeline gives
// each of its two branches a clone before running them concurrently (§5:
// "the alias map and variable map are mutated only from the single shell
// thread") so that neither branch's goroutine ever reads or writes the
// other's map; mutations made inside a pipeline branch do not leak back to
// the parent, the same as a subshell.
func (s *State) Clone() *State {
	vars := make(map[string]string, len(s.vars))
	for k, v := range s.vars {
		vars[k] = v
	}
	aliases := make(map[string]string, len(s.aliases))
	for k, v := range s.aliases {
		aliases[k] = v
	}
	return &State{
		name:       s.name,
		positional: append([]string(nil), s.positional...),
		vars:       vars,
		aliases:    aliases,
		input:      s.input,
	}
}

// primaryPrompt picks `#> ` or `$> ` per the effective user id (§6).
func (s *State) primaryPrompt() string {
	if os.Geteuid() == 0 {
		return "#> "
	}
	return "$> "
}

// Next reads one top-level command line, printing the primary prompt when
// the input source is interactive (§4.1's `next()`).
func (s *State) Next() (string, bool) {
	return s.input.NextPrompt(s.primaryPrompt())
}

// NextPrompt implements syntax.Continuer, delegating straight to the input
// source; the lexer/parser call this with the "> " continuation prompt.
func (s *State) NextPrompt(prompt string) (string, bool) {
	return s.input.NextPrompt(prompt)
}
