package state

import (
	"os"
	"strconv"
	"testing"
)

type stubSource struct {
	lines []string
	i     int
}

func (s *stubSource) NextPrompt(string) (string, bool) {
	if s.i >= len(s.lines) {
		return "", false
	}
	line := s.lines[s.i]
	s.i++
	return line, true
}

func TestSetVarAndGetVar(t *testing.T) {
	s := New("rush", &stubSource{})
	s.SetVar("FOO", "bar")
	if got := s.GetVar("FOO"); got != "bar" {
		t.Fatalf("GetVar(FOO) = %q, want bar", got)
	}
}

func TestGetVarFallsBackToEnviron(t *testing.T) {
	os.Setenv("RUSH_STATE_TEST_VAR", "fromenv")
	defer os.Unsetenv("RUSH_STATE_TEST_VAR")

	s := New("rush", &stubSource{})
	if got := s.GetVar("RUSH_STATE_TEST_VAR"); got != "fromenv" {
		t.Fatalf("GetVar = %q, want fromenv", got)
	}
}

func TestSetVarUpdatesExportedEnviron(t *testing.T) {
	// §4.1: if key is already exported, SetVar updates the process
	// environment rather than shadowing it with a local var.
	os.Setenv("RUSH_STATE_TEST_EXPORTED", "old")
	defer os.Unsetenv("RUSH_STATE_TEST_EXPORTED")

	s := New("rush", &stubSource{})
	s.SetVar("RUSH_STATE_TEST_EXPORTED", "new")
	if got := os.Getenv("RUSH_STATE_TEST_EXPORTED"); got != "new" {
		t.Fatalf("os.Getenv = %q, want new", got)
	}
}

func TestLookupReportsPresence(t *testing.T) {
	s := New("rush", &stubSource{})
	if _, ok := s.Lookup("RUSH_STATE_TEST_UNSET"); ok {
		t.Fatalf("Lookup reported present for an unset variable")
	}
	s.SetVar("FOO", "")
	v, ok := s.Lookup("FOO")
	if !ok || v != "" {
		t.Fatalf("Lookup(FOO) = (%q, %v), want (\"\", true)", v, ok)
	}
}

func TestLookupPositionalParameters(t *testing.T) {
	s := New("rush", &stubSource{})
	s.SetPositional([]string{"a", "b"})
	if v, ok := s.Lookup("1"); !ok || v != "a" {
		t.Fatalf("Lookup(1) = (%q, %v), want (a, true)", v, ok)
	}
	if v, ok := s.Lookup("3"); ok || v != "" {
		t.Fatalf("Lookup(3) = (%q, %v), want (\"\", false)", v, ok)
	}
	if got := s.GetVar("#"); got != "2" {
		t.Fatalf("GetVar(#) = %q, want 2", got)
	}
	if got := s.GetVar("@"); got != "a b" {
		t.Fatalf("GetVar(@) = %q, want \"a b\"", got)
	}
}

func TestGetVarSpecialDollarPid(t *testing.T) {
	s := New("rush", &stubSource{})
	got := s.GetVar("$")
	if got != strconv.Itoa(os.Getpid()) {
		t.Fatalf("GetVar($) = %q, want %d", got, os.Getpid())
	}
}

func TestAliasLifecycle(t *testing.T) {
	s := New("rush", &stubSource{})
	if _, ok := s.Alias("ll"); ok {
		t.Fatalf("Alias(ll) reported present before registration")
	}
	s.SetAlias("ll", "ls -l")
	v, ok := s.Alias("ll")
	if !ok || v != "ls -l" {
		t.Fatalf("Alias(ll) = (%q, %v), want (ls -l, true)", v, ok)
	}
	if !s.Unalias("ll") {
		t.Fatalf("Unalias(ll) = false, want true")
	}
	if s.Unalias("ll") {
		t.Fatalf("Unalias(ll) a second time = true, want false")
	}
}

func TestAliasNamesSorted(t *testing.T) {
	s := New("rush", &stubSource{})
	s.SetAlias("zz", "z")
	s.SetAlias("aa", "a")
	s.SetAlias("mm", "m")
	names := s.AliasNames()
	want := []string{"aa", "mm", "zz"}
	if len(names) != len(want) {
		t.Fatalf("AliasNames = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("AliasNames = %v, want %v", names, want)
		}
	}
}

func TestNextDelegatesToInputSource(t *testing.T) {
	src := &stubSource{lines: []string{"echo hi\n"}}
	s := New("rush", src)
	line, ok := s.Next()
	if !ok || line != "echo hi\n" {
		t.Fatalf("Next() = (%q, %v), want (\"echo hi\\n\", true)", line, ok)
	}
	if _, ok := s.Next(); ok {
		t.Fatalf("second Next() reported more input")
	}
}

func TestNextPromptSatisfiesContinuer(t *testing.T) {
	src := &stubSource{lines: []string{"bar\n"}}
	s := New("rush", src)
	line, ok := s.NextPrompt("> ")
	if !ok || line != "bar\n" {
		t.Fatalf("NextPrompt = (%q, %v), want (\"bar\\n\", true)", line, ok)
	}
}
