package interp

import (
	"regexp"
	"strings"

	"rush/syntax"
)

// trimByPattern implements the reserved suffix/prefix-removal actions (§9):
// translate the shell glob in pattern to a regular expression and find the
// smallest or largest matching suffix/prefix of value to remove.
func trimByPattern(value, pattern string, action syntax.Action) string {
	switch action {
	case syntax.RmSmallestSuffix:
		return trimSuffix(value, pattern, false)
	case syntax.RmLargestSuffix:
		return trimSuffix(value, pattern, true)
	case syntax.RmSmallestPrefix:
		return trimPrefix(value, pattern, false)
	case syntax.RmLargestPrefix:
		return trimPrefix(value, pattern, true)
	default:
		return value
	}
}

// trimSuffix removes the smallest (or, if greedy, largest) trailing run of
// value that matches pattern.
func trimSuffix(value, pattern string, greedy bool) string {
	re, ok := compileFull(pattern, greedy)
	if !ok {
		return value
	}
	if greedy {
		// Largest match: the shortest remaining prefix whose remainder
		// fully matches the pattern.
		for i := 0; i <= len(value); i++ {
			if re.MatchString(value[i:]) {
				return value[:i]
			}
		}
		return value
	}
	// Smallest match: the longest remaining prefix whose remainder still
	// fully matches the pattern.
	for i := len(value); i >= 0; i-- {
		if re.MatchString(value[i:]) {
			return value[:i]
		}
	}
	return value
}

// trimPrefix removes the smallest (or largest) leading run of value that
// matches pattern.
func trimPrefix(value, pattern string, greedy bool) string {
	re, ok := compileFull(pattern, greedy)
	if !ok {
		return value
	}
	if greedy {
		for i := len(value); i >= 0; i-- {
			if re.MatchString(value[:i]) {
				return value[i:]
			}
		}
		return value
	}
	for i := 0; i <= len(value); i++ {
		if re.MatchString(value[:i]) {
			return value[i:]
		}
	}
	return value
}

// compileFull translates a shell glob into a regexp anchored at both ends,
// since every candidate is checked as an exact substring match (value[i:]
// or value[:i]), never a search within a larger string.
func compileFull(pattern string, greedy bool) (*regexp.Regexp, bool) {
	re, err := regexp.Compile("^" + translateGlob(pattern, greedy) + "$")
	if err != nil {
		return nil, false
	}
	return re, true
}

// translateGlob turns a shell glob pattern (`*`, `?`, `[...]`, `\x`) into a
// regular expression body, grounded on mvdan-sh/syntax/pattern.go's
// TranslatePattern but scoped to the classes this spec actually needs (no
// POSIX character classes, no extended globs).
func translateGlob(pattern string, greedy bool) string {
	var sb strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '*':
			sb.WriteString(".*")
			if !greedy {
				sb.WriteByte('?')
			}
		case '?':
			sb.WriteByte('.')
		case '\\':
			if i+1 < len(pattern) {
				i++
				sb.WriteString(regexp.QuoteMeta(string(pattern[i])))
			}
		case '[':
			end := strings.IndexByte(pattern[i:], ']')
			if end < 0 {
				sb.WriteString(regexp.QuoteMeta(string(c)))
				continue
			}
			sb.WriteString(pattern[i : i+end+1])
			i += end
		default:
			sb.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	return sb.String()
}
