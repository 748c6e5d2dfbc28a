// Package lineedit provides pure line-oriented search and rewrite helpers
// for small text configuration files.
package lineedit

import (
	"regexp"
	"strings"
)

// Split breaks text into lines. A trailing newline does not produce an
// empty final line, and empty text yields no lines.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// Join is the inverse of Split: every line, including the last, is
// terminated by a newline. No lines yields empty text.
func Join(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Contains reports whether any line matches re.
func Contains(lines []string, re *regexp.Regexp) bool {
	for _, line := range lines {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// Replace returns a copy of lines where each line matching re has its matched
// portion replaced by repl (with $-expansion, as in regexp.ReplaceAllString).
// The input is not modified. n is the number of lines that actually changed.
func Replace(lines []string, re *regexp.Regexp, repl string) (out []string, n int) {
	out = make([]string, len(lines))
	for i, line := range lines {
		if re.MatchString(line) {
			replaced := re.ReplaceAllString(line, repl)
			if replaced != line {
				n++
			}
			out[i] = replaced
			continue
		}
		out[i] = line
	}
	return out, n
}
