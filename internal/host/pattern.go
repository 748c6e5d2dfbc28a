package host

import (
	"fmt"
	"os"
	"regexp"

	"github.com/plexsphere/i2samp/internal/lineedit"
)

// Rule rewrites the matched part of every line matching Pattern to Repl.
// Repl may use $-expansion as in regexp.ReplaceAllString.
type Rule struct {
	Pattern *regexp.Regexp
	Repl    string
}

// ReplaceLines applies rules in order and returns the new lines together with
// the number of line changes made. The input is not modified.
func ReplaceLines(lines []string, rules []Rule) ([]string, int) {
	out := lines
	total := 0
	for _, r := range rules {
		var n int
		out, n = lineedit.Replace(out, r.Pattern, r.Repl)
		total += n
	}
	if out == nil {
		out = []string{}
	}
	return out, total
}

// PatternSearch reports whether any line of the file at path matches re.
func PatternSearch(fsys FS, path string, re *regexp.Regexp) (bool, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("host: read %s: %w", path, err)
	}
	return lineedit.Contains(lineedit.Split(string(data)), re), nil
}

// PatternReplace applies rules to the lines of the file at path. The file is
// written back once, atomically with perm, and only if a line changed. It
// returns the number of line changes.
func PatternReplace(fsys FS, path string, rules []Rule, perm os.FileMode) (int, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("host: read %s: %w", path, err)
	}
	out, n := ReplaceLines(lineedit.Split(string(data)), rules)
	if n == 0 {
		return 0, nil
	}
	if err := fsys.WriteFile(path, []byte(lineedit.Join(out)), perm); err != nil {
		return 0, fmt.Errorf("host: write %s: %w", path, err)
	}
	return n, nil
}

// AppendLine adds line to the end of the file at path without rewriting it.
// A newline is inserted first when the file does not already end in one.
func AppendLine(fsys FS, path, line string, perm os.FileMode) error {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return fmt.Errorf("host: read %s: %w", path, err)
	}
	add := line + "\n"
	if len(data) > 0 && data[len(data)-1] != '\n' {
		add = "\n" + add
	}
	if err := fsys.AppendFile(path, []byte(add), perm); err != nil {
		return fmt.Errorf("host: append %s: %w", path, err)
	}
	return nil
}
