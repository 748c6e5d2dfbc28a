package modprobe

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/plexsphere/i2samp/internal/host"
)

// Patcher comments out blacklist entries so the named modules can load.
type Patcher struct {
	fs     host.FS
	logger *slog.Logger
}

// NewPatcher creates a Patcher operating on fs.
func NewPatcher(fs host.FS, logger *slog.Logger) *Patcher {
	return &Patcher{
		fs:     fs,
		logger: logger.With("component", "modprobe"),
	}
}

// activeEntry matches an uncommented blacklist line for module. The name
// must end at whitespace or end of line, so a module never claims the line of
// a longer name it prefixes.
func activeEntry(module string) *regexp.Regexp {
	return regexp.MustCompile(`^blacklist[[:space:]]*` + regexp.QuoteMeta(module) + `([[:space:]].*)?$`)
}

// Rules returns one rule per distinct module that comments out its active
// blacklist lines, keeping the rest of each line as written.
func Rules(modules []string) []host.Rule {
	unique := Unique(modules)
	rules := make([]host.Rule, 0, len(unique))
	for _, module := range unique {
		rules = append(rules, host.Rule{Pattern: activeEntry(module), Repl: "#${0}"})
	}
	return rules
}

// CommentOut rewrites every active blacklist line for each module to its
// "#blacklist <module>..." form. It returns the new lines and how many lines
// changed.
func CommentOut(lines []string, modules []string) ([]string, int) {
	return host.ReplaceLines(lines, Rules(modules))
}

// ActiveEntries returns the blacklist lines that still block any of modules.
func ActiveEntries(lines []string, modules []string) []string {
	var active []string
	for _, line := range lines {
		for _, module := range Unique(modules) {
			if activeEntry(module).MatchString(line) {
				active = append(active, line)
				break
			}
		}
	}
	return active
}

// Unique returns modules with later duplicates removed, preserving order.
func Unique(modules []string) []string {
	seen := make(map[string]bool, len(modules))
	out := make([]string, 0, len(modules))
	for _, m := range modules {
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// Patch comments out blacklist entries for modules in the file at path.
// A missing file is a no-op. The file is rewritten only if a line changed.
func (p *Patcher) Patch(path string, modules []string) error {
	ok, err := p.fs.Exists(path)
	if err != nil {
		return fmt.Errorf("modprobe: stat %s: %w", path, err)
	}
	if !ok {
		p.logger.Debug("blacklist file absent, nothing to patch", "path", path)
		return nil
	}

	changed, err := host.PatternReplace(p.fs, path, Rules(modules), 0o644)
	if err != nil {
		return fmt.Errorf("modprobe: patch %s: %w", path, err)
	}
	if changed == 0 {
		p.logger.Info("blacklist already clear", "path", path)
		return nil
	}
	p.logger.Info("blacklist entries commented out", "path", path, "lines", changed)
	return nil
}
