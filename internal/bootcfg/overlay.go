package bootcfg

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/plexsphere/i2samp/internal/host"
	"github.com/plexsphere/i2samp/internal/lineedit"
)

// OverlayDirective returns the boot config line enabling overlay.
func OverlayDirective(overlay string) string {
	return "dtoverlay=" + overlay
}

// overlayPattern matches the exact directive for overlay. Commented,
// indented, or parameterised forms do not match.
func overlayPattern(overlay string) *regexp.Regexp {
	return regexp.MustCompile("^" + regexp.QuoteMeta(OverlayDirective(overlay)) + "$")
}

// HasOverlay reports whether lines contain the exact directive for overlay.
func HasOverlay(lines []string, overlay string) bool {
	return lineedit.Contains(lines, overlayPattern(overlay))
}

// ActivateOverlay ensures the boot config at path enables overlay exactly once.
// It appends the directive when missing and reports whether it did.
func ActivateOverlay(fs host.FS, path, overlay string) (bool, error) {
	if overlay == "" || strings.ContainsAny(overlay, "\n\r") {
		return false, fmt.Errorf("bootcfg: invalid overlay name %q", overlay)
	}

	found, err := host.PatternSearch(fs, path, overlayPattern(overlay))
	if err != nil {
		return false, fmt.Errorf("bootcfg: %w", err)
	}
	if found {
		return false, nil
	}
	if err := host.AppendLine(fs, path, OverlayDirective(overlay), 0o644); err != nil {
		return false, fmt.Errorf("bootcfg: %w", err)
	}
	return true, nil
}
