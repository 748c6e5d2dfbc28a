package provision

import (
	"fmt"
	"strings"

	"github.com/plexsphere/i2samp/internal/host"
	"github.com/plexsphere/i2samp/internal/lineedit"
)

// DriverLoaded reports whether any loaded kernel module listed in the
// /proc/modules-format file at path has a name containing module.
func DriverLoaded(fs host.FS, path, module string) (bool, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("provision: read %s: %w", path, err)
	}
	for _, line := range lineedit.Split(string(data)) {
		fields := strings.Fields(line)
		if len(fields) > 0 && strings.Contains(fields[0], module) {
			return true, nil
		}
	}
	return false, nil
}
