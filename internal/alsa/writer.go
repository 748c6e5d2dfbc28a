package alsa

import (
	"fmt"
	"log/slog"

	"github.com/plexsphere/i2samp/internal/host"
)

// Writer installs configuration files keeping one backup generation.
type Writer struct {
	fs     host.FS
	logger *slog.Logger
}

// NewWriter creates a Writer operating on fs.
func NewWriter(fs host.FS, logger *slog.Logger) *Writer {
	return &Writer{
		fs:     fs,
		logger: logger.With("component", "alsa"),
	}
}

// BackupPath returns the backup location for target.
func BackupPath(target string) string {
	return target + BackupSuffix
}

// Install replaces target with content. An existing target is first moved to
// target.old, deleting any older backup, and only then is new content written.
// If the backup step fails, target is left in place untouched.
func (w *Writer) Install(target, content string) error {
	backup := BackupPath(target)

	exists, err := w.fs.Exists(target)
	if err != nil {
		return fmt.Errorf("alsa: stat %s: %w", target, err)
	}
	if exists {
		hasBackup, err := w.fs.Exists(backup)
		if err != nil {
			return fmt.Errorf("alsa: stat %s: %w", backup, err)
		}
		if hasBackup {
			if err := w.fs.Remove(backup); err != nil {
				return fmt.Errorf("alsa: remove old backup %s: %w", backup, err)
			}
		}
		if err := w.fs.Rename(target, backup); err != nil {
			return fmt.Errorf("alsa: back up %s: %w", target, err)
		}
		w.logger.Info("previous config backed up", "path", target, "backup", backup)
	}

	if err := w.fs.WriteFile(target, []byte(content), 0o644); err != nil {
		return fmt.Errorf("alsa: write %s: %w", target, err)
	}
	w.logger.Info("config installed", "path", target)
	return nil
}

// Restore moves the backup of target back into place. It reports false when
// there is no backup to restore.
func (w *Writer) Restore(target string) (bool, error) {
	backup := BackupPath(target)
	ok, err := w.fs.Exists(backup)
	if err != nil {
		return false, fmt.Errorf("alsa: stat %s: %w", backup, err)
	}
	if !ok {
		return false, nil
	}
	if err := w.fs.Rename(backup, target); err != nil {
		return false, fmt.Errorf("alsa: restore %s: %w", target, err)
	}
	w.logger.Info("config restored from backup", "path", target, "backup", backup)
	return true, nil
}
