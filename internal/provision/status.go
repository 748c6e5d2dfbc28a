package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/plexsphere/i2samp/internal/alsa"
	"github.com/plexsphere/i2samp/internal/bootcfg"
	"github.com/plexsphere/i2samp/internal/lineedit"
	"github.com/plexsphere/i2samp/internal/modprobe"
)

// Report is a read-only snapshot of everything the installer manages.
type Report struct {
	Supported         bool
	UnsupportedReason string
	BootConfig        string
	OverlayActive     bool

	BlacklistPresent bool
	BlacklistActive  []string

	ALSAInstalled bool
	ALSABackup    bool

	ServiceInstalled bool
	ServiceEnabled   bool

	DriverLoaded bool
}

// Status inspects the system without changing it. An unsupported board is
// reported in the Report, not as an error.
func (o *Orchestrator) Status(ctx context.Context) (Report, error) {
	var rep Report

	path, err := o.locator.Locate()
	switch {
	case errors.Is(err, bootcfg.ErrUnsupported):
		rep.UnsupportedReason = err.Error()
	case err != nil:
		return rep, err
	default:
		rep.Supported = true
		rep.BootConfig = path
		data, err := o.deps.FS.ReadFile(path)
		if err != nil {
			return rep, fmt.Errorf("provision: read %s: %w", path, err)
		}
		rep.OverlayActive = bootcfg.HasOverlay(lineedit.Split(string(data)), o.cfg.Overlay)
	}

	blPath := o.cfg.Blacklist.Path
	if rep.BlacklistPresent, err = o.deps.FS.Exists(blPath); err != nil {
		return rep, fmt.Errorf("provision: stat %s: %w", blPath, err)
	}
	if rep.BlacklistPresent {
		data, err := o.deps.FS.ReadFile(blPath)
		if err != nil {
			return rep, fmt.Errorf("provision: read %s: %w", blPath, err)
		}
		rep.BlacklistActive = modprobe.ActiveEntries(lineedit.Split(string(data)), o.cfg.Blacklist.Modules)
	}

	if rep.ALSAInstalled, err = o.deps.FS.Exists(o.cfg.ALSA.Path); err != nil {
		return rep, fmt.Errorf("provision: stat %s: %w", o.cfg.ALSA.Path, err)
	}
	if rep.ALSABackup, err = o.deps.FS.Exists(alsa.BackupPath(o.cfg.ALSA.Path)); err != nil {
		return rep, fmt.Errorf("provision: stat %s: %w", alsa.BackupPath(o.cfg.ALSA.Path), err)
	}

	if rep.ServiceInstalled, err = o.service.IsInstalled(); err != nil {
		return rep, err
	}
	if o.deps.Systemd.IsAvailable() {
		rep.ServiceEnabled = o.service.IsEnabled(ctx)
	}

	// A missing modules file just means no driver information.
	if loaded, err := DriverLoaded(o.deps.FS, o.cfg.ModulesPath, o.cfg.DriverModule); err == nil {
		rep.DriverLoaded = loaded
	} else {
		o.logger.Debug("driver check failed", "error", err)
	}
	return rep, nil
}

// Uninstall removes the playback service and, when restoreALSA is set, moves
// the ALSA backup back into place. The boot config is never touched.
func (o *Orchestrator) Uninstall(ctx context.Context, restoreALSA bool) (restored bool, err error) {
	if !o.deps.Root.IsRoot() {
		return false, ErrNotRoot
	}
	if err := o.service.Uninstall(ctx); err != nil {
		return false, err
	}
	if !restoreALSA {
		return false, nil
	}
	return o.writer.Restore(o.cfg.ALSA.Path)
}
