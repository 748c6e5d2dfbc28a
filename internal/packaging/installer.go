package packaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/plexsphere/i2samp/internal/host"
)

// ErrSystemdUnavailable is returned when systemctl cannot be found.
var ErrSystemdUnavailable = errors.New("packaging: systemd is not available")

// Installer handles installing and removing the playback service unit.
type Installer struct {
	cfg     ServiceConfig
	systemd SystemdController
	fs      host.FS
	logger  *slog.Logger
}

// NewInstaller creates a new Installer with defaults applied.
func NewInstaller(cfg ServiceConfig, systemd SystemdController, fs host.FS, logger *slog.Logger) *Installer {
	cfg.ApplyDefaults()
	return &Installer{
		cfg:     cfg,
		systemd: systemd,
		fs:      fs,
		logger:  logger.With("component", "packaging"),
	}
}

// ServiceName returns the managed service name.
func (ins *Installer) ServiceName() string {
	return ins.cfg.ServiceName
}

// UnitFilePath returns the managed unit file path.
func (ins *Installer) UnitFilePath() string {
	return ins.cfg.UnitFilePath
}

// Install writes the unit file, replacing any previous version, and reloads
// systemd. When only the reload fails the unit is already in place; the
// returned error then wraps *host.CommandError so callers can treat it as a
// warning.
func (ins *Installer) Install(ctx context.Context) error {
	if !ins.systemd.IsAvailable() {
		return ErrSystemdUnavailable
	}

	unitDir := filepath.Dir(ins.cfg.UnitFilePath)
	if err := ins.fs.MkdirAll(unitDir, 0o755); err != nil {
		return fmt.Errorf("packaging: create unit file directory: %w", err)
	}
	content := GenerateUnitFile(ins.cfg)
	if err := ins.fs.WriteFile(ins.cfg.UnitFilePath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("packaging: write unit file: %w", err)
	}
	ins.logger.Info("unit file written", "path", ins.cfg.UnitFilePath)

	if err := ins.systemd.DaemonReload(ctx); err != nil {
		ins.logger.Warn("systemd daemon-reload failed, unit file is installed", "error", err)
		return fmt.Errorf("packaging: daemon-reload: %w", err)
	}
	ins.logger.Info("systemd daemon reloaded")
	return nil
}

// IsEnabled reports whether the service is enabled.
func (ins *Installer) IsEnabled(ctx context.Context) bool {
	return ins.systemd.IsEnabled(ctx, ins.cfg.ServiceName)
}

// IsInstalled reports whether the unit file exists.
func (ins *Installer) IsInstalled() (bool, error) {
	ok, err := ins.fs.Exists(ins.cfg.UnitFilePath)
	if err != nil {
		return false, fmt.Errorf("packaging: stat unit file: %w", err)
	}
	return ok, nil
}

// SetEnabled enables or disables the service for the next boot without
// starting or stopping it. It reports true only when the service went from
// disabled to enabled.
func (ins *Installer) SetEnabled(ctx context.Context, enabled bool) (bool, error) {
	name := ins.cfg.ServiceName
	wasEnabled := ins.systemd.IsEnabled(ctx, name)

	if !enabled {
		if err := ins.systemd.Disable(ctx, name); err != nil {
			return false, err
		}
		ins.logger.Info("service disabled", "service", name)
		return false, nil
	}

	if err := ins.systemd.Enable(ctx, name); err != nil {
		return false, err
	}
	ins.logger.Info("service enabled", "service", name, "was_enabled", wasEnabled)
	return !wasEnabled, nil
}

// Uninstall disables the service, removes its unit file, and reloads systemd.
// A missing unit file is a no-op.
func (ins *Installer) Uninstall(ctx context.Context) error {
	installed, err := ins.IsInstalled()
	if err != nil {
		return err
	}
	if !installed {
		ins.logger.Info("service is not installed, nothing to do", "path", ins.cfg.UnitFilePath)
		return nil
	}

	// The service may already be disabled.
	if err := ins.systemd.Disable(ctx, ins.cfg.ServiceName); err != nil {
		ins.logger.Info("disable service", "error", err)
	}

	if err := ins.fs.Remove(ins.cfg.UnitFilePath); err != nil {
		return fmt.Errorf("packaging: remove unit file: %w", err)
	}
	ins.logger.Info("unit file removed", "path", ins.cfg.UnitFilePath)

	if err := ins.systemd.DaemonReload(ctx); err != nil {
		return fmt.Errorf("packaging: daemon-reload: %w", err)
	}
	return nil
}
