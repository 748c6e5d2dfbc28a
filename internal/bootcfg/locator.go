package bootcfg

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/plexsphere/i2samp/internal/host"
)

// ErrUnsupported reports a board or firmware this installer cannot configure.
// It is fatal and not retryable.
var ErrUnsupported = errors.New("bootcfg: unsupported platform")

// Locator resolves the boot configuration path of the running board.
// It only reads.
type Locator struct {
	cfg    Config
	fs     host.FS
	logger *slog.Logger
}

// NewLocator creates a Locator with defaults applied.
func NewLocator(cfg Config, fs host.FS, logger *slog.Logger) *Locator {
	cfg.ApplyDefaults()
	return &Locator{
		cfg:    cfg,
		fs:     fs,
		logger: logger.With("component", "bootcfg"),
	}
}

// Supported reports whether the kernel exposes a device tree.
func (l *Locator) Supported() (bool, error) {
	ok, err := l.fs.Exists(l.cfg.DeviceTreeDir)
	if err != nil {
		return false, fmt.Errorf("bootcfg: stat %s: %w", l.cfg.DeviceTreeDir, err)
	}
	return ok, nil
}

// Model returns the board model string with firmware NUL padding removed.
func (l *Locator) Model() (string, error) {
	data, err := l.fs.ReadFile(l.cfg.ModelPath)
	if err != nil {
		return "", fmt.Errorf("bootcfg: read model %s: %w", l.cfg.ModelPath, err)
	}
	return strings.TrimSpace(strings.TrimRight(string(data), "\x00")), nil
}

// Locate returns the first existing boot config candidate. It returns an error
// wrapping ErrUnsupported when the kernel has no device tree, the board is not
// a Raspberry Pi, or no candidate exists.
func (l *Locator) Locate() (string, error) {
	ok, err := l.Supported()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: no device tree detected at %s", ErrUnsupported, l.cfg.DeviceTreeDir)
	}

	model, err := l.Model()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	if !strings.Contains(model, l.cfg.ModelMatch) {
		return "", fmt.Errorf("%w: board %q is not a %s", ErrUnsupported, model, l.cfg.ModelMatch)
	}

	for _, path := range l.cfg.Candidates {
		ok, err := l.fs.Exists(path)
		if err != nil {
			return "", fmt.Errorf("bootcfg: stat %s: %w", path, err)
		}
		if ok {
			l.logger.Info("boot config located", "path", path, "model", model)
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: no boot config found in %s", ErrUnsupported, strings.Join(l.cfg.Candidates, ", "))
}
