package packaging

import (
	"context"
	"fmt"
	"time"

	"github.com/plexsphere/i2samp/internal/host"
)

// DefaultCommandTimeout bounds each systemctl invocation.
const DefaultCommandTimeout = 10 * time.Second

// realSystemdController implements SystemdController by running systemctl.
type realSystemdController struct {
	runner  host.Runner
	timeout time.Duration
}

// NewSystemdController returns a SystemdController that runs systemctl through
// runner, bounding each call by timeout (DefaultCommandTimeout if zero).
func NewSystemdController(runner host.Runner, timeout time.Duration) SystemdController {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return &realSystemdController{runner: runner, timeout: timeout}
}

func (c *realSystemdController) IsAvailable() bool {
	_, err := c.runner.LookPath("systemctl")
	return err == nil
}

func (c *realSystemdController) DaemonReload(ctx context.Context) error {
	return c.run(ctx, "daemon-reload")
}

func (c *realSystemdController) Enable(ctx context.Context, service string) error {
	return c.run(ctx, "enable", service)
}

func (c *realSystemdController) Disable(ctx context.Context, service string) error {
	return c.run(ctx, "disable", service)
}

func (c *realSystemdController) IsEnabled(ctx context.Context, service string) bool {
	return c.run(ctx, "is-enabled", "--quiet", service) == nil
}

func (c *realSystemdController) Reboot(ctx context.Context) error {
	host.SyncFilesystems()
	return c.run(ctx, "reboot")
}

func (c *realSystemdController) run(ctx context.Context, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if _, err := c.runner.Run(ctx, "systemctl", args...); err != nil {
		return fmt.Errorf("packaging: systemctl %s: %w", args[0], err)
	}
	return nil
}
