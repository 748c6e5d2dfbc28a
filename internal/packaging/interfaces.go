package packaging

import "context"

// SystemdController abstracts systemd service management for testability.
// All methods that modify state must be idempotent: repeating an operation
// that is already applied returns nil.
type SystemdController interface {
	// IsAvailable returns true if systemd (systemctl) is available on the system.
	IsAvailable() bool

	// DaemonReload executes systemctl daemon-reload to reload unit file changes.
	DaemonReload(ctx context.Context) error

	// Enable enables the named service to start on boot. It does not start it.
	Enable(ctx context.Context, service string) error

	// Disable disables the named service from starting on boot.
	Disable(ctx context.Context, service string) error

	// IsEnabled returns true if the named service is enabled.
	IsEnabled(ctx context.Context, service string) bool

	// Reboot asks systemd to reboot the machine.
	Reboot(ctx context.Context) error
}
