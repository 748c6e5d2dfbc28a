package packaging

import (
	"fmt"
)

// GenerateUnitFile produces the systemd unit that streams silence into the
// default PCM from boot. It calls cfg.ApplyDefaults() to fill in zero-valued
// fields before generating the output.
func GenerateUnitFile(cfg ServiceConfig) string {
	cfg.ApplyDefaults()

	return fmt.Sprintf(`[Unit]
Description=Invoke aplay from %s at system start.

[Service]
ExecStart=%s -D %s -t raw -r %d -c %d -f %s %s

[Install]
WantedBy=%s
`, cfg.Source, cfg.AplayPath, cfg.Device, cfg.Rate, cfg.Channels, cfg.Format, cfg.Source, cfg.WantedBy)
}
