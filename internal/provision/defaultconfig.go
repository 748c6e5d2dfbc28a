package provision

import (
	"fmt"
	"strings"
)

// GenerateDefaultConfig produces a commented config.yaml listing every
// setting at its default value.
func GenerateDefaultConfig() string {
	var cfg Config
	cfg.ApplyDefaults()

	quoted := func(items []string) string {
		q := make([]string, len(items))
		for i, s := range items {
			q[i] = fmt.Sprintf("%q", s)
		}
		return "[" + strings.Join(q, ", ") + "]"
	}

	return fmt.Sprintf(`# i2samp configuration
# Every key is optional; the values below are the built-in defaults.

log_level: %s
product_name: %q
overlay: %s
driver_module: %s
modules_path: %s
command_timeout: %s
test_timeout: %s
test_command: %s

boot:
  device_tree_dir: %s
  model_path: %s
  model_match: %q
  candidates: %s

blacklist:
  path: %s
  modules: %s

alsa:
  path: %s
  card: %d
  rate: %d
  channels: %d
  period_size: %d
  buffer_size: %d
  period_time: %d
  ipc_key: %d
  ipc_perm: "%s"
  control: %s

service:
  name: %s
  unit_path: %s
  aplay_path: %s
  device: %s
`,
		cfg.LogLevel, cfg.ProductName, cfg.Overlay, cfg.DriverModule, cfg.ModulesPath,
		cfg.CommandTimeout, cfg.TestTimeout, quoted(cfg.TestCommand),
		cfg.Boot.DeviceTreeDir, cfg.Boot.ModelPath, cfg.Boot.ModelMatch, quoted(cfg.Boot.Candidates),
		cfg.Blacklist.Path, quoted(cfg.Blacklist.Modules),
		cfg.ALSA.Path, cfg.ALSA.Card, cfg.ALSA.Rate, cfg.ALSA.Channels, cfg.ALSA.PeriodSize,
		cfg.ALSA.BufferSize, cfg.ALSA.PeriodTime, cfg.ALSA.IPCKey, cfg.ALSA.IPCPerm, cfg.ALSA.Control,
		cfg.Service.ServiceName, cfg.Service.UnitFilePath, cfg.Service.AplayPath, cfg.Service.Device,
	)
}
