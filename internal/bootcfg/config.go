// Package bootcfg locates the Raspberry Pi boot configuration and activates
// device-tree overlays in it.
package bootcfg

import "errors"

// DefaultDeviceTreeDir is present only on kernels booted with a device tree.
const DefaultDeviceTreeDir = "/proc/device-tree"

// DefaultModelPath holds the board model string published by the firmware.
const DefaultModelPath = "/proc/device-tree/model"

// DefaultModelMatch is the substring identifying a supported board.
const DefaultModelMatch = "Raspberry Pi"

// DefaultCandidates lists boot config locations, newest firmware layout first.
var DefaultCandidates = []string{
	"/boot/firmware/config.txt",
	"/boot/config.txt",
}

// Config holds the platform probing configuration.
type Config struct {
	// DeviceTreeDir is the device-tree directory whose presence marks a supported kernel.
	// Default: /proc/device-tree
	DeviceTreeDir string `yaml:"device_tree_dir"`

	// ModelPath is the file holding the board model.
	// Default: /proc/device-tree/model
	ModelPath string `yaml:"model_path"`

	// ModelMatch must appear in the model string.
	// Default: "Raspberry Pi"
	ModelMatch string `yaml:"model_match"`

	// Candidates are boot config paths, tried in order.
	// Default: /boot/firmware/config.txt, /boot/config.txt
	Candidates []string `yaml:"candidates"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.DeviceTreeDir == "" {
		c.DeviceTreeDir = DefaultDeviceTreeDir
	}
	if c.ModelPath == "" {
		c.ModelPath = DefaultModelPath
	}
	if c.ModelMatch == "" {
		c.ModelMatch = DefaultModelMatch
	}
	if len(c.Candidates) == 0 {
		c.Candidates = append([]string(nil), DefaultCandidates...)
	}
}

// Validate checks that required fields are set.
func (c *Config) Validate() error {
	if c.DeviceTreeDir == "" {
		return errors.New("bootcfg: config: DeviceTreeDir is required")
	}
	if c.ModelPath == "" {
		return errors.New("bootcfg: config: ModelPath is required")
	}
	if len(c.Candidates) == 0 {
		return errors.New("bootcfg: config: at least one boot config candidate is required")
	}
	for _, p := range c.Candidates {
		if p == "" {
			return errors.New("bootcfg: config: boot config candidate must not be empty")
		}
	}
	return nil
}
