// Package modprobe unblocks kernel modules listed in modprobe blacklist files.
package modprobe

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultBlacklistPath is the Raspberry Pi OS blacklist file.
const DefaultBlacklistPath = "/etc/modprobe.d/raspi-blacklist.conf"

// DefaultModules are the MAX98357A amplifier driver modules.
var DefaultModules = []string{
	"snd_soc_max98357a",
	"snd_soc_max98357a_i2c",
}

// Config holds the blacklist patching configuration.
type Config struct {
	// Path is the blacklist file. A missing file is not an error.
	// Default: /etc/modprobe.d/raspi-blacklist.conf
	Path string `yaml:"path"`

	// Modules are the module names to unblock, in order.
	// Default: snd_soc_max98357a, snd_soc_max98357a_i2c
	Modules []string `yaml:"modules"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Path == "" {
		c.Path = DefaultBlacklistPath
	}
	if len(c.Modules) == 0 {
		c.Modules = append([]string(nil), DefaultModules...)
	}
}

// Validate checks that required fields are set and module names are plain words.
func (c *Config) Validate() error {
	if c.Path == "" {
		return errors.New("modprobe: config: Path is required")
	}
	for _, m := range c.Modules {
		if m == "" || strings.ContainsAny(m, " \t\n#") {
			return fmt.Errorf("modprobe: config: invalid module name %q", m)
		}
	}
	return nil
}
