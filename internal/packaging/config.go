// Package packaging installs the background playback systemd unit that keeps
// the amplifier fed with silence so it does not pop on stream start and stop.
package packaging

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultServiceName is the default systemd service name.
const DefaultServiceName = "aplay"

// DefaultUnitFilePath is the default path for the systemd unit file.
const DefaultUnitFilePath = "/etc/systemd/system/aplay.service"

// DefaultAplayPath is the default aplay binary.
const DefaultAplayPath = "/usr/bin/aplay"

// DefaultDevice is the ALSA PCM the service plays into.
const DefaultDevice = "default"

// DefaultFormat is the sample format of the silent stream.
const DefaultFormat = "S16_LE"

// DefaultSource is the file streamed as silence.
const DefaultSource = "/dev/zero"

// DefaultWantedBy is the install target of the unit.
const DefaultWantedBy = "multi-user.target"

// ServiceConfig holds the configuration of the background playback service.
type ServiceConfig struct {
	// ServiceName is the systemd service name.
	// Default: aplay
	ServiceName string `yaml:"name"`

	// UnitFilePath is the path for the systemd unit file.
	// Default: /etc/systemd/system/aplay.service
	UnitFilePath string `yaml:"unit_path"`

	// AplayPath is the aplay binary used in ExecStart.
	// Default: /usr/bin/aplay
	AplayPath string `yaml:"aplay_path"`

	// Device is the ALSA PCM name. Default: default
	Device string `yaml:"device"`

	// Rate is the sample rate of the silent stream. Default: 44100
	Rate int `yaml:"rate"`

	// Channels is the channel count of the silent stream. Default: 2
	Channels int `yaml:"channels"`

	// Format is the sample format. Default: S16_LE
	Format string `yaml:"format"`

	// Source is the raw input file. Default: /dev/zero
	Source string `yaml:"source"`

	// WantedBy is the [Install] target. Default: multi-user.target
	WantedBy string `yaml:"wanted_by"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *ServiceConfig) ApplyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = DefaultServiceName
	}
	if c.UnitFilePath == "" {
		c.UnitFilePath = DefaultUnitFilePath
	}
	if c.AplayPath == "" {
		c.AplayPath = DefaultAplayPath
	}
	if c.Device == "" {
		c.Device = DefaultDevice
	}
	if c.Rate == 0 {
		c.Rate = 44100
	}
	if c.Channels == 0 {
		c.Channels = 2
	}
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if c.Source == "" {
		c.Source = DefaultSource
	}
	if c.WantedBy == "" {
		c.WantedBy = DefaultWantedBy
	}
}

// Validate checks that required fields are set.
func (c *ServiceConfig) Validate() error {
	if c.ServiceName == "" {
		return errors.New("packaging: config: ServiceName is required")
	}
	if strings.ContainsAny(c.ServiceName, "/ \t\n") {
		return fmt.Errorf("packaging: config: invalid ServiceName %q", c.ServiceName)
	}
	if c.UnitFilePath == "" {
		return errors.New("packaging: config: UnitFilePath is required")
	}
	if !strings.HasSuffix(c.UnitFilePath, ".service") {
		return fmt.Errorf("packaging: config: UnitFilePath %q must end in .service", c.UnitFilePath)
	}
	if c.AplayPath == "" {
		return errors.New("packaging: config: AplayPath is required")
	}
	if c.Rate <= 0 {
		return errors.New("packaging: config: Rate must be positive")
	}
	if c.Channels <= 0 {
		return errors.New("packaging: config: Channels must be positive")
	}
	return nil
}
