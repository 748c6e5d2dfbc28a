// Package alsa renders and installs the ALSA configuration that routes the
// default PCM through a software mixer and volume control to the amplifier.
package alsa

import (
	"errors"
	"fmt"
	"regexp"
)

const (
	// DefaultPath is the system-wide ALSA configuration file.
	DefaultPath = "/etc/asound.conf"

	DefaultCard       = 0
	DefaultRate       = 44100
	DefaultChannels   = 2
	DefaultPeriodSize = 1024
	DefaultBufferSize = 8192
	DefaultIPCKey     = 1024
	DefaultIPCPerm    = "0666"
	DefaultControl    = "PCM"
)

// BackupSuffix is appended to the target path for the previous generation.
const BackupSuffix = ".old"

var octalPerm = regexp.MustCompile(`^0[0-7]{3}$`)

// MixerConfig parameterises the dmix/softvol pipeline.
type MixerConfig struct {
	// Path is where the configuration is installed.
	// Default: /etc/asound.conf
	Path string `yaml:"path"`

	// Card is the ALSA hardware card index. Zero is a valid index, so the
	// default is zero as well.
	Card int `yaml:"card"`

	// Rate is the sample rate in Hz. Default: 44100
	Rate int `yaml:"rate"`

	// Channels is the channel count. Default: 2
	Channels int `yaml:"channels"`

	// PeriodSize is the period size in frames. Default: 1024
	PeriodSize int `yaml:"period_size"`

	// BufferSize is the buffer size in frames. Default: 8192
	BufferSize int `yaml:"buffer_size"`

	// PeriodTime is the period time in microseconds; 0 lets dmix derive it from PeriodSize.
	PeriodTime int `yaml:"period_time"`

	// IPCKey is the dmix shared memory key. Default: 1024
	IPCKey int `yaml:"ipc_key"`

	// IPCPerm is the octal permission of the dmix shared memory. Default: 0666
	IPCPerm string `yaml:"ipc_perm"`

	// Control is the softvol mixer control name. Default: PCM
	Control string `yaml:"control"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *MixerConfig) ApplyDefaults() {
	if c.Path == "" {
		c.Path = DefaultPath
	}
	if c.Rate == 0 {
		c.Rate = DefaultRate
	}
	if c.Channels == 0 {
		c.Channels = DefaultChannels
	}
	if c.PeriodSize == 0 {
		c.PeriodSize = DefaultPeriodSize
	}
	if c.BufferSize == 0 {
		c.BufferSize = DefaultBufferSize
	}
	if c.IPCKey == 0 {
		c.IPCKey = DefaultIPCKey
	}
	if c.IPCPerm == "" {
		c.IPCPerm = DefaultIPCPerm
	}
	if c.Control == "" {
		c.Control = DefaultControl
	}
}

// Validate checks that values are within acceptable ranges.
func (c *MixerConfig) Validate() error {
	if c.Path == "" {
		return errors.New("alsa: config: Path is required")
	}
	if c.Card < 0 {
		return errors.New("alsa: config: Card must not be negative")
	}
	if c.Rate < 8000 || c.Rate > 384000 {
		return fmt.Errorf("alsa: config: Rate %d out of range 8000-384000", c.Rate)
	}
	if c.Channels < 1 || c.Channels > 8 {
		return fmt.Errorf("alsa: config: Channels %d out of range 1-8", c.Channels)
	}
	if c.PeriodSize < 1 {
		return errors.New("alsa: config: PeriodSize must be positive")
	}
	if c.BufferSize < c.PeriodSize {
		return errors.New("alsa: config: BufferSize must be at least PeriodSize")
	}
	if c.PeriodTime < 0 {
		return errors.New("alsa: config: PeriodTime must not be negative")
	}
	if !octalPerm.MatchString(c.IPCPerm) {
		return fmt.Errorf("alsa: config: IPCPerm %q is not an octal mode like 0666", c.IPCPerm)
	}
	if c.Control == "" {
		return errors.New("alsa: config: Control is required")
	}
	return nil
}
