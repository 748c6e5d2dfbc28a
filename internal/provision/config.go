// Package provision sequences the steps that turn a stock Raspberry Pi into
// one driving an I2S amplifier, and reports whether a reboot is needed.
package provision

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/plexsphere/i2samp/internal/alsa"
	"github.com/plexsphere/i2samp/internal/bootcfg"
	"github.com/plexsphere/i2samp/internal/modprobe"
	"github.com/plexsphere/i2samp/internal/packaging"
)

const (
	// DefaultConfigPath is the optional configuration file location.
	DefaultConfigPath = "/etc/i2samp/config.yaml"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultOverlay drives a MAX98357A through the Voice HAT soundcard overlay.
	DefaultOverlay = "googlevoicehat-soundcard"

	// DefaultDriverModule is matched against loaded module names before testing.
	DefaultDriverModule = "max98357a"

	// DefaultModulesPath lists loaded kernel modules.
	DefaultModulesPath = "/proc/modules"

	// DefaultProductName appears in operator output.
	DefaultProductName = "I2S Amplifier"

	// DefaultCommandTimeout bounds status and service manager commands.
	DefaultCommandTimeout = 10 * time.Second

	// DefaultTestTimeout bounds the speaker test.
	DefaultTestTimeout = 60 * time.Second
)

// DefaultTestCommand plays five loops of the stereo wav test pattern.
var DefaultTestCommand = []string{"speaker-test", "-l5", "-c2", "-t", "wav"}

// Config is the top-level installer configuration, populated from an optional
// YAML file via ParseConfig.
type Config struct {
	// LogLevel is the log level: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// ProductName appears in operator output. Default: "I2S Amplifier"
	ProductName string `yaml:"product_name"`

	// Overlay is the device-tree overlay to enable.
	// Default: googlevoicehat-soundcard
	Overlay string `yaml:"overlay"`

	// DriverModule gates the hardware test: it must appear in a loaded module name.
	// Default: max98357a
	DriverModule string `yaml:"driver_module"`

	// ModulesPath is read to find loaded modules. Default: /proc/modules
	ModulesPath string `yaml:"modules_path"`

	// CommandTimeout bounds each status or systemctl command. Default: 10s
	CommandTimeout time.Duration `yaml:"command_timeout"`

	// TestTimeout bounds the speaker test. Default: 60s
	TestTimeout time.Duration `yaml:"test_timeout"`

	// TestCommand is the speaker test argv.
	// Default: speaker-test -l5 -c2 -t wav
	TestCommand []string `yaml:"test_command"`

	Boot      bootcfg.Config          `yaml:"boot"`
	Blacklist modprobe.Config         `yaml:"blacklist"`
	ALSA      alsa.MixerConfig        `yaml:"alsa"`
	Service   packaging.ServiceConfig `yaml:"service"`
}

// ApplyDefaults sets default values for zero-valued fields. The service
// stream follows the mixer's rate and channel count unless set explicitly.
func (c *Config) ApplyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.ProductName == "" {
		c.ProductName = DefaultProductName
	}
	if c.Overlay == "" {
		c.Overlay = DefaultOverlay
	}
	if c.DriverModule == "" {
		c.DriverModule = DefaultDriverModule
	}
	if c.ModulesPath == "" {
		c.ModulesPath = DefaultModulesPath
	}
	if c.CommandTimeout == 0 {
		c.CommandTimeout = DefaultCommandTimeout
	}
	if c.TestTimeout == 0 {
		c.TestTimeout = DefaultTestTimeout
	}
	if len(c.TestCommand) == 0 {
		c.TestCommand = append([]string(nil), DefaultTestCommand...)
	}
	c.Boot.ApplyDefaults()
	c.Blacklist.ApplyDefaults()
	c.ALSA.ApplyDefaults()
	if c.Service.Rate == 0 {
		c.Service.Rate = c.ALSA.Rate
	}
	if c.Service.Channels == 0 {
		c.Service.Channels = c.ALSA.Channels
	}
	c.Service.ApplyDefaults()
}

// Validate checks that required fields are set and values are acceptable.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("provision: config: invalid log_level %q", c.LogLevel)
	}
	if c.Overlay == "" || strings.ContainsAny(c.Overlay, " \t\n=") {
		return fmt.Errorf("provision: config: invalid overlay %q", c.Overlay)
	}
	if c.DriverModule == "" {
		return errors.New("provision: config: driver_module is required")
	}
	if c.CommandTimeout < time.Second {
		return errors.New("provision: config: command_timeout must be at least 1s")
	}
	if c.TestTimeout < time.Second {
		return errors.New("provision: config: test_timeout must be at least 1s")
	}
	if len(c.TestCommand) == 0 || c.TestCommand[0] == "" {
		return errors.New("provision: config: test_command is required")
	}
	if err := c.Boot.Validate(); err != nil {
		return err
	}
	if err := c.Blacklist.Validate(); err != nil {
		return err
	}
	if err := c.ALSA.Validate(); err != nil {
		return err
	}
	return c.Service.Validate()
}

// ParseConfig reads a YAML configuration file and returns a Config.
// It applies defaults and validates the configuration.
func ParseConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("provision: config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("provision: config: parse %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig is ParseConfig that tolerates a missing file unless the path was
// given explicitly, returning built-in defaults instead.
func LoadConfig(path string, explicit bool) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !explicit {
		var cfg Config
		cfg.ApplyDefaults()
		return &cfg, nil
	}
	return ParseConfig(path)
}
