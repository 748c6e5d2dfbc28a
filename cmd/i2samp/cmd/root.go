// Package cmd implements the i2samp CLI commands.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/plexsphere/i2samp/internal/host"
	"github.com/plexsphere/i2samp/internal/packaging"
	"github.com/plexsphere/i2samp/internal/prompt"
	"github.com/plexsphere/i2samp/internal/provision"
)

var (
	cfgFile  string
	logLevel string
)

// Build info set from main.
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

// SetVersionInfo sets the version info from build-time ldflags.
func SetVersionInfo(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	rootCmd.Version = buildVersion
	rootCmd.SetVersionTemplate(fmt.Sprintf("i2samp version {{.Version}}\ncommit: %s\nbuilt: %s\n", buildCommit, buildDate))
}

var rootCmd = &cobra.Command{
	Use:   "i2samp",
	Short: "i2samp sets up an I2S amplifier on a Raspberry Pi",
	Long: "i2samp configures a Raspberry Pi for a MAX98357A class I2S amplifier.\n" +
		"It enables the device-tree overlay, lifts the driver blacklist, installs a\n" +
		"software-mixed ALSA configuration and an optional background playback service.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", provision.DefaultConfigPath, "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error; overrides config)")

	rootCmd.Version = buildVersion
	rootCmd.SetVersionTemplate(fmt.Sprintf("i2samp version {{.Version}}\ncommit: %s\nbuilt: %s\n", buildCommit, buildDate))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config file named by --config. The default path may be
// absent; a path given on the command line must exist.
func loadConfig(cmd *cobra.Command) (*provision.Config, error) {
	explicit := cmd.Flags().Changed("config")
	cfg, err := provision.LoadConfig(cfgFile, explicit)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newDeps builds the collaborators for a command. Tests replace it.
var newDeps = func(cfg *provision.Config, out io.Writer, p prompt.Prompter) provision.Deps {
	runner := host.NewExecRunner()
	runner.Echo = out
	return provision.Deps{
		FS:       host.NewOSFS(),
		Runner:   runner,
		Systemd:  packaging.NewSystemdController(runner, cfg.CommandTimeout),
		Root:     host.NewRootChecker(),
		Prompter: p,
		Out:      out,
	}
}

// signalContext derives a context from parent that is cancelled on SIGINT or
// SIGTERM, so running commands such as the speaker test are killed.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGTERM, syscall.SIGINT)
}

func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
