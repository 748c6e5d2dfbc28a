package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plexsphere/i2samp/internal/prompt"
	"github.com/plexsphere/i2samp/internal/provision"
)

var (
	assumeYes bool
	noTest    bool
	noReboot  bool
	overlay   string
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Configure the system for the amplifier",
	Long: "Enable the amplifier overlay, comment out blacklist entries, install the\n" +
		"ALSA software mixer and the background playback service, then offer a\n" +
		"speaker test and a reboot.",
	RunE: runInstall,
}

func init() {
	installCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to every question")
	installCmd.Flags().BoolVar(&noTest, "no-test", false, "do not offer the speaker test")
	installCmd.Flags().BoolVar(&noReboot, "no-reboot", false, "do not offer to reboot")
	installCmd.Flags().StringVar(&overlay, "overlay", "", "device-tree overlay to enable (overrides config)")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("i2samp install: %w", err)
	}
	if overlay != "" {
		cfg.Overlay = overlay
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("i2samp install: %w", err)
		}
	}

	logger := setupLogger(cfg.LogLevel)
	out := cmd.OutOrStdout()

	var p prompt.Prompter = prompt.NewTerminal(cmd.InOrStdin(), out)
	if assumeYes {
		p = prompt.NewAuto(true, out)
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	opts := provision.Options{SkipTest: noTest, SkipReboot: noReboot}
	o := provision.NewOrchestrator(*cfg, opts, newDeps(cfg, out, p), logger)
	res, err := o.Run(ctx)
	for _, w := range res.Warnings {
		prompt.Warn(cmd.ErrOrStderr(), "warning: "+w)
	}
	if err != nil {
		return fmt.Errorf("i2samp install: %w", err)
	}
	return nil
}
