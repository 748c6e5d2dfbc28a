package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/plexsphere/i2samp/internal/prompt"
	"github.com/plexsphere/i2samp/internal/provision"
)

var restoreAsound bool

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the background playback service",
	Long: "Disable and remove the playback service. The boot configuration and\n" +
		"blacklist are left as they are.",
	RunE: runUninstall,
}

func init() {
	uninstallCmd.Flags().BoolVar(&restoreAsound, "restore-asound", false, "move the asound.conf backup back into place")
	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("i2samp uninstall: %w", err)
	}
	logger := setupLogger(cfg.LogLevel)
	out := cmd.OutOrStdout()

	o := provision.NewOrchestrator(*cfg, provision.Options{}, newDeps(cfg, out, prompt.NewAuto(false, io.Discard)), logger)
	ctx, stop := signalContext(cmd.Context())
	defer stop()
	restored, err := o.Uninstall(ctx, restoreAsound)
	if err != nil {
		return fmt.Errorf("i2samp uninstall: %w", err)
	}

	fmt.Fprintln(out, "playback service removed")
	switch {
	case restored:
		fmt.Fprintf(out, "%s restored from backup\n", cfg.ALSA.Path)
	case restoreAsound:
		fmt.Fprintf(out, "no backup of %s to restore\n", cfg.ALSA.Path)
	}
	return nil
}
