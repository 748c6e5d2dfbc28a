package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/plexsphere/i2samp/internal/prompt"
	"github.com/plexsphere/i2samp/internal/provision"
)

var forceTest bool

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Play the speaker test pattern",
	Long:  "Run the speaker test on its own. Set your speakers to a low volume first.",
	RunE:  runTest,
}

func init() {
	testCmd.Flags().BoolVar(&forceTest, "force", false, "run even when the driver module is not loaded")
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("i2samp test: %w", err)
	}
	logger := setupLogger(cfg.LogLevel)
	out := cmd.OutOrStdout()
	deps := newDeps(cfg, out, prompt.NewAuto(false, io.Discard))

	if !forceTest {
		loaded, err := provision.DriverLoaded(deps.FS, cfg.ModulesPath, cfg.DriverModule)
		if err != nil {
			return fmt.Errorf("i2samp test: %w", err)
		}
		if !loaded {
			return fmt.Errorf("i2samp test: driver %s is not loaded, reboot first or pass --force", cfg.DriverModule)
		}
	}

	o := provision.NewOrchestrator(*cfg, provision.Options{}, deps, logger)
	prompt.Warn(out, "Set your speakers at a low volume if possible!")
	fmt.Fprintln(out, "Testing...")
	ctx, stop := signalContext(cmd.Context())
	defer stop()
	if err := o.TestSpeakers(ctx); err != nil {
		return fmt.Errorf("i2samp test: %w", err)
	}
	return nil
}
