package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plexsphere/i2samp/internal/prompt"
	"github.com/plexsphere/i2samp/internal/provision"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what is configured, without changing anything",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("i2samp status: %w", err)
	}
	logger := setupLogger(cfg.LogLevel)
	out := cmd.OutOrStdout()

	o := provision.NewOrchestrator(*cfg, provision.Options{}, newDeps(cfg, out, prompt.NewAuto(false, io.Discard)), logger)
	ctx, stop := signalContext(cmd.Context())
	defer stop()
	rep, err := o.Status(ctx)
	if err != nil {
		return fmt.Errorf("i2samp status: %w", err)
	}
	printReport(out, cfg, rep)
	return nil
}

func printReport(w io.Writer, cfg *provision.Config, rep provision.Report) {
	yesNo := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}

	if rep.Supported {
		fmt.Fprintf(w, "Supported:          yes (%s)\n", rep.BootConfig)
		fmt.Fprintf(w, "Overlay active:     %s (%s)\n", yesNo(rep.OverlayActive), cfg.Overlay)
	} else {
		fmt.Fprintf(w, "Supported:          no (%s)\n", rep.UnsupportedReason)
	}

	switch {
	case !rep.BlacklistPresent:
		fmt.Fprintf(w, "Blacklist:          absent (%s)\n", cfg.Blacklist.Path)
	case len(rep.BlacklistActive) == 0:
		fmt.Fprintf(w, "Blacklist:          clear\n")
	default:
		fmt.Fprintf(w, "Blacklist:          active: %s\n", strings.Join(rep.BlacklistActive, ", "))
	}

	fmt.Fprintf(w, "ALSA config:        %s (%s)\n", yesNo(rep.ALSAInstalled), cfg.ALSA.Path)
	fmt.Fprintf(w, "ALSA backup:        %s\n", yesNo(rep.ALSABackup))
	fmt.Fprintf(w, "Service installed:  %s (%s)\n", yesNo(rep.ServiceInstalled), cfg.Service.UnitFilePath)
	fmt.Fprintf(w, "Service enabled:    %s\n", yesNo(rep.ServiceEnabled))
	fmt.Fprintf(w, "Driver loaded:      %s (%s)\n", yesNo(rep.DriverLoaded), cfg.DriverModule)
}
