package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plexsphere/i2samp/internal/provision"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print a config file with every default value",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprint(cmd.OutOrStdout(), provision.GenerateDefaultConfig())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
