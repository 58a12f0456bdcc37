package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// cfgFile is the portal credentials file (hubspot.config.yml shape).
	cfgFile string

	// portal selects a named portal; empty uses the file's defaultPortal.
	portal string

	// verbose tees log lines to stderr in addition to the log file.
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "taximport",
	Short: "Import and export CRM tax-jurisdiction records",
	Long: `taximport pushes tax-jurisdiction records from a CSV or XLSX file into the
CRM via its batch-create endpoint, and can pull existing tax objects back out.

Credentials come from a portal config file (hubspot.config.yml shape); runtime
settings come from TAXIMPORT_* environment variables.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the root command and exits non-zero on any error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "hubspot.config.yml",
		"path to the portal credentials file")
	rootCmd.PersistentFlags().StringVar(&portal, "portal", "",
		"portal name to use (default: the file's defaultPortal)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"also write log lines to stderr")
}
