// Command boosterctl is the operator tool for booster club payment data:
// building and inspecting Zelle links, rendering QR codes offline, applying
// the schema and printing payment coverage.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "boosterctl",
		Short:         "Manage booster club payment settings",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "YAML config file (defaults to $BOOSTER_CONFIG)")

	rootCmd.AddCommand(linkCmd())
	rootCmd.AddCommand(qrCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(statusCmd())

	return rootCmd
}
