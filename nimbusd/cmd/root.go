// Package cmd provides the command-line interface for the nimbus daemon.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nimbusd",
	Short: "nimbusd collects trace entities from instrumented processes.",
	Long: `nimbusd listens for trace entity documents on a UDP port and serves ` +
		`the collected traces through an HTTP API for inspection.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
