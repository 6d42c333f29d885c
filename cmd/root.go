// root.go - Command line entry point

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev" // overridden with -ldflags "-X go-room-booking/cmd.version=..."

var rootCmd = &cobra.Command{
	Use:          "roombook",
	Short:        "Meeting room reservation server",
	Version:      version,
	SilenceUsage: true,
	RunE:         runServe, // serving is the default action
}

func init() {
	rootCmd.AddCommand(serveCmd, createAdminCmd)
}

// Execute runs the command selected on the command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
