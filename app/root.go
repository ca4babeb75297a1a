// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sparky-admin",
	Short: "Sparky Admin is the management console for Sparky Messaging",
	Long: `Sparky Admin is the web-based management console for the Sparky Messaging
platform. It provides the profile directory, support impersonation and the
asset upload area used by the messaging frontend.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
