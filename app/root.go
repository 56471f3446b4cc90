// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "growtools",
	Short: "GrowTools is a subscription commerce platform for pooled tool access",
	Long: `GrowTools is a subscription commerce platform that sells pooled access
to premium tools, bundles them into discounted offers, and distributes
encrypted session cookies to its companion browser extension.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
