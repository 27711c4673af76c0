package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nextdocs",
	Short: "NextDocs documentation portal services",
	Long:  `nextdocs runs the backend services of the NextDocs documentation portal`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

