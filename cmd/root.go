package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "investment-agent",
	Short: "Stock investment comparison dashboard API",
}

func Execute() error {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(cacheCmd)
	return rootCmd.Execute()
}
