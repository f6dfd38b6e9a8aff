package main

import (
	"os"

	"github.com/spf13/cobra"

	"tsbridge/internal/logging"
	"tsbridge/internal/version"
)

var rootCmd = &cobra.Command{
	Use:     "tsbridge",
	Short:   "Virtual-file host and source-map tooling for SRC-to-TGT transpilation",
	Long:    banner(),
	Version: version.Version,
}

func main() {
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(remapCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug|info|warn|error)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level, err := cmd.Flags().GetString("log-level")
		if err != nil {
			return err
		}
		logging.SetLevel(level)
		return nil
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
