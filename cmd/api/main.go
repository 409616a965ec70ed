package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	var envDir string

	rootCmd := &cobra.Command{
		Use:           "eduloan",
		Short:         "Education loan request service",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envDir, "env-dir", ".", "directory holding an optional .env file")

	rootCmd.AddCommand(serveCmd(&envDir))
	rootCmd.AddCommand(workerCmd(&envDir))
	rootCmd.AddCommand(migrateCmd(&envDir))
	rootCmd.AddCommand(tokenCmd(&envDir))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
