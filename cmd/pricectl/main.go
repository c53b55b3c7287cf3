// Command pricectl ingests warehouse price lists offline and prints the
// comparison as JSON.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var logLevel string

func main() {
	_ = godotenv.Load()

	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pricectl",
		Short:         "Compare warehouse price lists from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level for stderr: debug, info, warn, error")

	rootCmd.AddCommand(newIngestCmd(), newTemplateCmd(), newExportCmd())
	return rootCmd
}
