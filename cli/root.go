package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "blaze",
	Short:   "Anime metadata lookup client",
	Long:    `Query a running anime metadata API server for normalized AniList or Crunchyroll title data.`,
	Version: "1.0.0",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(configCmd)
}

func printError(msg string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
}
