package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/panchang/core/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "panchang",
		Short: "Hindu Panchang calendar server",
		Long:  `Panchang serves a Hindu lunisolar calendar with tithi, nakshatra, festival and holiday data, plus per-day notes, over a REST API.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewGenerateCommand())
	rootCmd.AddCommand(commands.NewCacheCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
