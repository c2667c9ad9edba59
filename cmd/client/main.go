package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"yoga-intelligence-be/internal/config"
)

func main() {
	cfg := config.LoadClient()

	rootCmd := &cobra.Command{
		Use:   "yoga-client",
		Short: "yoga intelligence session client",
	}
	rootCmd.AddCommand(newSessionCmd(cfg), newMonitorCmd(cfg))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
