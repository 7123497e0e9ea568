// Package main provides the entry point for the menu publisher CLI and server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "menu_server",
	Short: "Menu layout generation server",
	Long:  "Menu publisher turns structured menu content into deterministic, paginated grid layouts and exports them as HTML, PDF, or PNG via CLI or REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
