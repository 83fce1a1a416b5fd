// Package main provides the entry point for the linkshelf CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "linkshelf",
	Short: "Classify and archive links with an LLM",
	Long:  "Linkshelf extracts URLs from a text file, classifies each page with a language model, and stores deduplicated link records in a JSON document.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
