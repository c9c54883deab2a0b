// Package main provides the entry point for the Orastria book generation service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "astrobook",
	Short: "Orastria personalized astrology book generator",
	Long:  "Orastria turns a questionnaire into a personalized astrology book: birth chart resolution, numerology, generated prose, and a typeset PDF delivered from object storage.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
