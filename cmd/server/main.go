// Package main is the entry point for the heroes-api server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "heroes-api",
	Short: "Heroes API game server",
	Long:  `Heroes API runs the creature-collection game engine: rosters, battles, progression, and the player economy.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
