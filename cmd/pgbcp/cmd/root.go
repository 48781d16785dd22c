/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/pgbcp/pkg/di"
)

var container *di.Container

// SetContainer injects the dependency container used by subcommands.
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pgbcp",
	Short: "pgbcp - PostgreSQL binary COPY stream toolkit",
	Long: `pgbcp works with the byte streams produced and consumed by
PostgreSQL's COPY ... BINARY protocol: generating them, validating them and
reporting on their structure without needing type knowledge.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
