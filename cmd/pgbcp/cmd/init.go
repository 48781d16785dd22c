/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/pgbcp/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize pgbcp configuration",
	Long: `Initialize the pgbcp configuration file with a generated API key.

This command will:
- Create the config directory if needed
- Generate a secure API key for the inspection server
- Write the configuration with secure permissions (0600)

This is required before running 'pgbcp serve'.

Examples:
	  pgbcp init
	  pgbcp init --data-dir ./reports
	  pgbcp init --config /etc/pgbcp/config.yaml --force`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		force, _ := cmd.Flags().GetBool("force")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if config.ConfigExists(configPath) && !force {
			cmd.Printf("Config already exists at %s. Use --force to overwrite.\n", configPath)
			return
		}

		cfg, err := config.BootstrapConfig(configPath, dataDir)
		if err != nil {
			cmd.Printf("Error initializing config: %v\n", err)
			os.Exit(1)
		}

		cmd.Printf("Initialized pgbcp configuration.\n")
		cmd.Printf("Config file: %s\n", configPath)
		cmd.Printf("Data directory: %s\n", cfg.DataDir)
		cmd.Printf("API key: %s\n", cfg.Security.APIKey[:8]+"...")
		cmd.Printf("\nStart the server with: pgbcp serve --config %s\n", configPath)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().String("config", "", "Path to config file (default ~/.config/pgbcp/config.yaml)")
	initCmd.Flags().String("data-dir", "", "Data directory for the report store")
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}
