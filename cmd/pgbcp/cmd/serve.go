/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ssargent/pgbcp/pkg/api"
	"github.com/ssargent/pgbcp/pkg/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST inspection server",
	Long: `Start the pgbcp REST API server. Clients POST binary COPY streams to
/api/v1/inspect and the server stores structural reports for later retrieval.

Configuration is read from the config file (see 'pgbcp init'); flags override
individual values.

Examples:
  pgbcp serve
  pgbcp serve --port 9090 --data-dir ./reports
  pgbcp serve --config /etc/pgbcp/config.yaml --api-key mysecretkey`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		cfg := config.DefaultConfig()
		if config.ConfigExists(configPath) {
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}

		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind") {
			cfg.Bind, _ = cmd.Flags().GetString("bind")
		}
		if cmd.Flags().Changed("data-dir") {
			cfg.DataDir, _ = cmd.Flags().GetString("data-dir")
		}
		if cmd.Flags().Changed("api-key") {
			cfg.Security.APIKey, _ = cmd.Flags().GetString("api-key")
		}

		if cfg.Security.APIKey == "" || cfg.Security.APIKey == "auto" {
			return fmt.Errorf("no API key configured (run 'pgbcp init' or pass --api-key)")
		}

		level, err := zerolog.ParseLevel(cfg.Logging.Level)
		if err != nil {
			level = zerolog.InfoLevel
		}
		zerolog.SetGlobalLevel(level)

		reports, err := container.GetStoreFactory().Open(cfg.DataDir)
		if err != nil {
			return err
		}
		defer reports.Close()

		serverConfig := api.ServerConfig{
			Port:          cfg.Port,
			Bind:          cfg.Bind,
			APIKey:        cfg.Security.APIKey,
			DataDir:       cfg.DataDir,
			MaxFieldBytes: cfg.MaxFieldBytes,
		}

		return api.StartServer(reports, serverConfig)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("config", "", "Path to config file (default ~/.config/pgbcp/config.yaml)")
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind to")
	serveCmd.Flags().String("data-dir", "./data", "Directory for the report store")
	serveCmd.Flags().String("api-key", "", "API key for authentication")
}
