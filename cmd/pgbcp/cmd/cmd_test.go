package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/pgbcp/pkg/config"
	"github.com/ssargent/pgbcp/pkg/di"
	"github.com/ssargent/pgbcp/pkg/inspect"
)

// runCommand executes the root command with the given args and captures
// its output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenAndVerifyCommands(t *testing.T) {
	SetContainer(di.NewContainer())

	tmpDir, err := os.MkdirTemp("", "pgbcp_cmd_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	streamPath := filepath.Join(tmpDir, "sample.bin")

	t.Run("gen writes a decodable stream", func(t *testing.T) {
		out, err := runCommand(t, "gen", "--rows", "25", "--cols", "3", streamPath)
		require.NoError(t, err)
		assert.Contains(t, out, "wrote 25 tuples")
		assert.FileExists(t, streamPath)

		report, err := inspect.File(streamPath)
		require.NoError(t, err)
		assert.Equal(t, 25, report.Tuples)
		assert.Equal(t, 75, report.Fields)
	})

	t.Run("gen with periodic nulls", func(t *testing.T) {
		nullPath := filepath.Join(tmpDir, "nulls.bin")
		_, err := runCommand(t, "gen", "--rows", "10", "--cols", "2", "--null-every", "4", nullPath)
		require.NoError(t, err)

		report, err := inspect.File(nullPath)
		require.NoError(t, err)
		assert.Equal(t, 5, report.Nulls)
	})

	t.Run("verify accepts a valid stream", func(t *testing.T) {
		out, err := runCommand(t, "verify", streamPath)
		require.NoError(t, err)
		assert.Contains(t, out, "ok: 25 tuples, 75 fields")
	})

	t.Run("verify rejects a corrupt stream", func(t *testing.T) {
		badPath := filepath.Join(tmpDir, "bad.bin")
		require.NoError(t, os.WriteFile(badPath, []byte("not a copy stream"), 0600))

		_, err := runCommand(t, "verify", badPath)
		assert.Error(t, err)
	})

	t.Run("inspect emits JSON", func(t *testing.T) {
		out, err := runCommand(t, "inspect", "--json", streamPath)
		require.NoError(t, err)
		assert.Contains(t, out, `"tuples": 25`)
	})
}

func TestServeCommand_MissingAPIKeyFails(t *testing.T) {
	SetContainer(di.NewContainer())

	tmpDir, err := os.MkdirTemp("", "pgbcp_serve_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	// No config file exists, so the defaults (placeholder "auto" key) apply.
	_, err = runCommand(t, "serve", "--config", filepath.Join(tmpDir, "config.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no API key configured")
}

func TestInitCommand(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "pgbcp_init_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")
	dataDir := filepath.Join(tmpDir, "data")

	t.Run("bootstrap creates config with generated key", func(t *testing.T) {
		out, err := runCommand(t, "init", "--config", configPath, "--data-dir", dataDir)
		require.NoError(t, err)
		assert.Contains(t, out, "Initialized pgbcp configuration")

		require.True(t, config.ConfigExists(configPath))
		cfg, err := config.LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, dataDir, cfg.DataDir)
		assert.NotEmpty(t, cfg.Security.APIKey)
		assert.NotEqual(t, "auto", cfg.Security.APIKey)
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		out, err := runCommand(t, "init", "--config", configPath)
		require.NoError(t, err)
		assert.Contains(t, out, "Use --force to overwrite")
	})

	t.Run("force overwrites existing config", func(t *testing.T) {
		before, err := config.LoadConfig(configPath)
		require.NoError(t, err)

		_, err = runCommand(t, "init", "--config", configPath, "--force")
		require.NoError(t, err)

		after, err := config.LoadConfig(configPath)
		require.NoError(t, err)
		assert.NotEqual(t, before.Security.APIKey, after.Security.APIKey)
	})
}
