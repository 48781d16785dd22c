package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/pgbcp/pkg/inspect"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Report the structure of a binary COPY stream",
	Long: `Decode a binary COPY stream and report its structure: tuple and
field counts, NULL density and payload sizes per column.

Example:
  pgbcp inspect dump.bin
  pgbcp inspect --json dump.bin`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		report, err := inspect.File(args[0])
		if err != nil {
			return fmt.Errorf("failed to inspect stream: %w", err)
		}

		if asJSON {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(data))
			return nil
		}
		cmd.Print(report.Summary())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("json", false, "Emit the report as JSON")
}
