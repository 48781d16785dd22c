package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/pgbcp/pkg/inspect"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "Check that a file is a well-formed binary COPY stream",
	Long: `Decode a binary COPY stream end to end, exiting non-zero if the
framing is malformed or the stream is truncated.

Example:
  pgbcp verify dump.bin`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := inspect.File(args[0])
		if err != nil {
			return fmt.Errorf("invalid stream: %w", err)
		}
		cmd.Printf("ok: %d tuples, %d fields\n", report.Tuples, report.Fields)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
