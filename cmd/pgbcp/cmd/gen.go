package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ssargent/pgbcp/pkg/pgcopy"
)

// genCmd represents the gen command
var genCmd = &cobra.Command{
	Use:   "gen <file>",
	Short: "Generate a sample binary COPY stream",
	Long: `Encode a deterministic sample stream, mainly for exercising
pipelines and decoders. Payloads are plain text; every column can
periodically be NULL.

Example:
  pgbcp gen --rows 1000 --cols 3 sample.bin
  pgbcp gen --rows 100 --cols 2 --null-every 5 sample.bin`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, _ := cmd.Flags().GetInt("rows")
		cols, _ := cmd.Flags().GetInt("cols")
		nullEvery, _ := cmd.Flags().GetInt("null-every")
		if rows < 0 || cols < 1 {
			return fmt.Errorf("need --rows >= 0 and --cols >= 1")
		}

		types := make([]pgcopy.Type, cols)
		for i := range types {
			types[i] = pgcopy.Type{OID: 25, Name: "text"}
		}

		vals := make([]pgcopy.Value, 0, rows*cols)
		for row := 0; row < rows; row++ {
			for col := 0; col < cols; col++ {
				if nullEvery > 0 && (row*cols+col)%nullEvery == nullEvery-1 {
					vals = append(vals, pgcopy.Raw(nil))
					continue
				}
				vals = append(vals, pgcopy.Raw(fmt.Sprintf("row %d col %d", row, col)))
			}
		}

		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()

		n, err := io.Copy(f, pgcopy.NewReader(types, pgcopy.Values(vals...), nil))
		if err != nil {
			return fmt.Errorf("failed to encode stream: %w", err)
		}

		cmd.Printf("wrote %d tuples (%s) to %s\n", rows, humanize.Bytes(uint64(n)), args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(genCmd)
	genCmd.Flags().Int("rows", 100, "Number of tuples to generate")
	genCmd.Flags().Int("cols", 2, "Number of columns per tuple")
	genCmd.Flags().Int("null-every", 0, "Make every Nth field NULL (0 = no NULLs)")
}
