package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/readling/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export <record-id>",
	Short: "Export an exercise as Markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")

		records, _, err := openStores(cmd)
		if err != nil {
			return err
		}

		rec, err := records.Get(args[0])
		if err != nil {
			return err
		}

		md := export.Render(rec)
		if out == "" {
			fmt.Print(md)
			return nil
		}

		if err := os.WriteFile(out, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Printf("Exported record %s to %s\n", rec.RecordID, out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
}
