package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/readling/internal/exercise"
	"github.com/abhisek/readling/internal/export"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past exercises",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")

		records, _, err := openStores(cmd)
		if err != nil {
			return err
		}

		recs, err := records.ListAll()
		if err != nil {
			return fmt.Errorf("list records: %w", err)
		}

		if date != "" {
			filtered := recs[:0]
			for _, r := range recs {
				if r.CreatedAt.Format("2006-01-02") == date {
					filtered = append(filtered, r)
				}
			}
			recs = filtered
		}

		if len(recs) == 0 {
			fmt.Println("No exercises found.")
			return nil
		}

		fmt.Printf("%-16s  %-19s  %-9s  %-8s  %s\n",
			"Record", "Created", "Status", "Type", "Score")
		fmt.Println(strings.Repeat("─", 66))

		for _, r := range recs {
			score := "-"
			if r.Score != nil {
				score = fmt.Sprintf("%.0f%%", *r.Score*100)
			}
			fmt.Printf("%-16s  %-19s  %-9s  %-8s  %s\n",
				r.RecordID,
				r.CreatedAt.Format("2006-01-02 15:04:05"),
				r.Status,
				r.ArticleType,
				score)
		}
		fmt.Printf("\n%d record(s)\n", len(recs))
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <record-id>",
	Short: "Show one exercise in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, _, err := openStores(cmd)
		if err != nil {
			return err
		}

		rec, err := records.Get(args[0])
		if err != nil {
			return err
		}

		fmt.Print(export.Render(rec))
		if rec.Status == exercise.StatusGenerated {
			fmt.Printf("\nNot yet answered. Submit with:\n  readling answer %s --user <name>\n", rec.RecordID)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().String("date", "", "Only records from this date (YYYY-MM-DD)")
	historyCmd.AddCommand(historyShowCmd)
}
