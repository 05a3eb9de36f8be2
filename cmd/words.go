package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Manage a learner's vocabulary word bank",
}

var wordsAddCmd = &cobra.Command{
	Use:   "add <name> <word>...",
	Short: "Add words to the word bank",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, users, err := openStores(cmd)
		if err != nil {
			return err
		}
		if !users.Exists(args[0]) {
			return fmt.Errorf("learner %q not found", args[0])
		}

		added, err := users.AddWords(args[0], args[1:])
		if err != nil {
			return fmt.Errorf("add words: %w", err)
		}
		fmt.Printf("Added %d new word(s), skipped %d duplicate(s)\n", added, len(args[1:])-added)
		return nil
	},
}

var wordsListCmd = &cobra.Command{
	Use:   "list <name>",
	Short: "Show the word bank",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, users, err := openStores(cmd)
		if err != nil {
			return err
		}

		words, err := users.LoadWords(args[0])
		if err != nil {
			return fmt.Errorf("load words: %w", err)
		}
		if len(words) == 0 {
			fmt.Println("Word bank is empty.")
			return nil
		}
		for _, w := range words {
			fmt.Println(w)
		}
		fmt.Printf("\n%d words\n", len(words))
		return nil
	},
}

var wordsDedupeCmd = &cobra.Command{
	Use:   "dedupe <name>",
	Short: "Remove duplicate words from the word bank",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, users, err := openStores(cmd)
		if err != nil {
			return err
		}

		removed, err := users.DedupWords(args[0])
		if err != nil {
			return fmt.Errorf("dedupe words: %w", err)
		}
		fmt.Printf("Removed %d duplicate(s)\n", removed)
		return nil
	},
}

func init() {
	wordsCmd.AddCommand(wordsAddCmd)
	wordsCmd.AddCommand(wordsListCmd)
	wordsCmd.AddCommand(wordsDedupeCmd)
}
