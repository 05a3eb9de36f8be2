package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/readling/internal/exercise"
	"github.com/abhisek/readling/internal/export"
	"github.com/abhisek/readling/internal/grade"
)

var answerCmd = &cobra.Command{
	Use:   "answer <record-id>",
	Short: "Submit answers for a generated exercise and get it graded",
	Long: "Grades the learner's answers against a generated record. Answers can\n" +
		"be passed with repeated --answer flags (e.g. --answer 1=B --answer 3=true)\n" +
		"or entered interactively when no flags are given.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userName, _ := cmd.Flags().GetString("user")
		rawAnswers, _ := cmd.Flags().GetStringArray("answer")
		noSummary, _ := cmd.Flags().GetBool("no-summary")

		cfg, err := loadProviderConfig(cmd)
		if err != nil {
			return err
		}
		records, users, err := openStores(cmd)
		if err != nil {
			return err
		}

		rec, err := records.Get(args[0])
		if err != nil {
			return err
		}
		if rec.Status == exercise.StatusCompleted {
			return fmt.Errorf("record %s is already completed; generate a new exercise to retry", rec.RecordID)
		}

		profile, err := users.Load(userName)
		if err != nil {
			return err
		}

		var answers map[string]string
		if len(rawAnswers) > 0 {
			answers, err = parseAnswerFlags(rec, rawAnswers)
		} else {
			answers, err = promptAnswers(rec)
		}
		if err != nil {
			return err
		}

		pcfg, model, err := resolveSelection(cmd, cfg, profile)
		if err != nil {
			return err
		}

		events, closeEvents := openEventRepo(cmd)
		defer closeEvents()

		provider, err := buildProvider(cmd, cfg, pcfg, model, events)
		if err != nil {
			return err
		}

		ecfg := grade.DefaultConfig()
		ecfg.Summary = !noSummary

		fmt.Printf("\nGrading with %s (%s)...\n\n", pcfg.Name, model)

		ev := grade.New(provider, records, ecfg)
		completed, err := ev.Evaluate(cmd.Context(), rec, answers)
		if err != nil {
			return fmt.Errorf("evaluate answers: %w", err)
		}

		fmt.Print(export.Render(completed))
		return nil
	},
}

// parseAnswerFlags maps "N=text" flag values onto question IDs. N is the
// 1-based question number in display order.
func parseAnswerFlags(rec *exercise.LearningRecord, raw []string) (map[string]string, error) {
	answers := make(map[string]string, len(rec.Questions))
	for _, r := range raw {
		numStr, text, found := strings.Cut(r, "=")
		if !found {
			return nil, fmt.Errorf("invalid answer %q: expected N=text", r)
		}
		n, err := strconv.Atoi(strings.TrimSpace(numStr))
		if err != nil || n < 1 || n > len(rec.Questions) {
			return nil, fmt.Errorf("invalid question number in %q: expected 1-%d", r, len(rec.Questions))
		}
		answers[rec.Questions[n-1].ID] = strings.TrimSpace(text)
	}
	return answers, nil
}

// promptAnswers collects answers interactively from stdin.
func promptAnswers(rec *exercise.LearningRecord) (map[string]string, error) {
	scanner := bufio.NewScanner(os.Stdin)
	answers := make(map[string]string, len(rec.Questions))

	for i, q := range rec.Questions {
		fmt.Printf("\n%d. %s\n", i+1, q.Prompt)
		for _, opt := range q.Options {
			fmt.Printf("   %s\n", opt)
		}
		switch q.Kind {
		case exercise.KindTrueFalse:
			fmt.Print("Your answer (true/false): ")
		case exercise.KindMultipleChoice:
			fmt.Print("Your answer (letter): ")
		default:
			fmt.Print("Your answer: ")
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("read answer: %w", err)
			}
			return nil, fmt.Errorf("input closed before all questions were answered")
		}
		answers[q.ID] = strings.TrimSpace(scanner.Text())
	}
	return answers, nil
}

func init() {
	answerCmd.Flags().StringP("user", "u", "", "Learner profile name")
	answerCmd.Flags().StringArrayP("answer", "a", nil, "Answer as N=text (repeatable)")
	answerCmd.Flags().Bool("no-summary", false, "Skip the whole-test feedback call")
	answerCmd.MarkFlagRequired("user")
}
