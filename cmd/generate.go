package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/readling/internal/exercise"
	"github.com/abhisek/readling/internal/export"
	"github.com/abhisek/readling/internal/learner"
	"github.com/abhisek/readling/internal/llm"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new reading exercise",
	RunE: func(cmd *cobra.Command, args []string) error {
		userName, _ := cmd.Flags().GetString("user")
		typeName, _ := cmd.Flags().GetString("type")

		articleType, ok := exercise.ParseArticleType(typeName)
		if !ok {
			return fmt.Errorf("unknown article type %q (valid: %s)", typeName, articleTypeNames())
		}

		cfg, err := loadProviderConfig(cmd)
		if err != nil {
			return err
		}
		records, users, err := openStores(cmd)
		if err != nil {
			return err
		}

		profile, err := users.Load(userName)
		if err != nil {
			return err
		}
		core, err := users.CoreProfile(userName)
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

		gcfg := exercise.DefaultConfig()
		gcfg.ProviderName = pcfg.Name

		fmt.Printf("Generating a %s article with %s (%s)...\n\n", articleType, pcfg.Name, model)

		gen := exercise.New(provider, records, gcfg)
		rec, err := gen.Generate(cmd.Context(), core, articleType)
		if err != nil {
			return fmt.Errorf("generate exercise: %w", err)
		}

		fmt.Print(export.Render(rec))
		fmt.Printf("\nSaved record %s. Submit answers with:\n  readling answer %s --user %s\n",
			rec.RecordID, rec.RecordID, userName)

		// Remember the selection so repeat runs don't need the flags.
		if profile.Provider != pcfg.Name || profile.Model != model {
			profile.Provider = pcfg.Name
			profile.Model = model
			if err := users.Save(profile); err != nil {
				fmt.Printf("warning: could not save provider preference: %v\n", err)
			}
		}
		return nil
	},
}

// resolveSelection picks the provider section and model ID from the flags,
// the learner's saved preference, and the configured roster, in that order.
func resolveSelection(cmd *cobra.Command, cfg llm.Config, profile learner.Profile) (llm.ProviderConfig, string, error) {
	name, _ := cmd.Flags().GetString("provider")
	if name == "" {
		name = profile.Provider
	}
	if name == "" {
		name = cfg.Providers[0].Name
	}

	pcfg, ok := cfg.Find(name)
	if !ok {
		return llm.ProviderConfig{}, "", fmt.Errorf("provider %q not configured", name)
	}

	model, _ := cmd.Flags().GetString("model")
	if model == "" && name == profile.Provider {
		model = profile.Model
	}
	if model == "" {
		factory := llm.NewFactory(cfg.Timeout)
		models, err := factory.Models(cmd.Context(), pcfg)
		if err != nil {
			return llm.ProviderConfig{}, "", fmt.Errorf("discover models for %s: %w", name, err)
		}
		if len(models) == 0 {
			return llm.ProviderConfig{}, "", fmt.Errorf("provider %s has no models; pass --model", name)
		}
		model = models[0]
	}

	return pcfg, model, nil
}

func articleTypeNames() string {
	names := make([]string, len(exercise.ArticleTypes))
	for i, t := range exercise.ArticleTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func init() {
	generateCmd.Flags().StringP("user", "u", "", "Learner profile name")
	generateCmd.Flags().StringP("type", "t", string(exercise.TypeStory), "Article type (Story, Science, Nature, History)")
	generateCmd.Flags().String("provider", "", "Provider name from the config roster")
	generateCmd.Flags().String("model", "", "Model ID")
	generateCmd.MarkFlagRequired("user")
}
