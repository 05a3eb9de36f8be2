package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/readling/internal/llm"
)

var modelsCmd = &cobra.Command{
	Use:   "models [provider]",
	Short: "List available models per provider",
	Long: "Lists models for each configured provider. OpenAI-compatible providers\n" +
		"are queried live when possible; native providers report their\n" +
		"configured model list.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		refresh, _ := cmd.Flags().GetBool("refresh")

		cfg, err := loadProviderConfig(cmd)
		if err != nil {
			return err
		}

		roster := cfg.Providers
		if len(args) == 1 {
			pcfg, ok := cfg.Find(args[0])
			if !ok {
				return fmt.Errorf("provider %q not configured", args[0])
			}
			roster = []llm.ProviderConfig{pcfg}
		}

		factory := llm.NewFactory(cfg.Timeout)
		for _, pcfg := range roster {
			if refresh {
				factory.Invalidate(pcfg.Name)
			}

			fmt.Printf("%s (%s)\n", pcfg.Name, pcfg.Kind)
			models, err := factory.Models(cmd.Context(), pcfg)
			if err != nil {
				fmt.Printf("  unavailable: %v\n", err)
				continue
			}
			if len(models) == 0 {
				fmt.Println("  (no models)")
				continue
			}
			for _, m := range models {
				fmt.Printf("  %s\n", m)
			}
		}
		return nil
	},
}

func init() {
	modelsCmd.Flags().Bool("refresh", false, "Bypass the model cache and query the provider")
}
