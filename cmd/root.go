package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/readling/internal/learner"
	"github.com/abhisek/readling/internal/llm"
	"github.com/abhisek/readling/internal/record"
	"github.com/abhisek/readling/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "readling",
	Short: "AI reading practice for English learners",
	Long: "Readling generates personalized reading articles with comprehension\n" +
		"questions via configurable AI providers, and grades submitted answers.",
	SilenceUsage: true,
}

func Execute() error {
	// API keys may live in a local .env file; a missing file is fine.
	_ = godotenv.Load()

	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the provider config file (overrides READLING_CONFIG)")
	rootCmd.PersistentFlags().String("data-dir", "", "Path to the data directory (overrides READLING_DATA)")
	rootCmd.PersistentFlags().String("db", "", "Path to the event log database (overrides READLING_DB)")

	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(wordsCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveConfigPath returns the provider config path using --config
// (highest priority), then READLING_CONFIG, then the XDG config default.
func resolveConfigPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p, nil
	}
	if p := os.Getenv("READLING_CONFIG"); p != "" {
		return p, nil
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "readling", "providers.yaml"), nil
}

// resolveDataDir returns the data directory using --data-dir, then
// READLING_DATA, then the XDG data default.
func resolveDataDir(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("data-dir"); p != "" {
		return p, nil
	}
	if p := os.Getenv("READLING_DATA"); p != "" {
		return p, nil
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "readling"), nil
}

func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, nil
	}
	return store.DefaultDBPath()
}

// loadProviderConfig reads the YAML roster and resolves API keys.
func loadProviderConfig(cmd *cobra.Command) (llm.Config, error) {
	path, err := resolveConfigPath(cmd)
	if err != nil {
		return llm.Config{}, err
	}
	cfg, err := llm.Load(path)
	if err != nil {
		return llm.Config{}, fmt.Errorf("load provider config from %s: %w", path, err)
	}
	if len(cfg.Providers) == 0 {
		return llm.Config{}, fmt.Errorf("no providers configured in %s", path)
	}
	return cfg, nil
}

// openStores builds the filesystem stores rooted in the data dir.
func openStores(cmd *cobra.Command) (*record.Store, *learner.Dir, error) {
	dataDir, err := resolveDataDir(cmd)
	if err != nil {
		return nil, nil, err
	}
	return record.NewStore(filepath.Join(dataDir, "records")),
		learner.NewDir(filepath.Join(dataDir, "users")),
		nil
}

// openEventRepo opens the SQLite event log. Failure degrades to a no-op
// repo: a broken event log must never block generation or grading.
func openEventRepo(cmd *cobra.Command) (store.EventRepo, func()) {
	dbPath, err := resolveDBPath(cmd)
	if err == nil {
		var st *store.Store
		if st, err = store.Open(dbPath); err == nil {
			return st.EventRepo(), func() { st.Close() }
		}
	}
	fmt.Fprintf(os.Stderr, "warning: event log unavailable: %v\n", err)
	return store.NopEventRepo{}, func() {}
}

// buildProvider constructs the client for one provider+model and applies
// the middleware chain: caller → retry → logging → client.
func buildProvider(cmd *cobra.Command, cfg llm.Config, pcfg llm.ProviderConfig, model string, events store.EventRepo) (llm.Provider, error) {
	factory := llm.NewFactory(cfg.Timeout)
	base, err := factory.New(cmd.Context(), pcfg, model)
	if err != nil {
		return nil, err
	}
	logged := llm.WithLogging(base, pcfg.Name, events)
	return llm.WithRetry(logged, cfg.Retry), nil
}
