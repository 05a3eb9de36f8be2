package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/readling/internal/learner"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage learner profiles",
}

var userCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a learner profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		age, _ := cmd.Flags().GetInt("age")
		lexile, _ := cmd.Flags().GetInt("lexile")

		_, users, err := openStores(cmd)
		if err != nil {
			return err
		}

		name := args[0]
		if users.Exists(name) {
			return fmt.Errorf("learner %q already exists; use 'user set' to modify", name)
		}

		p := learner.Profile{Name: name, Age: age, Lexile: lexile}
		if err := p.Validate(); err != nil {
			return err
		}
		if err := users.Save(p); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}

		fmt.Printf("Created learner %q (age %d, lexile %dL)\n", name, age, lexile)
		return nil
	},
}

var userSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Update a learner profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, users, err := openStores(cmd)
		if err != nil {
			return err
		}

		p, err := users.Load(args[0])
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("age") {
			p.Age, _ = cmd.Flags().GetInt("age")
		}
		if cmd.Flags().Changed("lexile") {
			p.Lexile, _ = cmd.Flags().GetInt("lexile")
		}
		if cmd.Flags().Changed("provider") {
			p.Provider, _ = cmd.Flags().GetString("provider")
		}
		if cmd.Flags().Changed("model") {
			p.Model, _ = cmd.Flags().GetString("model")
		}

		if err := p.Validate(); err != nil {
			return err
		}
		if err := users.Save(p); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}

		fmt.Printf("Updated learner %q\n", p.Name)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List learner profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, users, err := openStores(cmd)
		if err != nil {
			return err
		}

		names, err := users.List()
		if err != nil {
			return fmt.Errorf("list learners: %w", err)
		}
		if len(names) == 0 {
			fmt.Println("No learners yet. Create one with 'readling user create'.")
			return nil
		}

		fmt.Printf("%-16s  %4s  %7s  %-12s  %s\n", "Name", "Age", "Lexile", "Provider", "Model")
		for _, name := range names {
			p, err := users.Load(name)
			if err != nil {
				return err
			}
			words, err := users.LoadWords(name)
			if err != nil {
				return err
			}
			fmt.Printf("%-16s  %4d  %6dL  %-12s  %s  (%d words)\n",
				p.Name, p.Age, p.Lexile, p.Provider, p.Model, len(words))
		}
		return nil
	},
}

func init() {
	userCreateCmd.Flags().Int("age", 0, "Learner age in years")
	userCreateCmd.Flags().Int("lexile", 0, "Reading level in Lexile (200-1700)")
	userCreateCmd.MarkFlagRequired("age")
	userCreateCmd.MarkFlagRequired("lexile")

	userSetCmd.Flags().Int("age", 0, "Learner age in years")
	userSetCmd.Flags().Int("lexile", 0, "Reading level in Lexile (200-1700)")
	userSetCmd.Flags().String("provider", "", "Default provider name")
	userSetCmd.Flags().String("model", "", "Default model ID")

	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userSetCmd)
	userCmd.AddCommand(userListCmd)
}
