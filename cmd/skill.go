package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/bank"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Browse the skills of a question bank",
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the skills and question types in the question bank",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if v, _ := cmd.Flags().GetString("bank"); v != "" {
			cfg.BankPath = v
		}
		if cfg.BankPath == "" {
			return fmt.Errorf("no question bank: use --bank or set MATHDRILL_BANK")
		}

		f, err := bank.LoadFile(cfg.BankPath)
		if err != nil {
			return err
		}
		if len(f.Skills) == 0 {
			fmt.Println("No skills in bank.")
			return nil
		}

		fmt.Printf("%-24s  %-32s  %9s  %s\n", "ID", "Name", "Questions", "Types")
		fmt.Println(strings.Repeat("─", 90))

		for _, s := range f.Skills {
			name := s.Name
			if len(name) > 32 {
				name = name[:29] + "..."
			}
			var types []string
			var n int
			for _, t := range s.Types {
				types = append(types, t.Name)
				n += len(t.Questions)
			}
			fmt.Printf("%-24s  %-32s  %9d  %s\n", s.ID, name, n, strings.Join(types, ", "))
		}

		fmt.Printf("\n%d skills\n", len(f.Skills))
		return nil
	},
}

func init() {
	skillListCmd.Flags().String("bank", "", "Path to a YAML question bank (overrides MATHDRILL_BANK env var)")

	skillCmd.AddCommand(skillListCmd)
}
