package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/app"
	"github.com/abhisek/mathdrill/internal/screens/history"
	"github.com/abhisek/mathdrill/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse past sessions and their attempts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		skill, _ := cmd.Flags().GetString("skill")

		s, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		user := cfg.UserID
		if all, _ := cmd.Flags().GetBool("all"); all {
			user = ""
		}
		opts := store.QueryOpts{Limit: limit, UserID: user, SkillID: skill}
		return app.Run(cmd.Context(), history.New(cmd.Context(), s, opts))
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 50, "Number of sessions to show")
	historyCmd.Flags().String("skill", "", "Only show sessions of this skill")
	historyCmd.Flags().Bool("all", false, "Show sessions of every learner")
}
