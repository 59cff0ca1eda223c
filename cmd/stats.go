package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show recent session reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		user, _ := cmd.Flags().GetString("user")
		skill, _ := cmd.Flags().GetString("skill")

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		reports, err := s.Reports(ctx, store.QueryOpts{Limit: limit, UserID: user, SkillID: skill})
		if err != nil {
			return err
		}

		if len(reports) == 0 {
			fmt.Println("No finished sessions yet.")
			return nil
		}

		fmt.Printf("%-16s  %-12s  %-20s  %9s  %6s  %7s  %s\n",
			"Finished", "User", "Skill", "Correct", "Score", "Time", "Level")
		fmt.Println(strings.Repeat("─", 90))

		for _, r := range reports {
			secs := r.TimeTakenSecs
			fmt.Printf("%-16s  %-12s  %-20s  %4d/%-4d  %5.0f%%  %4d:%02d  %s\n",
				r.FinishedAt.Local().Format("2006-01-02 15:04"),
				truncate(r.UserID, 12),
				truncate(r.SkillID, 20),
				r.CorrectAnswers, r.TotalQuestions,
				r.ScorePercent,
				secs/60, secs%60,
				r.Difficulty(),
			)
		}

		if user != "" && skill != "" {
			acc, err := s.SkillAccuracy(ctx, user, skill)
			if err != nil {
				return err
			}
			fmt.Printf("\nAll-time accuracy for %s on %s: %d/%d (%.0f%%)\n",
				user, skill, acc.Correct, acc.Attempts, acc.Ratio()*100)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
	statsCmd.Flags().String("user", "", "Only show sessions of this learner")
	statsCmd.Flags().String("skill", "", "Only show sessions of this skill")
}
