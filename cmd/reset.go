package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all sessions, attempts and reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		includeLLM, _ := cmd.Flags().GetBool("llm")

		s, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if !force {
			fmt.Fprintf(cmd.OutOrStdout(), "Delete all practice data in %s? [y/N] ", cfg.DBPath)
			line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if !strings.EqualFold(strings.TrimSpace(line), "y") {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		if err := s.Reset(cmd.Context(), includeLLM); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Practice data deleted.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("force", "f", false, "Do not ask for confirmation")
	resetCmd.Flags().Bool("llm", false, "Also delete the LLM request log")
}
