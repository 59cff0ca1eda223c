package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/store"
)

const llmTimeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect logged question-generation requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := store.QueryOpts{}
		opts.Limit, _ = cmd.Flags().GetInt("limit")
		opts.Purpose, _ = cmd.Flags().GetString("purpose")
		opts.FailedOnly, _ = cmd.Flags().GetBool("failed")

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return err
		}
		writeLLMEvents(cmd.OutOrStdout(), events)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one LLM request with its captured bodies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("event id must be a number, got %q", args[0])
		}

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return err
		}
		if e == nil {
			return fmt.Errorf("no LLM event with id %d", id)
		}
		writeLLMEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize token usage and latency",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.LLMUsageByPurpose(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(byPurpose) == 0 {
			fmt.Fprintln(out, "Nothing logged yet.")
			return nil
		}
		byModel, err := s.LLMUsageByModel(ctx)
		if err != nil {
			return err
		}

		writeUsage(out, "Purpose", byPurpose, func(u store.LLMUsage) string { return u.Purpose })
		fmt.Fprintln(out)
		writeUsage(out, "Model", byModel, func(u store.LLMUsage) string { return u.Model })
		return nil
	},
}

func writeLLMEvents(w io.Writer, events []store.LLMRequestEventRecord) {
	if len(events) == 0 {
		fmt.Fprintln(w, "Nothing logged yet.")
		return
	}
	fmt.Fprintf(w, "%5s  %-19s  %-12s  %-24s  %11s  %6s\n",
		"ID", "When", "Purpose", "Model", "Tokens", "Ms")
	for _, e := range events {
		line := fmt.Sprintf("%5d  %-19s  %-12s  %-24s  %5d/%-5d  %6d",
			e.ID,
			e.Timestamp.Local().Format(llmTimeLayout),
			truncate(e.Purpose, 12),
			truncate(e.Model, 24),
			e.InputTokens, e.OutputTokens,
			e.LatencyMs,
		)
		if !e.Success {
			line += "  FAILED: " + truncate(e.ErrorMessage, 40)
		}
		fmt.Fprintln(w, line)
	}
}

func writeLLMEvent(w io.Writer, e *store.LLMRequestEventRecord) {
	status := "ok"
	if !e.Success {
		status = "failed: " + e.ErrorMessage
	}
	fmt.Fprintf(w, "Event %d (%s)\n", e.ID, e.Timestamp.Local().Format(llmTimeLayout))
	fmt.Fprintf(w, "  %s/%s for %s\n", e.Provider, e.Model, e.Purpose)
	fmt.Fprintf(w, "  %d input tokens, %d output tokens, %dms, %s\n",
		e.InputTokens, e.OutputTokens, e.LatencyMs, status)

	for _, part := range []struct{ name, body string }{
		{"Request", e.RequestBody},
		{"Response", e.ResponseBody},
	} {
		fmt.Fprintf(w, "\n== %s ==\n", part.name)
		if part.body == "" {
			fmt.Fprintln(w, "(empty)")
			continue
		}
		fmt.Fprintln(w, part.body)
	}
}

// writeUsage prints one usage table keyed by label, followed by a total row.
func writeUsage(w io.Writer, heading string, rows []store.LLMUsage, label func(store.LLMUsage) string) {
	fmt.Fprintf(w, "%-28s  %6s  %9s  %9s  %7s\n", heading, "Calls", "Input", "Output", "Avg ms")
	fmt.Fprintln(w, strings.Repeat("─", 66))

	var total store.LLMUsage
	for _, u := range rows {
		fmt.Fprintf(w, "%-28s  %6d  %9d  %9d  %7d\n",
			truncate(label(u), 28), u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
		total.Calls += u.Calls
		total.InputTokens += u.InputTokens
		total.OutputTokens += u.OutputTokens
	}
	fmt.Fprintf(w, "%-28s  %6d  %9d  %9d\n", "all", total.Calls, total.InputTokens, total.OutputTokens)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show events of this purpose (e.g. question-gen)")
	llmListCmd.Flags().Bool("failed", false, "Only show failed requests")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
