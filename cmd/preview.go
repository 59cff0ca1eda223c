package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/answer"
	"github.com/abhisek/mathdrill/internal/question"
	"github.com/abhisek/mathdrill/internal/session"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Answer questions for a skill on the command line (no database)",
	Long: `Run an adaptive session in plain line mode.

This is a stateless developer tool: nothing is saved and no events are
published. Useful for checking a question bank or the quality of generated
questions.`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	addSessionFlags(previewCmd)
	previewCmd.Flags().Int("count", 5, "Number of questions to ask")
}

func runPreview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	skillID, _ := cmd.Flags().GetString("skill")
	count, _ := cmd.Flags().GetInt("count")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applySessionFlags(cmd, cfg)
	logger := cfg.Logger(cmd.ErrOrStderr())

	source, err := newQuestionSource(ctx, cfg, nil, logger)
	if err != nil {
		return err
	}
	eng := session.New(session.Deps{Questions: source, Logger: logger}, cfg.Session)

	out := cmd.OutOrStdout()
	if _, err := eng.Begin(ctx, cfg.UserID, skillID); err != nil {
		if errors.Is(err, session.ErrNoMoreQuestions) {
			return fmt.Errorf("no questions available for skill %q", skillID)
		}
		return err
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for i := 1; i <= count; i++ {
		q, err := eng.Current()
		if err != nil {
			break
		}

		fmt.Fprintf(out, "── Question %d/%d (%s) ──\n", i, count, q.Difficulty)
		fmt.Fprintln(out, q.Text)
		for j, opt := range q.Options {
			fmt.Fprintf(out, "  %s) %s\n", strings.ToUpper(answer.Letter(j)), opt)
		}

		fmt.Fprint(out, "\nYour answer: ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\n(input closed)")
			break
		}

		res, err := eng.Submit(ctx, q, parseAnswer(q, scanner.Text()))
		if err != nil {
			return err
		}
		if res.Correct {
			fmt.Fprintln(out, "\033[32m✓ Correct!\033[0m")
		} else {
			fmt.Fprintf(out, "\033[31m✗ Wrong.\033[0m Answer: %s\n", res.CorrectAnswer)
		}
		if res.Solution != "" {
			fmt.Fprintf(out, "Solution: %s\n", res.Solution)
		}
		fmt.Fprintln(out)

		if i == count {
			break
		}
		if _, err := eng.Advance(ctx); err != nil {
			if errors.Is(err, session.ErrNoMoreQuestions) {
				fmt.Fprintln(out, "(no more questions)")
				break
			}
			return err
		}
	}

	sum, err := eng.Finish(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "── Summary: %d/%d correct (%.0f%%), final level %s ──\n",
		sum.CorrectAnswers, sum.TotalQuestions, sum.ScorePercent, sum.FinalDifficulty)
	return nil
}

// parseAnswer turns a typed line into a submission for q. For single
// choice a letter or 1-based number picks the option at that position.
func parseAnswer(q *question.Question, line string) question.Submission {
	line = strings.TrimSpace(line)

	switch q.Kind {
	case question.KindSingleChoice:
		for i := range q.Options {
			if strings.EqualFold(line, answer.Letter(i)) || line == strconv.Itoa(i+1) {
				return question.ChoiceAt(i)
			}
		}
	case question.KindMultiBlank:
		sep := question.BlankSeparator
		if !strings.Contains(line, sep) {
			sep = ","
		}
		parts := strings.Split(line, sep)
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return question.BlankAnswers(parts...)
	case question.KindFraction:
		n, d, _ := strings.Cut(line, "/")
		return question.FractionAnswer(strings.TrimSpace(n), strings.TrimSpace(d))
	}
	return question.TextAnswer(line)
}
