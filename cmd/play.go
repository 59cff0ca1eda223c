package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/app"
	"github.com/abhisek/mathdrill/internal/bank"
	"github.com/abhisek/mathdrill/internal/config"
	"github.com/abhisek/mathdrill/internal/events"
	"github.com/abhisek/mathdrill/internal/llm"
	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/screens/practice"
	"github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/store"
)

// flushTimeout bounds how long play waits for queued writes on exit.
const flushTimeout = 10 * time.Second

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a practice session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		skillID, _ := cmd.Flags().GetString("skill")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		applySessionFlags(cmd, cfg)

		// The TUI owns the terminal, so logs go to a file beside the database.
		logFile, err := os.OpenFile(filepath.Join(filepath.Dir(cfg.DBPath), "mathdrill.log"),
			os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer logFile.Close()
		logger := cfg.Logger(logFile)

		st, err := store.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		source, err := newQuestionSource(ctx, cfg, st, logger)
		if err != nil {
			return err
		}

		attempts := session.AttemptSinks{st}
		reports := session.ReportSinks{st}
		if pub := dialPublisher(cfg, logger, cmd.ErrOrStderr()); pub != nil {
			defer pub.Close()
			attempts = append(attempts, pub)
			reports = append(reports, pub)
		}

		eng := session.New(session.Deps{
			Questions: source,
			Sessions:  st.Sessions(),
			Attempts:  attempts,
			Reports:   reports,
			Logger:    logger,
		}, cfg.Session)

		runErr := app.Run(ctx, practice.New(ctx, eng, cfg.UserID, skillID))

		flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		if err := eng.Wait(flushCtx); err != nil {
			logger.Warn("pending writes not flushed", "error", err)
		}
		return runErr
	},
}

func init() {
	addSessionFlags(playCmd)
}

// addSessionFlags registers the flags shared by play and preview.
func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().String("skill", "", "Skill ID to practice (required)")
	cmd.Flags().String("user", "", "Learner ID (overrides MATHDRILL_USER env var)")
	cmd.Flags().String("type", "", "Question type when the skill offers several")
	cmd.Flags().String("bank", "", "Path to a YAML question bank (overrides MATHDRILL_BANK env var)")
	_ = cmd.MarkFlagRequired("skill")
}

func applySessionFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("user"); v != "" {
		cfg.UserID = v
	}
	if v, _ := cmd.Flags().GetString("type"); v != "" {
		cfg.Session.QuestionType = v
	}
	if v, _ := cmd.Flags().GetString("bank"); v != "" {
		cfg.BankPath = v
	}
}

// newQuestionSource serves questions from the configured bank, or from the
// LLM when no bank is set. reqLog may be nil.
func newQuestionSource(ctx context.Context, cfg *config.Config, reqLog llm.RequestLog, logger *slog.Logger) (session.QuestionSource, error) {
	if cfg.BankPath != "" {
		src, err := bank.Open(cfg.BankPath)
		if err != nil {
			return nil, fmt.Errorf("open question bank: %w", err)
		}
		return src, nil
	}
	if !cfg.HasLLM {
		return nil, errors.New("no question source: set MATHDRILL_BANK or configure an LLM provider")
	}
	provider, err := llm.NewProvider(ctx, cfg.LLM, reqLog, logger)
	if err != nil {
		return nil, fmt.Errorf("LLM provider: %w", err)
	}
	return problemgen.New(provider, problemgen.DefaultConfig(), logger), nil
}

// dialPublisher connects to the event broker when one is configured. A
// broker that cannot be reached only disables publishing.
func dialPublisher(cfg *config.Config, logger *slog.Logger, stderr io.Writer) *events.Publisher {
	if cfg.AMQPURL == "" {
		return nil
	}
	pub, err := events.Dial(cfg.AMQPURL, cfg.AMQPExchange, logger)
	if err != nil {
		fmt.Fprintln(stderr, "Event broker unavailable:", err)
		fmt.Fprintln(stderr, "Session events will not be published.")
		return nil
	}
	return pub
}
