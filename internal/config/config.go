// Package config loads mathdrill settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhisek/mathdrill/internal/events"
	"github.com/abhisek/mathdrill/internal/llm"
	"github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/store"
)

const prefix = "MATHDRILL_"

// Config is the resolved application configuration.
type Config struct {
	DBPath string

	// BankPath points at a YAML question bank. Empty means questions come
	// from the LLM.
	BankPath string

	UserID string

	Session session.Config

	// AMQPURL enables event publishing when set.
	AMQPURL      string
	AMQPExchange string

	LogLevel slog.Level

	// LLM is only meaningful when HasLLM is true.
	LLM    llm.Config
	HasLLM bool
}

// Load reads the given .env files (default ".env"; missing files are
// ignored), then MATHDRILL_* variables over defaults, and validates the
// result. Variables already set in the environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{
		BankPath:     getenv("BANK", ""),
		UserID:       getenv("USER", defaultUser()),
		Session:      session.DefaultConfig(),
		AMQPURL:      getenv("AMQP_URL", ""),
		AMQPExchange: getenv("AMQP_EXCHANGE", events.DefaultExchange),
	}

	var errs []error
	var err error
	if cfg.DBPath, err = store.DefaultDBPath(); err != nil {
		errs = append(errs, err)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getenv("LOG_LEVEL", "warn"))); err != nil {
		errs = append(errs, fmt.Errorf("%sLOG_LEVEL: %w", prefix, err))
	}

	s := &cfg.Session
	s.QuestionType = getenv("QUESTION_TYPE", "")
	errs = append(errs,
		intVar("BATCH_SIZE", &s.BatchSize),
		intVar("QUEUE_SIZE", &s.QueueSize),
		intVar("WRITE_RETRIES", &s.WriteRetry.MaxAttempts),
		durationVar("FETCH_TIMEOUT", &s.FetchTimeout),
		durationVar("WRITE_TIMEOUT", &s.WriteTimeout),
	)

	if os.Getenv(prefix+"LLM_PROVIDER") != "" {
		cfg.LLM, cfg.HasLLM = llm.ConfigFromEnv(), true
	} else {
		cfg.LLM, cfg.HasLLM = llm.DiscoverConfig()
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the engine cannot use.
func (c *Config) Validate() error {
	var errs []error
	if c.UserID == "" {
		errs = append(errs, fmt.Errorf("%sUSER must not be empty", prefix))
	}
	if c.Session.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("%sBATCH_SIZE must be positive, got %d", prefix, c.Session.BatchSize))
	}
	if c.Session.QueueSize <= 0 {
		errs = append(errs, fmt.Errorf("%sQUEUE_SIZE must be positive, got %d", prefix, c.Session.QueueSize))
	}
	if c.Session.WriteRetry.MaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("%sWRITE_RETRIES must be positive, got %d", prefix, c.Session.WriteRetry.MaxAttempts))
	}
	if c.Session.FetchTimeout <= 0 || c.Session.WriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%sFETCH_TIMEOUT and %sWRITE_TIMEOUT must be positive", prefix, prefix))
	}
	if c.HasLLM {
		if err := c.LLM.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Logger returns a text slog logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

func getenv(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(prefix + name)); v != "" {
		return v
	}
	return fallback
}

func intVar(name string, dst *int) error {
	v := getenv(name, "")
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s%s=%q is not an integer", prefix, name, v)
	}
	*dst = n
	return nil
}

func durationVar(name string, dst *time.Duration) error {
	v := getenv(name, "")
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s%s=%q is not a valid duration: %w", prefix, name, v, err)
	}
	*dst = d
	return nil
}

func defaultUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}
