package session

import "time"

// Config holds engine tunables.
type Config struct {
	// BatchSize is how many questions are requested per fetch.
	BatchSize int

	// QuestionType is the preferred question type passed on every fetch.
	// Empty lets the source decide or ask for a selection.
	QuestionType string

	// ChooseType picks a question type when a source answers with a
	// selection request. Returning "" ends the fetch with no questions.
	ChooseType func(available []string) string

	// FetchTimeout bounds each call to the question source and the
	// session service Open.
	FetchTimeout time.Duration

	// WriteTimeout bounds each background write attempt.
	WriteTimeout time.Duration

	// QueueSize is the background write buffer. Writes beyond it are
	// dropped and logged.
	QueueSize int

	WriteRetry RetryConfig
}

// RetryConfig configures retries of failed background writes.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:    5,
		ChooseType:   FirstType,
		FetchTimeout: 10 * time.Second,
		WriteTimeout: 5 * time.Second,
		QueueSize:    64,
		WriteRetry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 200 * time.Millisecond,
			MaxWait:     2 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// FirstType chooses the first available type.
func FirstType(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return available[0]
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.ChooseType == nil {
		c.ChooseType = d.ChooseType
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = d.FetchTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.QueueSize <= 0 {
		c.QueueSize = d.QueueSize
	}
	if c.WriteRetry.MaxAttempts <= 0 {
		c.WriteRetry = d.WriteRetry
	}
	if c.WriteRetry.Multiplier < 1 {
		c.WriteRetry.Multiplier = 1
	}
	return c
}
