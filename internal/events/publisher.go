// Package events publishes practice activity to an AMQP topic exchange.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"github.com/abhisek/mathdrill/internal/ledger"
	"github.com/abhisek/mathdrill/internal/question"
	"github.com/abhisek/mathdrill/internal/session"
)

// Routing keys, also used as the event type.
const (
	AttemptRecorded  = "practice.attempt.recorded"
	SessionCompleted = "practice.session.completed"
)

// DefaultExchange is the topic exchange used when none is configured.
const DefaultExchange = "mathdrill.practice"

// Channel is the subset of *amqp.Channel the publisher uses.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends attempts and session reports as JSON events. It
// implements session.AttemptSink and session.ReportSink.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  Channel
	exchange string
	logger   *slog.Logger
}

var (
	_ session.AttemptSink = (*Publisher)(nil)
	_ session.ReportSink  = (*Publisher)(nil)
)

// Dial connects to the broker at url and declares a durable topic exchange.
func Dial(url, exchange string, logger *slog.Logger) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	p := NewPublisher(ch, exchange, logger)
	p.conn = conn
	return p, nil
}

// NewPublisher wraps an open channel. A nil logger means slog.Default().
func NewPublisher(ch Channel, exchange string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{channel: ch, exchange: exchange, logger: logger}
}

// envelope is the wire format of every event.
type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type attemptPayload struct {
	SessionID        string              `json:"session_id"`
	QuestionID       string              `json:"question_id"`
	SubmittedAnswer  string              `json:"submitted_answer"`
	Correct          bool                `json:"correct"`
	TimeSpentSeconds int                 `json:"time_spent_seconds"`
	Difficulty       question.Difficulty `json:"difficulty"`
	RecordedAt       time.Time           `json:"recorded_at"`
}

type reportPayload struct {
	SessionID        string              `json:"session_id,omitempty"`
	UserID           string              `json:"user_id"`
	SkillID          string              `json:"skill_id"`
	TotalQuestions   int                 `json:"total_questions"`
	CorrectAnswers   int                 `json:"correct_answers"`
	ScorePercent     float64             `json:"score_percent"`
	TimeTakenSeconds int                 `json:"time_taken_seconds"`
	FinalDifficulty  question.Difficulty `json:"final_difficulty"`
	StartedAt        time.Time           `json:"started_at"`
	FinishedAt       time.Time           `json:"finished_at"`
}

// Record publishes an AttemptRecorded event.
func (p *Publisher) Record(ctx context.Context, a ledger.Attempt, h session.Handle) error {
	return p.publish(ctx, AttemptRecorded, attemptPayload{
		SessionID:        string(h),
		QuestionID:       a.QuestionID,
		SubmittedAnswer:  a.SubmittedAnswer,
		Correct:          a.IsCorrect,
		TimeSpentSeconds: a.TimeSpentSeconds,
		Difficulty:       a.DifficultyAtAttempt,
		RecordedAt:       a.RecordedAt,
	})
}

// Publish publishes a SessionCompleted event.
func (p *Publisher) Publish(ctx context.Context, r session.Report) error {
	return p.publish(ctx, SessionCompleted, reportPayload{
		SessionID:        string(r.Handle),
		UserID:           r.UserID,
		SkillID:          r.SkillID,
		TotalQuestions:   r.Summary.TotalQuestions,
		CorrectAnswers:   r.Summary.CorrectAnswers,
		ScorePercent:     r.Summary.ScorePercent,
		TimeTakenSeconds: r.Summary.TimeTakenSeconds,
		FinalDifficulty:  r.Summary.FinalDifficulty,
		StartedAt:        r.StartedAt,
		FinishedAt:       r.FinishedAt,
	})
}

func (p *Publisher) publish(ctx context.Context, eventType string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(envelope{Type: eventType, Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal %s: %w", eventType, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel == nil {
		return fmt.Errorf("publish %s: publisher closed", eventType)
	}
	err = p.channel.Publish(p.exchange, eventType, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	p.logger.Debug("event published", "type", eventType, "exchange", p.exchange)
	return nil
}

// Close closes the channel and, for dialed publishers, the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	if p.channel != nil {
		err = p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		if cerr := p.conn.Close(); cerr != nil && err == nil {
			err = cerr
		}
		p.conn = nil
	}
	return err
}
