// Package difficulty promotes a session's difficulty tier after a run of
// consecutive correct answers.
package difficulty

import "github.com/abhisek/mathdrill/internal/question"

// PromotionStreak is the number of consecutive correct answers at a tier
// that promotes to the next tier.
const PromotionStreak = 3

// Controller tracks the current tier and the streak at that tier.
// Tiers never go down within a session.
type Controller struct {
	level  question.Difficulty
	streak int
}

// NewController returns a controller at Easy with no streak.
func NewController() *Controller {
	return &Controller{level: question.Easy}
}

// RecordOutcome applies one answer outcome and returns the tier for the
// next question. An incorrect answer resets the streak but keeps the tier.
// Reaching PromotionStreak promotes one tier and resets the streak; at Hard
// the streak keeps counting and promotion is a no-op.
func (c *Controller) RecordOutcome(correct bool) question.Difficulty {
	if !correct {
		c.streak = 0
		return c.level
	}

	c.streak++
	if c.streak >= PromotionStreak && c.level < question.Hard {
		c.level = c.level.Next()
		c.streak = 0
	}
	return c.level
}

// Level returns the current tier.
func (c *Controller) Level() question.Difficulty { return c.level }

// Streak returns the consecutive-correct count at the current tier.
func (c *Controller) Streak() int { return c.streak }

// Reset returns the controller to Easy with no streak.
func (c *Controller) Reset() {
	c.level = question.Easy
	c.streak = 0
}
