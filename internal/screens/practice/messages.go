package practice

import (
	"time"

	"github.com/abhisek/mathdrill/internal/ledger"
)

// beganMsg is sent when the engine has opened the session and fetched the
// first batch.
type beganMsg struct {
	Err error
}

// advancedMsg is sent when the engine has moved to the next question.
type advancedMsg struct {
	Err error
}

// finishedMsg is sent when the session has ended.
type finishedMsg struct {
	Summary  ledger.Summary
	Attempts []ledger.Attempt
	Err      error
}

// timerTickMsg is sent every second to refresh the question timer.
type timerTickMsg time.Time
