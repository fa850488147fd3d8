package store

import "time"

// Session outcomes as recorded in history.
const (
	OutcomeFlashed  = "flashed"
	OutcomeTimedOut = "timed-out"
	OutcomeError    = "error"
)

// SessionRecord captures how one monitored flash ended.
type SessionRecord struct {
	BoardID   int       `json:"board_id"`
	Port      string    `json:"port"`
	BaudRate  int       `json:"baud_rate"`
	Outcome   string    `json:"outcome"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Duration  string    `json:"duration,omitempty"`
}
