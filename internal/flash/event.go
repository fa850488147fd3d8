package flash

import "time"

// Event is anything a session reports upward. Events from one session are
// delivered in the order they were generated; no ordering holds across
// sessions.
type Event interface {
	Board() int
}

// LineReceived carries one decoded, trimmed line of device output.
type LineReceived struct {
	BoardID    int
	Text       string
	ReceivedAt time.Time
}

func (e LineReceived) Board() int { return e.BoardID }

// DecodeError reports a chunk that could not be decoded. Non-fatal; the
// session keeps reading.
type DecodeError struct {
	BoardID int
	Message string
}

func (e DecodeError) Board() int { return e.BoardID }

// PortError reports an open or I/O failure. Terminal for the board it names,
// invisible to every other board.
type PortError struct {
	BoardID int
	Message string
}

func (e PortError) Board() int { return e.BoardID }

// FirstTransmission fires exactly once per session, when the first line
// arrives. It starts progress and elapsed-time tracking.
type FirstTransmission struct {
	BoardID int
}

func (e FirstTransmission) Board() int { return e.BoardID }

// Flashed fires exactly once per session, on marker match or when the
// progress estimator reaches 100.
type Flashed struct {
	BoardID int
}

func (e Flashed) Board() int { return e.BoardID }
