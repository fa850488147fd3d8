package flash

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/buckleypaul/flashmon/internal/decode"
	"github.com/buckleypaul/flashmon/internal/serial"
)

// Board identifies one device under flash: a stable id plus the serial
// parameters used to reach it. Immutable after registration; ids are never
// reused within a process.
type Board struct {
	ID   int
	Port string
	Baud int
}

// State of a board session.
type State int

const (
	// StateIdle: session exists, port not yet opened.
	StateIdle State = iota
	// StateListening: port open, read loop running, nothing received yet.
	StateListening
	// StateActive: first line received, progress and elapsed tracking run.
	StateActive
	// StateFlashed: completion marker matched.
	StateFlashed
	// StateTimedOut: progress reached 100 before any marker; treated as a
	// successful flash per the timing heuristic.
	StateTimedOut
	// StateErrored: the port failed to open or failed mid-read.
	StateErrored
	// StateTerminated: stop requested, resources released.
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateActive:
		return "active"
	case StateFlashed:
		return "flashed"
	case StateTimedOut:
		return "timed-out"
	case StateErrored:
		return "error"
	case StateTerminated:
		return "stopped"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state admits no further transitions except
// Terminated.
func (s State) Terminal() bool {
	switch s {
	case StateFlashed, StateTimedOut, StateErrored, StateTerminated:
		return true
	}
	return false
}

// Snapshot is a point-in-time view of one session, pulled by the display
// layer at its own refresh rate.
type Snapshot struct {
	Board   Board
	State   State
	Percent float64
	Elapsed time.Duration
}

// Session runs the monitoring state machine for one board. It owns its serial
// connection exclusively; the outside world interacts only through Stop and
// the shared event channel. A failure here never touches a sibling session.
type Session struct {
	board    Board
	opener   serial.Opener
	events   chan<- Event
	log      *zap.SugaredLogger
	detector Detector
	total    time.Duration
	tick     time.Duration

	mu      sync.Mutex
	state   State
	percent float64
	started time.Time
	first   bool
	flashed bool

	quit     chan struct{}
	haltOnce sync.Once
	wg       sync.WaitGroup
}

func newSession(board Board, opener serial.Opener, events chan<- Event, log *zap.SugaredLogger, detector Detector, total, tick time.Duration) *Session {
	return &Session{
		board:    board,
		opener:   opener,
		events:   events,
		log:      log,
		detector: detector,
		total:    total,
		tick:     tick,
		state:    StateIdle,
		quit:     make(chan struct{}),
	}
}

func (s *Session) start() {
	s.wg.Add(1)
	go s.run()
}

// Stop requests termination and waits for the session's goroutines to exit,
// so the port cannot be touched after Stop returns. Safe to call repeatedly;
// later calls return immediately with no effect.
func (s *Session) Stop() {
	s.halt()
	s.wg.Wait()

	s.mu.Lock()
	s.state = StateTerminated
	s.mu.Unlock()
}

// Snapshot returns the current state, progress and elapsed time.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{Board: s.board, State: s.state, Percent: s.percent}
	if s.first {
		snap.Elapsed = time.Since(s.started)
	}
	return snap
}

func (s *Session) run() {
	defer s.wg.Done()

	conn, err := s.opener.Open(s.board.Port, s.board.Baud)
	if err != nil {
		s.fail(fmt.Sprintf("opening %s: %v", s.board.Port, err))
		return
	}
	defer conn.Close()

	s.setState(StateListening)
	s.log.Infow("listening", "board", s.board.ID, "port", s.board.Port, "baud", s.board.Baud)

	var dec decode.Decoder
	buf := make([]byte, 512)
	for {
		select {
		case <-s.quit:
			return
		default:
		}

		n, err := conn.Poll(buf)
		if err != nil {
			s.fail(fmt.Sprintf("reading %s: %v", s.board.Port, err))
			return
		}
		if n == 0 {
			continue
		}

		for _, line := range dec.Push(buf[:n]) {
			if line.Err != nil {
				s.emit(DecodeError{BoardID: s.board.ID, Message: line.Err.Error()})
				continue
			}
			if s.handleLine(line.Text) {
				return
			}
		}
	}
}

// handleLine processes one decoded line and reports whether the session
// reached a terminal state.
func (s *Session) handleLine(text string) bool {
	s.mu.Lock()
	if !s.first {
		s.first = true
		s.started = time.Now()
		s.state = StateActive
		s.mu.Unlock()

		s.emit(FirstTransmission{BoardID: s.board.ID})
		s.wg.Add(1)
		go s.progressLoop()
	} else {
		s.mu.Unlock()
	}

	s.emit(LineReceived{BoardID: s.board.ID, Text: text, ReceivedAt: time.Now()})

	if !s.detector.Match(text) {
		return false
	}

	s.mu.Lock()
	if s.flashed {
		// Marker seen again after the flashed signal already fired.
		s.mu.Unlock()
		return false
	}
	s.flashed = true
	s.percent = 100
	s.state = StateFlashed
	s.mu.Unlock()

	s.log.Infow("marker matched", "board", s.board.ID, "port", s.board.Port)
	s.emit(Flashed{BoardID: s.board.ID})
	s.halt()
	return true
}

// progressLoop advances the time-based estimate. Started on the first line,
// stopped when the session flashes, errors, times out, or is stopped.
func (s *Session) progressLoop() {
	defer s.wg.Done()

	est := NewEstimator(s.total, s.tick)
	ticker := time.NewTicker(est.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-s.quit:
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		if s.flashed || s.state.Terminal() {
			s.mu.Unlock()
			return
		}
		s.percent = est.Tick()
		if !est.Done() {
			s.mu.Unlock()
			continue
		}
		s.flashed = true
		s.state = StateTimedOut
		s.mu.Unlock()

		s.log.Infow("assumed flash duration elapsed", "board", s.board.ID, "port", s.board.Port)
		s.emit(Flashed{BoardID: s.board.ID})
		s.halt()
		return
	}
}

func (s *Session) fail(msg string) {
	s.mu.Lock()
	s.state = StateErrored
	s.mu.Unlock()

	s.log.Errorw("port error", "board", s.board.ID, "error", msg)
	s.emit(PortError{BoardID: s.board.ID, Message: msg})
	s.halt()
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// emit delivers an event unless the session has been told to quit; a stopped
// session emits nothing.
func (s *Session) emit(ev Event) {
	select {
	case <-s.quit:
		return
	default:
	}
	select {
	case <-s.quit:
	case s.events <- ev:
	}
}

func (s *Session) halt() {
	s.haltOnce.Do(func() { close(s.quit) })
}
