package flash

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/buckleypaul/flashmon/internal/serial"
)

const defaultEventBuffer = 256

// Options configure an Orchestrator and the sessions it creates. Zero values
// fall back to the bench defaults.
type Options struct {
	// Opener opens serial connections; defaults to real system ports.
	Opener serial.Opener
	// Log receives structured session logs; defaults to a nop logger.
	Log *zap.SugaredLogger
	// Marker overrides the completion banner to watch for.
	Marker string
	// ProgressTotal and ProgressTick override the time-based estimate.
	ProgressTotal time.Duration
	ProgressTick  time.Duration
	// EventBuffer sizes the fan-in event channel.
	EventBuffer int
}

// Orchestrator owns every board session and is the single fan-in point for
// their events. Only the orchestrator mutates the registry; sessions never
// see each other.
type Orchestrator struct {
	opener   serial.Opener
	log      *zap.SugaredLogger
	detector Detector
	total    time.Duration
	tick     time.Duration

	events chan Event

	mu       sync.Mutex
	sessions map[int]*Session
	order    []int
	nextID   int
}

// NewOrchestrator builds an orchestrator with no sessions.
func NewOrchestrator(opts Options) *Orchestrator {
	opener := opts.Opener
	if opener == nil {
		opener = serial.SystemOpener{}
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	buffer := opts.EventBuffer
	if buffer <= 0 {
		buffer = defaultEventBuffer
	}

	return &Orchestrator{
		opener:   opener,
		log:      log,
		detector: NewDetector(opts.Marker),
		total:    opts.ProgressTotal,
		tick:     opts.ProgressTick,
		events:   make(chan Event, buffer),
		sessions: make(map[int]*Session),
	}
}

// Events returns the channel all sessions deliver on. Per-session ordering is
// preserved; ordering across sessions is not.
func (o *Orchestrator) Events() <-chan Event {
	return o.events
}

// Register allocates the next board id and starts a session monitoring the
// given port. Ids are monotonically assigned and never reused, even after
// their session terminates.
func (o *Orchestrator) Register(port string, baud int) int {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	board := Board{ID: id, Port: port, Baud: baud}
	s := newSession(board, o.opener, o.events, o.log, o.detector, o.total, o.tick)
	o.sessions[id] = s
	o.order = append(o.order, id)
	o.mu.Unlock()

	o.log.Infow("board registered", "board", id, "port", port, "baud", baud)
	s.start()
	return id
}

// RegisterAll discovers attached serial ports and registers a board for each
// at the given baud rate. Returns the ids assigned.
func (o *Orchestrator) RegisterAll(baud int) ([]int, error) {
	ports, err := serial.ListPorts()
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(ports))
	for _, p := range ports {
		ids = append(ids, o.Register(p.Name, baud))
	}
	return ids, nil
}

// StopBoard stops one session and waits for its loops to exit. Unknown or
// already stopped boards are a no-op.
func (o *Orchestrator) StopBoard(id int) {
	o.mu.Lock()
	s := o.sessions[id]
	o.mu.Unlock()

	if s != nil {
		s.Stop()
	}
}

// StopAll stops every session and returns only after each read loop has
// exited, so no in-flight operation can touch a released port afterwards.
func (o *Orchestrator) StopAll() {
	o.mu.Lock()
	sessions := make([]*Session, 0, len(o.sessions))
	for _, s := range o.sessions {
		sessions = append(sessions, s)
	}
	o.mu.Unlock()

	for _, s := range sessions {
		s.Stop()
	}
	o.log.Infow("all sessions stopped", "count", len(sessions))
}

// Snapshot returns the current view of one board's session.
func (o *Orchestrator) Snapshot(id int) (Snapshot, bool) {
	o.mu.Lock()
	s := o.sessions[id]
	o.mu.Unlock()

	if s == nil {
		return Snapshot{}, false
	}
	return s.Snapshot(), true
}

// Snapshots returns a view of every session, in registration order.
func (o *Orchestrator) Snapshots() []Snapshot {
	o.mu.Lock()
	sessions := make([]*Session, 0, len(o.order))
	for _, id := range o.order {
		sessions = append(sessions, o.sessions[id])
	}
	o.mu.Unlock()

	snaps := make([]Snapshot, 0, len(sessions))
	for _, s := range sessions {
		snaps = append(snaps, s.Snapshot())
	}
	return snaps
}
