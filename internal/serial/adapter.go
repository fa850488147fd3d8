package serial

import (
	"sync"
	"time"

	"go.bug.st/serial"
)

// DefaultPollTimeout bounds a single Poll call. A stop request issued while
// a session is mid-poll is observed within this interval.
const DefaultPollTimeout = 100 * time.Millisecond

// Conn is one open serial connection. Each Conn is exclusively owned by the
// session that opened it.
type Conn interface {
	// Poll reads whatever bytes are ready, waiting at most the poll
	// timeout. It returns n == 0 with a nil error when nothing arrived
	// in time.
	Poll(p []byte) (n int, err error)
	// Close releases the port. Safe to call more than once.
	Close() error
}

// Opener opens serial connections. Sessions depend on this interface so
// tests can substitute scripted connections for real hardware.
type Opener interface {
	Open(portName string, baudRate int) (Conn, error)
}

// SystemOpener opens real ports at 8N1 with a bounded read timeout.
type SystemOpener struct {
	PollTimeout time.Duration
}

func (o SystemOpener) Open(portName string, baudRate int) (Conn, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, err
	}

	timeout := o.PollTimeout
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, err
	}

	return &conn{port: port}, nil
}

type conn struct {
	port      serial.Port
	closeOnce sync.Once
	closeErr  error
}

func (c *conn) Poll(p []byte) (int, error) {
	return c.port.Read(p)
}

// Close releases the port exactly once, whichever exit path reaches it
// first; later calls return the original result.
func (c *conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.port.Close()
	})
	return c.closeErr
}
